package adapters

import (
	"context"
	"errors"
	"time"

	"fund_backend/internal/feature/funds/domain/entity"
	"fund_backend/internal/feature/funds/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fundPriceMySQL struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*fundPriceMySQL)(nil)

// NewFundPriceRepository は指定されたDB接続でfundPriceMySQLリポジトリの新しいインスタンスを生成します。
func NewFundPriceRepository(db *gorm.DB) *fundPriceMySQL {
	return &fundPriceMySQL{db: db}
}

// FundPriceModel はfund_pricesテーブルのgormモデルです。(Code, Date) が自然キーです。
type FundPriceModel struct {
	ID   uint      `gorm:"primaryKey"`
	Code string    `gorm:"size:16;not null;uniqueIndex:price_code_date,priority:1"`
	Date time.Time `gorm:"not null;uniqueIndex:price_code_date,priority:2"`

	Price       float64 `gorm:"not null"`
	DailyChange float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FundPriceModel) TableName() string {
	return "fund_prices"
}

func toPriceModel(e entity.FundPrice) FundPriceModel {
	return FundPriceModel{
		Code:        e.Code,
		Date:        e.Date,
		Price:       e.Price,
		DailyChange: e.DailyChange,
	}
}

func toPriceEntity(m FundPriceModel) entity.FundPrice {
	return entity.FundPrice{
		Code:        m.Code,
		Date:        m.Date,
		Price:       m.Price,
		DailyChange: m.DailyChange,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Upsert は (code, date) をキーに挿入または更新します。
// 既存レコードの場合は price / daily_change / updated_at のみを上書きし、
// created_at は初回挿入時の値を保持します（冪等）。
func (r *fundPriceMySQL) Upsert(ctx context.Context, p entity.FundPrice) error {
	m := toPriceModel(p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "daily_change", "updated_at"}),
	}).Create(&m).Error
}

// FindByDate は (code, date) で価格を1件検索します。
func (r *fundPriceMySQL) FindByDate(ctx context.Context, code string, date time.Time) (*entity.FundPrice, error) {
	var m FundPriceModel
	if err := r.db.WithContext(ctx).
		Where("code = ? AND date = ?", code, date).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPriceNotFound
		}
		return nil, err
	}
	e := toPriceEntity(m)
	return &e, nil
}

// History は [from, to] の価格を日付昇順で返します。
func (r *fundPriceMySQL) History(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
	var rows []FundPriceModel
	if err := r.db.WithContext(ctx).
		Where("code = ? AND date BETWEEN ? AND ?", code, from, to).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.FundPrice, 0, len(rows))
	for _, m := range rows {
		out = append(out, toPriceEntity(m))
	}
	return out, nil
}
