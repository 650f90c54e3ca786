// Package adapters はfundsフィーチャーのリポジトリ実装を提供します。
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

type fundMySQL struct {
	db *gorm.DB
}

var _ usecase.FundRepository = (*fundMySQL)(nil)

// NewFundRepository は指定されたDB接続でfundMySQLリポジトリの新しいインスタンスを生成します。
func NewFundRepository(db *gorm.DB) *fundMySQL {
	return &fundMySQL{db: db}
}

// FundModel はfundsテーブルのgormモデルです。Code が自然キーです。
type FundModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:16;not null;uniqueIndex"`

	Name            string  `gorm:"size:128;not null"`
	Type            string  `gorm:"size:32;not null"`
	TrackingIndex   string  `gorm:"size:128"`
	FundSize        float64 `gorm:"not null;default:0"`
	Company         string  `gorm:"size:128"`
	Manager         string  `gorm:"size:64"`
	ExperienceYears float64 `gorm:"not null;default:0"`
	TrackingError   float64 `gorm:"not null;default:0"`
	Rating          int     `gorm:"not null;default:3"`
	ExpenseRatio    float64 `gorm:"not null;default:0"`
	EstablishedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FundModel) TableName() string {
	return "funds"
}

// fundMutableColumns はupsert時に上書きされる列です。
// created_at は初回挿入時の値を保持するため含めません。
var fundMutableColumns = []string{
	"name", "type", "tracking_index", "fund_size", "company", "manager",
	"experience_years", "tracking_error", "rating", "expense_ratio",
	"established_at", "updated_at",
}

func toFundModel(e entity.Fund) FundModel {
	return FundModel{
		Code:            e.Code,
		Name:            e.Name,
		Type:            e.Type,
		TrackingIndex:   e.TrackingIndex,
		FundSize:        e.FundSize,
		Company:         e.Company,
		Manager:         e.Manager,
		ExperienceYears: e.ExperienceYears,
		TrackingError:   e.TrackingError,
		Rating:          e.Rating,
		ExpenseRatio:    e.ExpenseRatio,
		EstablishedAt:   e.EstablishedAt,
	}
}

func toFundEntity(m FundModel) entity.Fund {
	return entity.Fund{
		Code:            m.Code,
		Name:            m.Name,
		Type:            m.Type,
		TrackingIndex:   m.TrackingIndex,
		FundSize:        m.FundSize,
		Company:         m.Company,
		Manager:         m.Manager,
		ExperienceYears: m.ExperienceYears,
		TrackingError:   m.TrackingError,
		Rating:          m.Rating,
		ExpenseRatio:    m.ExpenseRatio,
		EstablishedAt:   m.EstablishedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Upsert は code をキーに挿入または更新します。
// 既存レコードの場合は可変列のみを上書きし、created_at は変更しません。
// 同一入力で何度呼んでも結果は変わりません（冪等）。
func (r *fundMySQL) Upsert(ctx context.Context, f entity.Fund) error {
	m := toFundModel(f)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns(fundMutableColumns),
	}).Create(&m).Error
}

// ListCodes は登録済みの全ファンドコードをコード順で返します。
func (r *fundMySQL) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&FundModel{}).
		Order("code ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// List は検索文字列で絞り込んだファンド一覧をコード順で返します。
func (r *fundMySQL) List(ctx context.Context, search string, skip, limit int) ([]entity.Fund, error) {
	q := r.db.WithContext(ctx).Model(&FundModel{}).Order("code ASC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"name LIKE ? OR code LIKE ? OR tracking_index LIKE ? OR company LIKE ?",
			like, like, like, like,
		)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []FundModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Fund, 0, len(rows))
	for _, m := range rows {
		out = append(out, toFundEntity(m))
	}
	return out, nil
}

// FindByCode はコードでファンドを検索します。
func (r *fundMySQL) FindByCode(ctx context.Context, code string) (*entity.Fund, error) {
	var m FundModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFundNotFound
		}
		return nil, err
	}
	e := toFundEntity(m)
	return &e, nil
}

// Create は新しいファンドを登録します。コードが重複する場合は ErrFundExists を返します。
func (r *fundMySQL) Create(ctx context.Context, f entity.Fund) error {
	var existing FundModel
	err := r.db.WithContext(ctx).Where("code = ?", f.Code).First(&existing).Error
	if err == nil {
		return usecase.ErrFundExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	m := toFundModel(f)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update は指定されたフィールドのみを上書きします。updated_at はgormが自動更新します。
func (r *fundMySQL) Update(ctx context.Context, code string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&FundModel{}).
		Where("code = ?", code).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrFundNotFound
	}
	return nil
}

// Delete はファンドを削除します。
func (r *fundMySQL) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&FundModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrFundNotFound
	}
	return nil
}
