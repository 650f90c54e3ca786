// Package usecase はファンド情報の読み書きのビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	"fund_backend/internal/feature/funds/domain/entity"
)

const (
	// DefaultListLimit はファンド一覧のデフォルト返却件数です。
	DefaultListLimit = 100
	// DefaultHistoryDays は価格履歴のデフォルト取得日数です。
	DefaultHistoryDays = 30
	// MaxHistoryDays は価格履歴の最大取得日数です。
	MaxHistoryDays = 365
)

// FundRepository はファンド基本情報の永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type FundRepository interface {
	// List は検索文字列（名前・コード・連動指数・運用会社の部分一致）で絞り込んだ一覧を返します。
	List(ctx context.Context, search string, skip, limit int) ([]entity.Fund, error)
	// FindByCode はコードでファンドを検索します。存在しない場合は ErrFundNotFound を返します。
	FindByCode(ctx context.Context, code string) (*entity.Fund, error)
	// Create は新しいファンドを登録します。コードが重複する場合は ErrFundExists を返します。
	Create(ctx context.Context, f entity.Fund) error
	// Update は指定されたフィールドのみを上書きします。
	Update(ctx context.Context, code string, fields map[string]any) error
	// Delete はファンドを削除します。
	Delete(ctx context.Context, code string) error
}

// PriceRepository はファンド価格の永続化レイヤーを抽象化します。
type PriceRepository interface {
	// Upsert は (code, date) をキーに価格を挿入または上書きします。
	Upsert(ctx context.Context, p entity.FundPrice) error
	// History は [from, to] の価格を日付昇順で返します。
	History(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error)
}

// fundUsecase はファンド情報操作のユースケースを定義します。
type fundUsecase struct {
	fund  FundRepository
	price PriceRepository
}

// NewFundUsecase はfundUsecaseの新しいインスタンスを生成します。
func NewFundUsecase(fund FundRepository, price PriceRepository) *fundUsecase {
	return &fundUsecase{fund: fund, price: price}
}

// ListFunds はファンド一覧を取得します。
func (fu *fundUsecase) ListFunds(ctx context.Context, search string, skip, limit int) ([]entity.Fund, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return fu.fund.List(ctx, search, skip, limit)
}

// GetFund はコードでファンドを1件取得します。
func (fu *fundUsecase) GetFund(ctx context.Context, code string) (*entity.Fund, error) {
	return fu.fund.FindByCode(ctx, code)
}

// CreateFund は新しいファンドを登録します。
// 種別が空の場合は既定値を補い、評価は1〜5の範囲に限定します。
func (fu *fundUsecase) CreateFund(ctx context.Context, f entity.Fund) (*entity.Fund, error) {
	if f.Type == "" {
		f.Type = entity.DefaultFundType
	}
	if f.Rating < 1 || f.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if err := fu.fund.Create(ctx, f); err != nil {
		return nil, err
	}
	return fu.fund.FindByCode(ctx, f.Code)
}

// UpdateFund は指定されたフィールドのみを更新し、更新後のファンドを返します。
func (fu *fundUsecase) UpdateFund(ctx context.Context, code string, fields map[string]any) (*entity.Fund, error) {
	if rating, ok := fields["rating"]; ok {
		if r, ok := rating.(int); ok && (r < 1 || r > 5) {
			return nil, ErrInvalidRating
		}
	}
	if err := fu.fund.Update(ctx, code, fields); err != nil {
		return nil, err
	}
	return fu.fund.FindByCode(ctx, code)
}

// DeleteFund はファンドを削除します。
func (fu *fundUsecase) DeleteFund(ctx context.Context, code string) error {
	return fu.fund.Delete(ctx, code)
}

// GetPriceHistory は end から遡って days 日分の価格履歴を日付昇順で返します。
// end がゼロ値の場合は現在時刻を使います。
func (fu *fundUsecase) GetPriceHistory(ctx context.Context, code string, days int, end time.Time) ([]entity.FundPrice, error) {
	if days <= 0 || days > MaxHistoryDays {
		days = DefaultHistoryDays
	}
	if end.IsZero() {
		end = time.Now()
	}
	from := end.AddDate(0, 0, -days)
	return fu.price.History(ctx, code, from, end)
}

// AddPrice は価格を手動登録します。対象ファンドが存在しない場合は ErrFundNotFound を返します。
func (fu *fundUsecase) AddPrice(ctx context.Context, p entity.FundPrice) error {
	if _, err := fu.fund.FindByCode(ctx, p.Code); err != nil {
		return err
	}
	return fu.price.Upsert(ctx, p)
}
