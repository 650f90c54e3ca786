package dto

import (
	"time"

	"fund_backend/internal/feature/funds/domain/entity"
)

// PriceResponse はファンド価格のレスポンスDTOです。
type PriceResponse struct {
	Code        string  `json:"code"`         // ファンドコード
	Date        string  `json:"date"`         // 基準日（YYYY-MM-DD）
	Price       float64 `json:"price"`        // 単位基準価額
	DailyChange float64 `json:"daily_change"` // 日次増減率（%）
}

// NewPriceResponse はエンティティからPriceResponseを組み立てます。
func NewPriceResponse(p entity.FundPrice) PriceResponse {
	return PriceResponse{
		Code:        p.Code,
		Date:        p.Date.Format("2006-01-02"),
		Price:       p.Price,
		DailyChange: p.DailyChange,
	}
}

// AddPriceRequest は価格の手動登録リクエストです。
type AddPriceRequest struct {
	Code        string  `json:"code" binding:"required"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
	Price       float64 `json:"price" binding:"required,gt=0"`
	DailyChange float64 `json:"daily_change"`
}

// ToEntity はリクエストをエンティティへ変換します。
func (r AddPriceRequest) ToEntity() (entity.FundPrice, error) {
	d, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return entity.FundPrice{}, err
	}
	return entity.FundPrice{
		Code:        r.Code,
		Date:        d,
		Price:       r.Price,
		DailyChange: r.DailyChange,
	}, nil
}
