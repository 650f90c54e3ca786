// Package dto はfundsフィーチャーのHTTP APIのデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"fund_backend/internal/feature/funds/domain/entity"
)

// FundResponse はファンド基本情報のレスポンスDTOです。
type FundResponse struct {
	Code            string  `json:"code"`             // ファンドコード
	Name            string  `json:"name"`             // ファンド名
	Type            string  `json:"type"`             // 種別
	TrackingIndex   string  `json:"tracking_index"`   // 連動指数
	FundSize        float64 `json:"fund_size"`        // 規模（億元）
	Company         string  `json:"company"`          // 運用会社
	Manager         string  `json:"manager"`          // ファンドマネージャー
	ExperienceYears float64 `json:"experience_years"` // マネージャー従業年数
	TrackingError   float64 `json:"tracking_error"`   // トラッキングエラー（%）
	Rating          int     `json:"rating"`           // 晨星評価（1〜5）
	ExpenseRatio    float64 `json:"expense_ratio"`    // 管理費率（%）
	EstablishedAt   string  `json:"established_at"`   // 設立日（YYYY-MM-DD、不明なら空）
	UpdatedAt       string  `json:"updated_at"`       // 最終更新時刻（RFC 3339）
}

// NewFundResponse はエンティティからFundResponseを組み立てます。
func NewFundResponse(f entity.Fund) FundResponse {
	established := ""
	if f.EstablishedAt != nil {
		established = f.EstablishedAt.Format("2006-01-02")
	}
	return FundResponse{
		Code:            f.Code,
		Name:            f.Name,
		Type:            f.Type,
		TrackingIndex:   f.TrackingIndex,
		FundSize:        f.FundSize,
		Company:         f.Company,
		Manager:         f.Manager,
		ExperienceYears: f.ExperienceYears,
		TrackingError:   f.TrackingError,
		Rating:          f.Rating,
		ExpenseRatio:    f.ExpenseRatio,
		EstablishedAt:   established,
		UpdatedAt:       f.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateFundRequest はファンド登録のリクエストボディです。
type CreateFundRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Type            string  `json:"type"`
	TrackingIndex   string  `json:"tracking_index"`
	FundSize        float64 `json:"fund_size"`
	Company         string  `json:"company"`
	Manager         string  `json:"manager"`
	ExperienceYears float64 `json:"experience_years"`
	TrackingError   float64 `json:"tracking_error"`
	Rating          int     `json:"rating"`
	ExpenseRatio    float64 `json:"expense_ratio"`
	EstablishedAt   string  `json:"established_at"` // YYYY-MM-DD、省略可
}

// ToEntity はリクエストをエンティティへ変換します。評価が未指定の場合は既定値を補います。
func (r CreateFundRequest) ToEntity() (entity.Fund, error) {
	f := entity.Fund{
		Code:            r.Code,
		Name:            r.Name,
		Type:            r.Type,
		TrackingIndex:   r.TrackingIndex,
		FundSize:        r.FundSize,
		Company:         r.Company,
		Manager:         r.Manager,
		ExperienceYears: r.ExperienceYears,
		TrackingError:   r.TrackingError,
		Rating:          r.Rating,
		ExpenseRatio:    r.ExpenseRatio,
	}
	if f.Rating == 0 {
		f.Rating = entity.DefaultRating
	}
	if r.EstablishedAt != "" {
		d, err := time.Parse("2006-01-02", r.EstablishedAt)
		if err != nil {
			return entity.Fund{}, err
		}
		f.EstablishedAt = &d
	}
	return f, nil
}

// UpdateFundRequest はファンドの部分更新リクエストです。
// nilのフィールドは更新対象外を意味するため、ポインタで受けます。
type UpdateFundRequest struct {
	Name            *string  `json:"name"`
	Type            *string  `json:"type"`
	TrackingIndex   *string  `json:"tracking_index"`
	FundSize        *float64 `json:"fund_size"`
	Company         *string  `json:"company"`
	Manager         *string  `json:"manager"`
	ExperienceYears *float64 `json:"experience_years"`
	TrackingError   *float64 `json:"tracking_error"`
	Rating          *int     `json:"rating"`
	ExpenseRatio    *float64 `json:"expense_ratio"`
}

// Fields は指定されたフィールドだけをカラム名→値のマップに変換します。
func (r UpdateFundRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Type != nil {
		fields["type"] = *r.Type
	}
	if r.TrackingIndex != nil {
		fields["tracking_index"] = *r.TrackingIndex
	}
	if r.FundSize != nil {
		fields["fund_size"] = *r.FundSize
	}
	if r.Company != nil {
		fields["company"] = *r.Company
	}
	if r.Manager != nil {
		fields["manager"] = *r.Manager
	}
	if r.ExperienceYears != nil {
		fields["experience_years"] = *r.ExperienceYears
	}
	if r.TrackingError != nil {
		fields["tracking_error"] = *r.TrackingError
	}
	if r.Rating != nil {
		fields["rating"] = *r.Rating
	}
	if r.ExpenseRatio != nil {
		fields["expense_ratio"] = *r.ExpenseRatio
	}
	return fields
}
