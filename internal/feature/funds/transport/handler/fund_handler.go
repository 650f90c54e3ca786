// Package handler はfundsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fund_backend/internal/feature/funds/domain/entity"
	"fund_backend/internal/feature/funds/transport/http/dto"
	"fund_backend/internal/feature/funds/usecase"
)

// FundUsecase はファンド情報操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type FundUsecase interface {
	ListFunds(ctx context.Context, search string, skip, limit int) ([]entity.Fund, error)
	GetFund(ctx context.Context, code string) (*entity.Fund, error)
	CreateFund(ctx context.Context, f entity.Fund) (*entity.Fund, error)
	UpdateFund(ctx context.Context, code string, fields map[string]any) (*entity.Fund, error)
	DeleteFund(ctx context.Context, code string) error
	GetPriceHistory(ctx context.Context, code string, days int, end time.Time) ([]entity.FundPrice, error)
	AddPrice(ctx context.Context, p entity.FundPrice) error
}

// FundHandler はファンド情報のHTTPリクエストを処理します。
type FundHandler struct {
	uc FundUsecase
}

// NewFundHandler は指定されたusecaseでFundHandlerの新しいインスタンスを生成します。
func NewFundHandler(uc FundUsecase) *FundHandler {
	return &FundHandler{uc: uc}
}

// List はファンド一覧を返します。
//
// エンドポイント例:
// GET /api/funds?search=沪深&skip=0&limit=20
func (h *FundHandler) List(c *gin.Context) {
	search := c.Query("search")
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	funds, err := h.uc.ListFunds(c.Request.Context(), search, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]dto.FundResponse, 0, len(funds))
	for _, f := range funds {
		out = append(out, dto.NewFundResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

// Get はコード指定でファンドを1件返します。
//
// GET /api/funds/:code
func (h *FundHandler) Get(c *gin.Context) {
	f, err := h.uc.GetFund(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFundResponse(*f))
}

// Create は新しいファンドを登録します。
//
// POST /api/funds
func (h *FundHandler) Create(c *gin.Context) {
	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := req.ToEntity()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid established_at, expected YYYY-MM-DD"})
		return
	}

	created, err := h.uc.CreateFund(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFundResponse(*created))
}

// Update はファンドを部分更新します。ボディに含まれるフィールドのみ上書きします。
//
// PUT /api/funds/:code
func (h *FundHandler) Update(c *gin.Context) {
	var req dto.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := req.Fields()
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	updated, err := h.uc.UpdateFund(c.Request.Context(), c.Param("code"), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFundResponse(*updated))
}

// Delete はファンドを削除します。
//
// DELETE /api/funds/:code
func (h *FundHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteFund(c.Request.Context(), c.Param("code")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceHistory はファンドの価格履歴を日付昇順で返します。
//
// エンドポイント例:
// GET /api/funds/:code/prices?days=30&end=2024-03-15
func (h *FundHandler) PriceHistory(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	var end time.Time
	if s := c.Query("end"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, expected YYYY-MM-DD"})
			return
		}
		end = d
	}

	prices, err := h.uc.GetPriceHistory(c.Request.Context(), c.Param("code"), days, end)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]dto.PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, dto.NewPriceResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// AddPrice は価格を手動登録します。
//
// POST /api/funds/prices
func (h *FundHandler) AddPrice(c *gin.Context) {
	var req dto.AddPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := req.ToEntity()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	if err := h.uc.AddPrice(c.Request.Context(), p); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPriceResponse(p))
}

// writeError はusecaseのエラーをHTTPステータスに対応付けます。
func (h *FundHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrFundNotFound), errors.Is(err, usecase.ErrPriceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrFundExists), errors.Is(err, usecase.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
