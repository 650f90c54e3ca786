package usecase

import "errors"

// fundsフィーチャーのユースケースが返すエラー。
// ハンドラー側はこれらをHTTPステータスに変換します。
var (
	ErrFundNotFound  = errors.New("fund not found")
	ErrFundExists    = errors.New("fund already exists")
	ErrPriceNotFound = errors.New("price not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
