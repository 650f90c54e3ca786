package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	fundadapters "fund_backend/internal/feature/funds/adapters"
	"fund_backend/internal/feature/funds/usecase"
	"fund_backend/internal/platform/cache"
)

// NewPriceRepository creates a PriceRepository implementation.
// If Redis is available, the MySQL repository is wrapped with a caching
// decorator whose entries expire at the next net-value publication.
func NewPriceRepository(rdb *redis.Client, db *gorm.DB) usecase.PriceRepository {
	inner := fundadapters.NewFundPriceRepository(db)
	if rdb == nil {
		return inner
	}
	return cache.NewCachingPriceRepository(rdb, cache.TimeUntilNextPublication(), inner, "prices")
}
