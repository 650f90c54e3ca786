package main

import (
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"fund_backend/internal/app/di"
	"fund_backend/internal/app/router"
	fundadapters "fund_backend/internal/feature/funds/adapters"
	fundhandler "fund_backend/internal/feature/funds/transport/handler"
	fundusecase "fund_backend/internal/feature/funds/usecase"
	infradb "fund_backend/internal/platform/db"
	infraredis "fund_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	fundRepo := fundadapters.NewFundRepository(db)
	// Redisキャッシュでラップ
	priceRepo := di.NewPriceRepository(rdb, db)

	// Usecase
	fundUC := fundusecase.NewFundUsecase(fundRepo, priceRepo)

	// Handler
	fundH := fundhandler.NewFundHandler(fundUC)

	// ルータ生成
	router := router.NewRouter(fundH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
