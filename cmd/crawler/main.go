package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"fund_backend/internal/app/di"
	crawlerusecase "fund_backend/internal/feature/crawler/usecase"
	fundadapters "fund_backend/internal/feature/funds/adapters"
	infradb "fund_backend/internal/platform/db"
	infraredis "fund_backend/internal/platform/redis"
	"fund_backend/internal/shared/ratelimiter"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	db := infradb.OpenDB()

	// Redis（サーバーと共有するキャッシュの無効化用。なければ素通し）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache invalidation.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	source := di.NewFundSource()
	defer source.Close()

	fundRepo := fundadapters.NewFundRepository(db)
	// 価格の書き込みは履歴キャッシュの無効化を伴う
	priceRepo := di.NewPriceRepository(rdb, db)

	// SIGINT/SIGTERM でループを止める
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codes := crawlCodes(ctx, fundRepo)
	if len(codes) == 0 {
		log.Fatal("no fund codes to crawl: set FUND_CODES or register funds first")
	}

	// 東方財富の基準時刻は北京時間
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Fatal("failed to load Asia/Shanghai timezone:", err)
	}

	// 詳細ページのクロールは1秒1件に抑える
	rl := ratelimiter.NewRateLimiter(1, time.Second)

	cu := crawlerusecase.NewCrawler(source, fundRepo, priceRepo,
		crawlerusecase.NewSystemClock(loc), rl, codes, idleInterval())

	if err := cu.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
	log.Println("crawler stopped")
}

// codeLister はクロール対象コードの取得だけを要求します。
type codeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// crawlCodes はFUND_CODES（カンマ区切り）を優先し、未指定の場合はDBの登録済みコードを使います。
func crawlCodes(ctx context.Context, repo codeLister) []string {
	if env := os.Getenv("FUND_CODES"); env != "" {
		var codes []string
		for _, c := range strings.Split(env, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes = append(codes, c)
			}
		}
		return codes
	}

	codes, err := repo.ListCodes(ctx)
	if err != nil {
		log.Fatal("failed to load fund codes:", err)
	}
	return codes
}

// idleInterval はCRAWL_INTERVAL（秒）を読み取ります。未指定・不正の場合は0を返し、
// Crawler側のデフォルト（1時間）に委ねます。
func idleInterval() time.Duration {
	s := os.Getenv("CRAWL_INTERVAL")
	if s == "" {
		return 0
	}
	sec, err := strconv.Atoi(s)
	if err != nil || sec <= 0 {
		log.Printf("[WARN] invalid CRAWL_INTERVAL %q, using default", s)
		return 0
	}
	return time.Duration(sec) * time.Second
}
