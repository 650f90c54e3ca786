// Package usecase はファンド情報を定期的にクロールして永続化する
// スケジューラーを実装します。
package usecase

import (
	"context"
	"log/slog"
	"time"

	"fund_backend/internal/feature/funds/domain/entity"
	"fund_backend/internal/shared/ratelimiter"
	"fund_backend/internal/shared/tradingcalendar"
)

const (
	// tradingRefreshInterval は取引時間中の価格更新間隔です。
	tradingRefreshInterval = 5 * time.Minute
	// errorBackoffInterval はイテレーション単位の失敗後の待機時間です。
	errorBackoffInterval = 60 * time.Second
	// DefaultIdleInterval は取引時間外のデフォルト再評価間隔です。
	DefaultIdleInterval = time.Hour
)

// FundSource は上流からファンドの価格・詳細を取得するクライアントを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type FundSource interface {
	FetchLatestPrice(ctx context.Context, code string) (entity.FundPrice, error)
	FetchDetail(ctx context.Context, code string) (entity.Fund, error)
}

// FundRepository はファンド基本情報の書き込みレイヤーを抽象化します。
type FundRepository interface {
	Upsert(ctx context.Context, f entity.Fund) error
}

// PriceRepository はファンド価格の書き込みレイヤーを抽象化します。
type PriceRepository interface {
	Upsert(ctx context.Context, p entity.FundPrice) error
}

// Clock は現在時刻の取得を抽象化します。カレンダー判定をテストで
// 任意の時刻に固定できるようにするためです。
type Clock interface {
	Now() time.Time
}

// Crawler は時刻に応じて価格更新・詳細更新・待機を選択する永続ループです。
// 対象コードのリストは起動時に一度だけ解決され、実行中は変わりません。
type Crawler struct {
	source       FundSource
	fund         FundRepository
	price        PriceRepository
	clock        Clock
	rateLimiter  ratelimiter.RateLimiterInterface
	codes        []string
	idleInterval time.Duration
}

// NewCrawler は新しいCrawlerを生成します。idleInterval が0以下の場合は
// デフォルト（1時間）を使います。
func NewCrawler(source FundSource, fund FundRepository, price PriceRepository,
	clock Clock, rl ratelimiter.RateLimiterInterface, codes []string, idleInterval time.Duration) *Crawler {
	if idleInterval <= 0 {
		idleInterval = DefaultIdleInterval
	}
	return &Crawler{
		source:       source,
		fund:         fund,
		price:        price,
		clock:        clock,
		rateLimiter:  rl,
		codes:        codes,
		idleInterval: idleInterval,
	}
}

// Run は終了しないクロールループを実行します。通常運転に終了状態はなく、
// ctx のキャンセルだけが停止手段です。
func (cu *Crawler) Run(ctx context.Context) error {
	slog.Info("crawler started", "codes", len(cu.codes), "idle_interval", cu.idleInterval)
	for {
		wait := cu.step(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// step は現在時刻から実行すべき活動を1回分実行し、次の再評価までの待機時間を
// 返します。状態は毎回現在時刻から導出され、前回の状態は持ちません。
// コード単位で吸収されなかった予期しないパニックはここで回収し、
// ペナルティ付きの待機に変換します。
func (cu *Crawler) step(ctx context.Context) (wait time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected failure during crawl iteration", "panic", r)
			wait = errorBackoffInterval
		}
	}()

	now := cu.clock.Now()
	switch {
	case tradingcalendar.IsTradingActive(now):
		cu.RefreshPrices(ctx)
		return tradingRefreshInterval
	case tradingcalendar.IsDetailWindow(now):
		cu.RefreshDetails(ctx)
		return cu.idleInterval
	default:
		slog.Info("not trading time, sleeping", "interval", cu.idleInterval)
		return cu.idleInterval
	}
}

// RefreshPrices は全コードの最新基準価額を取得して保存します。
// 1つのコードでエラーが発生しても処理を止めずにログに出力し、次のコードへ進みます。
func (cu *Crawler) RefreshPrices(ctx context.Context) {
	slog.Info("trading time detected, crawling fund prices")
	for _, code := range cu.codes {
		price, err := cu.source.FetchLatestPrice(ctx, code)
		if err != nil {
			slog.Error("failed to fetch fund price", "code", code, "error", err)
			continue
		}
		if err := cu.price.Upsert(ctx, price); err != nil {
			slog.Error("failed to store fund price", "code", code, "error", err)
			continue
		}
		slog.Info("updated fund price",
			"code", code,
			"date", price.Date.Format("2006-01-02"),
			"price", price.Price,
			"change", price.DailyChange,
		)
	}
}

// RefreshDetails は全コードの詳細情報を取得して保存します。
// 上流への負荷を抑えるため、コード間に1秒の間隔を空けます。
// コード単位の失敗はログに残して次のコードへ進みます。
func (cu *Crawler) RefreshDetails(ctx context.Context) {
	slog.Info("crawling fund details")
	for _, code := range cu.codes {
		cu.rateLimiter.WaitIfNeeded()
		fund, err := cu.source.FetchDetail(ctx, code)
		if err != nil {
			slog.Error("failed to fetch fund details", "code", code, "error", err)
			continue
		}
		if err := cu.fund.Upsert(ctx, fund); err != nil {
			slog.Error("failed to store fund details", "code", code, "error", err)
			continue
		}
		slog.Info("updated fund details", "code", code, "name", fund.Name)
	}
}
