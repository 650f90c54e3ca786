// Package ratelimiter は外部サイトへのリクエスト頻度を抑える固定ウィンドウ方式の
// レートリミッタを提供します。クローラーは単一ゴルーチンで逐次アクセスするため、
// ロックは不要です。
package ratelimiter

import (
	"log"
	"time"
)

// RateLimiterInterface は、外部アクセスなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は interval あたり limit 回まで操作を許可します。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの上限回数
	interval  time.Duration // ウィンドウの長さ
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// 詳細クロールでは limit=1, interval=1秒 としてコード間に1秒の間隔を空けます。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded はウィンドウ内の上限に達している場合、次のウィンドウまで待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	// ウィンドウを過ぎたらカウントをリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			log.Printf("[RATE LIMIT] hit %d requests, sleeping for %v...", rl.limit, sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
