// Package eastmoney は天天基金（fund.eastmoney.com）のページを取得・解析する
// クライアントを提供します。上流は認証なしのHTML配信で、ページ構造の変化に
// 備えて各フィールドの抽出はフォールバック付きで行います。
package eastmoney

import (
	"fmt"
	"os"
	"time"
)

// defaultUserAgent は全リクエストに付与する固定の識別ヘッダーです。
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds configuration for the eastmoney page client.
type Config struct {
	BaseURL   string        // Base URL (e.g., "http://fund.eastmoney.com")
	UserAgent string        // User-Agent header sent with every request
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads eastmoney configuration from environment variables.
// EASTMONEY_BASE_URL is only meant to be overridden in tests.
func LoadConfig() Config {
	base := os.Getenv("EASTMONEY_BASE_URL")
	if base == "" {
		base = "http://fund.eastmoney.com"
	}
	return Config{
		BaseURL:   base,
		UserAgent: defaultUserAgent,
		Timeout:   15 * time.Second,
	}
}

// 各ページのURLテンプレート。priceURL は履歴基準価額の最新1件のみを要求します。
func (c Config) priceURL(code string) string {
	return fmt.Sprintf("%s/f10/F10DataApi.aspx?type=lsjz&code=%s&page=1&per=1", c.BaseURL, code)
}

func (c Config) detailURL(code string) string {
	return fmt.Sprintf("%s/%s.html", c.BaseURL, code)
}

func (c Config) trackingURL(code string) string {
	return fmt.Sprintf("%s/f10/tsdata_%s.html", c.BaseURL, code)
}

func (c Config) ratingURL(code string) string {
	return fmt.Sprintf("%s/f10/jjpj_%s.html", c.BaseURL, code)
}

func (c Config) managerURL(managerID string) string {
	return fmt.Sprintf("%s/manager/%s.html", c.BaseURL, managerID)
}
