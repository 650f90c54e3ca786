// Package di provides dependency injection factories for creating application components.
package di

import (
	"fund_backend/internal/feature/crawler/adapters/eastmoney"
	infrahttp "fund_backend/internal/platform/http"
)

// NewFundSource creates a fully configured eastmoney Client with HTTP client.
func NewFundSource() *eastmoney.Client {
	cfg := eastmoney.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return eastmoney.NewClient(cfg, httpClient)
}
