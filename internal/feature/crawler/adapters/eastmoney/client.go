package eastmoney

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"fund_backend/internal/feature/funds/domain/entity"
)

// Client は天天基金のページを取得するHTTPクライアントです。
// プロセスの生存期間を通じて1つの *http.Client（コネクションプール）を
// 共有し、Close で解放します。リクエストは逐次発行される前提です。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Close は保持しているアイドル接続を解放します。全ての終了経路で
// 一度だけ呼んでください。
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// get は固定の識別ヘッダー付きでGETを発行し、ボディを文字列で返します。
// トランスポートエラーまたは非2xx応答は *FetchError になります。
// この層ではリトライしません。
func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &FetchError{URL: url, Status: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return string(body), nil
}

// FetchLatestPrice は指定コードの最新基準価額を取得して解析します。
func (c *Client) FetchLatestPrice(ctx context.Context, code string) (entity.FundPrice, error) {
	body, err := c.get(ctx, c.cfg.priceURL(code))
	if err != nil {
		return entity.FundPrice{}, err
	}
	price, err := ParsePrice(body)
	if err != nil {
		return entity.FundPrice{}, err
	}
	price.Code = code
	return price, nil
}

// FetchDetail は指定コードの詳細情報を取得して解析します。
//
// 詳細ページ本体の取得失敗はエラーになりますが、補助ページ（トラッキング
// 指標・評価・マネージャープロフィール）の個別の失敗は該当フィールドを
// フォールバック値に留めるだけで、全体は失敗しません。マネージャーIDが
// 抽出できなかった場合、プロフィールページの取得は行いません。
func (c *Client) FetchDetail(ctx context.Context, code string) (entity.Fund, error) {
	body, err := c.get(ctx, c.cfg.detailURL(code))
	if err != nil {
		return entity.Fund{}, err
	}
	page, err := ParseDetail(body)
	if err != nil {
		return entity.Fund{}, err
	}
	fund := page.Fund
	fund.Code = code

	// 跟踪误差は別ページにある
	if body, err := c.get(ctx, c.cfg.trackingURL(code)); err != nil {
		slog.Warn("failed to fetch tracking details", "code", code, "error", err)
	} else {
		fund.TrackingError = ParseTrackingError(body)
	}

	// 晨星評級も別ページにある
	if body, err := c.get(ctx, c.cfg.ratingURL(code)); err != nil {
		slog.Warn("failed to fetch rating page", "code", code, "error", err)
	} else {
		fund.Rating = ParseRating(body)
	}

	// 従業年数は詳細ページから抽出したマネージャーIDで辿る
	if page.ManagerID != "" {
		if body, err := c.get(ctx, c.cfg.managerURL(page.ManagerID)); err != nil {
			slog.Warn("failed to fetch manager profile", "code", code, "manager", page.ManagerID, "error", err)
		} else {
			fund.ExperienceYears = ParseManagerExperience(body)
		}
	}

	return fund, nil
}
