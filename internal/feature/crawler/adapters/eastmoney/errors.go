package eastmoney

import "fmt"

// FetchError は上流ページの取得失敗（トランスポートエラーまたは非2xx応答）を
// 表します。この層ではリトライせず、再試行は次回のスケジュールに任せます。
type FetchError struct {
	URL    string
	Status int   // HTTPステータスコード。トランスポートエラーの場合は0。
	Err    error // 原因となったトランスポートエラー
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eastmoney: fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("eastmoney: fetch %s: http %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError は構造上必須の要素（価格テーブルなど）が欠落または不正である
// ことを表します。フィールド単位の抽出失敗はフォールバック値で吸収するため、
// このエラーにはなりません。
type ParseError struct {
	Element string // 欠落または不正だった要素の説明
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("eastmoney: parse: missing or malformed %s", e.Element)
}
