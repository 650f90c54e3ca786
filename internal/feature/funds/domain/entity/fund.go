// Package entity はfundsフィーチャーのドメインモデルを定義します。
package entity

import "time"

// DefaultFundType は分類が取得できない場合に使う既定のファンド種別です。
const DefaultFundType = "指数基金"

// UnknownText はテキスト項目が抽出できない場合のフォールバック値です。
const UnknownText = "未知"

// DefaultRating は評価が取得できない場合の既定値（3つ星）です。
const DefaultRating = 3

// Fund はインデックスファンドの基本情報を表します。
// Code が自然キーで、作成後に変更されることはありません。
type Fund struct {
	Code            string     // ファンドコード（例: "110020"）
	Name            string     // ファンド名
	Type            string     // ファンド種別（既定: 指数基金）
	TrackingIndex   string     // 連動対象の指数
	FundSize        float64    // 規模（億元）
	Company         string     // 運用会社
	Manager         string     // ファンドマネージャー名
	ExperienceYears float64    // マネージャーの従業年数
	TrackingError   float64    // トラッキングエラー（%）
	Rating          int        // 1〜5の星評価
	ExpenseRatio    float64    // 管理費率（%）
	EstablishedAt   *time.Time // 設立日（不明の場合はnil）
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FundPrice はファンドの日次基準価額を表します。
// (Code, Date) の組が自然キーです。
type FundPrice struct {
	Code        string    // ファンドコード
	Date        time.Time // 基準日
	Price       float64   // 単位基準価額
	DailyChange float64   // 日次騰落率（%、符号付き）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
