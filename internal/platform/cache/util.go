package cache

import (
	"time"
)

// TimeUntilNextPublication は次の基準価額公表時刻（北京時間20:00）までの期間を返します。
func TimeUntilNextPublication() time.Duration {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	now := time.Now().In(loc)

	// 次の20:00を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 20, 0, 0, 0, loc)

	// 今日の20:00が既に過ぎている場合は明日の20:00を使用
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
