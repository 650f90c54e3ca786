// Package tradingcalendar はA株市場の取引時間帯を判定する純粋関数を提供します。
// 渡されたタイムスタンプの壁時計（曜日と時刻）のみで判定するため、
// テストでは任意の時刻を注入できます。
package tradingcalendar

import "time"

// 取引セッションと詳細更新ウィンドウの境界（いずれも両端を含む）。
var (
	morningOpen    = clockSeconds(9, 30, 0)
	morningClose   = clockSeconds(11, 30, 0)
	afternoonOpen  = clockSeconds(13, 0, 0)
	afternoonClose = clockSeconds(15, 0, 0)
	detailOpen     = clockSeconds(17, 0, 0)
	detailClose    = clockSeconds(18, 0, 0)
)

// IsTradingActive は t が取引セッション内かどうかを返します。
// 取引セッションは月〜金の [09:30, 11:30] と [13:00, 15:00]（両端を含む）です。
func IsTradingActive(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	s := clockSeconds(t.Hour(), t.Minute(), t.Second())
	return (s >= morningOpen && s <= morningClose) ||
		(s >= afternoonOpen && s <= afternoonClose)
}

// IsDetailWindow は t が日次の詳細更新ウィンドウ [17:00, 18:00]（両端を含む）
// 内かどうかを返します。上流の更新ポリシーに合わせ、曜日の制限はありません。
func IsDetailWindow(t time.Time) bool {
	s := clockSeconds(t.Hour(), t.Minute(), t.Second())
	return s >= detailOpen && s <= detailClose
}

func clockSeconds(hour, min, sec int) int {
	return hour*3600 + min*60 + sec
}
