package usecase

import "time"

// SystemClock は実時刻を返すClock実装です。取引カレンダーの判定は
// 市場のタイムゾーンの壁時計で行うため、ロケーションを保持します。
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock は指定されたロケーションのSystemClockを生成します。
// loc がnilの場合はプロセスのローカル時刻を使います。
func NewSystemClock(loc *time.Location) SystemClock {
	return SystemClock{loc: loc}
}

// Now は現在時刻を返します。
func (c SystemClock) Now() time.Time {
	if c.loc != nil {
		return time.Now().In(c.loc)
	}
	return time.Now()
}
