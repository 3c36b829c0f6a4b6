// Package clock は固定タイムゾーンの時刻供給と論理日計算を提供する。
// ビジネスロジックはtime.Nowを直接呼ばず、必ずClockを注入して使う。
// これにより日付境界まわりのロジックを固定時刻で決定的にテストできる。
package clock

import "time"

// BoundaryHour は論理日の境界時刻（午前5時）。
// 質問の活性化スケジュールと同じ境界を使うことで、
// 「今日の質問」とユーザーが体感する「今日」が常に一致する。
const BoundaryHour = 5

// DefaultTimezone はアプリ既定のタイムゾーン名。
const DefaultTimezone = "Asia/Seoul"

// Clock は現在時刻の供給インターフェース。
type Clock interface {
	// Now は固定タイムゾーンにおける現在時刻を返す。
	Now() time.Time
	// Location は固定タイムゾーンを返す。
	// DBから読み出した時刻を論理日計算の前に変換するために使う。
	Location() *time.Location
}

// ZoneClock はシステム時計をラップした固定タイムゾーンのClock実装。
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock は指定タイムゾーンのZoneClockを生成する。
func NewZoneClock(loc *time.Location) *ZoneClock {
	return &ZoneClock{loc: loc}
}

// Now は固定タイムゾーンにおける現在時刻を返す。
func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location は固定タイムゾーンを返す。
func (c *ZoneClock) Location() *time.Location {
	return c.loc
}

// Fixed は固定時刻を返すClock実装。テストで使用する。
type Fixed struct {
	T time.Time
}

// Now は固定された時刻をそのまま返す。
func (f *Fixed) Now() time.Time { return f.T }

// Location は固定時刻のタイムゾーンを返す。
func (f *Fixed) Location() *time.Location { return f.T.Location() }

// Today はClockの現在の暦日（時刻成分ゼロ）を返す。境界時刻は考慮しない。
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// LogicalDate はClockの現在の論理日を返す。
// 午前5時より前は前日を「今日」とみなす。
func LogicalDate(c Clock) time.Time {
	return LogicalDateOf(c.Now())
}

// LogicalDateOf は指定時刻の論理日を返す。
// 時刻はあらかじめアプリのタイムゾーンに変換されていること。
func LogicalDateOf(t time.Time) time.Time {
	d := DateOf(t)
	if t.Hour() < BoundaryHour {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// DateOf は時刻成分を落とした暦日を返す。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var _ Clock = (*ZoneClock)(nil)
var _ Clock = (*Fixed)(nil)
