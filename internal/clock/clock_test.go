package clock

import (
	"testing"
	"time"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

// TestLogicalDateOf_AfterBoundary は午前5時以降が当日の論理日になることを検証する。
func TestLogicalDateOf_AfterBoundary(t *testing.T) {
	loc := seoul(t)

	got := LogicalDateOf(time.Date(2025, 6, 5, 5, 0, 0, 0, loc))
	want := time.Date(2025, 6, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("LogicalDateOf(05:00:00) = %v, want %v", got, want)
	}
}

// TestLogicalDateOf_BeforeBoundary は午前5時より前が前日の論理日になることを検証する。
func TestLogicalDateOf_BeforeBoundary(t *testing.T) {
	loc := seoul(t)

	got := LogicalDateOf(time.Date(2025, 6, 5, 4, 59, 59, 0, loc))
	want := time.Date(2025, 6, 4, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("LogicalDateOf(04:59:59) = %v, want %v", got, want)
	}
}

// TestLogicalDateOf_MonthBoundary は月初の早朝が前月末日になることを検証する。
func TestLogicalDateOf_MonthBoundary(t *testing.T) {
	loc := seoul(t)

	got := LogicalDateOf(time.Date(2025, 7, 1, 3, 0, 0, 0, loc))
	want := time.Date(2025, 6, 30, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("LogicalDateOf(7/1 03:00) = %v, want %v", got, want)
	}
}

// TestDateOf_DropsTimeComponent は時刻成分が落ちることを検証する。
func TestDateOf_DropsTimeComponent(t *testing.T) {
	loc := seoul(t)

	got := DateOf(time.Date(2025, 6, 5, 23, 59, 59, 123, loc))
	want := time.Date(2025, 6, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("DateOf = %v, want %v", got, want)
	}
}

// TestFixed_ReturnsFixedTime はFixedが常に同じ時刻を返すことを検証する。
func TestFixed_ReturnsFixedTime(t *testing.T) {
	loc := seoul(t)
	fixed := &Fixed{T: time.Date(2025, 6, 5, 12, 0, 0, 0, loc)}

	if !fixed.Now().Equal(fixed.T) {
		t.Errorf("Now() = %v, want %v", fixed.Now(), fixed.T)
	}
	if fixed.Location() != loc {
		t.Errorf("Location() = %v, want %v", fixed.Location(), loc)
	}

	if got := LogicalDate(fixed); !got.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, loc)) {
		t.Errorf("LogicalDate = %v", got)
	}
	if got := Today(fixed); !got.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, loc)) {
		t.Errorf("Today = %v", got)
	}
}

// TestZoneClock_UsesConfiguredZone はZoneClockが固定タイムゾーンで時刻を返すことを検証する。
func TestZoneClock_UsesConfiguredZone(t *testing.T) {
	loc := seoul(t)
	clk := NewZoneClock(loc)

	if clk.Location() != loc {
		t.Errorf("Location() = %v, want %v", clk.Location(), loc)
	}
	if got := clk.Now().Location(); got != loc {
		t.Errorf("Now().Location() = %v, want %v", got, loc)
	}
}
