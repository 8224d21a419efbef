package family

import (
	"testing"
	"time"
)

func TestPeriodRangeToday(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC) // Wednesday
	start, end, ok := PeriodRange(PeriodToday, now)
	if !ok {
		t.Fatal("today should resolve")
	}
	if !start.Equal(time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestPeriodRangeYesterday(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)
	start, end, _ := PeriodRange(PeriodYesterday, now)
	if !start.Equal(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestPeriodRangeThisWeekStartsSunday(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC) // Wednesday
	start, end, _ := PeriodRange(PeriodThisWeek, now)
	wantStart := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // most recent Sunday
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v (should be tomorrow midnight)", end)
	}
}

func TestPeriodRangeThisWeekOnSunday(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC) // Sunday itself
	start, _, _ := PeriodRange(PeriodThisWeek, now)
	if !start.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want midnight today", start)
	}
}

func TestPeriodRangeLastWeek(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)
	start, end, _ := PeriodRange(PeriodLastWeek, now)
	if !start.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v (half-open: most recent Sunday excluded)", end)
	}
}

func TestPeriodRangeAllAndUnknown(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)
	for _, p := range []Period{PeriodAll, "", Period("fortnight")} {
		if _, _, ok := PeriodRange(p, now); ok {
			t.Errorf("period %q should mean no constraint", p)
		}
	}
}
