package family

import "time"

// Period is a named registration-date window.
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisWeek  Period = "thisWeek"
	PeriodLastWeek  Period = "lastWeek"
)

// PeriodRange resolves a named period to a half-open [start, end) instant
// range relative to now. Weeks start on Sunday. PeriodAll and unknown periods
// return ok=false, meaning no date constraint.
func PeriodRange(p Period, now time.Time) (start, end time.Time, ok bool) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	sunday := today.AddDate(0, 0, -int(now.Weekday()))

	switch p {
	case PeriodToday:
		return today, tomorrow, true
	case PeriodYesterday:
		return today.AddDate(0, 0, -1), today, true
	case PeriodThisWeek:
		return sunday, tomorrow, true
	case PeriodLastWeek:
		return sunday.AddDate(0, 0, -7), sunday, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
