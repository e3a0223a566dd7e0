package scoring

import (
	"fmt"
	"time"

	"github.com/sakif/studyquest/internal/model"
)

// Period is a leaderboard time window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "all", "week" or "month". The empty string means all.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("scoring: unknown period %q", s)
}

// Window returns the inclusive date range [from, to] for a windowed period,
// formatted as model.DateLayout in now's location.
//
//   - week:  Monday of now's week through now's date
//   - month: the 1st of now's month through now's date
//
// PeriodAll has no window; Window returns ok=false for it.
func Window(p Period, now time.Time) (from, to string, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start time.Time
	switch p {
	case PeriodWeek:
		start = WeekStart(today)
	case PeriodMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	default:
		return "", "", false
	}
	return start.Format(model.DateLayout), today.Format(model.DateLayout), true
}

// WeekStart returns midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	// time.Weekday counts from Sunday=0; shift so Monday=0 ... Sunday=6.
	offset := (int(t.Weekday()) + 6) % 7
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -offset)
}
