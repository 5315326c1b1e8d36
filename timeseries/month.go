package timeseries

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	MonthLayout,
	"2006/01/02",
	"2006/01",
}

// StartOfMonth truncates t to the first day of its month, in UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses a month-year ("2021-04") or a date ("2021-04-17") and
// returns the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfMonth(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised month %q", s)
}

// AddMonths moves a first-of-month timestamp by n months.
func AddMonths(month time.Time, n int) time.Time {
	return StartOfMonth(month).AddDate(0, n, 0)
}
