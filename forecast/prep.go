package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tube-twin/models"
	"tube-twin/timeseries"
)

// OffsetMode selects how the month offset to a target date is computed.
type OffsetMode string

const (
	// OffsetCalendar counts calendar months between the two dates.
	OffsetCalendar OffsetMode = "calendar"
	// OffsetLegacy reproduces the dashboard's original arithmetic, which
	// compares the target month number against the last observed year and
	// so always adds the raw target month.
	OffsetLegacy OffsetMode = "legacy"
)

// ParseOffsetMode maps a config value to an OffsetMode.
func ParseOffsetMode(s string) (OffsetMode, error) {
	switch OffsetMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", OffsetCalendar:
		return OffsetCalendar, nil
	case OffsetLegacy:
		return OffsetLegacy, nil
	}
	return "", fmt.Errorf("unknown offset mode %q", s)
}

// MonthOffset returns how many months target lies after last.
func MonthOffset(last, target time.Time, mode OffsetMode) int {
	years := (target.Year() - last.Year()) * 12

	if mode == OffsetLegacy {
		m := int(target.Month())
		if m > last.Year() {
			m = int(target.Month()) - last.Year()
		}
		return years + m
	}
	return years + int(target.Month()) - int(last.Month())
}

// SelectStation extracts one station's series from the full dataset,
// ordered by month.
func SelectStation(rows []models.StationCount, nlc int, name string) *timeseries.Series {
	var station []models.StationCount
	for _, r := range rows {
		if r.NLC == nlc {
			station = append(station, r)
		}
	}
	sort.SliceStable(station, func(i, j int) bool { return station[i].Month.Before(station[j].Month) })

	s := &timeseries.Series{
		Timestamps: make([]time.Time, len(station)),
		Values:     make([]float64, len(station)),
		Name:       name,
	}
	for i, r := range station {
		s.Timestamps[i] = timeseries.StartOfMonth(r.Month)
		s.Values[i] = r.Count
	}
	return s
}
