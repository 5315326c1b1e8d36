// Package timeseries holds the monthly series used by the forecaster and the
// month arithmetic shared by the loaders and handlers.
package timeseries

import (
	"errors"
	"time"

	goarima "github.com/sartorproj/goarima/timeseries"
)

// MonthLayout is the "Month-Year" layout used by the counts dataset.
const MonthLayout = "2006-01"

var ErrNoTimestamps = errors.New("series has no timestamps")

// Series is the goarima series the models are fitted on.
type Series = goarima.Series

// NewWithTimestamps creates a named series with explicit timestamps.
func NewWithTimestamps(name string, timestamps []time.Time, values []float64) (*Series, error) {
	s, err := goarima.NewWithTimestamps(timestamps, values)
	if err != nil {
		return nil, err
	}
	s.Name = name
	return s, nil
}

// Last returns the timestamp of the final observation.
func Last(s *Series) (time.Time, error) {
	if s == nil || len(s.Timestamps) == 0 {
		return time.Time{}, ErrNoTimestamps
	}
	return s.Timestamps[len(s.Timestamps)-1], nil
}
