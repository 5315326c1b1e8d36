package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestNewWithTimestamps(t *testing.T) {
	s, err := NewWithTimestamps("green park",
		[]time.Time{month(2021, 1), month(2021, 2), month(2021, 3)},
		[]float64{10, 20, 30})
	require.NoError(t, err)

	assert.Equal(t, "green park", s.Name)
	assert.Equal(t, 3, s.Len())
	last, err := Last(s)
	require.NoError(t, err)
	assert.Equal(t, month(2021, 3), last)

	_, err = NewWithTimestamps("x", []time.Time{month(2021, 1)}, []float64{1, 2})
	assert.Error(t, err)
}

func TestLast_NoTimestamps(t *testing.T) {
	_, err := Last(&Series{Values: []float64{1}})
	assert.ErrorIs(t, err, ErrNoTimestamps)

	_, err = Last(nil)
	assert.ErrorIs(t, err, ErrNoTimestamps)
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-04", month(2021, 4)},
		{"2021-04-17", month(2021, 4)},
		{" 2019/12/31 ", month(2019, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMonth("April 2021")
	assert.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, month(2022, 2), AddMonths(month(2021, 11), 3))
	assert.Equal(t, month(2021, 1), AddMonths(time.Date(2021, 1, 31, 12, 0, 0, 0, time.UTC), 0))
}
