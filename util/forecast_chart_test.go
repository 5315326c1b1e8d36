package util

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-twin/forecast"
	"tube-twin/timeseries"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestRenderForecastChart(t *testing.T) {
	history, err := timeseries.NewWithTimestamps("Green Park",
		[]time.Time{month(2021, 1), month(2021, 2), month(2021, 3)},
		[]float64{1000, 1100, 1050},
	)
	require.NoError(t, err)

	result := &forecast.Result{
		Station:     "Green Park",
		StartOffset: 2,
		EndOffset:   3,
		Points: []forecast.Point{
			{Month: month(2021, 5), Value: 1234.5},
			{Month: month(2021, 6), Value: 1300},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderForecastChart(&buf, history, result))

	html := buf.String()
	assert.Contains(t, html, "Green Park")
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "2021-04", "the skipped month still gets an axis label")
	assert.Contains(t, html, "2021-06")
	assert.Contains(t, html, "1234.5")
}

func TestRenderForecastChart_NothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	err := RenderForecastChart(&buf, &timeseries.Series{}, &forecast.Result{})
	assert.Error(t, err)
}
