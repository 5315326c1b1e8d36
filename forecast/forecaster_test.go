package forecast

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sartorproj/goarima/sarima"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-twin/timeseries"
)

var errUnknown = errors.New("unknown station")

type stubSource map[int]*timeseries.Series

func (s stubSource) StationSeries(nlc int) (*timeseries.Series, error) {
	series, ok := s[nlc]
	if !ok {
		return nil, errUnknown
	}
	return series, nil
}

func smallForecaster(mode OffsetMode) *Forecaster {
	opts := DefaultOptions()
	opts.Search.MaxOrder = 1
	opts.OffsetMode = mode
	return NewForecaster(stubSource{
		500: syntheticSeries(36, 3, month(2021, 1)),
		1:   syntheticSeries(12, 3, month(2021, 1)),
	}, opts)
}

func TestForecast_SingleMonth(t *testing.T) {
	f := smallForecaster(OffsetCalendar)

	res, err := f.Forecast(context.Background(), 500, Request{From: month(2021, 4)})

	require.NoError(t, err)
	assert.Equal(t, 3, res.StartOffset)
	assert.Equal(t, 3, res.EndOffset)
	require.Len(t, res.Points, 1)
	assert.Equal(t, month(2021, 4), res.Points[0].Month)
	assert.Equal(t, month(2021, 1), res.LastObserved)
	assert.Equal(t, f.opts.Search.Order(res.Best.Candidate), res.Order)
	assert.Equal(t, res.Search.Scores[0], res.Best)
}

func TestForecast_Range(t *testing.T) {
	f := smallForecaster(OffsetCalendar)

	res, err := f.Forecast(context.Background(), 500, Request{From: month(2021, 3), To: month(2021, 8)})

	require.NoError(t, err)
	require.Len(t, res.Points, 6)
	for i, p := range res.Points {
		assert.Equal(t, month(2021, time.Month(3+i)), p.Month)
	}

	single, err := f.Forecast(context.Background(), 500, Request{From: month(2021, 5)})
	require.NoError(t, err)
	assert.InDelta(t, single.Points[0].Value, res.Points[2].Value, 1e-9)
}

func TestForecast_Validation(t *testing.T) {
	f := smallForecaster(OffsetCalendar)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"last observed month", Request{From: month(2021, 1)}, ErrTargetNotInFuture},
		{"past month", Request{From: month(2020, 6)}, ErrTargetNotInFuture},
		{"reversed range", Request{From: month(2021, 6), To: month(2021, 3)}, ErrInvalidRange},
		{"too far", Request{From: month(2040, 1)}, ErrHorizonTooFar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Forecast(ctx, 500, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			assert.Nil(t, res)
		})
	}
}

func TestForecast_NoViableModel(t *testing.T) {
	f := smallForecaster(OffsetCalendar)

	_, err := f.Forecast(context.Background(), 1, Request{From: month(2021, 2)})

	assert.ErrorIs(t, err, ErrNoViableModel)
	assert.False(t, IsValidation(err))
}

func TestForecast_UnknownStation(t *testing.T) {
	_, err := smallForecaster(OffsetCalendar).Forecast(context.Background(), 42, Request{From: month(2021, 2)})
	assert.ErrorIs(t, err, errUnknown)
}

func TestForecast_EmptySeries(t *testing.T) {
	f := smallForecaster(OffsetCalendar)
	_, err := f.ForecastSeries(context.Background(), &timeseries.Series{Name: "empty"}, Request{From: month(2021, 2)})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestForecast_LegacyOffset(t *testing.T) {
	f := smallForecaster(OffsetLegacy)

	res, err := f.Forecast(context.Background(), 500, Request{From: month(2021, 4)})

	require.NoError(t, err)
	assert.Equal(t, 4, res.StartOffset)
	assert.Equal(t, month(2021, 5), res.Points[0].Month)
}

func TestForecast_RefitFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.Search.MaxOrder = 0
	var calls int32
	opts.Search.fit = func(order Order, series *timeseries.Series) (*sarima.Model, error) {
		// the single candidate fits during the search, the refit does not
		if atomic.AddInt32(&calls, 1) > 1 {
			return nil, errors.New("singular")
		}
		return fitSARIMA(order, series)
	}
	f := NewForecaster(stubSource{500: syntheticSeries(36, 3, month(2021, 1))}, opts)

	res, err := f.Forecast(context.Background(), 500, Request{From: month(2021, 4)})

	assert.ErrorIs(t, err, ErrRefitFailed)
	assert.False(t, IsValidation(err))
	assert.Nil(t, res)
	assert.EqualValues(t, 2, calls)
}

func TestOffsets_Window(t *testing.T) {
	f := smallForecaster(OffsetCalendar)
	series := syntheticSeries(36, 3, month(2021, 1))

	window, err := f.Offsets(series, Request{From: month(2021, 3), To: month(2021, 6)})

	require.NoError(t, err)
	assert.Equal(t, Window{LastObserved: month(2021, 1), Start: 2, End: 5}, window)

	_, err = f.Offsets(&timeseries.Series{Values: []float64{1}}, Request{From: month(2021, 3)})
	assert.ErrorIs(t, err, ErrEmptySeries)
}
