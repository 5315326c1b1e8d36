// Package forecast selects a seasonal ARIMA order per station by grid
// search and forecasts future monthly passenger counts.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tube-twin/timeseries"
)

const DefaultMaxHorizon = 120

// SeriesSource provides one station's observed monthly series.
type SeriesSource interface {
	StationSeries(nlc int) (*timeseries.Series, error)
}

// Request asks for a single month (To is zero) or an inclusive range.
type Request struct {
	From time.Time
	To   time.Time
}

// IsRange reports whether the request covers more than a single month.
func (r Request) IsRange() bool {
	return !r.To.IsZero()
}

// Point is one forecast month.
type Point struct {
	Month time.Time
	Value float64
}

// Result is a forecast together with the model that produced it.
type Result struct {
	Station      string
	LastObserved time.Time
	StartOffset  int
	EndOffset    int
	Best         Scored
	Order        Order
	Search       *SearchResult
	Points       []Point
}

// Options configures a Forecaster.
type Options struct {
	Search     SearchConfig
	OffsetMode OffsetMode
	MaxHorizon int
}

// DefaultOptions matches the original dashboard.
func DefaultOptions() Options {
	return Options{
		Search:     DefaultSearchConfig(),
		OffsetMode: OffsetCalendar,
		MaxHorizon: DefaultMaxHorizon,
	}
}

// Forecaster runs search-then-predict over series from its source.
type Forecaster struct {
	source     SeriesSource
	opts       Options
	candidates []Candidate
}

// NewForecaster creates a Forecaster reading series from source.
func NewForecaster(source SeriesSource, opts Options) *Forecaster {
	if opts.MaxHorizon <= 0 {
		opts.MaxHorizon = DefaultMaxHorizon
	}
	if opts.OffsetMode == "" {
		opts.OffsetMode = OffsetCalendar
	}
	return &Forecaster{
		source:     source,
		opts:       opts,
		candidates: Candidates(opts.Search.MaxOrder),
	}
}

// Window is a validated forecast request relative to the last observation.
type Window struct {
	LastObserved time.Time
	Start        int
	End          int
}

// Offsets validates req against the series and returns the first and last
// forecast horizons. For a single month both are equal.
func (f *Forecaster) Offsets(series *timeseries.Series, req Request) (Window, error) {
	last, err := timeseries.Last(series)
	if err != nil {
		return Window{}, ErrEmptySeries
	}

	start := MonthOffset(last, req.From, f.opts.OffsetMode)
	end := start
	if req.IsRange() {
		end = MonthOffset(last, req.To, f.opts.OffsetMode)
	}

	if start <= 0 {
		return Window{}, fmt.Errorf("%w: %s is %d months from %s",
			ErrTargetNotInFuture, req.From.Format(timeseries.MonthLayout), start, last.Format(timeseries.MonthLayout))
	}
	if end < start {
		return Window{}, fmt.Errorf("%w: %s before %s",
			ErrInvalidRange, req.To.Format(timeseries.MonthLayout), req.From.Format(timeseries.MonthLayout))
	}
	if end > f.opts.MaxHorizon {
		return Window{}, fmt.Errorf("%w: %d months (max %d)", ErrHorizonTooFar, end, f.opts.MaxHorizon)
	}
	return Window{LastObserved: last, Start: start, End: end}, nil
}

// Forecast loads the station's series and forecasts it.
func (f *Forecaster) Forecast(ctx context.Context, nlc int, req Request) (*Result, error) {
	series, err := f.source.StationSeries(nlc)
	if err != nil {
		return nil, err
	}
	return f.ForecastSeries(ctx, series, req)
}

// ForecastSeries validates req, searches the order grid, refits the best
// order and predicts the requested months.
func (f *Forecaster) ForecastSeries(ctx context.Context, series *timeseries.Series, req Request) (*Result, error) {
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	window, err := f.Offsets(series, req)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	search, err := Search(ctx, series, f.candidates, f.opts.Search)
	if err != nil {
		return nil, fmt.Errorf("station %q: %w", series.Name, err)
	}
	best, err := search.Best()
	if err != nil {
		return nil, err
	}
	log.Info().Str("station", series.Name).Str("best", best.String()).Float64("aic", best.AIC).
		Int("fitted", len(search.Scores)).Dur("took", time.Since(began)).
		Msg("[Forecaster] order search complete")

	order := f.opts.Search.Order(best.Candidate)
	model, err := f.opts.Search.fitter()(order, series)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRefitFailed, order, err)
	}

	values, err := predictRange(model, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", order, err)
	}

	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Month: timeseries.AddMonths(window.LastObserved, window.Start+i), Value: v}
	}

	return &Result{
		Station:      series.Name,
		LastObserved: window.LastObserved,
		StartOffset:  window.Start,
		EndOffset:    window.End,
		Best:         best,
		Order:        order,
		Search:       search,
		Points:       points,
	}, nil
}
