package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tube-twin/forecast"
	"tube-twin/models"
	"tube-twin/models/station_forecast"
	"tube-twin/timeseries"
)

// Number of ranked candidates echoed back with each forecast.
const FORECAST_RANKING_SIZE = 10

// StationCatalog resolves station names and serves their observed series.
type StationCatalog interface {
	forecast.SeriesSource
	Lookup(name string) (models.StationCode, error)
	StationCodes() []models.StationCode
}

type ForecastService struct {
	catalog    StationCatalog
	forecaster *forecast.Forecaster
}

func NewForecastService(catalog StationCatalog, forecaster *forecast.Forecaster) *ForecastService {
	return &ForecastService{
		catalog:    catalog,
		forecaster: forecaster,
	}
}

func (fs *ForecastService) Stations() []models.StationCode {
	return fs.catalog.StationCodes()
}

// Series returns the observed monthly counts of a station.
func (fs *ForecastService) Series(name string) (*station_forecast.SeriesResponse, error) {
	code, err := fs.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	s, err := fs.catalog.StationSeries(code.NLC)
	if err != nil {
		return nil, err
	}

	res := &station_forecast.SeriesResponse{
		Station: code.Name,
		NLC:     code.NLC,
		Points:  make([]station_forecast.ForecastPoint, s.Len()),
	}
	for i := range s.Values {
		res.Points[i] = station_forecast.ForecastPoint{
			Month:       s.Timestamps[i].Format(timeseries.MonthLayout),
			CountOfTaps: s.Values[i],
		}
	}
	return res, nil
}

// Forecast runs the order search for one station and predicts the requested
// month or range.
func (fs *ForecastService) Forecast(ctx context.Context, name string, req forecast.Request) (*station_forecast.StationForecastResponse, error) {
	code, history, result, err := fs.run(ctx, name, req)
	if err != nil {
		return nil, err
	}
	return toResponse(code, history, result), nil
}

// ForecastMany forecasts each station in turn and stops at the first failure.
func (fs *ForecastService) ForecastMany(ctx context.Context, names []string, req forecast.Request) ([]*station_forecast.StationForecastResponse, error) {
	out := make([]*station_forecast.StationForecastResponse, 0, len(names))
	for _, name := range names {
		res, err := fs.Forecast(ctx, name, req)
		if err != nil {
			return nil, fmt.Errorf("station %q: %w", name, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// ForecastWithHistory also returns the observed series the model was fit to.
func (fs *ForecastService) ForecastWithHistory(ctx context.Context, name string, req forecast.Request) (*timeseries.Series, *forecast.Result, error) {
	_, history, result, err := fs.run(ctx, name, req)
	return history, result, err
}

func (fs *ForecastService) run(ctx context.Context, name string, req forecast.Request) (models.StationCode, *timeseries.Series, *forecast.Result, error) {
	code, err := fs.catalog.Lookup(name)
	if err != nil {
		return code, nil, nil, err
	}
	history, err := fs.catalog.StationSeries(code.NLC)
	if err != nil {
		return code, nil, nil, err
	}

	start := time.Now()
	result, err := fs.forecaster.ForecastSeries(ctx, history, req)
	if err != nil {
		log.Warn().Err(err).Str("station", code.Name).Msg("[ForecastService] Forecast failed")
		return code, nil, nil, err
	}
	log.Info().
		Str("station", code.Name).
		Str("order", result.Order.String()).
		Float64("aic", result.Best.AIC).
		Dur("elapsed", time.Since(start)).
		Msg("[ForecastService] Forecast completed")
	return code, history, result, nil
}

func toResponse(code models.StationCode, history *timeseries.Series, result *forecast.Result) *station_forecast.StationForecastResponse {
	res := &station_forecast.StationForecastResponse{
		RequestID:    uuid.NewString(),
		Station:      code.Name,
		NLC:          code.NLC,
		LastObserved: result.LastObserved.Format(timeseries.MonthLayout),
		StartOffset:  result.StartOffset,
		EndOffset:    result.EndOffset,
		Model: station_forecast.ModelSummary{
			Order: result.Order.String(),
			AIC:   result.Best.AIC,
		},
		Forecast: make([]station_forecast.ForecastPoint, len(result.Points)),
	}
	if res.Station == "" {
		res.Station = history.Name
	}
	if result.Search != nil {
		res.Model.CandidatesEvaluated = result.Search.Evaluated
		res.Model.CandidatesFailed = result.Search.Failed
		for i, s := range result.Search.Scores {
			if i == FORECAST_RANKING_SIZE {
				break
			}
			res.Model.Ranking = append(res.Model.Ranking, station_forecast.CandidateRank{
				Order: s.Candidate.String(),
				AIC:   s.AIC,
			})
		}
	}
	for i, p := range result.Points {
		res.Forecast[i] = station_forecast.ForecastPoint{
			Month:       p.Month.Format(timeseries.MonthLayout),
			CountOfTaps: p.Value,
		}
	}
	return res
}
