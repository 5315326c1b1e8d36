package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"tube-twin/forecast"
	"tube-twin/timeseries"
	services "tube-twin/service"
	"tube-twin/util"
)

type ForecastHandler struct {
	forecastService *services.ForecastService
	timeout         time.Duration
}

// NewForecastHandler bounds every forecast request by timeout; zero leaves
// only the client's own deadline.
func NewForecastHandler(forecastService *services.ForecastService, timeout time.Duration) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
		timeout:         timeout,
	}
}

func (h *ForecastHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

// parseForecastRequest reads either ?at= or ?from=&to=. A lone from is a
// single month.
func parseForecastRequest(vals url.Values) (forecast.Request, error) {
	var req forecast.Request
	at, from, to := vals.Get(AT_QUERY_ARG), vals.Get(FROM_QUERY_ARG), vals.Get(TO_QUERY_ARG)

	switch {
	case at != "" && (from != "" || to != ""):
		return req, errors.New("use either at or from/to")
	case at != "":
		m, err := timeseries.ParseMonth(at)
		if err != nil {
			return req, invalidArg(AT_QUERY_ARG, err)
		}
		req.From = m
	case from != "":
		m, err := timeseries.ParseMonth(from)
		if err != nil {
			return req, invalidArg(FROM_QUERY_ARG, err)
		}
		req.From = m
		if to != "" {
			if req.To, err = timeseries.ParseMonth(to); err != nil {
				return req, invalidArg(TO_QUERY_ARG, err)
			}
		}
	default:
		return req, errors.New("missing target month: pass at or from/to")
	}
	return req, nil
}

// GetForecast handles GET /v1/forecast?station=..[&station=..]&at=.. or
// &from=..&to=..
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	stations := vals[STATION_QUERY_ARG]
	if len(stations) == 0 {
		writeError(w, r, http.StatusBadRequest, "Missing argument "+STATION_QUERY_ARG)
		return
	}
	req, err := parseForecastRequest(vals)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res, err := h.forecastService.ForecastMany(ctx, stations, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// GetForecastChart handles GET /v1/forecast/chart?station=..&at=.. and
// returns an HTML page.
func (h *ForecastHandler) GetForecastChart(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	station := vals.Get(STATION_QUERY_ARG)
	if station == "" {
		writeError(w, r, http.StatusBadRequest, "Missing argument "+STATION_QUERY_ARG)
		return
	}
	req, err := parseForecastRequest(vals)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	history, result, err := h.forecastService.ForecastWithHistory(ctx, station, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := util.RenderForecastChart(&buf, history, result); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeHTML(w, r, buf.Bytes())
}
