package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"tube-twin/dataset"
	"tube-twin/forecast"
	services "tube-twin/service"
)

const (
	LAT_QUERY_ARG     = "lat"
	LON_QUERY_ARG     = "lon"
	RADIUS_QUERY_ARG  = "radius"
	STATION_QUERY_ARG = "station"
	AT_QUERY_ARG      = "at"
	FROM_QUERY_ARG    = "from"
	TO_QUERY_ARG      = "to"
	MONTH_QUERY_ARG   = "month"

	STATION_PATH_VAR = "station"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error encoding response")
	}
}

func writeHTML(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error writing response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case forecast.IsValidation(err), errors.Is(err, forecast.ErrEmptySeries), errors.Is(err, services.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrUnknownStation):
		return http.StatusNotFound
	case errors.Is(err, forecast.ErrNoViableModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNetworkUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeDomainError logs server-side failures and reports the rest verbatim.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("Request failed")
	}
	if status == http.StatusInternalServerError {
		writeError(w, r, status, "Internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	s := vals.Get(name)
	return strconv.ParseFloat(s, 64)
}

func invalidArg(name string, err error) error {
	return fmt.Errorf("invalid argument %s: %v", name, err)
}
