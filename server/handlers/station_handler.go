package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"tube-twin/models"
	services "tube-twin/service"
)

type StationHandler struct {
	forecastService     *services.ForecastService
	stationIndexService *services.StationIndexService
}

func NewStationHandler(forecastService *services.ForecastService, stationIndexService *services.StationIndexService) *StationHandler {
	return &StationHandler{
		forecastService:     forecastService,
		stationIndexService: stationIndexService,
	}
}

// GetStations handles GET /v1/stations
func (h *StationHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.forecastService.Stations())
}

// GetStationsNearby handles GET /v1/stations/nearby?lat=&lon=&radius= with
// radius in km.
func (h *StationHandler) GetStationsNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, r, http.StatusBadRequest, "Invalid argument "+LAT_QUERY_ARG)
		return
	}
	lon, err := parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, r, http.StatusBadRequest, "Invalid argument "+LON_QUERY_ARG)
		return
	}
	radius, err := parseArgFloat64(vals, RADIUS_QUERY_ARG)
	if err != nil || radius <= 0 {
		writeError(w, r, http.StatusBadRequest, "Invalid argument "+RADIUS_QUERY_ARG)
		return
	}

	stations, err := h.stationIndexService.GetStationsNearby(lat, lon, radius)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	hlog.FromRequest(r).Debug().Int("stations", len(stations)).Msg("Nearby stations")
	writeJSON(w, r, http.StatusOK, stations)
}

// GetStationSeries handles GET /v1/stations/{station}/series
func (h *StationHandler) GetStationSeries(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)[STATION_PATH_VAR]
	series, err := h.forecastService.Series(name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, series)
}

// Ping handles GET /ping
func (h *StationHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":   "pong",
		"stations": fmt.Sprint(len(h.forecastService.Stations())),
	})
}
