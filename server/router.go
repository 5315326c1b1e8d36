package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type StationRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	GetStations(w http.ResponseWriter, r *http.Request)
	GetStationsNearby(w http.ResponseWriter, r *http.Request)
	GetStationSeries(w http.ResponseWriter, r *http.Request)
}

type ForecastRoutes interface {
	GetForecast(w http.ResponseWriter, r *http.Request)
	GetForecastChart(w http.ResponseWriter, r *http.Request)
}

type NetworkRoutes interface {
	GetNetworkInsights(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	stationHandler  StationRoutes
	forecastHandler ForecastRoutes
	networkHandler  NetworkRoutes
	router          *mux.Router
	logger          zerolog.Logger
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	stationHandler StationRoutes,
	forecastHandler ForecastRoutes,
	networkHandler NetworkRoutes,
	router *mux.Router,
	logger zerolog.Logger) *Router {
	return &Router{
		stationHandler:  stationHandler,
		forecastHandler: forecastHandler,
		networkHandler:  networkHandler,
		router:          router,
		logger:          logger,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		hlog.NewHandler(r.logger),
		requestIDLogger,
		hlog.AccessHandler(accessLog),
		middleware.Recoverer,
	)

	r.router.HandleFunc("/ping", r.stationHandler.Ping).Methods("GET")

	r.router.HandleFunc("/v1/stations", r.stationHandler.GetStations).Methods("GET")
	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={km(float)}
	r.router.HandleFunc("/v1/stations/nearby", r.stationHandler.GetStationsNearby).Methods("GET")
	r.router.HandleFunc("/v1/stations/{station}/series", r.stationHandler.GetStationSeries).Methods("GET")

	// expects ?station={name}[&station=...]&at={YYYY-MM} or &from={YYYY-MM}&to={YYYY-MM}
	r.router.HandleFunc("/v1/forecast", r.forecastHandler.GetForecast).Methods("GET")
	r.router.HandleFunc("/v1/forecast/chart", r.forecastHandler.GetForecastChart).Methods("GET")

	r.router.HandleFunc("/v1/network/insights", r.networkHandler.GetNetworkInsights).Methods("GET")
}

// requestIDLogger tags the request logger with the id set by middleware.RequestID.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			log := zerolog.Ctx(r.Context())
			log.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("[Router] Request served")
}
