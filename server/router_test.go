package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// MockHandler answers every route with its own name.
type MockHandler struct{}

func reply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func (h *MockHandler) Ping(w http.ResponseWriter, r *http.Request) { reply("pong")(w, r) }
func (h *MockHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	reply("stations")(w, r)
}
func (h *MockHandler) GetStationsNearby(w http.ResponseWriter, r *http.Request) {
	reply("nearby")(w, r)
}
func (h *MockHandler) GetStationSeries(w http.ResponseWriter, r *http.Request) {
	reply("series:" + mux.Vars(r)["station"])(w, r)
}
func (h *MockHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	reply("forecast")(w, r)
}
func (h *MockHandler) GetForecastChart(w http.ResponseWriter, r *http.Request) {
	reply("chart")(w, r)
}
func (h *MockHandler) GetNetworkInsights(w http.ResponseWriter, r *http.Request) {
	reply("insights")(w, r)
}

func TestRouter_RegisterRoutes(t *testing.T) {
	// Setup
	mock := &MockHandler{}
	var logs bytes.Buffer
	router := mux.NewRouter()
	appRouter := NewRouter(mock, mock, mock, router, zerolog.New(&logs))
	appRouter.RegisterRoutes()

	// Test Cases
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		response   string
	}{
		{"Ping Route", "GET", "/ping", http.StatusOK, "pong"},
		{"Stations", "GET", "/v1/stations", http.StatusOK, "stations"},
		{"Stations Nearby", "GET", "/v1/stations/nearby?lat=51.5&lon=-0.1&radius=1", http.StatusOK, "nearby"},
		{"Station Series", "GET", "/v1/stations/Green%20Park/series", http.StatusOK, "series:Green Park"},
		{"Forecast", "GET", "/v1/forecast?station=Bank&at=2022-03", http.StatusOK, "forecast"},
		{"Forecast Chart", "GET", "/v1/forecast/chart?station=Bank&at=2022-03", http.StatusOK, "chart"},
		{"Network Insights", "GET", "/v1/network/insights", http.StatusOK, "insights"},
		{"Wrong Method", "POST", "/v1/forecast", http.StatusMethodNotAllowed, ""},
		{"Invalid Route", "GET", "/invalid", http.StatusNotFound, ""},
	}

	// Run tests
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			// Assert status code
			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}

			// Assert response body, if applicable
			if test.response != "" && rr.Body.String() != test.response {
				t.Errorf("Expected response %s, got %s", test.response, rr.Body.String())
			}
		})
	}

	assert.Contains(t, logs.String(), `"req_id"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

type panickingHandler struct{ MockHandler }

func (h *panickingHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	panic("boom")
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	router := mux.NewRouter()
	NewRouter(&MockHandler{}, &panickingHandler{}, &MockHandler{}, router, zerolog.Nop()).RegisterRoutes()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/forecast", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
