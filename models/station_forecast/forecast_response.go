package station_forecast

// StationForecastResponse is returned by GET /v1/forecast for each station.
type StationForecastResponse struct {
	RequestID    string          `json:"request_id"`
	Station      string          `json:"station"`
	NLC          int             `json:"nlc"`
	LastObserved string          `json:"last_observed"`
	StartOffset  int             `json:"start_offset"`
	EndOffset    int             `json:"end_offset"`
	Model        ModelSummary    `json:"model"`
	Forecast     []ForecastPoint `json:"forecast"`
}
