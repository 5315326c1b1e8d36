package station_forecast

// SeriesResponse is the observed monthly series of a station.
type SeriesResponse struct {
	Station string          `json:"station"`
	NLC     int             `json:"nlc"`
	Points  []ForecastPoint `json:"points"`
}
