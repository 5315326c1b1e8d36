package station_forecast

// ForecastPoint is the predicted count of taps for one month.
type ForecastPoint struct {
	Month       string  `json:"month"`
	CountOfTaps float64 `json:"count_of_taps"`
}
