package models

import "time"

// StationCount is the number of taps recorded at a station in one month.
type StationCount struct {
	NLC   int       `json:"nlc"`
	Month time.Time `json:"month"`
	Count float64   `json:"count_of_taps"`
}
