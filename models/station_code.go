package models

// StationCode maps a station name to its National Location Code.
type StationCode struct {
	Name string `json:"station"`
	NLC  int    `json:"nlc"`
}
