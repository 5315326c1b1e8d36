package models

// Connection is a track link between two adjacent stations on a line.
type Connection struct {
	Station1 string  `json:"station1"`
	Station2 string  `json:"station2"`
	Line     string  `json:"line"`
	Time     float64 `json:"time,omitempty"`
}
