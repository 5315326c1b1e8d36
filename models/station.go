package models

import "fmt"

// Station is a London Underground station as it appears on the map.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zone      string  `json:"zone"`
	NLC       int     `json:"nlc,omitempty"`
}

func (s *Station) ToString() string {
	return fmt.Sprintf("Station(id=%s, name=%s, zone=%s, lat=%f, lon=%f)",
		s.ID, s.Name, s.Zone, s.Latitude, s.Longitude)
}
