package network_insights

// NetworkInsightsResponse is returned by GET /v1/network/insights.
type NetworkInsightsResponse struct {
	Month string        `json:"month"`
	Nodes []NodeInsight `json:"nodes"`
	Edges []EdgeInsight `json:"edges"`
}

// NodeInsight holds the centrality metrics of a station.
type NodeInsight struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Zone                  string   `json:"zone"`
	Latitude              float64  `json:"latitude"`
	Longitude             float64  `json:"longitude"`
	PassengerCount        *float64 `json:"passenger_count,omitempty"`
	Degree                int      `json:"degree"`
	DegreeCentrality      float64  `json:"degree_centrality"`
	BetweennessCentrality float64  `json:"betweenness_centrality"`
}

// EdgeInsight is a link between two stations; SameZone drives its colour.
type EdgeInsight struct {
	From     string `json:"from"`
	To       string `json:"to"`
	SameZone bool   `json:"same_zone"`
	Color    string `json:"color"`
}
