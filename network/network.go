// Package network models the Underground as an undirected station graph and
// computes per-station centrality.
package network

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/graph/simple"
	gonetwork "gonum.org/v1/gonum/graph/network"

	"tube-twin/models"
	"tube-twin/models/network_insights"
)

const (
	SAME_ZONE_COLOR  = "green"
	CROSS_ZONE_COLOR = "red"
)

var (
	ErrUnknownStation = errors.New("connection references unknown station")
	ErrEmptyNetwork   = errors.New("no stations loaded")
)

type link struct {
	from, to int64
}

// Network is built once and read concurrently.
type Network struct {
	graph    *simple.UndirectedGraph
	stations []models.Station
	ids      map[string]int64
	links    []link

	degree      map[int64]int
	betweenness map[int64]float64
}

// New builds the graph. Parallel links on different lines collapse into one
// edge and self links are ignored.
func New(stations []models.Station, connections []models.Connection) (*Network, error) {
	if len(stations) == 0 {
		return nil, ErrEmptyNetwork
	}

	n := &Network{
		graph:    simple.NewUndirectedGraph(),
		stations: stations,
		ids:      make(map[string]int64, len(stations)),
	}
	for i, s := range stations {
		if _, dup := n.ids[s.ID]; dup {
			return nil, fmt.Errorf("duplicate station id %q", s.ID)
		}
		n.ids[s.ID] = int64(i)
		n.graph.AddNode(simple.Node(i))
	}

	for _, c := range connections {
		from, ok := n.ids[c.Station1]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStation, c.Station1)
		}
		to, ok := n.ids[c.Station2]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStation, c.Station2)
		}
		if from == to || n.graph.HasEdgeBetween(from, to) {
			continue
		}
		n.graph.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		n.links = append(n.links, link{from: from, to: to})
	}

	n.degree = make(map[int64]int, len(stations))
	for id := range stations {
		n.degree[int64(id)] = n.graph.From(int64(id)).Len()
	}
	n.betweenness = gonetwork.Betweenness(n.graph)

	log.Info().Int("stations", len(stations)).Int("edges", len(n.links)).Msg("[Network] Graph built")
	return n, nil
}

func (n *Network) Len() int {
	return len(n.stations)
}

// Degree is the number of distinct neighbours of a station.
func (n *Network) Degree(stationID string) (int, bool) {
	id, ok := n.ids[stationID]
	if !ok {
		return 0, false
	}
	return n.degree[id], true
}

// DegreeCentrality is the degree divided by the largest possible degree.
func (n *Network) DegreeCentrality(stationID string) float64 {
	d, ok := n.Degree(stationID)
	if !ok || len(n.stations) < 2 {
		return 0
	}
	return float64(d) / float64(len(n.stations)-1)
}

// BetweennessCentrality is the share of shortest paths between other station
// pairs that pass through the station, scaled to [0, 1].
func (n *Network) BetweennessCentrality(stationID string) float64 {
	id, ok := n.ids[stationID]
	if !ok || len(n.stations) < 3 {
		return 0
	}
	// ordered pairs are counted, so both directions of each path contribute
	k := float64(len(n.stations)-1) * float64(len(n.stations)-2)
	return n.betweenness[id] / k
}

// Insights reports every station and edge. passengers maps station IDs to the
// taps recorded in month; stations missing from it carry no count.
func (n *Network) Insights(month string, passengers map[string]float64) *network_insights.NetworkInsightsResponse {
	res := &network_insights.NetworkInsightsResponse{
		Month: month,
		Nodes: make([]network_insights.NodeInsight, 0, len(n.stations)),
		Edges: make([]network_insights.EdgeInsight, 0, len(n.links)),
	}

	for _, s := range n.stations {
		node := network_insights.NodeInsight{
			ID:                    s.ID,
			Name:                  s.Name,
			Zone:                  s.Zone,
			Latitude:              s.Latitude,
			Longitude:             s.Longitude,
			DegreeCentrality:      n.DegreeCentrality(s.ID),
			BetweennessCentrality: n.BetweennessCentrality(s.ID),
		}
		node.Degree, _ = n.Degree(s.ID)
		if count, ok := passengers[s.ID]; ok {
			c := count
			node.PassengerCount = &c
		}
		res.Nodes = append(res.Nodes, node)
	}

	for _, l := range n.links {
		from, to := n.stations[l.from], n.stations[l.to]
		edge := network_insights.EdgeInsight{
			From:     from.ID,
			To:       to.ID,
			SameZone: from.Zone == to.Zone,
			Color:    CROSS_ZONE_COLOR,
		}
		if edge.SameZone {
			edge.Color = SAME_ZONE_COLOR
		}
		res.Edges = append(res.Edges, edge)
	}

	sort.SliceStable(res.Nodes, func(i, j int) bool {
		return res.Nodes[i].BetweennessCentrality > res.Nodes[j].BetweennessCentrality
	})
	return res
}
