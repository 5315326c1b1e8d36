package services

import (
	"errors"
	"fmt"
	"time"

	"tube-twin/dataset"
	"tube-twin/models/network_insights"
	"tube-twin/network"
	"tube-twin/timeseries"
)

var (
	ErrNetworkUnavailable = errors.New("station map and connections are not loaded")
	ErrInvalidMonth       = errors.New("invalid month")
)

type NetworkService struct {
	dataset *dataset.Dataset
	network *network.Network
}

// NewNetworkService builds the station graph from the dataset. A dataset
// without map stations yields a service that reports ErrNetworkUnavailable.
func NewNetworkService(d *dataset.Dataset) (*NetworkService, error) {
	ns := &NetworkService{dataset: d}
	if len(d.Stations) == 0 {
		return ns, nil
	}
	n, err := network.New(d.Stations, d.Connections)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	ns.network = n
	return ns, nil
}

// Insights reports centrality for every station, joined with the taps
// recorded in month. An empty month selects the latest observed one.
func (ns *NetworkService) Insights(month string) (*network_insights.NetworkInsightsResponse, error) {
	if ns.network == nil {
		return nil, ErrNetworkUnavailable
	}

	var m time.Time
	if month == "" {
		m, _ = ns.dataset.LatestMonth()
	} else {
		parsed, err := timeseries.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
		}
		m = parsed
	}

	counts := ns.dataset.CountsForMonth(m)
	passengers := make(map[string]float64, len(counts))
	for _, s := range ns.dataset.Stations {
		nlc, ok := ns.dataset.NLCForStation(s)
		if !ok {
			continue
		}
		if c, ok := counts[nlc]; ok {
			passengers[s.ID] = c
		}
	}
	return ns.network.Insights(m.Format(timeseries.MonthLayout), passengers), nil
}
