package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"tube-twin/models"
)

// Locations names where each table is read from. Stations and Connections are
// optional; without them the network endpoints have nothing to serve.
type Locations struct {
	Counts       string
	StationCodes string
	Stations     string
	Connections  string
	// CountsTable is used when Counts is a postgres DSN.
	CountsTable string
}

// CountsSource yields the raw monthly tap counts.
type CountsSource interface {
	LoadCounts(ctx context.Context) ([]models.StationCount, error)
}

type Loader struct {
	opener    *Opener
	locations Locations
	counts    CountsSource
}

func NewLoader(opener *Opener, locations Locations) *Loader {
	return &Loader{opener: opener, locations: locations}
}

// WithCountsSource overrides where counts come from.
func (l *Loader) WithCountsSource(src CountsSource) *Loader {
	l.counts = src
	return l
}

// Load reads every configured table and indexes them.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	counts, err := l.loadCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading counts: %w", err)
	}

	var codes []models.StationCode
	if err := l.read(ctx, l.locations.StationCodes, func(r io.Reader) (err error) {
		codes, err = ParseStationCodes(r)
		return err
	}); err != nil {
		return nil, fmt.Errorf("loading station codes: %w", err)
	}

	var stations []models.Station
	if l.locations.Stations != "" {
		if err := l.read(ctx, l.locations.Stations, func(r io.Reader) (err error) {
			stations, err = ParseStations(r)
			return err
		}); err != nil {
			return nil, fmt.Errorf("loading stations: %w", err)
		}
	}

	var connections []models.Connection
	if l.locations.Connections != "" {
		if err := l.read(ctx, l.locations.Connections, func(r io.Reader) (err error) {
			connections, err = ParseConnections(r)
			return err
		}); err != nil {
			return nil, fmt.Errorf("loading connections: %w", err)
		}
	}

	d, err := New(counts, codes, stations, connections)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("counts", len(d.Counts)).
		Int("stations_with_counts", len(d.series)).
		Int("codes", len(d.Codes)).
		Int("map_stations", len(d.Stations)).
		Int("connections", len(d.Connections)).
		Msg("[DatasetLoader] Dataset loaded")
	return d, nil
}

func (l *Loader) loadCounts(ctx context.Context) ([]models.StationCount, error) {
	if l.counts != nil {
		return l.counts.LoadCounts(ctx)
	}
	if IsPostgresDSN(l.locations.Counts) {
		src, err := NewPostgresCountsSource(l.locations.Counts, l.locations.CountsTable)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.LoadCounts(ctx)
	}

	var counts []models.StationCount
	err := l.read(ctx, l.locations.Counts, func(r io.Reader) (err error) {
		counts, err = ParseCounts(r)
		return err
	})
	return counts, err
}

func (l *Loader) read(ctx context.Context, location string, parse func(io.Reader) error) error {
	rc, err := l.opener.Open(ctx, location)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := parse(rc); err != nil {
		return fmt.Errorf("%s: %w", location, err)
	}
	return nil
}
