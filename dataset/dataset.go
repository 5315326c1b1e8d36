// Package dataset loads the station tap counts and the network description
// once at startup and serves read-only lookups over them.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tube-twin/forecast"
	"tube-twin/models"
	"tube-twin/timeseries"
)

var (
	ErrUnknownStation  = errors.New("unknown station")
	ErrDuplicateRecord = errors.New("duplicate record")
)

// Dataset is immutable after New returns and safe for concurrent readers.
type Dataset struct {
	Counts      []models.StationCount
	Codes       []models.StationCode
	Stations    []models.Station
	Connections []models.Connection

	codesByName map[string]models.StationCode
	namesByNLC  map[int]string
	series      map[int]*timeseries.Series
}

var _ forecast.SeriesSource = (*Dataset)(nil)

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// New indexes the loaded tables. A station/month pair may appear only once in
// counts, and a station name may map to only one NLC.
func New(counts []models.StationCount, codes []models.StationCode, stations []models.Station, connections []models.Connection) (*Dataset, error) {
	d := &Dataset{
		Counts:      counts,
		Stations:    stations,
		Connections: connections,
		codesByName: make(map[string]models.StationCode, len(codes)),
		namesByNLC:  make(map[int]string, len(codes)),
		series:      make(map[int]*timeseries.Series),
	}

	for _, c := range codes {
		key := normalizeName(c.Name)
		if prev, ok := d.codesByName[key]; ok {
			if prev.NLC != c.NLC {
				return nil, fmt.Errorf("%w: station %q maps to NLC %d and %d", ErrDuplicateRecord, c.Name, prev.NLC, c.NLC)
			}
			continue
		}
		d.codesByName[key] = c
		if _, ok := d.namesByNLC[c.NLC]; !ok {
			d.namesByNLC[c.NLC] = c.Name
		}
		d.Codes = append(d.Codes, c)
	}
	sort.Slice(d.Codes, func(i, j int) bool { return d.Codes[i].Name < d.Codes[j].Name })

	type key struct {
		nlc   int
		month time.Time
	}
	seen := make(map[key]struct{}, len(counts))
	byNLC := make(map[int][]models.StationCount)
	for _, c := range counts {
		k := key{c.NLC, timeseries.StartOfMonth(c.Month)}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: NLC %d month %s", ErrDuplicateRecord, c.NLC, k.month.Format(timeseries.MonthLayout))
		}
		seen[k] = struct{}{}
		byNLC[c.NLC] = append(byNLC[c.NLC], c)
	}
	for nlc, rows := range byNLC {
		d.series[nlc] = forecast.SelectStation(rows, nlc, d.nameFor(nlc))
	}
	return d, nil
}

func (d *Dataset) nameFor(nlc int) string {
	if name, ok := d.namesByNLC[nlc]; ok {
		return name
	}
	return fmt.Sprintf("NLC %d", nlc)
}

// StationSeries returns a copy of the observed monthly series of a station.
// Stations named in the codes file without any counts yield an empty series.
func (d *Dataset) StationSeries(nlc int) (*timeseries.Series, error) {
	if s, ok := d.series[nlc]; ok {
		return s.Copy(), nil
	}
	if _, ok := d.namesByNLC[nlc]; ok {
		return &timeseries.Series{Name: d.nameFor(nlc)}, nil
	}
	return nil, fmt.Errorf("%w: NLC %d", ErrUnknownStation, nlc)
}

// Lookup resolves a station name, ignoring case and repeated spaces. A bare
// number is accepted as an NLC.
func (d *Dataset) Lookup(name string) (models.StationCode, error) {
	if c, ok := d.codesByName[normalizeName(name)]; ok {
		return c, nil
	}
	if nlc, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		if n, ok := d.namesByNLC[nlc]; ok {
			return models.StationCode{Name: n, NLC: nlc}, nil
		}
		if _, ok := d.series[nlc]; ok {
			return models.StationCode{Name: d.nameFor(nlc), NLC: nlc}, nil
		}
	}
	return models.StationCode{}, fmt.Errorf("%w: %q", ErrUnknownStation, name)
}

// StationCodes lists the station vocabulary sorted by name.
func (d *Dataset) StationCodes() []models.StationCode {
	out := make([]models.StationCode, len(d.Codes))
	copy(out, d.Codes)
	return out
}

// NLCForStation finds the NLC of a map station, by its own column when present
// and otherwise by name.
func (d *Dataset) NLCForStation(s models.Station) (int, bool) {
	if s.NLC != 0 {
		return s.NLC, true
	}
	if c, ok := d.codesByName[normalizeName(s.Name)]; ok {
		return c.NLC, true
	}
	return 0, false
}

// CountsForMonth returns the tap count of every station observed in month.
func (d *Dataset) CountsForMonth(month time.Time) map[int]float64 {
	month = timeseries.StartOfMonth(month)
	out := make(map[int]float64)
	for _, c := range d.Counts {
		if timeseries.StartOfMonth(c.Month).Equal(month) {
			out[c.NLC] = c.Count
		}
	}
	return out
}

// LatestMonth is the most recent month present in counts.
func (d *Dataset) LatestMonth() (time.Time, bool) {
	var latest time.Time
	for _, c := range d.Counts {
		if c.Month.After(latest) {
			latest = c.Month
		}
	}
	return timeseries.StartOfMonth(latest), !latest.IsZero()
}
