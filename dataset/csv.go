package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"tube-twin/models"
	"tube-twin/timeseries"
)

// Column names of the published files.
const (
	COLUMN_MONTH_YEAR    = "Month-Year"
	COLUMN_NLC           = "NLC"
	COLUMN_COUNT_OF_TAPS = "Count of Taps"
	COLUMN_STATION       = "Station"

	COLUMN_ID        = "id"
	COLUMN_LATITUDE  = "latitude"
	COLUMN_LONGITUDE = "longitude"
	COLUMN_NAME      = "name"
	COLUMN_ZONE      = "zone"

	COLUMN_STATION1 = "station1"
	COLUMN_STATION2 = "station2"
	COLUMN_LINE     = "line"
	COLUMN_TIME     = "time"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRecord = errors.New("invalid record")
)

// header maps column names to their index in a record.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	names, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	h := make(header, len(names))
	for i, name := range names {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	return h, nil
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// eachRecord calls fn for every data row; line numbers are 1-based and count
// the header.
func eachRecord(r *csv.Reader, fn func(line int, record []string) error) error {
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if err := fn(line, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

// parseNLC accepts integral codes written as floats ("500.0").
func parseNLC(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: NLC %q", ErrInvalidRecord, s)
	}
	return int(f), nil
}

func parseFloat(column, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidRecord, column, s)
	}
	return f, nil
}

// ParseCounts reads monthly tap counts per station.
func ParseCounts(r io.Reader) ([]models.StationCount, error) {
	cr := newReader(r)
	h, err := readHeader(cr, COLUMN_MONTH_YEAR, COLUMN_NLC, COLUMN_COUNT_OF_TAPS)
	if err != nil {
		return nil, err
	}

	var rows []models.StationCount
	err = eachRecord(cr, func(_ int, record []string) error {
		month, err := timeseries.ParseMonth(h.get(record, COLUMN_MONTH_YEAR))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		nlc, err := parseNLC(h.get(record, COLUMN_NLC))
		if err != nil {
			return err
		}
		count, err := parseFloat(COLUMN_COUNT_OF_TAPS, h.get(record, COLUMN_COUNT_OF_TAPS))
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("%w: negative count %v", ErrInvalidRecord, count)
		}
		rows = append(rows, models.StationCount{NLC: nlc, Month: month, Count: count})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseStationCodes reads the station name to NLC mapping.
func ParseStationCodes(r io.Reader) ([]models.StationCode, error) {
	cr := newReader(r)
	h, err := readHeader(cr, COLUMN_STATION, COLUMN_NLC)
	if err != nil {
		return nil, err
	}

	var codes []models.StationCode
	err = eachRecord(cr, func(_ int, record []string) error {
		name := h.get(record, COLUMN_STATION)
		if name == "" {
			return fmt.Errorf("%w: empty station name", ErrInvalidRecord)
		}
		nlc, err := parseNLC(h.get(record, COLUMN_NLC))
		if err != nil {
			return err
		}
		codes = append(codes, models.StationCode{Name: name, NLC: nlc})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ParseStations reads station coordinates and fare zones. The NLC column is
// optional.
func ParseStations(r io.Reader) ([]models.Station, error) {
	cr := newReader(r)
	h, err := readHeader(cr, COLUMN_ID, COLUMN_LATITUDE, COLUMN_LONGITUDE, COLUMN_NAME, COLUMN_ZONE)
	if err != nil {
		return nil, err
	}

	var stations []models.Station
	err = eachRecord(cr, func(_ int, record []string) error {
		lat, err := parseFloat(COLUMN_LATITUDE, h.get(record, COLUMN_LATITUDE))
		if err != nil {
			return err
		}
		lon, err := parseFloat(COLUMN_LONGITUDE, h.get(record, COLUMN_LONGITUDE))
		if err != nil {
			return err
		}
		s := models.Station{
			ID:        h.get(record, COLUMN_ID),
			Name:      h.get(record, COLUMN_NAME),
			Latitude:  lat,
			Longitude: lon,
			Zone:      h.get(record, COLUMN_ZONE),
		}
		if s.ID == "" {
			return fmt.Errorf("%w: empty station id", ErrInvalidRecord)
		}
		if raw := h.get(record, COLUMN_NLC); raw != "" {
			if s.NLC, err = parseNLC(raw); err != nil {
				return err
			}
		}
		stations = append(stations, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

// ParseConnections reads the track links between stations.
func ParseConnections(r io.Reader) ([]models.Connection, error) {
	cr := newReader(r)
	h, err := readHeader(cr, COLUMN_STATION1, COLUMN_STATION2, COLUMN_LINE)
	if err != nil {
		return nil, err
	}

	var connections []models.Connection
	err = eachRecord(cr, func(_ int, record []string) error {
		c := models.Connection{
			Station1: h.get(record, COLUMN_STATION1),
			Station2: h.get(record, COLUMN_STATION2),
			Line:     h.get(record, COLUMN_LINE),
		}
		if c.Station1 == "" || c.Station2 == "" {
			return fmt.Errorf("%w: connection needs two stations", ErrInvalidRecord)
		}
		if raw := h.get(record, COLUMN_TIME); raw != "" {
			t, err := parseFloat(COLUMN_TIME, raw)
			if err != nil {
				return err
			}
			c.Time = t
		}
		connections = append(connections, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connections, nil
}
