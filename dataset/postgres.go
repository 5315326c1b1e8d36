package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"tube-twin/models"
	"tube-twin/timeseries"
)

const DEFAULT_COUNTS_TABLE = "station_counts"

// PostgresCountsSource reads monthly tap counts from a table with columns
// month_year, nlc and count_of_taps.
type PostgresCountsSource struct {
	db    *sql.DB
	table string
}

// IsPostgresDSN reports whether a counts location names a database.
func IsPostgresDSN(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

func NewPostgresCountsSource(dsn, table string) (*PostgresCountsSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return NewPostgresCountsSourceFromDB(db, table), nil
}

// NewPostgresCountsSourceFromDB wraps an existing connection pool.
func NewPostgresCountsSourceFromDB(db *sql.DB, table string) *PostgresCountsSource {
	if table == "" {
		table = DEFAULT_COUNTS_TABLE
	}
	return &PostgresCountsSource{db: db, table: table}
}

func (p *PostgresCountsSource) query() string {
	return fmt.Sprintf(
		"SELECT month_year, nlc, count_of_taps FROM %s ORDER BY nlc, month_year",
		pq.QuoteIdentifier(p.table),
	)
}

// LoadCounts returns every row of the counts table. month_year is stored as
// text in any layout timeseries.ParseMonth accepts.
func (p *PostgresCountsSource) LoadCounts(ctx context.Context) ([]models.StationCount, error) {
	rows, err := p.db.QueryContext(ctx, p.query())
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", p.table, err)
	}
	defer rows.Close()

	var counts []models.StationCount
	for rows.Next() {
		var (
			monthYear string
			nlc       int
			count     float64
		)
		if err := rows.Scan(&monthYear, &nlc, &count); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p.table, err)
		}
		month, err := timeseries.ParseMonth(monthYear)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: negative count %v for NLC %d", ErrInvalidRecord, count, nlc)
		}
		counts = append(counts, models.StationCount{NLC: nlc, Month: month, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Info().Str("table", p.table).Int("rows", len(counts)).Msg("[PostgresCountsSource] Loaded counts")
	return counts, nil
}

func (p *PostgresCountsSource) Close() error {
	return p.db.Close()
}
