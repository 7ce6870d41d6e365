package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const pingTimeout = 5 * time.Second

// Expected columns per relation. Extra columns are ignored.
var (
	covidColumns        = []string{"date", "county", "state", "fips", "cases", "deaths"}
	politicsColumns     = []string{"county", "state", "fips", "gop_2016", "gop_2020"}
	demographicsColumns = []string{"county", "state", "fips", "white", "college_or_higher", "ruralness", "population", "unemployment_rate"}
)

const (
	covidQuery        = `SELECT date, county, state, fips, cases, deaths FROM covid_counts WHERE date = $1`
	politicsQuery     = `SELECT county, state, fips, gop_2016, gop_2020 FROM politics`
	demographicsQuery = `SELECT county, state, fips, white, college_or_higher, ruralness, population, unemployment_rate FROM demographics`
)

// Store reads the three source relations. It implements pipeline.Source.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the database named by dsn and verifies it is reachable.
// Supported forms: postgres:// and postgresql:// URLs, libpq key=value
// strings, sqlite:// paths and file: URIs.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	driver, source, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDataSourceUnavailable, driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", domain.ErrDataSourceUnavailable, driver, err)
	}

	logger.Info("database connected", "driver", driver)
	return New(db, logger), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadRelations reads covid_counts for the snapshot date, politics and
// demographics in full. All reads share one connection, released on return.
func (s *Store) ReadRelations(ctx context.Context, snapshotDate string) (domain.Relations, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return domain.Relations{}, fmt.Errorf("%w: acquire connection: %w", domain.ErrDataSourceUnavailable, err)
	}
	defer conn.Close()

	var rel domain.Relations

	if err := probeColumns(ctx, conn, domain.RelationCovid, covidColumns); err != nil {
		return rel, err
	}
	if rel.Covid, err = readCovid(ctx, conn, snapshotDate); err != nil {
		return rel, err
	}

	if err := probeColumns(ctx, conn, domain.RelationPolitics, politicsColumns); err != nil {
		return rel, err
	}
	if rel.Politics, err = readPolitics(ctx, conn); err != nil {
		return rel, err
	}

	if err := probeColumns(ctx, conn, domain.RelationDemographics, demographicsColumns); err != nil {
		return rel, err
	}
	if rel.Demographics, err = readDemographics(ctx, conn); err != nil {
		return rel, err
	}

	s.logger.Debug("relations read",
		"covid_rows", len(rel.Covid),
		"politics_rows", len(rel.Politics),
		"demographics_rows", len(rel.Demographics),
	)
	return rel, nil
}

// probeColumns checks that relation exposes every expected column using a
// zero-row SELECT *.
func probeColumns(ctx context.Context, conn *sql.Conn, relation string, expected []string) error {
	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+relation+" WHERE 1 = 0")
	if err != nil {
		return fmt.Errorf("%w: probe %s: %w", domain.ErrSchemaMismatch, relation, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("%w: columns of %s: %w", domain.ErrSchemaMismatch, relation, err)
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[strings.ToLower(c)] = true
	}

	var missing []string
	for _, c := range expected {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is missing columns %s", domain.ErrSchemaMismatch, relation, strings.Join(missing, ", "))
	}
	return nil
}

func readCovid(ctx context.Context, conn *sql.Conn, snapshotDate string) ([]domain.CovidRow, error) {
	rows, err := conn.QueryContext(ctx, covidQuery, snapshotDate)
	if err != nil {
		return nil, queryError(domain.RelationCovid, err)
	}
	defer rows.Close()

	var out []domain.CovidRow
	for rows.Next() {
		var (
			date, county, state, fips sql.NullString
			cases, deaths             sql.NullInt64
		)
		if err := rows.Scan(&date, &county, &state, &fips, &cases, &deaths); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", domain.ErrSchemaMismatch, domain.RelationCovid, err)
		}
		out = append(out, domain.CovidRow{
			Date:   date.String,
			County: county.String,
			State:  state.String,
			FIPS:   fips.String,
			Cases:  nullInt(cases),
			Deaths: nullInt(deaths),
		})
	}
	return out, rowsError(domain.RelationCovid, rows)
}

func readPolitics(ctx context.Context, conn *sql.Conn) ([]domain.PoliticsRow, error) {
	rows, err := conn.QueryContext(ctx, politicsQuery)
	if err != nil {
		return nil, queryError(domain.RelationPolitics, err)
	}
	defer rows.Close()

	var out []domain.PoliticsRow
	for rows.Next() {
		var (
			county, state, fips sql.NullString
			gop2016, gop2020    sql.NullFloat64
		)
		if err := rows.Scan(&county, &state, &fips, &gop2016, &gop2020); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", domain.ErrSchemaMismatch, domain.RelationPolitics, err)
		}
		out = append(out, domain.PoliticsRow{
			County:  county.String,
			State:   state.String,
			FIPS:    fips.String,
			GOP2016: nullFloat(gop2016),
			GOP2020: nullFloat(gop2020),
		})
	}
	return out, rowsError(domain.RelationPolitics, rows)
}

func readDemographics(ctx context.Context, conn *sql.Conn) ([]domain.DemographicsRow, error) {
	rows, err := conn.QueryContext(ctx, demographicsQuery)
	if err != nil {
		return nil, queryError(domain.RelationDemographics, err)
	}
	defer rows.Close()

	var out []domain.DemographicsRow
	for rows.Next() {
		var (
			county, state, fips                             sql.NullString
			white, college, ruralness, population, unemploy sql.NullFloat64
		)
		if err := rows.Scan(&county, &state, &fips, &white, &college, &ruralness, &population, &unemploy); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", domain.ErrSchemaMismatch, domain.RelationDemographics, err)
		}
		out = append(out, domain.DemographicsRow{
			County:           county.String,
			State:            state.String,
			FIPS:             fips.String,
			White:            nullFloat(white),
			CollegeOrHigher:  nullFloat(college),
			Ruralness:        nullFloat(ruralness),
			Population:       nullFloat(population),
			UnemploymentRate: nullFloat(unemploy),
		})
	}
	return out, rowsError(domain.RelationDemographics, rows)
}

// queryError classifies a failed read. Context and connection failures are
// availability problems; anything else means the relation did not match the
// expected shape.
func queryError(relation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: query %s: %w", domain.ErrDataSourceUnavailable, relation, err)
	}
	return fmt.Errorf("%w: query %s: %w", domain.ErrSchemaMismatch, relation, err)
}

func rowsError(relation string, rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %w", domain.ErrDataSourceUnavailable, relation, err)
	}
	return nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// driverFor maps a DSN to a registered database/sql driver name.
func driverFor(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("%w: empty DSN", domain.ErrDataSourceUnavailable)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn, nil
	case strings.Contains(dsn, "="):
		// libpq key=value form, e.g. "dbname=covidPolitics user=analyst".
		return "postgres", dsn, nil
	default:
		return "", "", fmt.Errorf("%w: unsupported DSN %q", domain.ErrDataSourceUnavailable, dsn)
	}
}
