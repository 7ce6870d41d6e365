package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the three source relations if they do not exist.
// The dashboard only reads them; this is used to seed local snapshot
// databases and test fixtures.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS covid_counts (
    date   INTEGER NOT NULL,
    county TEXT,
    state  TEXT,
    fips   INTEGER,
    cases  INTEGER,
    deaths INTEGER
);

CREATE TABLE IF NOT EXISTS politics (
    county   TEXT,
    state    TEXT,
    fips     INTEGER,
    gop_2016 DOUBLE PRECISION,
    gop_2020 DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS demographics (
    county            TEXT,
    state             TEXT,
    fips              INTEGER,
    white             DOUBLE PRECISION,
    college_or_higher DOUBLE PRECISION,
    ruralness         DOUBLE PRECISION,
    population        DOUBLE PRECISION,
    unemployment_rate DOUBLE PRECISION
);
`
