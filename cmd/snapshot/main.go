// Command snapshot assembles the county table from a relational store and
// writes it as an indented JSON fixture, the same table the dashboard serves.
//
// Usage:
//
//	go run ./cmd/snapshot \
//	  -dsn postgres://localhost/covidPolitics?sslmode=disable \
//	  -date 11 \
//	  -out data/snapshot/counties_11.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/adapter/sqlstore"
	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/couchcryptid/covid-county-map/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "data source (postgres:// or sqlite:// URL); defaults to $DATABASE_URL")
	date := flag.String("date", "11", "covid_counts snapshot date")
	out := flag.String("out", "", "output path for the JSON fixture")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline for reading the store")
	flag.Parse()

	if *dsn == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -dsn, -out")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := sqlstore.Open(ctx, *dsn, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	assembler := pipeline.New(store, *date, clockwork.NewRealClock(), logger, observability.NewUnregisteredMetrics())
	table, err := assembler.Assemble(ctx)
	if err != nil {
		return fmt.Errorf("assembling snapshot %s: %w", *date, err)
	}

	if err := writeJSON(*out, table); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d counties to %s", table.Len(), *out)

	printStats(table)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats reports totals and per-metric null coverage.
func printStats(table *domain.Table) {
	cases, deaths := table.Totals()
	fmt.Printf("\nSnapshot %s: %d counties, %d cases, %d deaths\n", table.Snapshot, table.Len(), cases, deaths)

	fmt.Println("\nMetric coverage:")
	for _, m := range domain.Metrics {
		present := 0
		for i := range table.Records {
			if m.Value(&table.Records[i]) != nil {
				present++
			}
		}
		fmt.Printf("  %-8s %6d / %d\n", m, present, table.Len())
	}

	fmt.Println("\nTop counties by cases:")
	for i, r := range domain.Rank(table.Records, domain.MetricCases, 5) {
		fmt.Printf("  %d. %s (%s, %s): %.0f\n", i+1, r.Record.FIPS, r.Record.County, r.Record.State, r.Value)
	}
}
