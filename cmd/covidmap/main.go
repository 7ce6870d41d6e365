package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-county-map/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/covid-county-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-county-map/internal/adapter/kafka"
	"github.com/couchcryptid/covid-county-map/internal/adapter/sqlstore"
	"github.com/couchcryptid/covid-county-map/internal/config"
	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/couchcryptid/covid-county-map/internal/pipeline"
	"github.com/couchcryptid/covid-county-map/internal/view"
	"github.com/jonboulle/clockwork"
)

const title = "National COVID-19 Cases"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to open data source", "error", err)
		os.Exit(1)
	}

	assembler := pipeline.New(store, cfg.SnapshotDate, clock, logger, metrics)
	table, err := assembler.Assemble(ctx)
	// The table is immutable from here on; the connection pool is not needed.
	if cerr := store.Close(); cerr != nil {
		logger.Error("data source close error", "error", cerr)
	}
	if err != nil {
		logger.Error("failed to assemble county table", "error", err,
			"unavailable", errors.Is(err, domain.ErrDataSourceUnavailable),
			"schema_mismatch", errors.Is(err, domain.ErrSchemaMismatch),
		)
		os.Exit(1)
	}

	geo, err := geojson.NewClient(cfg.GeoJSONSource, cfg.GeoJSONTimeout, logger).Fetch(ctx)
	if err != nil {
		logger.Error("failed to load county geometry", "source", cfg.GeoJSONSource, "error", err)
		os.Exit(1)
	}

	builder := view.NewBuilder(geo, view.Options{Title: title, MapboxToken: cfg.MapboxToken}, logger, metrics)
	dashboard, err := builder.Build(table)
	if errors.Is(err, domain.ErrEmptyDataset) {
		logger.Warn("serving dashboard without data", "snapshot", cfg.SnapshotDate, "error", err)
	} else if err != nil {
		logger.Error("failed to build dashboard", "error", err)
		os.Exit(1)
	}

	if cfg.KafkaEnabled {
		publishSnapshot(ctx, cfg, clock, logger, metrics, table)
	} else {
		logger.Info("snapshot export disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, assembler, httpadapter.Content{
		Title:     title,
		Dashboard: dashboard,
		Table:     table,
		Geography: geo.Bytes(),
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// publishSnapshot exports the table once. Export failures are logged; the
// dashboard is served regardless.
func publishSnapshot(ctx context.Context, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, table *domain.Table) {
	writer := kafkaadapter.NewWriter(cfg, clock, logger, metrics)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	if err := writer.Publish(ctx, table); err != nil {
		logger.Error("snapshot export failed", "topic", cfg.KafkaTopic, "error", err)
	}
}
