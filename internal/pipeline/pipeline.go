package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Source reads the three source relations for a snapshot date.
type Source interface {
	ReadRelations(ctx context.Context, snapshotDate string) (domain.Relations, error)
}

// Assembler reads the source relations once and joins them into the county table.
type Assembler struct {
	source       Source
	snapshotDate string
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates an Assembler for one snapshot date.
func New(source Source, snapshotDate string, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Assembler {
	return &Assembler{
		source:       source,
		snapshotDate: snapshotDate,
		clock:        clock,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once the county table has been assembled.
func (a *Assembler) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("county table has not been assembled yet")
	}
	return nil
}

// Assemble reads the relations and joins them. The returned table is never
// mutated afterwards. Errors from the source are returned unchanged so
// callers can classify them with errors.Is.
func (a *Assembler) Assemble(ctx context.Context) (*domain.Table, error) {
	start := a.clock.Now()
	a.logger.Info("assembling county table", "snapshot", a.snapshotDate)

	rel, err := a.source.ReadRelations(ctx, a.snapshotDate)
	if err != nil {
		return nil, err
	}

	records, report := domain.Assemble(rel)
	a.record(report)

	table := &domain.Table{
		Snapshot: a.snapshotDate,
		BuiltAt:  a.clock.Now(),
		Records:  records,
	}

	a.metrics.CountiesTotal.Set(float64(table.Len()))
	a.metrics.AssemblyDuration.Observe(a.clock.Since(start).Seconds())
	a.metrics.DatasetReady.Set(1)
	a.ready.Store(true)

	if table.Empty() {
		a.logger.Warn("county table is empty", "snapshot", a.snapshotDate)
	}
	a.logger.Info("county table assembled",
		"counties", table.Len(),
		"unmatched", report.Unmatched,
		"skipped", len(report.Skipped),
		"duration", a.clock.Since(start),
	)
	return table, nil
}

// record publishes row counts and logs rows that did not take part in the join.
func (a *Assembler) record(report domain.JoinReport) {
	a.metrics.RelationRows.WithLabelValues(domain.RelationCovid).Set(float64(report.CovidRows))
	a.metrics.RelationRows.WithLabelValues(domain.RelationPolitics).Set(float64(report.PoliticsRows))
	a.metrics.RelationRows.WithLabelValues(domain.RelationDemographics).Set(float64(report.DemographicsRows))
	a.metrics.CountiesUnmatched.Set(float64(report.Unmatched))

	territories := 0
	for _, s := range report.Skipped {
		a.metrics.RowsSkipped.WithLabelValues(s.Relation, s.Reason).Inc()
		if s.Reason == domain.ReasonTerritory {
			territories++
			continue
		}
		a.logger.Warn("row skipped, fips cannot be keyed",
			"relation", s.Relation,
			"fips", s.FIPS,
			"error", s.Err,
		)
	}
	if territories > 0 {
		a.logger.Info("territory codes excluded from covid relation", "rows", territories)
	}
}
