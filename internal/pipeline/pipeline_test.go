package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/couchcryptid/covid-county-map/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	rel   domain.Relations
	err   error
	calls int
	date  string
}

func (m *mockSource) ReadRelations(_ context.Context, snapshotDate string) (domain.Relations, error) {
	m.calls++
	m.date = snapshotDate
	return m.rel, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

var builtAt = time.Date(2020, time.November, 22, 12, 0, 0, 0, time.UTC)

func fixture() domain.Relations {
	return domain.Relations{
		Covid: []domain.CovidRow{
			{FIPS: "1001", Cases: i64(50), Deaths: i64(1)},
			{FIPS: "1003", Cases: i64(200), Deaths: i64(3)},
			{FIPS: "1005", Cases: i64(10), Deaths: i64(0)},
			{FIPS: "80001", Cases: i64(5)},
			{FIPS: "n/a", Cases: i64(1)},
		},
		Politics: []domain.PoliticsRow{
			{FIPS: "1001", GOP2016: f64(0.7), GOP2020: f64(0.6)},
			{FIPS: "1005", GOP2016: f64(0.5), GOP2020: f64(0.4)},
		},
		Demographics: []domain.DemographicsRow{
			{County: "Autauga", State: "Alabama", FIPS: "1001"},
			{County: "Baldwin", State: "Alabama", FIPS: "1003"},
			{County: "Barbour", State: "Alabama", FIPS: "1005"},
			{County: "Nowhere", State: "Alabama", FIPS: "1999"},
		},
	}
}

func newAssembler(src pipeline.Source, metrics *observability.Metrics) *pipeline.Assembler {
	return pipeline.New(src, "11", clockwork.NewFakeClockAt(builtAt), discardLogger(), metrics)
}

// --- tests ---

func TestAssembler_Assemble(t *testing.T) {
	src := &mockSource{rel: fixture()}
	metrics := observability.NewMetricsForTesting()
	a := newAssembler(src, metrics)

	require.Error(t, a.CheckReadiness(context.Background()))

	table, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "11", src.date)
	assert.Equal(t, "11", table.Snapshot)
	assert.Equal(t, builtAt, table.BuiltAt)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"01001", "01003", "01005", "01999"}, []string{
		table.Records[0].FIPS, table.Records[1].FIPS, table.Records[2].FIPS, table.Records[3].FIPS,
	})
	assert.Nil(t, table.Records[3].Cases)

	require.NoError(t, a.CheckReadiness(context.Background()))

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.CountiesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CountiesUnmatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DatasetReady))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.RelationRows.WithLabelValues(domain.RelationCovid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsSkipped.WithLabelValues(domain.RelationCovid, domain.ReasonTerritory)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsSkipped.WithLabelValues(domain.RelationCovid, domain.ReasonInvalidFIPS)))
}

func TestAssembler_SourceErrorPropagates(t *testing.T) {
	cases := []error{
		fmt.Errorf("%w: ping postgres: connection refused", domain.ErrDataSourceUnavailable),
		fmt.Errorf("%w: politics is missing columns gop_2020", domain.ErrSchemaMismatch),
	}
	for _, srcErr := range cases {
		t.Run(srcErr.Error(), func(t *testing.T) {
			metrics := observability.NewMetricsForTesting()
			a := newAssembler(&mockSource{err: srcErr}, metrics)

			table, err := a.Assemble(context.Background())
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, srcErr))
			assert.Error(t, a.CheckReadiness(context.Background()))
			assert.Equal(t, 0.0, testutil.ToFloat64(metrics.DatasetReady))
		})
	}
}

func TestAssembler_EmptyDemographics(t *testing.T) {
	rel := fixture()
	rel.Demographics = nil
	a := newAssembler(&mockSource{rel: rel}, observability.NewMetricsForTesting())

	table, err := a.Assemble(context.Background())
	require.NoError(t, err)
	assert.True(t, table.Empty())
	assert.NoError(t, a.CheckReadiness(context.Background()))
}

func TestAssembler_Idempotent(t *testing.T) {
	src := &mockSource{rel: fixture()}
	a := newAssembler(src, observability.NewMetricsForTesting())

	first, err := a.Assemble(context.Background())
	require.NoError(t, err)
	second, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second assembly differs (-first +second):\n%s", diff)
	}

	a1, err := json.Marshal(first)
	require.NoError(t, err)
	a2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a1, a2, "serialized tables must be byte-identical")
}
