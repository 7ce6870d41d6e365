package view

import (
	"io"
	"log/slog"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
)

type fakeGeography map[string]bool

func (g fakeGeography) Has(fips string) bool { return g[fips] }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func testBuilder(geo domain.Geography) (*Builder, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return NewBuilder(geo, Options{}, discardLogger(), metrics), metrics
}

// scenarioTable is A(1001, 50 cases, 0.6), B(1003, 200 cases, null gop2020),
// C(1005, 10 cases, 0.4).
func scenarioTable() *domain.Table {
	return &domain.Table{
		Snapshot: "11",
		Records: []domain.CountyRecord{
			{FIPS: "01001", County: "autauga", State: "Alabama", Cases: i64(50), Deaths: i64(2), GOP2016: f64(0.7), GOP2020: f64(0.6), Population: f64(55869), White: f64(0.75), CollegeOrHigher: f64(0.26), Ruralness: f64(2), UnemploymentRate: f64(0.027)},
			{FIPS: "01003", County: "BALDWIN", State: "Alabama", Cases: i64(200), Deaths: i64(5), GOP2016: f64(0.76), Population: f64(223234), White: f64(0.83), Ruralness: f64(3), UnemploymentRate: f64(0.027)},
			{FIPS: "01005", County: "barbour", State: "Alabama", Cases: i64(10), GOP2016: f64(0.52), GOP2020: f64(0.4), Population: f64(24686), White: f64(0.45), CollegeOrHigher: f64(0.11), Ruralness: f64(6)},
		},
	}
}

func allMapped(table *domain.Table) fakeGeography {
	geo := fakeGeography{}
	for _, r := range table.Records {
		geo[r.FIPS] = true
	}
	return geo
}
