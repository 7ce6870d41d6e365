package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
)

// DefaultGeoJSONURL is where the rendering surface serves county geometry.
const DefaultGeoJSONURL = "/geo/counties.json"

// Options configures figure construction.
type Options struct {
	Title       string
	GeoJSONURL  string
	MapboxToken string
}

// Dashboard is every figure built from one table. It is built once at
// startup and only read afterwards.
type Dashboard struct {
	Snapshot    string    `json:"snapshot"`
	GeneratedAt time.Time `json:"generated_at"`
	Counties    int       `json:"counties"`
	TotalCases  int64     `json:"total_cases"`
	TotalDeaths int64     `json:"total_deaths"`

	Map    MapView `json:"map"`
	Charts []Chart `json:"charts"`

	// Empty marks the "no data" state: no figures were built.
	Empty bool `json:"empty"`
}

// Chart returns the demographic chart with the given id.
func (d *Dashboard) Chart(id string) (Chart, bool) {
	for _, c := range d.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// Builder turns the county table into dashboard figures.
type Builder struct {
	geo     domain.Geography
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a Builder. A nil geo leaves every county unmapped.
func NewBuilder(geo domain.Geography, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	if opts.Title == "" {
		opts.Title = "National COVID-19 Cases"
	}
	if opts.GeoJSONURL == "" {
		opts.GeoJSONURL = DefaultGeoJSONURL
	}
	return &Builder{geo: geo, opts: opts, logger: logger, metrics: metrics}
}

// Build constructs the map view and the demographic charts. An empty table
// returns a dashboard in the no-data state together with ErrEmptyDataset.
// Counties without geometry are reported, not fatal.
func (b *Builder) Build(table *domain.Table) (*Dashboard, error) {
	d := &Dashboard{}
	if table != nil {
		d.Snapshot = table.Snapshot
		d.GeneratedAt = table.BuiltAt
	}
	if table.Empty() {
		d.Empty = true
		return d, fmt.Errorf("build dashboard for snapshot %q: %w", d.Snapshot, domain.ErrEmptyDataset)
	}

	d.Counties = table.Len()
	d.TotalCases, d.TotalDeaths = table.Totals()

	d.Map = buildMapView(table.Records, newLabeler(), b.geo, b.opts)
	d.Charts = buildDemographicCharts(table.Records)

	if n := len(d.Map.Unmapped); n > 0 {
		b.metrics.GeographyMissing.Add(float64(n))
		b.logger.Warn("counties rendered without map fill",
			"error", domain.ErrMissingGeography,
			"count", n,
			"sample", d.Map.Unmapped[:min(n, 10)],
		)
	}

	b.logger.Info("dashboard built",
		"counties", d.Counties,
		"traces", len(d.Map.Figure.Data),
		"charts", len(d.Charts),
		"unmapped", len(d.Map.Unmapped),
	)
	return d, nil
}
