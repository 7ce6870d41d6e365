package view

import (
	"slices"

	"github.com/couchcryptid/covid-county-map/internal/domain"
)

const (
	mapSubplot = "mapbox"
	barXAxis   = "x2"
	barYAxis   = "y2"

	backgroundColor = "rgb(227, 235, 240)"
	barFill         = "rgba(77, 153, 219, 0.5)"
	barOutline      = "rgba(77, 153, 219, 0.7)"
)

// continental US
var mapCenter = LatLon{Lat: 37.0902, Lon: -95.7129}

// MapView is the linked choropleth + top-10 bar figure. Every metric's layer
// pair is built eagerly; switching metrics only flips visibility.
type MapView struct {
	Metrics  []domain.Metric `json:"-"`
	Figure   Figure          `json:"figure"`
	Selector Selector        `json:"-"`
	// Unmapped lists counties with no boundary polygon. They are left out of
	// the choropleth locations but still take part in the ranking.
	Unmapped []string `json:"unmapped"`
}

// FigureFor returns the figure with sel's layer pair visible. The receiver is
// not modified; trace values are shared read-only.
func (v MapView) FigureFor(sel Selector) Figure {
	fig := v.Figure
	fig.Data = slices.Clone(v.Figure.Data)
	for i, visible := range sel.Visibility() {
		if i < len(fig.Data) {
			fig.Data[i].Visible = ptr(visible)
		}
	}
	if len(fig.Layout.UpdateMenus) > 0 {
		fig.Layout.UpdateMenus = slices.Clone(fig.Layout.UpdateMenus)
		fig.Layout.UpdateMenus[0].Active = sel.Selected()
	}
	return fig
}

// VisibleMetric returns the metric whose layer pair is visible in fig, by
// reading the trace flags back.
func (v MapView) VisibleMetric(fig Figure) (domain.Metric, bool) {
	for i, m := range v.Metrics {
		if 2*i+1 >= len(fig.Data) {
			break
		}
		if isVisible(fig.Data[2*i]) && isVisible(fig.Data[2*i+1]) {
			return m, true
		}
	}
	return 0, false
}

func isVisible(t Trace) bool { return t.Visible != nil && *t.Visible }

// mapLocations splits the table into mapped indexes and unmapped FIPS keys.
func mapLocations(records []domain.CountyRecord, geo domain.Geography) (mapped []int, unmapped []string) {
	for i := range records {
		if geo != nil && geo.Has(records[i].FIPS) {
			mapped = append(mapped, i)
			continue
		}
		unmapped = append(unmapped, records[i].FIPS)
	}
	return mapped, unmapped
}

func buildMapView(records []domain.CountyRecord, label labelFunc, geo domain.Geography, opts Options) MapView {
	mapped, unmapped := mapLocations(records, geo)

	locations := make([]string, len(mapped))
	text := make([]string, len(mapped))
	for j, i := range mapped {
		locations[j] = records[i].FIPS
		text[j] = label(&records[i])
	}

	sel := NewSelector(len(domain.Metrics))
	data := make([]Trace, 0, 2*len(domain.Metrics))
	buttons := make([]Button, 0, len(domain.Metrics))
	for i, m := range domain.Metrics {
		z := make([]*float64, len(mapped))
		for j, idx := range mapped {
			z[j] = m.Value(&records[idx])
		}
		data = append(data,
			choroplethTrace(m, locations, z, text, opts.GeoJSONURL),
			rankedBarTrace(m, records, label),
		)
		buttons = append(buttons, Button{
			Label:  m.Label() + ":",
			Method: "restyle",
			Args:   []any{"visible", visibilityFor(i, len(domain.Metrics))},
		})
	}

	view := MapView{
		Metrics:  slices.Clone(domain.Metrics),
		Selector: sel,
		Unmapped: unmapped,
		Figure: Figure{
			Data:   data,
			Layout: mapLayout(opts, buttons),
		},
	}
	view.Figure = view.FigureFor(sel)
	return view
}

func choroplethTrace(m domain.Metric, locations []string, z []*float64, text []string, geojsonURL string) Trace {
	scale, zmin, zmax := scaleFor(m)
	return Trace{
		Type:          "choroplethmapbox",
		Name:          m.String(),
		GeoJSON:       geojsonURL,
		Locations:     locations,
		Z:             z,
		ZMin:          zmin,
		ZMax:          zmax,
		ColorScale:    scale,
		ColorBar:      &ColorBar{Thickness: 20, TickLen: 3},
		Subplot:       mapSubplot,
		Text:          text,
		HoverTemplate: hoverTemplate(m),
		Marker: &Marker{
			Opacity: ptr(0.7),
			Line:    &Line{Width: 0},
		},
	}
}

func hoverTemplate(m domain.Metric) string {
	switch m {
	case domain.MetricCases:
		return "<b>%{text}</b><br><br>Number of Cases=%{z}<br><extra></extra>"
	case domain.MetricDeaths:
		return "<b>%{text}</b><br><br>Number of Deaths=%{z}<br><extra></extra>"
	default:
		return "<b>%{text}</b><br><br>Proportion of GOP voters = %{z}<br><extra></extra>"
	}
}

// rankedBarTrace is the horizontal top-10 bar for m. Null values never rank.
func rankedBarTrace(m domain.Metric, records []domain.CountyRecord, label labelFunc) Trace {
	ranked := domain.Rank(records, m, domain.TopN)
	x := make([]float64, len(ranked))
	y := make([]string, len(ranked))
	for i, r := range ranked {
		x[i] = r.Value
		y[i] = label(r.Record)
	}
	return Trace{
		Type:        "bar",
		Name:        "Top 10: " + m.String(),
		X:           x,
		Y:           y,
		XAxis:       barXAxis,
		YAxis:       barYAxis,
		Orientation: "h",
		Marker: &Marker{
			Color: barFill,
			Line:  &Line{Color: barOutline, Width: 0.5},
		},
	}
}

func mapLayout(opts Options, buttons []Button) Layout {
	mb := &Mapbox{
		Domain: &Domain{X: []float64{0.3, 1}, Y: []float64{0, 1}},
		Center: mapCenter,
		Zoom:   2.5,
		Style:  "carto-positron",
	}
	if opts.MapboxToken != "" {
		mb.Style = "light"
		mb.AccessToken = opts.MapboxToken
	}

	return Layout{
		Title:    &Title{Text: opts.Title, Font: &Font{Size: 28, Family: "Arial"}},
		Autosize: true,
		Mapbox:   mb,
		XAxis2: &Axis{
			ZeroLine:      ptr(false),
			ShowLine:      ptr(false),
			ShowTickLabel: ptr(true),
			ShowGrid:      ptr(true),
			Domain:        []float64{0, 0.25},
			Side:          "left",
			Anchor:        barXAxis,
		},
		YAxis2: &Axis{
			Domain:    []float64{0.4, 0.9},
			Anchor:    barYAxis,
			AutoRange: "reversed",
		},
		Margin:       &Margin{L: 100, R: 20, T: 70, B: 70},
		PaperBGColor: backgroundColor,
		PlotBGColor:  backgroundColor,
		UpdateMenus: []UpdateMenu{{
			X:       0,
			Y:       1,
			XAnchor: "left",
			YAnchor: "middle",
			Buttons: buttons,
		}},
	}
}
