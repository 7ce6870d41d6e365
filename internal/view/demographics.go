package view

import (
	"slices"
	"strconv"

	"github.com/couchcryptid/covid-county-map/internal/domain"
)

const casesAxisTitle = "COVID-19 Cases"

// Chart is one fixed demographic figure.
type Chart struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Figure Figure `json:"figure"`
}

// attribute reads a demographic value from a record.
type attribute func(r *domain.CountyRecord) *float64

type scatterSpec struct {
	id, title, name, xTitle, color string
	x                              attribute
}

var scatterSpecs = []scatterSpec{
	{
		id: "population-vs-cases", title: "Population vs. Cases", name: "Population vs. Cases",
		xTitle: "County Population", color: "#7595eb",
		x: func(r *domain.CountyRecord) *float64 { return r.Population },
	},
	{
		id: "white-vs-cases", title: "Cases vs. Proportion of White People", name: "Cases vs. Proportion of White People",
		xTitle: "Proportion (%) of White People", color: "#686cba",
		x: func(r *domain.CountyRecord) *float64 { return r.White },
	},
	{
		id: "college-vs-cases", title: "Cases vs. Highly Educated People", name: "Cases vs. Highly Educated People",
		xTitle: "Proportion of Individuals with at least a College Education", color: "#b5454d",
		x: func(r *domain.CountyRecord) *float64 { return r.CollegeOrHigher },
	},
	{
		id: "unemployment-vs-cases", title: "Cases vs. Unemployment", name: "Cases vs. Unemployment",
		xTitle: "Unemployment Rate (proportion unemployed)", color: "#8c0b14",
		x: func(r *domain.CountyRecord) *float64 { return r.UnemploymentRate },
	},
}

// buildDemographicCharts returns the six fixed charts in display order.
func buildDemographicCharts(records []domain.CountyRecord) []Chart {
	charts := []Chart{
		stateTotalsChart(records),
		scatterChart(records, scatterSpecs[0]),
		ruralnessChart(records),
	}
	for _, spec := range scatterSpecs[1:] {
		charts = append(charts, scatterChart(records, spec))
	}
	return charts
}

// GroupSum is one category of a sum aggregation.
type GroupSum struct {
	Key    string
	Cases  int64
	Deaths int64
}

// SumByState totals cases and deaths per state, in order of first appearance.
// Null counts contribute nothing.
func SumByState(records []domain.CountyRecord) []GroupSum {
	return sumBy(records, func(r *domain.CountyRecord) (string, bool) { return r.State, true })
}

// SumByRuralness totals cases per ruralness category, ordered by category.
// Records with a null ruralness are left out.
func SumByRuralness(records []domain.CountyRecord) []GroupSum {
	groups := sumBy(records, func(r *domain.CountyRecord) (string, bool) {
		if r.Ruralness == nil {
			return "", false
		}
		return strconv.FormatFloat(*r.Ruralness, 'f', -1, 64), true
	})
	slices.SortStableFunc(groups, func(a, b GroupSum) int {
		x, _ := strconv.ParseFloat(a.Key, 64)
		y, _ := strconv.ParseFloat(b.Key, 64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	})
	return groups
}

func sumBy(records []domain.CountyRecord, key func(r *domain.CountyRecord) (string, bool)) []GroupSum {
	var groups []GroupSum
	index := make(map[string]int)
	for i := range records {
		r := &records[i]
		k, ok := key(r)
		if !ok {
			continue
		}
		g, seen := index[k]
		if !seen {
			g = len(groups)
			index[k] = g
			groups = append(groups, GroupSum{Key: k})
		}
		if r.Cases != nil {
			groups[g].Cases += *r.Cases
		}
		if r.Deaths != nil {
			groups[g].Deaths += *r.Deaths
		}
	}
	return groups
}

func stateTotalsChart(records []domain.CountyRecord) Chart {
	groups := SumByState(records)
	states := make([]string, len(groups))
	deaths := make([]int64, len(groups))
	cases := make([]int64, len(groups))
	for i, g := range groups {
		states[i] = g.Key
		deaths[i] = g.Deaths
		cases[i] = g.Cases
	}

	return Chart{
		ID:    "cases-deaths-by-state",
		Title: "Cases and Deaths by State",
		Figure: Figure{
			Data: []Trace{
				{Type: "bar", Name: "sum deaths", X: states, Y: deaths},
				{Type: "bar", Name: "sum cases", X: states, Y: cases},
			},
			Layout: Layout{
				Title:   &Title{Text: "Cases and Deaths by State"},
				BarMode: "stack",
				XAxis:   &Axis{Title: &Title{Text: "State"}},
				YAxis:   &Axis{Title: &Title{Text: "Total"}},
			},
		},
	}
}

func ruralnessChart(records []domain.CountyRecord) Chart {
	groups := SumByRuralness(records)
	categories := make([]string, len(groups))
	cases := make([]int64, len(groups))
	for i, g := range groups {
		categories[i] = g.Key
		cases[i] = g.Cases
	}

	layout := demographicLayout("Ruralness vs. Cases", "Ruralness (8 = High Ruralness)", false)
	layout.XAxis.Type = "category"

	return Chart{
		ID:    "ruralness-vs-cases",
		Title: "Ruralness vs. Cases",
		Figure: Figure{
			Data:   []Trace{{Type: "bar", Name: "sum cases", X: categories, Y: cases}},
			Layout: layout,
		},
	}
}

// scatterChart plots spec.x against cases, one point per county with both values.
func scatterChart(records []domain.CountyRecord, spec scatterSpec) Chart {
	x := make([]float64, 0, len(records))
	y := make([]float64, 0, len(records))
	for i := range records {
		xv := spec.x(&records[i])
		yv := records[i].Cases
		if xv == nil || yv == nil {
			continue
		}
		x = append(x, *xv)
		y = append(y, float64(*yv))
	}

	return Chart{
		ID:    spec.id,
		Title: spec.title,
		Figure: Figure{
			Data: []Trace{{
				Type:   "scatter",
				Mode:   "markers",
				Name:   spec.name,
				X:      x,
				Y:      y,
				Marker: &Marker{Color: spec.color},
			}},
			Layout: demographicLayout(spec.title, spec.xTitle, true),
		},
	}
}

func demographicLayout(title, xTitle string, legend bool) Layout {
	l := Layout{
		Title:       &Title{Text: title},
		PlotBGColor: backgroundColor,
		XAxis:       &Axis{Title: &Title{Text: xTitle}},
		YAxis:       &Axis{Title: &Title{Text: casesAxisTitle}},
		Font:        &Font{Family: "Serif", Color: "#000000"},
	}
	if legend {
		l.ShowLegend = ptr(true)
	}
	return l
}
