package http

import (
	"html/template"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("dashboard").Parse(pageHTML))

// pageData is the view model of the dashboard page.
type pageData struct {
	Title       string
	Snapshot    string
	GeneratedAt string
	Counties    string
	Cases       string
	Deaths      string
	Empty       bool
	PlotlyURL   string
	Metric      string
	Metrics     []metricOption
	Charts      []chartRef
}

type metricOption struct {
	Value    string
	Label    string
	Selected bool
}

type chartRef struct {
	ID    string
	Title string
}

func newPageData(d *view.Dashboard, title string, selected domain.Metric) pageData {
	p := message.NewPrinter(language.English)
	data := pageData{
		Title:     title,
		Snapshot:  d.Snapshot,
		Counties:  p.Sprintf("%d", d.Counties),
		Cases:     p.Sprintf("%d", d.TotalCases),
		Deaths:    p.Sprintf("%d", d.TotalDeaths),
		Empty:     d.Empty,
		PlotlyURL: plotlyCDN,
		Metric:    selected.String(),
	}
	if !d.GeneratedAt.IsZero() {
		data.GeneratedAt = d.GeneratedAt.UTC().Format(time.RFC1123)
	}
	for _, m := range domain.Metrics {
		data.Metrics = append(data.Metrics, metricOption{Value: m.String(), Label: m.Label(), Selected: m == selected})
	}
	for _, c := range d.Charts {
		data.Charts = append(data.Charts, chartRef{ID: c.ID, Title: c.Title})
	}
	return data
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { --accent: #5b8eb3; --fg: #000000; --bg: rgb(227, 235, 240); --muted: #4a4a4a; }
* { box-sizing: border-box; }
body { font-family: Serif; color: var(--fg); background: #fff; margin: 0; }
.tabs { display: flex; height: 44px; }
.tab { flex: 1; padding: 6px; font-weight: bold; border: 1px solid #000; border-bottom: 1px solid var(--accent); background: #fff; cursor: pointer; font-family: Serif; font-size: 1rem; }
.tab.active { background: var(--accent); }
.banner { padding: 20px; background: var(--accent); }
.banner h1 { margin: 0 0 .5rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: .75rem; padding: 1rem 20px; background: var(--bg); }
.card { background: #fff; border: 1px solid #dee2e6; border-radius: 8px; padding: .75rem; text-align: center; }
.card .value { font-size: 1.5rem; font-weight: 700; }
.card .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.panel { display: none; }
.panel.active { display: block; }
.figure { width: 100%; min-height: 450px; }
#map { height: 800px; }
.empty { padding: 3rem 20px; text-align: center; font-size: 1.25rem; }
footer { padding: 1rem 20px; font-size: .875rem; color: var(--muted); }
noscript { display: block; padding: 1rem 20px; }
</style>
</head>
<body>
<nav class="tabs">
  <button class="tab active" data-panel="panel-map">Choropleth Map</button>
  <button class="tab" data-panel="panel-demographics">Demographic Figures</button>
</nav>

<section id="panel-map" class="panel active">
  <div class="banner">
    <h1>Covid-19 and Political Affiliation Dashboard</h1>
    <p>County COVID-19 case and death counts for snapshot {{.Snapshot}}, compared with the proportion of votes cast for the GOP in the 2016 and 2020 elections.</p>
  </div>
  <div class="cards">
    <div class="card"><div class="value">{{.Counties}}</div><div class="label">Counties</div></div>
    <div class="card"><div class="value">{{.Cases}}</div><div class="label">Total cases</div></div>
    <div class="card"><div class="value">{{.Deaths}}</div><div class="label">Total deaths</div></div>
  </div>
{{- if .Empty}}
  <div class="empty">No data available for snapshot {{.Snapshot}}.</div>
{{- else}}
  <noscript>
    <form method="get" action="/">
      <select name="metric">
      {{- range .Metrics}}
        <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{- end}}
      </select>
      <button type="submit">Show</button>
    </form>
  </noscript>
  <div id="map" class="figure"></div>
{{- end}}
</section>

<section id="panel-demographics" class="panel">
  <div class="banner"><h1>Covid-19 and Demographic Factors</h1></div>
{{- if .Empty}}
  <div class="empty">No data available for snapshot {{.Snapshot}}.</div>
{{- else}}
  {{- range .Charts}}
  <div id="{{.ID}}" class="figure" title="{{.Title}}"></div>
  {{- end}}
{{- end}}
</section>

<footer>
  <p>Data source(s): The New York Times (https://github.com/nytimes/covid-19-data),
  Townhall (https://github.com/tonmcg/US_County_Level_Election_Results_08-16/blob/master/2016_US_County_Level_Presidential_Results.csv)</p>
{{- if .GeneratedAt}}
  <p>Generated {{.GeneratedAt}}</p>
{{- end}}
</footer>

{{- if not .Empty}}
<script src="{{.PlotlyURL}}"></script>
<script>
(function () {
  var metric = {{.Metric}};
  var drawn = {};

  function draw(id, figure) {
    Plotly.newPlot(id, figure.data, figure.layout, {responsive: true});
    drawn[id] = true;
  }

  fetch("/api/figures/map?metric=" + encodeURIComponent(metric))
    .then(function (r) { return r.json(); })
    .then(function (fig) { draw("map", fig); });

  var charts = null;
  function drawCharts() {
    if (charts !== null) {
      charts.forEach(function (c) { if (!drawn[c.id]) { draw(c.id, c.figure); } });
      return;
    }
    fetch("/api/figures/demographics")
      .then(function (r) { return r.json(); })
      .then(function (list) { charts = list; drawCharts(); });
  }

  document.querySelectorAll(".tab").forEach(function (tab) {
    tab.addEventListener("click", function () {
      document.querySelectorAll(".tab").forEach(function (t) { t.classList.remove("active"); });
      document.querySelectorAll(".panel").forEach(function (p) { p.classList.remove("active"); });
      tab.classList.add("active");
      document.getElementById(tab.dataset.panel).classList.add("active");
      if (tab.dataset.panel === "panel-demographics") { drawCharts(); }
    });
  });
})();
</script>
{{- end}}
</body>
</html>
`
