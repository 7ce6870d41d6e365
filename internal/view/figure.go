package view

import "encoding/json"

// Figure is a Plotly figure document: traces plus layout. It is serialized
// as-is and handed to plotly.js in the browser.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes the dashboard uses.
type Trace struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Visible *bool  `json:"visible,omitempty"`

	// choroplethmapbox
	GeoJSON    string     `json:"geojson,omitempty"`
	Locations  []string   `json:"locations,omitempty"`
	Z          []*float64 `json:"z,omitempty"`
	ZMin       *float64   `json:"zmin,omitempty"`
	ZMax       *float64   `json:"zmax,omitempty"`
	ColorScale ColorScale `json:"colorscale,omitempty"`
	ColorBar   *ColorBar  `json:"colorbar,omitempty"`
	Subplot    string     `json:"subplot,omitempty"`

	// cartesian
	X           any    `json:"x,omitempty"`
	Y           any    `json:"y,omitempty"`
	XAxis       string `json:"xaxis,omitempty"`
	YAxis       string `json:"yaxis,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Mode        string `json:"mode,omitempty"`

	Text          []string `json:"text,omitempty"`
	HoverTemplate string   `json:"hovertemplate,omitempty"`
	Marker        *Marker  `json:"marker,omitempty"`
}

// Marker styles points, bars and choropleth regions.
type Marker struct {
	Color   string   `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Line    *Line    `json:"line,omitempty"`
}

// Line is a marker outline.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width"`
}

// ColorBar sizes the choropleth legend.
type ColorBar struct {
	Thickness int `json:"thickness"`
	TickLen   int `json:"ticklen"`
}

// ColorStop is one [position, color] pair of a color scale.
type ColorStop struct {
	Pos   float64
	Color string
}

// ColorScale is an ordered list of stops from 0 to 1.
type ColorScale []ColorStop

// MarshalJSON renders the scale in Plotly's [[pos, "color"], ...] form.
func (s ColorScale) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(s))
	for i, stop := range s {
		pairs[i] = [2]any{stop.Pos, stop.Color}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON reads the [[pos, "color"], ...] form.
func (s *ColorScale) UnmarshalJSON(data []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	scale := make(ColorScale, len(pairs))
	for i, p := range pairs {
		if err := json.Unmarshal(p[0], &scale[i].Pos); err != nil {
			return err
		}
		if err := json.Unmarshal(p[1], &scale[i].Color); err != nil {
			return err
		}
	}
	*s = scale
	return nil
}

// ColorAt returns the color of the stop at pos, or "" when no stop sits there.
func (s ColorScale) ColorAt(pos float64) string {
	for _, stop := range s {
		if stop.Pos == pos {
			return stop.Color
		}
	}
	return ""
}

// Layout is the subset of Plotly layout attributes the dashboard uses.
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	Autosize     bool         `json:"autosize,omitempty"`
	Mapbox       *Mapbox      `json:"mapbox,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	XAxis2       *Axis        `json:"xaxis2,omitempty"`
	YAxis2       *Axis        `json:"yaxis2,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	BarMode      string       `json:"barmode,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	UpdateMenus  []UpdateMenu `json:"updatemenus,omitempty"`
}

// Title is a figure or axis title.
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Font sets text family, size and color.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title         *Title    `json:"title,omitempty"`
	Domain        []float64 `json:"domain,omitempty"`
	Anchor        string    `json:"anchor,omitempty"`
	Side          string    `json:"side,omitempty"`
	AutoRange     string    `json:"autorange,omitempty"`
	ZeroLine      *bool     `json:"zeroline,omitempty"`
	ShowLine      *bool     `json:"showline,omitempty"`
	ShowGrid      *bool     `json:"showgrid,omitempty"`
	ShowTickLabel *bool     `json:"showticklabels,omitempty"`
	Type          string    `json:"type,omitempty"`
}

// Mapbox configures the map subplot.
type Mapbox struct {
	Domain      *Domain `json:"domain,omitempty"`
	Center      LatLon  `json:"center"`
	Zoom        float64 `json:"zoom"`
	Style       string  `json:"style"`
	AccessToken string  `json:"accesstoken,omitempty"`
}

// Domain is a subplot's fractional extent.
type Domain struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// LatLon is a map center.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// UpdateMenu is a Plotly button group.
type UpdateMenu struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	XAnchor string   `json:"xanchor"`
	YAnchor string   `json:"yanchor"`
	Active  int      `json:"active"`
	Buttons []Button `json:"buttons"`
}

// Button restyles traces when clicked.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

func ptr[T any](v T) *T { return &v }
