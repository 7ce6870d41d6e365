package view

import "github.com/couchcryptid/covid-county-map/internal/domain"

// paleYellow is the low end of the heat scale and the midpoint of the
// political scale.
const paleYellow = "rgb(253, 253, 204)"

// HeatScale runs pale yellow to deep red, for case and death counts.
var HeatScale = ColorScale{
	{0.0, paleYellow},
	{0.1, "rgb(243, 79, 78)"},
	{0.2, "rgb(243, 79, 78)"},
	{0.3, "rgb(237, 63, 62)"},
	{0.4, "rgb(237, 63, 62)"},
	{0.5, "rgb(230, 31, 32)"},
	{0.6, "rgb(230, 31, 32)"},
	{0.7, "rgb(218, 15, 19)"},
	{0.8, "rgb(218, 15, 19)"},
	{0.9, "rgb(201, 0, 11)"},
	{1.0, "rgb(201, 0, 11)"},
}

// PoliticalScale diverges from blue (0) through pale yellow (0.5) to red (1),
// for the GOP share of the two-party vote.
var PoliticalScale = ColorScale{
	{0.0, "rgb(3, 1, 140)"},
	{0.1, "rgb(33, 42, 165)"},
	{0.2, "rgb(66, 89, 195)"},
	{0.3, "rgb(123, 159, 242)"},
	{0.4, "rgb(158, 194, 255)"},
	{0.5, paleYellow},
	{0.6, "rgb(243, 79, 78)"},
	{0.7, "rgb(237, 63, 62)"},
	{0.8, "rgb(230, 31, 32)"},
	{0.9, "rgb(218, 15, 19)"},
	{1.0, "rgb(201, 0, 11)"},
}

// scaleFor returns the color scale and, for the diverging scale, the fixed
// [0, 1] range that pins the pale midpoint to a 0.5 share.
func scaleFor(m domain.Metric) (scale ColorScale, zmin, zmax *float64) {
	if m.Scale() == domain.ScaleDiverging {
		return PoliticalScale, ptr(0.0), ptr(1.0)
	}
	return HeatScale, nil, nil
}
