package domain

import "fmt"

// Metric is one of the four map metrics, in selector order.
type Metric int

const (
	MetricCases Metric = iota
	MetricDeaths
	MetricGOP2020
	MetricGOP2016
)

// Metrics lists every metric in selector order.
var Metrics = []Metric{MetricCases, MetricDeaths, MetricGOP2020, MetricGOP2016}

// Scale identifies the color-scale family used for a metric.
type Scale int

const (
	// ScaleSequential runs pale yellow to deep red (counts).
	ScaleSequential Scale = iota
	// ScaleDiverging runs blue through pale at 0.5 to red (two-party share).
	ScaleDiverging
)

// String returns the metric key used in URLs and JSON.
func (m Metric) String() string {
	switch m {
	case MetricCases:
		return "cases"
	case MetricDeaths:
		return "deaths"
	case MetricGOP2020:
		return "gop2020"
	case MetricGOP2016:
		return "gop2016"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Label is the selector option text.
func (m Metric) Label() string {
	switch m {
	case MetricCases:
		return "Number of COVID-19 cases by county"
	case MetricDeaths:
		return "Number of COVID-19 deaths by county"
	case MetricGOP2020:
		return "Proportion of GOP voters by county in 2020"
	case MetricGOP2016:
		return "Proportion of GOP voters by county in 2016"
	default:
		return m.String()
	}
}

// Scale returns the color-scale family for the metric.
func (m Metric) Scale() Scale {
	if m == MetricGOP2020 || m == MetricGOP2016 {
		return ScaleDiverging
	}
	return ScaleSequential
}

// Value returns the record's value for the metric, or nil when null.
func (m Metric) Value(r *CountyRecord) *float64 {
	switch m {
	case MetricCases:
		return intValue(r.Cases)
	case MetricDeaths:
		return intValue(r.Deaths)
	case MetricGOP2020:
		return r.GOP2020
	case MetricGOP2016:
		return r.GOP2016
	default:
		return nil
	}
}

// ParseMetric resolves a metric key such as "deaths".
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

func intValue(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
