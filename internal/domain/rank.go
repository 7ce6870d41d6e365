package domain

import (
	"slices"
)

// TopN is the number of counties in the ranked bar chart.
const TopN = 10

// Ranked is a county and its value for the ranked metric.
type Ranked struct {
	Record *CountyRecord
	Value  float64
}

// Rank returns up to n records with the highest non-null values of m, in
// descending order. Ties keep table order. Records with a null value never
// participate.
func Rank(records []CountyRecord, m Metric, n int) []Ranked {
	ranked := make([]Ranked, 0, len(records))
	for i := range records {
		v := m.Value(&records[i])
		if v == nil {
			continue
		}
		ranked = append(ranked, Ranked{Record: &records[i], Value: *v})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
