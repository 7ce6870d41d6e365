package domain

import "time"

// CovidRow is one row of covid_counts as read from the store.
type CovidRow struct {
	Date   string
	County string
	State  string
	FIPS   string
	Cases  *int64
	Deaths *int64
}

// PoliticsRow is one row of politics as read from the store.
type PoliticsRow struct {
	County  string
	State   string
	FIPS    string
	GOP2016 *float64
	GOP2020 *float64
}

// DemographicsRow is one row of demographics as read from the store.
type DemographicsRow struct {
	County           string
	State            string
	FIPS             string
	White            *float64
	CollegeOrHigher  *float64
	Ruralness        *float64
	Population       *float64
	UnemploymentRate *float64
}

// Relations holds the three source relations in store row order.
type Relations struct {
	Covid        []CovidRow
	Politics     []PoliticsRow
	Demographics []DemographicsRow
}

// CountyRecord is one row of the denormalized county table. Nil pointers are
// nulls carried through from a left join or from the source.
type CountyRecord struct {
	FIPS   string `json:"fips"`
	County string `json:"county"`
	State  string `json:"state"`

	Cases  *int64 `json:"cases"`
	Deaths *int64 `json:"deaths"`

	GOP2016 *float64 `json:"gop_2016"`
	GOP2020 *float64 `json:"gop_2020"`

	Population       *float64 `json:"population"`
	White            *float64 `json:"white"`
	CollegeOrHigher  *float64 `json:"college_or_higher"`
	Ruralness        *float64 `json:"ruralness"`
	UnemploymentRate *float64 `json:"unemployment_rate"`
}

// Table is the assembled snapshot. It is built once and never mutated; all
// consumers share it read-only.
type Table struct {
	Snapshot string         `json:"snapshot"`
	BuiltAt  time.Time      `json:"built_at"`
	Records  []CountyRecord `json:"records"`
}

// Len returns the number of county records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Totals sums cases and deaths over all records, skipping nulls.
func (t *Table) Totals() (cases, deaths int64) {
	if t == nil {
		return 0, 0
	}
	for i := range t.Records {
		if c := t.Records[i].Cases; c != nil {
			cases += *c
		}
		if d := t.Records[i].Deaths; d != nil {
			deaths += *d
		}
	}
	return cases, deaths
}
