package domain

// Relation names used in reports, logs and metric labels.
const (
	RelationCovid        = "covid_counts"
	RelationPolitics     = "politics"
	RelationDemographics = "demographics"
)

// Skip reasons.
const (
	ReasonInvalidFIPS = "invalid_fips"
	ReasonTerritory   = "territory"
)

// SkippedRow records a source row that could not take part in the join.
type SkippedRow struct {
	Relation string
	FIPS     string
	Reason   string
	Err      error
}

// JoinReport summarizes one assembly for logging and metrics.
type JoinReport struct {
	CovidRows        int
	PoliticsRows     int
	DemographicsRows int
	Skipped          []SkippedRow
	// Unmatched counts output rows with no covid/politics match.
	Unmatched int
}

// SkippedBy counts skipped rows for a relation and reason.
func (r JoinReport) SkippedBy(relation, reason string) int {
	n := 0
	for _, s := range r.Skipped {
		if s.Relation == relation && s.Reason == reason {
			n++
		}
	}
	return n
}

type keyed[T any] struct {
	key string
	row T
}

// caseVotes is the intermediate relation of step 1.
type caseVotes struct {
	cases   *int64
	deaths  *int64
	gop2016 *float64
	gop2020 *float64
}

// Assemble normalizes keys and runs the two-step left join:
// covid ⟕ politics, then demographics ⟕ that result. Output order follows
// demographics; a right-side key that appears more than once multiplies the
// left row, as a relational left join does.
func Assemble(rel Relations) ([]CountyRecord, JoinReport) {
	report := JoinReport{
		CovidRows:        len(rel.Covid),
		PoliticsRows:     len(rel.Politics),
		DemographicsRows: len(rel.Demographics),
	}

	covid := make([]keyed[CovidRow], 0, len(rel.Covid))
	for _, row := range rel.Covid {
		key, ok, err := NormalizeFIPS(row.FIPS)
		switch {
		case err != nil:
			report.Skipped = append(report.Skipped, SkippedRow{Relation: RelationCovid, FIPS: row.FIPS, Reason: ReasonInvalidFIPS, Err: err})
		case !ok:
			report.Skipped = append(report.Skipped, SkippedRow{Relation: RelationCovid, FIPS: row.FIPS, Reason: ReasonTerritory})
		default:
			covid = append(covid, keyed[CovidRow]{key: key, row: row})
		}
	}

	politics := make([]keyed[PoliticsRow], 0, len(rel.Politics))
	for _, row := range rel.Politics {
		key, err := canonicalFIPS(row.FIPS)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Relation: RelationPolitics, FIPS: row.FIPS, Reason: ReasonInvalidFIPS, Err: err})
			continue
		}
		politics = append(politics, keyed[PoliticsRow]{key: key, row: row})
	}

	demographics := make([]keyed[DemographicsRow], 0, len(rel.Demographics))
	for _, row := range rel.Demographics {
		key, err := canonicalFIPS(row.FIPS)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Relation: RelationDemographics, FIPS: row.FIPS, Reason: ReasonInvalidFIPS, Err: err})
			continue
		}
		demographics = append(demographics, keyed[DemographicsRow]{key: key, row: row})
	}

	step1 := leftJoin(covid, politics, func(c CovidRow, p *PoliticsRow) caseVotes {
		cv := caseVotes{cases: c.Cases, deaths: c.Deaths}
		if p != nil {
			cv.gop2016 = p.GOP2016
			cv.gop2020 = p.GOP2020
		}
		return cv
	})

	records := make([]CountyRecord, 0, len(demographics))
	for _, k := range leftJoin(demographics, step1, func(d DemographicsRow, cv *caseVotes) CountyRecord {
		rec := CountyRecord{
			County:           d.County,
			State:            d.State,
			Population:       d.Population,
			White:            d.White,
			CollegeOrHigher:  d.CollegeOrHigher,
			Ruralness:        d.Ruralness,
			UnemploymentRate: d.UnemploymentRate,
		}
		if cv == nil {
			report.Unmatched++
			return rec
		}
		rec.Cases = cv.cases
		rec.Deaths = cv.deaths
		rec.GOP2016 = cv.gop2016
		rec.GOP2020 = cv.gop2020
		return rec
	}) {
		k.row.FIPS = k.key
		records = append(records, k.row)
	}

	return records, report
}

// leftJoin keeps every left row in order. Each left row is emitted once per
// matching right row (in right order), or once with a nil right when there is
// no match.
func leftJoin[L, R, O any](left []keyed[L], right []keyed[R], merge func(L, *R) O) []keyed[O] {
	index := make(map[string][]int, len(right))
	for i, r := range right {
		index[r.key] = append(index[r.key], i)
	}

	out := make([]keyed[O], 0, len(left))
	for _, l := range left {
		matches := index[l.key]
		if len(matches) == 0 {
			out = append(out, keyed[O]{key: l.key, row: merge(l.row, nil)})
			continue
		}
		for _, i := range matches {
			r := right[i].row
			out = append(out, keyed[O]{key: l.key, row: merge(l.row, &r)})
		}
	}
	return out
}
