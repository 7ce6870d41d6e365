// Command validate performs integrity checks on a county snapshot fixture
// written by cmd/snapshot: key format, territory exclusion, value ranges, and
// (optionally) coverage by the county boundary FeatureCollection.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -snapshot data/snapshot/counties_11.json \
//	  -geojson https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/adapter/geojson"
	"github.com/couchcryptid/covid-county-map/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to a snapshot JSON fixture")
	geoSource := flag.String("geojson", "", "optional county FeatureCollection URL or path")
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath, *geoSource); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, geoSource string) int {
	fmt.Println("=== County Snapshot Integrity Validation ===")
	fmt.Println()

	table, err := loadTable(snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateKeys(table),
		validateTerritories(table),
		validateRanges(table),
	}

	if geoSource != "" {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		geo, err := geojson.NewClient(geoSource, 30*time.Second, logger).Fetch(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load geometry: %v\n", err)
			return 1
		}
		phases = append(phases, validateGeography(table, geo))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d counties in snapshot %s\n", table.Len(), table.Snapshot)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadTable(path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table domain.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &table, nil
}

// validateKeys checks that every key is the canonical 5-character form.
func validateKeys(table *domain.Table) *phase {
	p := &phase{name: "FIPS keys are 5-digit canonical"}
	for i := range table.Records {
		fips := table.Records[i].FIPS
		code, err := domain.ParseFIPS(fips)
		if err != nil {
			p.errorf("record %d: %v", i, err)
			continue
		}
		if domain.FormatFIPS(code) != fips {
			p.errorf("record %d: fips %q is not zero-padded to %d characters", i, fips, domain.FIPSLength)
		}
	}
	return p
}

// validateTerritories checks that territory codes carry no covid counts.
func validateTerritories(table *domain.Table) *phase {
	p := &phase{name: "Territory codes carry no covid counts"}
	for i := range table.Records {
		r := &table.Records[i]
		code, err := domain.ParseFIPS(r.FIPS)
		if err != nil || code < domain.TerritoryThreshold {
			continue
		}
		if r.Cases != nil || r.Deaths != nil {
			p.errorf("record %d: territory %s has covid counts", i, r.FIPS)
		}
	}
	return p
}

func validateRanges(table *domain.Table) *phase {
	p := &phase{name: "Values within expected ranges"}
	for i := range table.Records {
		r := &table.Records[i]
		checkCount(p, i, "cases", r.Cases)
		checkCount(p, i, "deaths", r.Deaths)
		checkProportion(p, i, "gop_2016", r.GOP2016)
		checkProportion(p, i, "gop_2020", r.GOP2020)
		if r.Ruralness != nil && (*r.Ruralness < 0 || *r.Ruralness > 8) {
			p.errorf("record %d (%s): ruralness %v outside 0..8", i, r.FIPS, *r.Ruralness)
		}
		for _, f := range []struct {
			name string
			v    *float64
		}{
			{"population", r.Population},
			{"white", r.White},
			{"college_or_higher", r.CollegeOrHigher},
			{"unemployment_rate", r.UnemploymentRate},
		} {
			if f.v != nil && *f.v < 0 {
				p.errorf("record %d (%s): %s is negative", i, r.FIPS, f.name)
			}
		}
	}
	return p
}

func checkCount(p *phase, i int, name string, v *int64) {
	if v != nil && *v < 0 {
		p.errorf("record %d: %s is negative (%d)", i, name, *v)
	}
}

func checkProportion(p *phase, i int, name string, v *float64) {
	if v != nil && (*v < 0 || *v > 1) {
		p.errorf("record %d: %s %v outside [0, 1]", i, name, *v)
	}
}

// featureLookup is the part of geojson.Collection the geography check uses.
type featureLookup interface {
	Lookup(fips string) (geojson.Feature, bool)
}

// validateGeography checks that every county has a feature with a geometry.
func validateGeography(table *domain.Table, geo featureLookup) *phase {
	p := &phase{name: "Every county has a boundary polygon"}
	for i := range table.Records {
		r := &table.Records[i]
		f, ok := geo.Lookup(r.FIPS)
		switch {
		case !ok:
			p.errorf("record %d: no feature for %s (%s, %s)", i, r.FIPS, r.County, r.State)
		case emptyGeometry(f.Geometry):
			p.errorf("record %d: feature %s has no geometry", i, r.FIPS)
		}
	}
	return p
}

func emptyGeometry(g json.RawMessage) bool {
	s := strings.TrimSpace(string(g))
	return s == "" || s == "null"
}
