package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TerritoryThreshold is the first FIPS code outside the county universe.
const TerritoryThreshold = 80000

// FIPSLength is the width of a normalized FIPS key.
const FIPSLength = 5

// ParseFIPS parses a raw key as an integer. Source columns may be numeric
// (1001, 1001.0) or text ("01001").
func ParseFIPS(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("parse fips: empty")
	}
	s = strings.TrimSuffix(s, ".0")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse fips %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse fips %q: negative", raw)
	}
	return n, nil
}

// FormatFIPS renders a code left-padded with zeros to five characters.
func FormatFIPS(code int) string {
	return fmt.Sprintf("%05d", code)
}

// NormalizeFIPS applies the covid-relation key rule: parse as an integer,
// exclude codes >= TerritoryThreshold, render zero-padded. ok is false when
// the row must be excluded from the join universe.
func NormalizeFIPS(raw string) (key string, ok bool, err error) {
	code, err := ParseFIPS(raw)
	if err != nil {
		return "", false, err
	}
	if code >= TerritoryThreshold {
		return "", false, nil
	}
	return FormatFIPS(code), true, nil
}

// canonicalFIPS renders a politics or demographics key in the same form as a
// normalized covid key, without the territory filter.
func canonicalFIPS(raw string) (string, error) {
	code, err := ParseFIPS(raw)
	if err != nil {
		return "", err
	}
	if code > 99999 {
		return "", fmt.Errorf("parse fips %q: more than %d digits", raw, FIPSLength)
	}
	return FormatFIPS(code), nil
}
