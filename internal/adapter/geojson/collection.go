package geojson

import (
	"encoding/json"

	"github.com/couchcryptid/covid-county-map/internal/domain"
)

// Collection is an immutable, FIPS-indexed county FeatureCollection. It
// implements domain.Geography.
type Collection struct {
	raw      []byte
	features []Feature
	index    map[string]int
}

func newCollection(raw []byte, features []Feature) *Collection {
	c := &Collection{
		raw:      raw,
		features: features,
		index:    make(map[string]int, len(features)),
	}
	for i, f := range features {
		key, ok := featureKey(f.ID)
		if !ok {
			continue
		}
		if _, dup := c.index[key]; !dup {
			c.index[key] = i
		}
	}
	return c
}

// Has reports whether a polygon exists for fips.
func (c *Collection) Has(fips string) bool {
	_, ok := c.index[fips]
	return ok
}

// Lookup returns the feature for fips.
func (c *Collection) Lookup(fips string) (Feature, bool) {
	i, ok := c.index[fips]
	if !ok {
		return Feature{}, false
	}
	return c.features[i], true
}

// Len returns the number of indexed counties.
func (c *Collection) Len() int { return len(c.index) }

// Bytes returns the FeatureCollection as loaded, for serving to the browser.
// Callers must not modify the slice.
func (c *Collection) Bytes() []byte { return c.raw }

// featureKey returns a feature id usable as a choropleth location. plotly.js
// matches locations against the raw id, so only string ids already in the
// five-digit form are indexed; numeric or unpadded ids would never fill.
func featureKey(id json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(id, &s); err != nil {
		return "", false
	}
	if len(s) != domain.FIPSLength {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}
