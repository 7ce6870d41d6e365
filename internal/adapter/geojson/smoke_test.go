//go:build geojson

package geojson

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test downloads the real plotly county FeatureCollection.
// Run with: go test -tags=geojson ./internal/adapter/geojson/ -v -count=1

const plotlyCounties = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

func TestSmoke_FetchPlotlyCounties(t *testing.T) {
	c := NewClient(plotlyCounties, 60*time.Second, discardLogger())

	coll, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Greater(t, coll.Len(), 3000)
	assert.True(t, coll.Has("01001"), "Autauga County, AL")
	assert.True(t, coll.Has("53033"), "King County, WA")
	assert.False(t, coll.Has("80001"))
}
