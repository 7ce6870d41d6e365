package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxBodyBytes bounds the FeatureCollection download. The plotly county file
// is about 2.5 MB.
const maxBodyBytes = 64 << 20

// Client loads the county boundary FeatureCollection from an http(s) URL or
// a local file.
type Client struct {
	source     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a geometry client for source.
func NewClient(source string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		source: source,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch loads and indexes the FeatureCollection. It is called once at startup.
func (c *Client) Fetch(ctx context.Context) (*Collection, error) {
	start := time.Now()

	var (
		body []byte
		err  error
	)
	if isURL(c.source) {
		body, err = c.download(ctx)
	} else {
		body, err = os.ReadFile(c.source)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch county geometry: %w", err)
	}

	coll, err := Parse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("county geometry loaded",
		"source", c.source,
		"features", coll.Len(),
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return coll, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geometry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geometry source error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Parse decodes a FeatureCollection and indexes its features by FIPS.
func Parse(body []byte) (*Collection, error) {
	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("decode county geometry: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode county geometry: type %q, want FeatureCollection", fc.Type)
	}
	return newCollection(body, fc.Features), nil
}

// GeoJSON wire types.

type featureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one county boundary.
type Feature struct {
	ID         json.RawMessage `json:"id"`
	Properties json.RawMessage `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}
