//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/adapter/kafka"
	"github.com/couchcryptid/covid-county-map/internal/config"
	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshotTopic = "test-county-snapshots"

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// TestSnapshotPublish verifies that every county reaches the topic keyed by
// FIPS with the snapshot headers.
func TestSnapshotPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSnapshotTopic,
	}
	exportedAt := time.Date(2020, 11, 22, 6, 0, 0, 0, time.UTC)
	writer := kafka.NewWriter(cfg, clockwork.NewFakeClockAt(exportedAt), discardLogger(), observability.NewMetricsForTesting())
	defer writer.Close()

	table := &domain.Table{
		Snapshot: "11",
		Records: []domain.CountyRecord{
			{FIPS: "01001", County: "autauga", State: "Alabama", Cases: i64(50), GOP2020: f64(0.6)},
			{FIPS: "01003", County: "baldwin", State: "Alabama", Cases: i64(200)},
		},
	}
	require.NoError(t, writer.Publish(ctx, table))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testSnapshotTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer consumer.Close()

	got := map[string]domain.CountyRecord{}
	for range table.Records {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read from snapshot topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "11", headers["snapshot"])
		assert.Equal(t, "2020-11-22T06:00:00Z", headers["exported_at"])

		var rec domain.CountyRecord
		require.NoError(t, json.Unmarshal(msg.Value, &rec))
		assert.Equal(t, string(msg.Key), rec.FIPS)
		got[rec.FIPS] = rec
	}

	require.Len(t, got, 2)
	assert.Equal(t, int64(200), *got["01003"].Cases)
	assert.Nil(t, got["01003"].GOP2020)
	assert.Equal(t, 0.6, *got["01001"].GOP2020)
}
