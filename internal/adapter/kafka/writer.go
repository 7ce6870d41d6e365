package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-county-map/internal/config"
	"github.com/couchcryptid/covid-county-map/internal/domain"
	"github.com/couchcryptid/covid-county-map/internal/observability"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafkago.Writer the snapshot writer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes an assembled county table to a Kafka topic, one message
// per county keyed by FIPS.
type Writer struct {
	writer  messageWriter
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newWriter(w, clock, logger, metrics)
}

func newWriter(w messageWriter, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{writer: w, clock: clock, logger: logger, metrics: metrics}
}

// Publish writes every county of the table in a single WriteMessages call.
// An empty table publishes nothing.
func (w *Writer) Publish(ctx context.Context, table *domain.Table) error {
	if table.Empty() {
		w.logger.Info("snapshot export skipped, table is empty")
		return nil
	}

	exportedAt := w.clock.Now()
	msgs := make([]kafkago.Message, table.Len())
	for i := range table.Records {
		msg, err := serializeToMessage(&table.Records[i], table.Snapshot, exportedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshot %q: %w", table.Snapshot, err)
	}
	w.metrics.SnapshotMessages.Add(float64(len(msgs)))
	w.logger.Info("snapshot published", "snapshot", table.Snapshot, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a county record into a Kafka message.
func serializeToMessage(rec *domain.CountyRecord, snapshot string, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize county %s: %w", rec.FIPS, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.FIPS),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "snapshot", Value: []byte(snapshot)},
			{Key: "exported_at", Value: []byte(exportedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
