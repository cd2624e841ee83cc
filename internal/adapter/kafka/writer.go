// Package kafka publishes assembled weather reports to a sink topic for
// downstream consumers. The sink is optional; the service runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

// Writer produces weather reports to a Kafka topic. It implements
// aggregator.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one report and writes it to the sink topic, keyed by
// location so consumers can compact per location.
func (w *Writer) Publish(ctx context.Context, report domain.WeatherReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a WeatherReport into a Kafka message.
func serializeToMessage(report domain.WeatherReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize weather report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_count", Value: []byte(strconv.Itoa(len(report.Alerts)))},
			{Key: "fetched_at", Value: []byte(report.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
