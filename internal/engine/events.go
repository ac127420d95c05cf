package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexiscope/wordfreq/pkg/kafka"
	"github.com/lexiscope/wordfreq/pkg/resilience"
)

// EventType labels an engine lifecycle event.
type EventType string

const (
	EventAggregationProgress EventType = "aggregation_progress"
	EventAggregationComplete EventType = "aggregation_complete"
	EventAggregationFailed   EventType = "aggregation_failed"
	EventCacheCleared        EventType = "cache_cleared"
)

// Event is published to the configured sink as the engine works. Payload is
// JSON-serialisable.
type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// EventSink receives engine events. Publishing is best-effort: sinks must
// not block engine progress on delivery failure.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// NopSink discards all events. It is the default sink.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, event Event) {}

// publishTimeout bounds a single event delivery, retries included, so a
// stuck broker never stalls the progress drain.
const publishTimeout = 5 * time.Second

// KafkaSink forwards engine events to a Kafka topic with retry. Delivery
// failures are logged and dropped.
type KafkaSink struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		logger:   slog.Default().With("component", "event-sink"),
	}
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) {
	err := resilience.WithTimeout(ctx, publishTimeout, "publish-engine-event", func(ctx context.Context) error {
		return resilience.Retry(ctx, "publish-engine-event", resilience.RetryConfig{}, func() error {
			return s.producer.Publish(ctx, kafka.Event{
				Key:   string(event.Type),
				Value: event,
			})
		})
	})
	if err != nil {
		s.logger.Error("event publish failed", "type", event.Type, "error", err)
	}
}
