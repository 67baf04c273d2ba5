package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/choco-corner/internal/obs"
)

// Event is one domain occurrence fanned out to notifiers. Events live only in
// process; the order log is the durable record.
type Event struct {
	Topic      string
	OccurredAt time.Time
	Payload    map[string]any
}

// Notifier reacts to emitted events (logging, metrics, etc.).
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Bus fans emitted events out to all configured notifiers.
type Bus struct {
	Notifiers []Notifier
}

// Emit dispatches the event to every notifier. Notifier failures are joined
// and returned but never stop the fan-out.
func (b *Bus) Emit(ctx context.Context, topic string, payload map[string]any) error {
	if b == nil {
		return nil
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("events: topic is required")
	}
	ev := Event{Topic: topic, OccurredAt: time.Now().UTC(), Payload: payload}
	var joined error
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", err))
		}
	}
	return joined
}

// LogNotifier writes each event as a structured log line.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, ev Event) error {
	n.Logger.Info().Str("topic", ev.Topic).Fields(ev.Payload).Msg("domain_event")
	return nil
}

// MetricsNotifier feeds the domain counters from purchase outcomes.
type MetricsNotifier struct{}

// Notify implements Notifier.
func (MetricsNotifier) Notify(_ context.Context, ev Event) error {
	switch ev.Topic {
	case TopicOrderCommitted:
		if obs.OrdersCommittedTotal != nil {
			obs.OrdersCommittedTotal.Inc()
		}
	case TopicPurchaseAborted:
		if obs.PurchasesAbortedTotal != nil {
			reason, _ := ev.Payload["reason"].(string)
			if reason == "" {
				reason = "unknown"
			}
			obs.PurchasesAbortedTotal.WithLabelValues(reason).Inc()
		}
	}
	return nil
}
