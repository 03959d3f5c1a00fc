// Package notify consumes checkout hand-offs and reports each order once.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/zander-storefront/internal/kafka"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Deduper reports true the first time an event id is seen.
type Deduper interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// Sink receives each accepted checkout; the notifier binary logs them.
type Sink func(ctx context.Context, env storefront.Envelope, p storefront.CheckoutRequestedPayload) error

type Service struct {
	Dedup Deduper
	Sink  Sink
	Log   *zap.Logger
}

// HandleCheckout is installed as the consumer handler for the checkout topic.
// Other event types are acknowledged and skipped; malformed messages are logged and skipped
// so they do not block the partition.
func (s *Service) HandleCheckout(ctx context.Context, m kafkago.Message) error {
	log := logx.OrNop(s.Log)

	if t := kafkax.HeaderValue(m, kafkax.HeaderEventType); t != "" && t != storefront.EventCheckoutRequested {
		return nil
	}

	var env storefront.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Warn("skipping undecodable message", zap.ByteString("key", m.Key), zap.Error(err))
		return nil
	}
	if env.EventType != storefront.EventCheckoutRequested {
		return nil
	}

	p, err := kafkax.UnwrapPayload[storefront.CheckoutRequestedPayload](env.Payload)
	if err != nil {
		log.Warn("skipping checkout with bad payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	if s.Dedup != nil {
		first, err := s.Dedup.FirstSeen(ctx, env.EventID)
		if err != nil {
			return fmt.Errorf("dedup %s: %w", env.EventID, err)
		}
		if !first {
			log.Debug("duplicate checkout ignored", zap.String("event_id", env.EventID))
			return nil
		}
	}

	if s.Sink == nil {
		return nil
	}
	return s.Sink(ctx, env, p)
}

// LogSink writes a one-line summary of each order.
func LogSink(log *zap.Logger) Sink {
	log = logx.OrNop(log)
	return func(_ context.Context, env storefront.Envelope, p storefront.CheckoutRequestedPayload) error {
		units := 0
		for _, it := range p.Items {
			units += it.Quantity
		}
		log.Info("checkout requested",
			zap.String("order_id", p.OrderID),
			zap.String("session_id", p.SessionID),
			zap.Int("lines", len(p.Items)),
			zap.Int("units", units),
			zap.String("total", p.Total.StringFixed(2)),
			zap.Bool("direct", p.Direct),
			zap.String("trace_id", env.TraceID),
			zap.Time("occurred_at", env.OccurredAt))
		return nil
	}
}
