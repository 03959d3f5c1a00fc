package httpx

import (
	"net/http"

	kafkax "github.com/ariefcatur/zander-storefront/internal/kafka"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/go-chi/chi/v5/middleware"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// emit publishes an event keyed by correlationID. A nil publisher disables events.
func (h *StoreHandler) emit(r *http.Request, pub Publisher, eventType, correlationID string, payload any) {
	if pub == nil {
		return
	}
	env, err := storefront.NewEnvelope(eventType, h.Service, middleware.GetReqID(r.Context()), correlationID, payload, h.now())
	if err != nil {
		h.logger().Warn("event not published", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	pub.Publish(storefront.PartitionKey(correlationID), kafkax.MustMarshal(env),
		kafkax.EventHeaders(eventType, storefront.EventVersion)...)
}
