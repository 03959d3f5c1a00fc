package storefront

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventProductCreated    = "ProductCreated"
	EventProductUpdated    = "ProductUpdated"
	EventProductDeleted    = "ProductDeleted"
	EventPromotionCreated  = "PromotionCreated"
	EventPromotionUpdated  = "PromotionUpdated"
	EventPromotionDeleted  = "PromotionDeleted"
	EventSetCreated        = "SetCreated"
	EventSetUpdated        = "SetUpdated"
	EventSetDeleted        = "SetDeleted"
	EventCheckoutRequested = "CheckoutRequested"
)

const EventVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // entity or order id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload in a version-1 envelope with a fresh event id.
func NewEnvelope(eventType, producer, traceID, correlationID string, payload any, now time.Time) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  EventVersion,
		OccurredAt:    now.UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// ---- payloads ----

type ProductChangedPayload struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Status    ProductStatus   `json:"status"`
}

func ProductChanged(p Product) ProductChangedPayload {
	return ProductChangedPayload{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		Status:    p.Status,
	}
}

type ProductDeletedPayload struct {
	ProductID             string   `json:"product_id"`
	Sets                  []string `json:"sets,omitempty"`
	Promotions            []string `json:"promotions,omitempty"`
	DeactivatedSets       []string `json:"deactivated_sets,omitempty"`
	DeactivatedPromotions []string `json:"deactivated_promotions,omitempty"`
}

func ProductDeleted(id string, res CascadeResult) ProductDeletedPayload {
	return ProductDeletedPayload{
		ProductID:             id,
		Sets:                  res.Sets,
		Promotions:            res.Promotions,
		DeactivatedSets:       res.DeactivatedSets,
		DeactivatedPromotions: res.DeactivatedPromos,
	}
}

type PromotionChangedPayload struct {
	PromotionID        string          `json:"promotion_id"`
	Title              string          `json:"title"`
	Type               PromotionType   `json:"type"`
	Discount           decimal.Decimal `json:"discount"`
	ValidUntil         string          `json:"valid_until"`
	Status             PromotionStatus `json:"status"`
	ApplicableProducts []string        `json:"applicable_products,omitempty"`
}

func PromotionChanged(p Promotion) PromotionChangedPayload {
	return PromotionChangedPayload{
		PromotionID:        p.ID,
		Title:              p.Title,
		Type:               p.Type,
		Discount:           p.Discount,
		ValidUntil:         p.ValidUntil.String(),
		Status:             p.Status,
		ApplicableProducts: p.ApplicableProducts,
	}
}

type SetChangedPayload struct {
	SetID         string          `json:"set_id"`
	Name          string          `json:"name"`
	Products      []string        `json:"products"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Price         decimal.Decimal `json:"price"`
	Status        SetStatus       `json:"status"`
}

func SetChanged(s ProductSet) SetChangedPayload {
	return SetChangedPayload{
		SetID:         s.ID,
		Name:          s.Name,
		Products:      s.Products,
		OriginalPrice: s.OriginalPrice,
		Price:         s.Price,
		Status:        s.Status,
	}
}

// DeletedPayload is used for promotion and set deletions.
type DeletedPayload struct {
	ID string `json:"id"`
}

type CheckoutLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

type CheckoutRequestedPayload struct {
	OrderID     string          `json:"order_id"`
	SessionID   string          `json:"session_id"`
	Items       []CheckoutLine  `json:"items"`
	Total       decimal.Decimal `json:"total"`
	WhatsAppURL string          `json:"whatsapp_url"`
	Direct      bool            `json:"direct"` // buy-now, cart untouched
}

// CheckoutLines converts cart lines into event lines.
func CheckoutLines(items []CartItem) []CheckoutLine {
	out := make([]CheckoutLine, 0, len(items))
	for _, it := range items {
		out = append(out, CheckoutLine{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Size:      it.SelectedSize,
			Color:     it.SelectedColor,
		})
	}
	return out
}
