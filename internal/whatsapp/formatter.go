// Package whatsapp turns an order into a wa.me deep link carrying a pre-filled, human readable
// order message. Nothing here talks to the network.
package whatsapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/idgen"
	"github.com/shopspring/decimal"
)

const (
	DefaultPhone = "5511999999999"
	OrderPrefix  = "ZS"

	orderSuffixLen = 5
	baseURL        = "https://wa.me/"
	dateLayout     = "02/01/2006"
	timeLayout     = "15:04:05"
	footer         = "Pedido gerado automaticamente pelo site da Zander Store"
)

type Item struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"` // unit price
	Quantity int             `json:"quantity"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type Order struct {
	Items    []Item          `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Customer *Customer       `json:"customer,omitempty"`
}

// Checkout is a built hand-off: the generated order id, the plain message and its deep link.
type Checkout struct {
	OrderID   string    `json:"orderId"`
	Message   string    `json:"message"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Formatter is deterministic for a fixed IDs clock and random source.
type Formatter struct {
	Phone    string
	IDs      *idgen.Generator
	Location *time.Location // timestamps in the message are rendered here
}

func NewFormatter(phone string, loc *time.Location) *Formatter {
	if phone == "" {
		phone = DefaultPhone
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{Phone: phone, IDs: idgen.New(), Location: loc}
}

// Build generates a fresh order id, renders the message and encodes the link.
func (f *Formatter) Build(o Order) Checkout {
	now := f.IDs.Now()
	id := f.IDs.Compact(OrderPrefix, orderSuffixLen)
	msg := Message(id, o, f.local(now))
	return Checkout{
		OrderID:   id,
		Message:   msg,
		URL:       f.link(msg),
		CreatedAt: now.UTC(),
	}
}

// OrderURL is Build for a bare item list, returning only the link.
func (f *Formatter) OrderURL(items []Item, total decimal.Decimal) string {
	return f.Build(Order{Items: items, Total: total}).URL
}

func (f *Formatter) local(t time.Time) time.Time {
	if f.Location == nil {
		return t.UTC()
	}
	return t.In(f.Location)
}

func (f *Formatter) link(msg string) string {
	return baseURL + f.Phone + "?text=" + EncodeURIComponent(msg)
}

// Message renders the order text. With a customer the header reads "NOVA ORDEM" and the
// customer block follows the order id; item size and color are printed when set.
func Message(orderID string, o Order, at time.Time) string {
	var b strings.Builder
	if o.Customer != nil {
		b.WriteString("🛍️ *NOVA ORDEM - ZANDER STORE*\n\n")
		fmt.Fprintf(&b, "📋 *Código do Pedido:* %s\n", orderID)
		fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.Customer.Name)
		fmt.Fprintf(&b, "📱 *Telefone:* %s\n", o.Customer.Phone)
		if o.Customer.Email != "" {
			fmt.Fprintf(&b, "📧 *Email:* %s", o.Customer.Email)
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString("🛍️ *NOVO PEDIDO - ZANDER STORE*\n\n")
		fmt.Fprintf(&b, "📋 *Código do Pedido:* %s\n\n", orderID)
	}

	b.WriteString("🛒 *Itens do Pedido:*\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "• %s (%dx)", it.Name, it.Quantity)
		if o.Customer != nil {
			if it.Size != "" {
				fmt.Fprintf(&b, " - Tamanho: %s", it.Size)
			}
			if it.Color != "" {
				fmt.Fprintf(&b, " - Cor: %s", it.Color)
			}
		}
		fmt.Fprintf(&b, "\n  R$ %s", it.Price.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n\n💰 *Total:* R$ %s\n\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "📅 *Data:* %s às %s\n\n", at.Format(dateLayout), at.Format(timeLayout))
	b.WriteString("---\n")
	b.WriteString(footer)
	return b.String()
}
