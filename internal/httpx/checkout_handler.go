package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/ariefcatur/zander-storefront/internal/whatsapp"
	"github.com/shopspring/decimal"
)

const (
	formatJSON = "json"
	formatQR   = "qr"
	formatPDF  = "pdf"

	notSelected = "N/A"
)

type checkoutReq struct {
	Customer *whatsapp.Customer `json:"customer,omitempty"`
}

type directReq struct {
	ProductID string             `json:"productId"`
	Quantity  int                `json:"quantity"`
	Size      string             `json:"size"`
	Color     string             `json:"color"`
	Customer  *whatsapp.Customer `json:"customer,omitempty"`
}

type checkoutResp struct {
	whatsapp.Checkout
	Total decimal.Decimal `json:"total"`
}

type rendered struct {
	contentType string
	body        []byte
}

// checkout hands the whole cart to WhatsApp and empties it.
func (h *StoreHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decode(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validCustomer(req.Customer); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	cart, err := h.openCart(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := cart.Items()
	if len(items) == 0 {
		h.fail(w, r, storefront.ErrEmptyCart)
		return
	}

	order := whatsapp.Order{Total: cart.TotalPrice(), Customer: req.Customer}
	for _, it := range items {
		order.Items = append(order.Items, orderItem(it.Name, it.Price, it.Quantity, it.SelectedSize, it.SelectedColor, req.Customer != nil))
	}

	c := h.WhatsApp.Build(order)
	out, err := h.render(r, c, order)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := cart.Clear(ctx); err != nil {
		h.fail(w, r, err)
		return
	}

	h.emit(r, h.CheckoutEvents, storefront.EventCheckoutRequested, c.OrderID, storefront.CheckoutRequestedPayload{
		OrderID:     c.OrderID,
		SessionID:   SessionID(ctx),
		Items:       storefront.CheckoutLines(items),
		Total:       order.Total,
		WhatsAppURL: c.URL,
	})
	h.respond(w, c, order, out)
}

// checkoutDirect is "buy now": one product, the cart is left alone.
func (h *StoreHandler) checkoutDirect(w http.ResponseWriter, r *http.Request) {
	var req directReq
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		h.fail(w, r, storefront.ErrInvalidQuantity)
		return
	}
	if err := validCustomer(req.Customer); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.purchasable(req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := p.CheckSelection(req.Size, req.Color); err != nil {
		h.fail(w, r, err)
		return
	}

	line := storefront.CartItem{Product: p, Quantity: req.Quantity, SelectedSize: req.Size, SelectedColor: req.Color}
	order := whatsapp.Order{
		Items:    []whatsapp.Item{orderItem(p.Name, p.Price, req.Quantity, req.Size, req.Color, req.Customer != nil)},
		Total:    line.Subtotal(),
		Customer: req.Customer,
	}

	c := h.WhatsApp.Build(order)
	out, err := h.render(r, c, order)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.emit(r, h.CheckoutEvents, storefront.EventCheckoutRequested, c.OrderID, storefront.CheckoutRequestedPayload{
		OrderID:     c.OrderID,
		SessionID:   SessionID(r.Context()),
		Items:       storefront.CheckoutLines([]storefront.CartItem{line}),
		Total:       order.Total,
		WhatsAppURL: c.URL,
		Direct:      true,
	})
	h.respond(w, c, order, out)
}

// orderItem names a line the way the order message expects. Without customer details the
// variant goes into the name ("Camiseta - M - Preto", N/A when unset); with them the message
// prints size and color on their own.
func orderItem(name string, price decimal.Decimal, qty int, size, color string, withCustomer bool) whatsapp.Item {
	if withCustomer {
		return whatsapp.Item{Name: name, Price: price, Quantity: qty, Size: size, Color: color}
	}
	return whatsapp.Item{
		Name:     strings.Join([]string{name, orNA(size), orNA(color)}, " - "),
		Price:    price,
		Quantity: qty,
	}
}

func orNA(s string) string {
	if s == "" {
		return notSelected
	}
	return s
}

func validCustomer(c *whatsapp.Customer) error {
	if c == nil {
		return nil
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	switch {
	case c.Name == "":
		return &storefront.ValidationError{Field: "customer.name", Reason: storefront.ReasonRequired}
	case c.Phone == "":
		return &storefront.ValidationError{Field: "customer.phone", Reason: storefront.ReasonRequired}
	}
	return nil
}

// render produces the qr or pdf body up front so a failure leaves the cart intact.
// JSON responses are encoded later and return a nil body here.
func (h *StoreHandler) render(r *http.Request, c whatsapp.Checkout, o whatsapp.Order) (*rendered, error) {
	switch f := r.URL.Query().Get("format"); f {
	case "", formatJSON:
		return nil, nil
	case formatQR:
		png, err := whatsapp.QRCode(c.URL)
		if err != nil {
			return nil, err
		}
		return &rendered{contentType: "image/png", body: png}, nil
	case formatPDF:
		pdf, err := h.WhatsApp.Slip(c, o)
		if err != nil {
			return nil, err
		}
		return &rendered{contentType: "application/pdf", body: pdf}, nil
	default:
		return nil, &storefront.ValidationError{Field: "format", Reason: storefront.ReasonUnknown}
	}
}

func (h *StoreHandler) respond(w http.ResponseWriter, c whatsapp.Checkout, o whatsapp.Order, out *rendered) {
	w.Header().Set(HeaderOrderID, c.OrderID)
	if out == nil {
		writeJSON(w, http.StatusOK, checkoutResp{Checkout: c, Total: o.Total})
		return
	}
	if out.contentType == "application/pdf" {
		w.Header().Set("Content-Disposition", "attachment; filename=pedido-"+c.OrderID+".pdf")
	}
	w.Header().Set("Content-Type", out.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.body)
}
