package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/idgen"
	kafkax "github.com/ariefcatur/zander-storefront/internal/kafka"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/ariefcatur/zander-storefront/internal/whatsapp"
	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key       string
	eventType string
	env       storefront.Envelope
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	var env storefront.Envelope
	_ = json.Unmarshal(value, &env)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{
		key:       string(key),
		eventType: kafkax.HeaderValue(kafkago.Message{Headers: headers}, kafkax.HeaderEventType),
		env:       env,
	})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

type testServer struct {
	router   *chi.Mux
	catalog  *storefront.Catalog
	catalogE *fakePublisher
	checkout *fakePublisher
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	cat := storefront.NewCatalog(nil, nil)
	require.NoError(t, storefront.Seed(cat))

	ts := &testServer{catalog: cat, catalogE: &fakePublisher{}, checkout: &fakePublisher{}}
	h := &StoreHandler{
		Catalog: cat,
		Store:   blob.NewMemory(),
		WhatsApp: &whatsapp.Formatter{
			Phone:    whatsapp.DefaultPhone,
			IDs:      idgen.New(),
			Location: time.UTC,
		},
		CatalogEvents:  ts.catalogE,
		CheckoutEvents: ts.checkout,
		Limiter:        limiter,
		Service:        "storefront-test",
	}
	ts.router = NewRouter(nil, []string{"*"})
	h.Register(ts.router)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != "" {
		req.Header.Set(HeaderSession, session)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) productID(t *testing.T, name string) string {
	t.Helper()
	for _, p := range ts.catalog.Products() {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("no product %q", name)
	return ""
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSessionIssuedWhenMissing(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/cart", "", nil)
	assert.Len(t, rec.Header().Get(HeaderSession), 36)

	rec = ts.do(t, http.MethodGet, "/cart", "abc-123", nil)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderSession))

	rec = ts.do(t, http.MethodGet, "/cart", "bad session!", nil)
	assert.NotEqual(t, "bad session!", rec.Header().Get(HeaderSession))
}

func TestListProducts(t *testing.T) {
	ts := newTestServer(t, nil)

	all := decodeBody[[]storefront.Product](t, ts.do(t, http.MethodGet, "/products", "", nil))
	assert.Len(t, all, 6)

	calcas := decodeBody[[]storefront.Product](t, ts.do(t, http.MethodGet, "/products?category=calcas&sort=price-high", "", nil))
	require.Len(t, calcas, 2)
	assert.Equal(t, "Calça Cargo Premium", calcas[0].Name)

	rec := ts.do(t, http.MethodGet, "/products/PRD-missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Camiseta Premium Laranja")

	rec := ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "XXL", Color: "Preto"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "size", decodeBody[errorBody](t, rec).Field)

	rec = ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "M", Color: "Preto"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 2, Size: "M", Color: "Preto"})
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeBody[cartView](t, ts.do(t, http.MethodGet, "/cart", "s1", nil))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, "239.70", cart.TotalPrice.StringFixed(2))

	other := decodeBody[cartView](t, ts.do(t, http.MethodGet, "/cart", "s2", nil))
	assert.Empty(t, other.Items)

	rec = ts.do(t, http.MethodPatch, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 0, Size: "M", Color: "Preto"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[cartView](t, rec).Items)

	rec = ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 0, Size: "M", Color: "Preto"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartQuickAddWithoutSelection(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Camiseta Premium Laranja")

	rec := ts.do(t, http.MethodPost, "/cart/items", "s1", map[string]any{"productId": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeBody[cartView](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Empty(t, cart.Items[0].SelectedSize)
	assert.Empty(t, cart.Items[0].SelectedColor)

	rec = ts.do(t, http.MethodPost, "/cart/items", "s1", map[string]any{"productId": id, "color": "Preto"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[cartView](t, rec).Items, 2)

	rec = ts.do(t, http.MethodPost, "/cart/items", "s1", map[string]any{"productId": id, "color": "Rosa"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "color", decodeBody[errorBody](t, rec).Field)

	rec = ts.do(t, http.MethodPost, "/checkout", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decodeBody[checkoutResp](t, rec).Message
	assert.Contains(t, msg, "• Camiseta Premium Laranja - N/A - N/A (1x)\n  R$ 79.90")
	assert.Contains(t, msg, "• Camiseta Premium Laranja - N/A - Preto (1x)\n  R$ 79.90")
	assert.Contains(t, msg, "💰 *Total:* R$ 159.80")
}

func TestRemoveCartItemAndClear(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Calça Jeans Premium")
	ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "40", Color: "Preto"})
	ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "42", Color: "Preto"})

	rec := ts.do(t, http.MethodDelete, "/cart/items?productId="+id+"&size=40&color=Preto", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[cartView](t, rec).Items, 1)

	rec = ts.do(t, http.MethodDelete, "/cart", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[cartView](t, rec).TotalItems)
}

func TestFavoritesToggle(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Tênis Sport Orange")

	rec := ts.do(t, http.MethodPost, "/favorites/"+id+"/toggle", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[toggleResp](t, rec).Favorite)

	favs := decodeBody[[]storefront.Product](t, ts.do(t, http.MethodGet, "/favorites", "s1", nil))
	require.Len(t, favs, 1)
	assert.Equal(t, id, favs[0].ID)

	rec = ts.do(t, http.MethodPost, "/favorites/"+id+"/toggle", "s1", nil)
	assert.False(t, decodeBody[toggleResp](t, rec).Favorite)

	rec = ts.do(t, http.MethodPost, "/favorites/PRD-missing/toggle", "s1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviews(t *testing.T) {
	ts := newTestServer(t, nil)
	a := ts.productID(t, "Camiseta Basic Preta")
	b := ts.productID(t, "Tênis Casual Branco")

	rec := ts.do(t, http.MethodPost, "/products/"+a+"/reviews", "s1", storefront.ReviewInput{Rating: 5, Comment: "curto", UserName: "Ana"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "comment", decodeBody[errorBody](t, rec).Field)

	for _, r := range []int{5, 5, 4} {
		rec = ts.do(t, http.MethodPost, "/products/"+a+"/reviews", "s1", storefront.ReviewInput{Rating: r, Comment: "Muito confortável", UserName: "Ana"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = ts.do(t, http.MethodPost, "/products/"+b+"/reviews", "s2", storefront.ReviewInput{Rating: 2, Comment: "Apertou no pé", Anonymous: true})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, decodeBody[storefront.Review](t, rec).UserName)

	view := decodeBody[reviewsView](t, ts.do(t, http.MethodGet, "/products/"+a+"/reviews", "", nil))
	assert.Len(t, view.Reviews, 3)
	assert.Equal(t, 4.7, view.AverageRating)
	assert.Equal(t, 2, view.Distribution[5])
	assert.Equal(t, 0, view.Distribution[1])

	rec = ts.do(t, http.MethodGet, "/products/PRD-missing/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutCart(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Camiseta Premium Laranja")

	rec := ts.do(t, http.MethodPost, "/checkout", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), storefront.ErrEmptyCart.Error())

	ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 2, Size: "G", Color: "Branco"})

	rec = ts.do(t, http.MethodPost, "/checkout", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[checkoutResp](t, rec)
	assert.Regexp(t, `^ZS-[0-9A-Z]+-[0-9A-Z]{5}$`, resp.OrderID)
	assert.Equal(t, resp.OrderID, rec.Header().Get(HeaderOrderID))
	assert.True(t, strings.HasPrefix(resp.URL, "https://wa.me/5511999999999?text="))
	assert.Contains(t, resp.Message, "• Camiseta Premium Laranja - G - Branco (2x)\n  R$ 79.90")
	assert.Contains(t, resp.Message, "💰 *Total:* R$ 159.80")
	assert.Equal(t, "159.80", resp.Total.StringFixed(2))

	cart := decodeBody[cartView](t, ts.do(t, http.MethodGet, "/cart", "s1", nil))
	assert.Empty(t, cart.Items)

	require.Equal(t, []string{storefront.EventCheckoutRequested}, ts.checkout.types())
	ev := ts.checkout.events[0]
	assert.Equal(t, resp.OrderID, ev.key)
	p, err := kafkax.UnwrapPayload[storefront.CheckoutRequestedPayload](ev.env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "s1", p.SessionID)
	assert.False(t, p.Direct)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "G", p.Items[0].Size)
}

func TestCheckoutWithCustomer(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Calça Jeans Premium")
	ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "40", Color: "Preto"})

	rec := ts.do(t, http.MethodPost, "/checkout", "s1", checkoutReq{Customer: &whatsapp.Customer{Name: "Ana"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer.phone", decodeBody[errorBody](t, rec).Field)

	rec = ts.do(t, http.MethodPost, "/checkout", "s1", checkoutReq{Customer: &whatsapp.Customer{Name: "Ana", Phone: "11988887777"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decodeBody[checkoutResp](t, rec).Message
	assert.Contains(t, msg, "NOVA ORDEM")
	assert.Contains(t, msg, "• Calça Jeans Premium (1x) - Tamanho: 40 - Cor: Preto")
}

func TestCheckoutDirect(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.productID(t, "Tênis Casual Branco")
	ts.do(t, http.MethodPost, "/cart/items", "s1", cartItemReq{ProductID: id, Quantity: 1, Size: "40", Color: "Preto"})

	rec := ts.do(t, http.MethodPost, "/checkout/direct", "s1", directReq{ProductID: id, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/checkout/direct?format=pdf", "s1", directReq{ProductID: id, Quantity: 2, Size: "41", Color: "Branco"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = ts.do(t, http.MethodPost, "/checkout/direct?format=qr", "s1", directReq{ProductID: id, Size: "41", Color: "Branco"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = ts.do(t, http.MethodPost, "/checkout/direct?format=xml", "s1", directReq{ProductID: id, Size: "41", Color: "Branco"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cart := decodeBody[cartView](t, ts.do(t, http.MethodGet, "/cart", "s1", nil))
	assert.Equal(t, 1, cart.TotalItems)

	events := ts.checkout.events
	require.Len(t, events, 2)
	p, err := kafkax.UnwrapPayload[storefront.CheckoutRequestedPayload](events[0].env.Payload)
	require.NoError(t, err)
	assert.True(t, p.Direct)
	assert.Equal(t, "399.80", p.Total.StringFixed(2))
}

func TestCheckoutRateLimited(t *testing.T) {
	ts := newTestServer(t, NewRateLimiter(1, 1))
	id := ts.productID(t, "Tênis Casual Branco")
	body := directReq{ProductID: id, Size: "41", Color: "Branco"}

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/checkout/direct", "s1", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(t, http.MethodPost, "/checkout/direct", "s1", body).Code)
	// browsing is not limited
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/products", "s1", nil).Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/admin/products", "", storefront.ProductInput{Name: "Boné", Price: decimal.NewFromInt(50)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category", decodeBody[errorBody](t, rec).Field)

	rec = ts.do(t, http.MethodPost, "/admin/products", "", storefront.ProductInput{Name: "Boné", Category: "acessorios", Price: decimal.NewFromInt(50), Stock: 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[storefront.Product](t, rec)

	stock := 9
	rec = ts.do(t, http.MethodPatch, "/admin/products/"+p.ID, "", storefront.ProductPatch{Stock: &stock})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, decodeBody[storefront.Product](t, rec).Stock)

	rec = ts.do(t, http.MethodPatch, "/admin/products/PRD-missing", "", storefront.ProductPatch{Stock: &stock})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/admin/products/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[storefront.CascadeResult](t, rec).Found)

	assert.Equal(t, []string{
		storefront.EventProductCreated,
		storefront.EventProductUpdated,
		storefront.EventProductDeleted,
	}, ts.catalogE.types())
}

func TestAdminDeleteCascadesIntoSets(t *testing.T) {
	ts := newTestServer(t, nil)
	sets := decodeBody[[]storefront.ProductSet](t, ts.do(t, http.MethodGet, "/sets", "", nil))
	require.Len(t, sets, 1)

	rec := ts.do(t, http.MethodDelete, "/admin/products/"+sets[0].Products[0], "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[storefront.CascadeResult](t, rec)
	assert.Equal(t, []string{sets[0].ID}, res.Sets)

	got := decodeBody[storefront.ProductSet](t, ts.do(t, http.MethodGet, "/sets/"+sets[0].ID, "", nil))
	assert.Len(t, got.Products, 2)
	assert.Equal(t, storefront.SetActive, got.Status)
}

func TestSetQuoteAndPromotions(t *testing.T) {
	ts := newTestServer(t, nil)
	a := ts.productID(t, "Camiseta Basic Preta")
	b := ts.productID(t, "Tênis Sport Orange")

	rec := ts.do(t, http.MethodPost, "/sets/quote", "", quoteReq{Products: []string{a, b}, Discount: decimal.NewFromInt(10)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decodeBody[storefront.BundleQuote](t, rec)
	assert.Equal(t, "309.80", q.OriginalPrice.StringFixed(2))
	assert.Equal(t, "278.82", q.FinalPrice.StringFixed(2))

	rec = ts.do(t, http.MethodPost, "/sets/quote", "", quoteReq{Products: []string{a}, Discount: decimal.NewFromInt(10)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	until := storefront.Date{Time: time.Now().AddDate(0, 1, 0)}
	rec = ts.do(t, http.MethodPost, "/admin/promotions", "", storefront.PromotionInput{
		Title: "Semana do Tênis", Description: "Tênis com desconto", Discount: decimal.NewFromInt(50),
		ValidUntil: until, ApplicableProducts: []string{b},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	price := decodeBody[priceResp](t, ts.do(t, http.MethodGet, "/products/"+b+"/price", "", nil))
	assert.Equal(t, "124.95", price.EffectivePrice.StringFixed(2))
	assert.Equal(t, "249.90", price.Price.StringFixed(2))

	running := decodeBody[[]storefront.Promotion](t, ts.do(t, http.MethodGet, "/promotions?running=true", "", nil))
	assert.Len(t, running, 1)
}
