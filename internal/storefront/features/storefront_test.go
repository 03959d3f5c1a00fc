package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

const session = "feature-session"

type storefrontTestContext struct {
	store     blob.Store
	products  map[string]storefront.Product
	cart      *storefront.Cart
	favorites *storefront.Favorites
	ledgers   map[string]*storefront.ReviewLedger
	err       error
}

func (c *storefrontTestContext) reset(ctx context.Context) error {
	c.store = blob.NewMemory()
	c.products = map[string]storefront.Product{}
	c.ledgers = map[string]*storefront.ReviewLedger{}
	c.err = nil
	return c.open(ctx)
}

func (c *storefrontTestContext) open(ctx context.Context) error {
	cart, err := storefront.NewCart(ctx, c.store, blob.CartKey(session), nil)
	if err != nil {
		return err
	}
	favs, err := storefront.NewFavorites(ctx, c.store, blob.FavoritesKey(session), nil)
	if err != nil {
		return err
	}
	c.cart, c.favorites = cart, favs
	return nil
}

func (c *storefrontTestContext) product(id string) (storefront.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return storefront.Product{}, fmt.Errorf("unknown product %q", id)
	}
	return p, nil
}

func (c *storefrontTestContext) aProductNamedPriced(id, name, price string) error {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[id] = storefront.Product{ID: id, Name: name, Category: "roupas", Price: d, Stock: 10, Status: storefront.ProductActive}
	return nil
}

func (c *storefrontTestContext) iAddOfInSizeAndColor(ctx context.Context, qty int, id, size, color string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	c.err = c.cart.Add(ctx, p, qty, size, color)
	return nil
}

func (c *storefrontTestContext) iSetTheQuantityOf(ctx context.Context, id, size, color string, qty int) error {
	c.err = c.cart.UpdateQuantity(ctx, id, qty, size, color)
	return c.err
}

func (c *storefrontTestContext) thePriceOfChangesTo(id, price string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	p.Price, err = decimal.NewFromString(price)
	c.products[id] = p
	return err
}

func (c *storefrontTestContext) iReloadTheSession(ctx context.Context) error {
	return c.open(ctx)
}

func (c *storefrontTestContext) theCartHasLines(n int) error {
	if got := len(c.cart.Items()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartHoldsItems(n int) error {
	if got := c.cart.TotalItems(); got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartTotalIs(total string) error {
	if got := c.cart.TotalPrice().StringFixed(2); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (c *storefrontTestContext) theLastOperationFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected an error but the operation succeeded")
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *storefrontTestContext) iToggleFavorite(ctx context.Context, id string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	_, err = c.favorites.Toggle(ctx, p)
	return err
}

func (c *storefrontTestContext) isAFavorite(id string) error {
	if !c.favorites.IsFavorite(id) {
		return fmt.Errorf("expected %q to be a favorite", id)
	}
	return nil
}

func (c *storefrontTestContext) isNotAFavorite(id string) error {
	if c.favorites.IsFavorite(id) {
		return fmt.Errorf("expected %q not to be a favorite", id)
	}
	return nil
}

func (c *storefrontTestContext) aReviewPageOpenFor(ctx context.Context, id string) error {
	l, err := storefront.NewReviewLedger(ctx, c.store, id, nil, nil)
	if err != nil {
		return err
	}
	c.ledgers[id] = l
	return nil
}

func (c *storefrontTestContext) iReviewWithStars(ctx context.Context, id string, stars int) error {
	l, ok := c.ledgers[id]
	if !ok {
		return fmt.Errorf("no review page open for %q", id)
	}
	_, err := l.Add(ctx, storefront.ReviewInput{Rating: stars, Comment: "Produto excelente, recomendo", UserName: "Cliente"})
	return err
}

func (c *storefrontTestContext) hasReviewsWithAverage(ctx context.Context, id string, n int, avg float64) error {
	// a freshly opened page sees what is stored, not just what this page wrote
	l, err := storefront.NewReviewLedger(ctx, c.store, id, nil, nil)
	if err != nil {
		return err
	}
	if got := len(l.Reviews()); got != n {
		return fmt.Errorf("expected %d reviews for %q, got %d", n, id, got)
	}
	if got := l.AverageRating(); got != avg {
		return fmt.Errorf("expected average %.1f for %q, got %.1f", avg, id, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset(ctx)
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" named "([^"]*)" priced (\d+\.\d+)$`, tc.aProductNamedPriced)
	ctx.Step(`^a review page open for "([^"]*)"$`, tc.aReviewPageOpenFor)

	// When steps
	ctx.Step(`^I add (-?\d+) of "([^"]*)" in size "([^"]*)" and color "([^"]*)"$`, tc.iAddOfInSizeAndColor)
	ctx.Step(`^I set the quantity of "([^"]*)" in size "([^"]*)" and color "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOf)
	ctx.Step(`^the price of "([^"]*)" changes to (\d+\.\d+)$`, tc.thePriceOfChangesTo)
	ctx.Step(`^I reload the session$`, tc.iReloadTheSession)
	ctx.Step(`^I toggle favorite "([^"]*)"$`, tc.iToggleFavorite)
	ctx.Step(`^I review "([^"]*)" with (\d+) stars$`, tc.iReviewWithStars)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) items?$`, tc.theCartHoldsItems)
	ctx.Step(`^the cart total is (\d+\.\d+)$`, tc.theCartTotalIs)
	ctx.Step(`^the last operation fails with "([^"]*)"$`, tc.theLastOperationFailsWith)
	ctx.Step(`^"([^"]*)" is a favorite$`, tc.isAFavorite)
	ctx.Step(`^"([^"]*)" is not a favorite$`, tc.isNotAFavorite)
	ctx.Step(`^"([^"]*)" has (\d+) reviews? with average (\d+\.\d+)$`, tc.hasReviewsWithAverage)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
