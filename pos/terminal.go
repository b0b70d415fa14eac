// Package pos wires the catalog cache, cart and pricing into the sale flow:
// local pre-checks, submission, and post-sale cleanup.
package pos

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"licorera-pos/cart"
	"licorera-pos/catalog"
	"licorera-pos/model"
	"licorera-pos/pricing"
)

var (
	// ErrEmptyCart is returned before any network traffic when there is
	// nothing to sell.
	ErrEmptyCart = errors.New("pos: cart is empty")

	// ErrProductUnknown means the product id is not in the cached catalog.
	ErrProductUnknown = errors.New("pos: product not in catalog")
)

// InsufficientStockError names the first cart line whose requested quantity
// exceeds the cached stock. The check runs against a possibly stale cache;
// the backend remains the authority and may still reject on its own.
type InsufficientStockError struct {
	Product   model.Product
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("pos: insufficient stock for %q (have %d, want %d)",
		e.Product.Name, e.Product.Stock, e.Requested)
}

// DiscountLimitError rejects a percentage discount above the configured
// maximum when the PIN requirement is on.
type DiscountLimitError struct {
	Pct float64
	Max float64
}

func (e *DiscountLimitError) Error() string {
	return fmt.Sprintf("pos: discount %.0f%% exceeds maximum %.0f%%", e.Pct, e.Max)
}

// SalesAPI is the one backend write the terminal performs; implemented by
// client.Client.
type SalesAPI interface {
	CreateSale(ctx context.Context, req model.SaleRequest) (model.SaleResult, error)
}

// Terminal is the single-operator POS state machine. It is owned by one
// goroutine; only the catalog cache it reads is shared.
type Terminal struct {
	catalog  *catalog.Cache
	sales    SalesAPI
	log      *zap.Logger
	settings model.Settings

	cart   *cart.Cart
	inputs pricing.Inputs
}

type Option func(*Terminal)

func WithLogger(l *zap.Logger) Option {
	return func(t *Terminal) { t.log = l }
}

// WithSettings seeds the tax and discount policy; defaults apply until the
// first settings fetch otherwise.
func WithSettings(s model.Settings) Option {
	return func(t *Terminal) { t.settings = s }
}

func New(cache *catalog.Cache, sales SalesAPI, opts ...Option) *Terminal {
	t := &Terminal{
		catalog:  cache,
		sales:    sales,
		log:      zap.NewNop(),
		settings: model.DefaultSettings(),
		cart:     cart.New(),
		inputs:   pricing.NewInputs(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// ApplySettings swaps in freshly fetched settings (vat rate, discount
// policy).
func (t *Terminal) ApplySettings(s model.Settings) {
	t.settings = s
}

// Cart exposes the underlying cart for line edits.
func (t *Terminal) Cart() *cart.Cart {
	return t.cart
}

// Inputs exposes the discount/tax/cash inputs.
func (t *Terminal) Inputs() *pricing.Inputs {
	return &t.inputs
}

// AddProduct puts qty units of a cached product in the cart. Stock is not
// checked here: sufficiency is only enforced at submission, and the backend
// is the final gate.
func (t *Terminal) AddProduct(id, qty int) error {
	p, ok := t.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrProductUnknown, id)
	}
	t.cart.Add(p, qty)
	return nil
}

// Totals derives the current amounts from the cart and inputs. Pure; calling
// it never changes state.
func (t *Terminal) Totals() pricing.Totals {
	return pricing.Compute(t.cart.Subtotal(), t.inputs, t.settings.Taxes.VATPercent)
}

// Submit runs the local pre-checks, posts the sale, and on success clears
// the cart and inputs and refreshes the catalog so displayed stock follows
// the backend's decrement. On any failure the cart and inputs are left
// exactly as they were.
func (t *Terminal) Submit(ctx context.Context) (model.SaleResult, error) {
	if t.cart.Empty() {
		return model.SaleResult{}, ErrEmptyCart
	}

	if pct := t.inputs.DiscountPercent(); t.settings.POS.RequireDiscountPIN && pct > t.settings.POS.MaxDiscountPct {
		return model.SaleResult{}, &DiscountLimitError{Pct: pct, Max: t.settings.POS.MaxDiscountPct}
	}

	for _, line := range t.cart.Lines() {
		cached, ok := t.catalog.Get(line.Product.ID)
		if !ok {
			cached = line.Product
		}
		if cached.Stock < line.Qty {
			return model.SaleResult{}, &InsufficientStockError{Product: cached, Requested: line.Qty}
		}
	}

	req := t.buildRequest()
	res, err := t.sales.CreateSale(ctx, req)
	if err != nil {
		t.log.Warn("sale submission failed", zap.Error(err))
		return model.SaleResult{}, err
	}

	t.log.Info("sale confirmed",
		zap.Int("sale_id", res.SaleID),
		zap.Int64("total", res.Total),
		zap.Int("units", t.cart.Units()))

	t.cart.Clear()
	t.inputs.Reset()

	if err := t.catalog.Refresh(ctx); err != nil {
		// sale already happened; stale stock fixes itself on the next refresh
		t.log.Warn("post-sale catalog refresh failed", zap.Error(err))
	}

	return res, nil
}

// buildRequest snapshots the cart and inputs into the wire payload. Exactly
// one discount field is transmitted: the absolute amount wins when set.
func (t *Terminal) buildRequest() model.SaleRequest {
	req := model.SaleRequest{
		Items:    t.cart.Items(),
		ApplyTax: t.inputs.ApplyTax(),
		Cash:     t.inputs.Cash(),
	}
	if abs := t.inputs.DiscountAmount(); abs > 0 {
		req.DiscountAbs = &abs
	} else if pct := t.inputs.DiscountPercent(); pct > 0 {
		req.DiscountPct = &pct
	}
	return req
}
