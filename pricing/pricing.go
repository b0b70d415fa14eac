// Package pricing derives the amounts shown to the cashier and sent with a
// sale: discount, taxable base, tax, grand total and change due.
package pricing

import "math"

// Inputs are the three operator-controlled knobs plus tendered cash. The two
// discount fields are mutually exclusive: setting one to a non-zero value
// clears the other. Use the setters to keep that invariant.
type Inputs struct {
	discountPct float64
	discountAbs int64
	applyTax    bool
	cash        int64
}

// NewInputs starts with no discount, tax applied and no cash, the state the
// POS screen opens in.
func NewInputs() Inputs {
	return Inputs{applyTax: true}
}

// SetDiscountPercent clamps negatives to zero and clears the absolute
// discount when the percentage is non-zero.
func (in *Inputs) SetDiscountPercent(pct float64) {
	if pct < 0 {
		pct = 0
	}
	in.discountPct = pct
	if pct > 0 {
		in.discountAbs = 0
	}
}

// SetDiscountAmount clamps negatives to zero and clears the percentage
// discount when the amount is non-zero.
func (in *Inputs) SetDiscountAmount(abs int64) {
	if abs < 0 {
		abs = 0
	}
	in.discountAbs = abs
	if abs > 0 {
		in.discountPct = 0
	}
}

func (in *Inputs) SetApplyTax(apply bool) {
	in.applyTax = apply
}

// SetCash clamps negatives to zero.
func (in *Inputs) SetCash(cash int64) {
	if cash < 0 {
		cash = 0
	}
	in.cash = cash
}

func (in Inputs) DiscountPercent() float64 { return in.discountPct }
func (in Inputs) DiscountAmount() int64    { return in.discountAbs }
func (in Inputs) ApplyTax() bool           { return in.applyTax }
func (in Inputs) Cash() int64              { return in.cash }

// Reset returns the inputs to their zero defaults (tax stays applied).
func (in *Inputs) Reset() {
	*in = NewInputs()
}

// Totals is a pure derivation from (subtotal, inputs, vat rate); recomputing
// with the same arguments always yields the same values.
type Totals struct {
	Subtotal int64
	Discount int64
	Base     int64
	Tax      int64
	Total    int64
	Change   int64
}

// Compute applies the business rules:
//
//	discount = abs if abs > 0 else round(subtotal*pct/100), clamped to [0, subtotal]
//	base     = max(0, subtotal - discount)
//	tax      = round(base * vat/100) when tax applies, else 0
//	total    = max(0, base + tax)
//	change   = max(0, cash - total)
//
// vatPercent is the configured IVA percentage (e.g. 19).
func Compute(subtotal int64, in Inputs, vatPercent float64) Totals {
	if subtotal < 0 {
		subtotal = 0
	}

	discount := in.discountAbs
	if discount <= 0 {
		discount = int64(math.Round(float64(subtotal) * in.discountPct / 100))
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	base := subtotal - discount
	if base < 0 {
		base = 0
	}

	var tax int64
	if in.applyTax {
		tax = int64(math.Round(float64(base) * vatPercent / 100))
	}

	total := base + tax
	if total < 0 {
		total = 0
	}

	change := in.cash - total
	if change < 0 {
		change = 0
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Base:     base,
		Tax:      tax,
		Total:    total,
		Change:   change,
	}
}
