package model

import (
	"encoding/json"
	"math"
)

// Amounts are whole Colombian pesos (COP has no usable minor unit), carried
// as int64 to avoid float drift in totals.

// Pesos rounds a wire amount to whole pesos. Backends backed by SQLite have
// been seen returning prices as floats ("5000.0").
func Pesos(v float64) int64 {
	return int64(math.Round(v))
}

// Product is the client's read-mostly copy of a catalog row. Stock changes
// only as an observed effect of a submitted sale or an inventory adjustment,
// never by local mutation.
type Product struct {
	ID    int
	Name  string
	Price int64
	Cost  int64
	Stock int
}

type productWire struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Cost  *float64 `json:"cost_per_unit"`
	Stock int      `json:"stock"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID = w.ID
	p.Name = w.Name
	p.Stock = w.Stock
	if w.Price != nil {
		p.Price = Pesos(*w.Price)
	} else {
		p.Price = 0
	}
	if w.Cost != nil {
		p.Cost = Pesos(*w.Cost)
	} else {
		p.Cost = 0
	}
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	price := float64(p.Price)
	cost := float64(p.Cost)
	return json.Marshal(productWire{
		ID:    p.ID,
		Name:  p.Name,
		Price: &price,
		Cost:  &cost,
		Stock: p.Stock,
	})
}

type SaleItem struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

// SaleRequest is built fresh at submission time. At most one of DiscountPct
// and DiscountAbs is set; the inactive one is omitted from the wire entirely.
type SaleRequest struct {
	Items       []SaleItem `json:"items"`
	DiscountPct *float64   `json:"discount_pct,omitempty"`
	DiscountAbs *int64     `json:"discount_abs,omitempty"`
	ApplyTax    bool       `json:"apply_tax"`
	Cash        int64      `json:"cash"`
}

// SaleResult carries the backend's authoritative sale id and total. Total may
// differ from the locally derived amount; the backend value wins.
type SaleResult struct {
	OK     bool  `json:"ok"`
	SaleID int   `json:"sale_id"`
	Total  int64 `json:"total"`
}

type StockAdjustRequest struct {
	ProductID int    `json:"product_id"`
	Qty       int    `json:"qty"`
	Note      string `json:"note,omitempty"`
}

type StockAdjustResult struct {
	OK       bool `json:"ok"`
	NewStock int  `json:"new_stock"`
}
