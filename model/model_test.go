package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPesos(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{5000, 5000},
		{5000.4, 5000},
		{5000.5, 5001},
		{5000.99, 5001},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Pesos(tt.in); got != tt.want {
			t.Errorf("Pesos(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestProductUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Product
	}{
		{
			name: "integer price",
			body: `{"id": 1, "name": "Aguardiente Antioqueño 750ml", "price": 38000, "cost_per_unit": 29000, "stock": 12}`,
			want: Product{ID: 1, Name: "Aguardiente Antioqueño 750ml", Price: 38000, Cost: 29000, Stock: 12},
		},
		{
			name: "float price from sqlite",
			body: `{"id": 2, "name": "Ron Viejo de Caldas", "price": 42000.5, "cost_per_unit": 31000.0, "stock": 6}`,
			want: Product{ID: 2, Name: "Ron Viejo de Caldas", Price: 42001, Cost: 31000, Stock: 6},
		},
		{
			name: "null price",
			body: `{"id": 3, "name": "Promo sin precio", "price": null, "stock": 4}`,
			want: Product{ID: 3, Name: "Promo sin precio", Price: 0, Cost: 0, Stock: 4},
		},
		{
			name: "absent price and cost",
			body: `{"id": 4, "name": "Importado", "stock": 0}`,
			want: Product{ID: 4, Name: "Importado", Price: 0, Cost: 0, Stock: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Product
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProductMarshalRoundTrip(t *testing.T) {
	in := Product{ID: 7, Name: "Poker 330ml", Price: 3500, Cost: 2200, Stock: 48}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Product
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed the product: %+v != %+v", out, in)
	}
}

func TestSaleRequestOmitsInactiveDiscount(t *testing.T) {
	pct := 10.0
	req := SaleRequest{
		Items:       []SaleItem{{ProductID: 1, Qty: 2}},
		DiscountPct: &pct,
		ApplyTax:    true,
		Cash:        50000,
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := wire["discount_pct"]; !ok {
		t.Errorf("discount_pct missing from wire")
	}
	if _, ok := wire["discount_abs"]; ok {
		t.Errorf("discount_abs must be omitted when unset")
	}
}

func TestLicenseDaysLeft(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status LicenseStatus
		want   int
	}{
		{
			name:   "inactive",
			status: LicenseStatus{},
			want:   0,
		},
		{
			name:   "active without expiry",
			status: LicenseStatus{Active: true, License: &LicenseInfo{Code: "LIC-X"}},
			want:   0,
		},
		{
			name: "thirty days out",
			status: LicenseStatus{Active: true, License: &LicenseInfo{
				ExpiresAt: now.Add(30 * 24 * time.Hour),
			}},
			want: 30,
		},
		{
			name: "partial day rounds up",
			status: LicenseStatus{Active: true, License: &LicenseInfo{
				ExpiresAt: now.Add(24*time.Hour + time.Hour),
			}},
			want: 2,
		},
		{
			name: "expired floors at zero",
			status: LicenseStatus{Active: true, License: &LicenseInfo{
				ExpiresAt: now.Add(-48 * time.Hour),
			}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.DaysLeft(now); got != tt.want {
				t.Errorf("DaysLeft = %d, want %d", got, tt.want)
			}
		})
	}
}
