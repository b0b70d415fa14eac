package model

// Settings mirrors the backend's app settings document. The POS core only
// reads taxes.vat_percent and the pos block; the rest is carried for the
// settings screens.
type Settings struct {
	Business   BusinessSettings   `json:"business"`
	Taxes      TaxSettings        `json:"taxes"`
	Inventory  InventorySettings  `json:"inventory"`
	POS        POSSettings        `json:"pos"`
	Alerts     AlertSettings      `json:"alerts"`
	Appearance AppearanceSettings `json:"appearance"`
}

type BusinessSettings struct {
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	NIT           string `json:"nit,omitempty"`
	ReceiptHeader string `json:"receipt_header"`
	ReceiptFooter string `json:"receipt_footer"`
}

type TaxSettings struct {
	VATPercent       float64 `json:"vat_percent"`
	PricesIncludeVAT bool    `json:"prices_include_vat"`
	RoundTo          int     `json:"round_to"` // 0, 50 or 100
}

type InventorySettings struct {
	LowStockThreshold  int    `json:"low_stock_threshold"`
	AllowNegativeStock bool   `json:"allow_negative_stock"`
	DefaultCostMethod  string `json:"default_cost_method"`
}

type POSSettings struct {
	PaymentMethods     []string `json:"payment_methods"`
	MaxDiscountPct     float64  `json:"max_discount_pct"`
	RequireDiscountPIN bool     `json:"require_discount_pin"`
	PrinterWidth       int      `json:"printer_width"`
	Favorites          []int    `json:"favorites"`
}

type AlertSettings struct {
	StockLow     bool   `json:"stock_low"`
	DailySummary bool   `json:"daily_summary"`
	SummaryEmail string `json:"summary_email,omitempty"`
}

type AppearanceSettings struct {
	Theme   string `json:"theme"`
	Density string `json:"density"`
}

// DefaultSettings matches what the POS assumes before the first settings
// fetch succeeds: tax on, 20% max discount without PIN.
func DefaultSettings() Settings {
	return Settings{
		Taxes: TaxSettings{VATPercent: 19},
		POS: POSSettings{
			PaymentMethods: []string{"cash"},
			MaxDiscountPct: 20,
		},
		Inventory: InventorySettings{LowStockThreshold: 5},
	}
}
