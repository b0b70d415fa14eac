package model

// PeriodStats is one aggregation bucket of the dashboard.
type PeriodStats struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

type LowStockItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type TopProduct struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Revenue   int64  `json:"revenue"`
}

type DashboardStats struct {
	Today         PeriodStats    `json:"today"`
	Yesterday     PeriodStats    `json:"yesterday"`
	ThisMonth     PeriodStats    `json:"this_month"`
	LastMonth     PeriodStats    `json:"last_month"`
	ProductsCount int            `json:"products_count"`
	LowStock      []LowStockItem `json:"low_stock"`
	TopProducts   []TopProduct   `json:"top_products"`
}

// SaleRow is one line of the sales report listing.
type SaleRow struct {
	ID            int    `json:"id"`
	CreatedAt     string `json:"created_at"`
	Cashier       string `json:"cashier,omitempty"`
	StaffID       int    `json:"staff_id,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Subtotal      int64  `json:"subtotal"`
	Discount      int64  `json:"discount"`
	Tax           int64  `json:"tax"`
	Total         int64  `json:"total"`
}

type SaleDetailItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// SaleDetail is the backend-owned sale record; the client never constructs
// one, it only reads them back.
type SaleDetail struct {
	SaleRow
	Items []SaleDetailItem `json:"items"`
}

// ReportFilter narrows the sales report query. Zero values are omitted.
type ReportFilter struct {
	Start         string
	End           string
	PaymentMethod string
	StaffID       int
	Query         string
	Limit         int
}
