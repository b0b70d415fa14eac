// Package apitest is an in-memory stand-in for the licorera backend, used
// by package tests across this module. It mimics the real API's shape:
// FastAPI-style {"detail": ...} errors, X-API-Key gating on privileged
// mutations, server-side stock validation and its own total computation, so
// tests can exercise the "backend is authoritative" contract.
package apitest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"licorera-pos/model"
)

type saleRecord struct {
	ID        int
	CreatedAt time.Time
	Items     []model.SaleDetailItem
	Subtotal  int64
	Discount  int64
	Tax       int64
	Total     int64
}

// Server is safe for concurrent use; every handler takes the state lock.
type Server struct {
	*httptest.Server

	apiKey      string
	licenseCode string

	mu            sync.Mutex
	products      []model.Product
	nextProductID int
	sales         []saleRecord
	nextSaleID    int
	settings      model.Settings
	licenseActive bool
	licenseExpiry time.Time
	hits          map[string]int

	staff       []model.Staff
	nextStaffID int
	shifts      []model.StaffShift
	nextShiftID int
	payments    []model.StaffPayment
	nextPayID   int
}

type Option func(*Server)

// WithProducts seeds the catalog.
func WithProducts(products ...model.Product) Option {
	return func(s *Server) {
		s.products = append(s.products, products...)
		for _, p := range products {
			if p.ID >= s.nextProductID {
				s.nextProductID = p.ID + 1
			}
		}
	}
}

// WithSettings overrides the default settings document.
func WithSettings(settings model.Settings) Option {
	return func(s *Server) { s.settings = settings }
}

// WithAPIKey changes the key privileged endpoints expect.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithLicense seeds the accepted activation code and the current state.
func WithLicense(code string, active bool, expiry time.Time) Option {
	return func(s *Server) {
		s.licenseCode = code
		s.licenseActive = active
		s.licenseExpiry = expiry
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		apiKey:        "CambiaEstaClave",
		licenseCode:   "LICORERA-TEST",
		nextProductID: 1,
		nextSaleID:    1,
		nextStaffID:   1,
		nextShiftID:   1,
		nextPayID:     1,
		settings:      model.DefaultSettings(),
		hits:          make(map[string]int),
	}
	for _, o := range opts {
		o(s)
	}

	r := mux.NewRouter()
	r.Use(s.countRequests)

	r.HandleFunc("/products", s.handleListProducts).Methods("GET")
	r.HandleFunc("/products", s.requireKey(s.handleCreateProduct)).Methods("POST")
	r.HandleFunc("/products/{id}", s.requireKey(s.handleUpdateProduct)).Methods("PUT")
	r.HandleFunc("/products/{id}", s.requireKey(s.handleDeleteProduct)).Methods("DELETE")
	r.HandleFunc("/inventory/adjust", s.requireKey(s.handleAdjustStock)).Methods("POST")

	r.HandleFunc("/sales", s.handleCreateSale).Methods("POST")
	r.HandleFunc("/sales", s.handleListSales).Methods("GET")
	r.HandleFunc("/sales/export", s.handleExportSales).Methods("GET")
	r.HandleFunc("/sales/{id}", s.handleSaleDetail).Methods("GET")
	r.HandleFunc("/stats/dashboard", s.handleDashboard).Methods("GET")

	r.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	r.HandleFunc("/settings", s.requireKey(s.handleUpdateSettings)).Methods("PUT")

	r.HandleFunc("/license/status", s.handleLicenseStatus).Methods("GET")
	r.HandleFunc("/license/activate", s.handleLicenseActivate).Methods("POST")
	r.HandleFunc("/license/reset", s.handleLicenseReset).Methods("POST")

	s.registerStaffRoutes(r)

	s.Server = httptest.NewServer(r)
	return s
}

// Hits reports how many requests reached a method+path, e.g. "POST /sales".
// Tests use it to assert that a rejected submission made no network call.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Product returns the current server-side state of a product.
func (s *Server) Product(id int) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// SaleCount reports how many sales have been registered.
func (s *Server) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

/* -------- Products / inventory -------- */

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if q == "" || containsFold(p.Name, q) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Cost  float64 `json:"cost_per_unit"`
		Stock int     `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Product{
		ID:    s.nextProductID,
		Name:  req.Name,
		Price: model.Pesos(req.Price),
		Cost:  model.Pesos(req.Cost),
		Stock: req.Stock,
	}
	s.nextProductID++
	s.products = append(s.products, p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var patch struct {
		Name  *string  `json:"name"`
		Price *float64 `json:"price"`
		Cost  *float64 `json:"cost_per_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.products[i].Name = *patch.Name
		}
		if patch.Price != nil {
			s.products[i].Price = model.Pesos(*patch.Price)
		}
		if patch.Cost != nil {
			s.products[i].Cost = model.Pesos(*patch.Cost)
		}
		writeJSON(w, http.StatusOK, s.products[i])
		return
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "product not found")
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req model.StockAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != req.ProductID {
			continue
		}
		next := s.products[i].Stock + req.Qty
		if next < 0 && !s.settings.Inventory.AllowNegativeStock {
			writeError(w, http.StatusBadRequest, "stock cannot go negative")
			return
		}
		s.products[i].Stock = next
		writeJSON(w, http.StatusOK, model.StockAdjustResult{OK: true, NewStock: next})
		return
	}
	writeError(w, http.StatusNotFound, "product not found")
}

/* -------- Sales -------- */

// handleCreateSale validates stock against the server's state, computes the
// authoritative total with the server's own rules (including round_to from
// settings, which terminals do not apply), decrements stock and records the
// sale — the adaptation of the checkout+pay flow this fake descends from.
func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req model.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items cannot be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// resolve and validate every line before touching stock
	idx := make(map[int]int, len(req.Items))
	for i := range s.products {
		idx[s.products[i].ID] = i
	}
	var subtotal int64
	items := make([]model.SaleDetailItem, 0, len(req.Items))
	for _, it := range req.Items {
		i, ok := idx[it.ProductID]
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid product_id")
			return
		}
		p := s.products[i]
		if p.Stock < it.Qty && !s.settings.Inventory.AllowNegativeStock {
			writeError(w, http.StatusBadRequest, "insufficient stock: "+p.Name)
			return
		}
		line := p.Price * int64(it.Qty)
		subtotal += line
		items = append(items, model.SaleDetailItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       it.Qty,
			UnitPrice: p.Price,
			LineTotal: line,
		})
	}

	var discount int64
	if req.DiscountAbs != nil && *req.DiscountAbs > 0 {
		discount = *req.DiscountAbs
	} else if req.DiscountPct != nil {
		discount = int64(math.Round(float64(subtotal) * *req.DiscountPct / 100))
	}
	if discount > subtotal {
		discount = subtotal
	}
	base := subtotal - discount

	var tax int64
	if req.ApplyTax {
		tax = int64(math.Round(float64(base) * s.settings.Taxes.VATPercent / 100))
	}

	total := base + tax
	if rt := int64(s.settings.Taxes.RoundTo); rt > 0 {
		total = (total + rt/2) / rt * rt
	}

	for _, it := range req.Items {
		s.products[idx[it.ProductID]].Stock -= it.Qty
	}

	rec := saleRecord{
		ID:        s.nextSaleID,
		CreatedAt: time.Now(),
		Items:     items,
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Total:     total,
	}
	s.nextSaleID++
	s.sales = append(s.sales, rec)

	writeJSON(w, http.StatusOK, model.SaleResult{OK: true, SaleID: rec.ID, Total: rec.Total})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
