package apitest

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"licorera-pos/model"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]model.SaleRow, 0, len(s.sales))
	for _, rec := range s.sales {
		rows = append(rows, s.saleRow(rec))
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleSaleDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.sales {
		if rec.ID == id {
			writeJSON(w, http.StatusOK, model.SaleDetail{
				SaleRow: s.saleRow(rec),
				Items:   rec.Items,
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "sale not found")
}

func (s *Server) saleRow(rec saleRecord) model.SaleRow {
	return model.SaleRow{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		PaymentMethod: "cash",
		Subtotal:      rec.Subtotal,
		Discount:      rec.Discount,
		Tax:           rec.Tax,
		Total:         rec.Total,
	}
}

func (s *Server) handleExportSales(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "created_at", "subtotal", "discount", "tax", "total"})
	for _, rec := range s.sales {
		cw.Write([]string{
			strconv.Itoa(rec.ID),
			rec.CreatedAt.Format(time.RFC3339),
			strconv.FormatInt(rec.Subtotal, 10),
			strconv.FormatInt(rec.Discount, 10),
			strconv.FormatInt(rec.Tax, 10),
			strconv.FormatInt(rec.Total, 10),
		})
	}
	cw.Flush()
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := model.DashboardStats{ProductsCount: len(s.products)}
	byProduct := make(map[int]*model.TopProduct)
	for _, rec := range s.sales {
		switch {
		case !rec.CreatedAt.Before(startToday):
			stats.Today.Total += rec.Total
			stats.Today.Count++
		case !rec.CreatedAt.Before(startToday.AddDate(0, 0, -1)):
			stats.Yesterday.Total += rec.Total
			stats.Yesterday.Count++
		}
		if !rec.CreatedAt.Before(startMonth) {
			stats.ThisMonth.Total += rec.Total
			stats.ThisMonth.Count++
		}
		for _, it := range rec.Items {
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &model.TopProduct{ProductID: it.ProductID, Name: it.Name}
				byProduct[it.ProductID] = tp
			}
			tp.Qty += it.Qty
			tp.Revenue += it.LineTotal
		}
	}

	for _, p := range s.products {
		if p.Stock <= s.settings.Inventory.LowStockThreshold {
			stats.LowStock = append(stats.LowStock, model.LowStockItem{
				ID: p.ID, Name: p.Name, Stock: p.Stock,
			})
		}
	}

	for _, tp := range byProduct {
		stats.TopProducts = append(stats.TopProducts, *tp)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		return stats.TopProducts[i].Qty > stats.TopProducts[j].Qty
	})

	writeJSON(w, http.StatusOK, stats)
}

/* -------- Settings -------- */

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.settings)
}

// handleUpdateSettings applies a shallow block-level patch, the way the real
// backend merges partial settings updates.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := patch["business"]; ok {
		json.Unmarshal(raw, &s.settings.Business)
	}
	if raw, ok := patch["taxes"]; ok {
		json.Unmarshal(raw, &s.settings.Taxes)
	}
	if raw, ok := patch["inventory"]; ok {
		json.Unmarshal(raw, &s.settings.Inventory)
	}
	if raw, ok := patch["pos"]; ok {
		json.Unmarshal(raw, &s.settings.POS)
	}
	if raw, ok := patch["alerts"]; ok {
		json.Unmarshal(raw, &s.settings.Alerts)
	}
	writeJSON(w, http.StatusOK, s.settings)
}

/* -------- License -------- */

func (s *Server) handleLicenseStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := model.LicenseStatus{Active: s.licenseActive}
	if s.licenseActive {
		status.License = &model.LicenseInfo{Code: s.licenseCode, ExpiresAt: s.licenseExpiry}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleLicenseActivate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Code != s.licenseCode {
		writeError(w, http.StatusBadRequest, "código de licencia inválido")
		return
	}
	s.licenseActive = true
	if s.licenseExpiry.IsZero() {
		s.licenseExpiry = time.Now().AddDate(0, 0, 30)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLicenseReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.licenseActive = false
	s.licenseExpiry = time.Time{}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
