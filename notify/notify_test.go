package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"licorera-pos/model"
)

func lowStock(names ...string) []model.LowStockItem {
	items := make([]model.LowStockItem, 0, len(names))
	for i, n := range names {
		items = append(items, model.LowStockItem{ID: i + 1, Name: n, Stock: 1})
	}
	return items
}

func TestBuildLowStock(t *testing.T) {
	alerts := model.AlertSettings{StockLow: true}

	tests := []struct {
		name      string
		stats     model.DashboardStats
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "single product",
			stats:     model.DashboardStats{LowStock: lowStock("Aguardiente Antioqueño")},
			wantTitle: "Stock bajo: 1 productos",
			wantDesc:  "Aguardiente Antioqueño",
		},
		{
			name:      "three products listed in full",
			stats:     model.DashboardStats{LowStock: lowStock("Ron Viejo", "Poker", "Club Colombia")},
			wantTitle: "Stock bajo: 3 productos",
			wantDesc:  "Ron Viejo, Poker, Club Colombia",
		},
		{
			name:      "more than three truncated",
			stats:     model.DashboardStats{LowStock: lowStock("Ron Viejo", "Poker", "Club Colombia", "Néctar", "Old Parr")},
			wantTitle: "Stock bajo: 5 productos",
			wantDesc:  "Ron Viejo, Poker, Club Colombia y 2 más",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := Build(tt.stats, alerts)
			if len(list) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(list))
			}
			n := list[0]
			if n.ID != "low_stock" || n.Level != LevelWarning {
				t.Errorf("unexpected notification: %+v", n)
			}
			if n.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", n.Title, tt.wantTitle)
			}
			if n.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", n.Description, tt.wantDesc)
			}
		})
	}
}

func TestBuildLowStockDisabledByAlertSetting(t *testing.T) {
	stats := model.DashboardStats{LowStock: lowStock("Ron Viejo")}
	list := Build(stats, model.AlertSettings{StockLow: false})
	for _, n := range list {
		if n.ID == "low_stock" {
			t.Fatalf("low_stock notification built with alerts disabled")
		}
	}
}

func TestBuildSalesAndTopProduct(t *testing.T) {
	stats := model.DashboardStats{
		Today: model.PeriodStats{Total: 125000, Count: 8},
		TopProducts: []model.TopProduct{
			{ProductID: 1, Name: "Aguardiente Antioqueño", Qty: 42, Revenue: 630000},
			{ProductID: 2, Name: "Ron Viejo de Caldas", Qty: 10, Revenue: 220000},
		},
	}

	list := Build(stats, model.AlertSettings{})
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}

	if list[0].ID != "sales_today" || list[0].Level != LevelSuccess {
		t.Errorf("unexpected first notification: %+v", list[0])
	}
	if list[0].Title != "Ventas hoy: 8" {
		t.Errorf("title = %q", list[0].Title)
	}
	if list[0].Description != "Total $125000" {
		t.Errorf("description = %q", list[0].Description)
	}

	if list[1].ID != "top_product" || list[1].Level != LevelInfo {
		t.Errorf("unexpected second notification: %+v", list[1])
	}
	if list[1].Title != "Más vendido (30d): Aguardiente Antioqueño" {
		t.Errorf("title = %q", list[1].Title)
	}
}

func TestBuildEmptyStats(t *testing.T) {
	if list := Build(model.DashboardStats{}, model.AlertSettings{StockLow: true}); len(list) != 0 {
		t.Fatalf("expected no notifications, got %+v", list)
	}
}

type fakeStatsClient struct {
	mu       sync.Mutex
	stats    model.DashboardStats
	settings model.Settings
	fail     bool
	calls    int
}

func (f *fakeStatsClient) FetchDashboardStats(ctx context.Context) (model.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return model.DashboardStats{}, errors.New("backend down")
	}
	return f.stats, nil
}

func (f *fakeStatsClient) FetchSettings(ctx context.Context) (model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.Settings{}, errors.New("backend down")
	}
	return f.settings, nil
}

func (f *fakeStatsClient) set(stats model.DashboardStats, fail bool) {
	f.mu.Lock()
	f.stats = stats
	f.fail = fail
	f.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestStatsWatcherPolls(t *testing.T) {
	client := &fakeStatsClient{
		stats:    model.DashboardStats{Today: model.PeriodStats{Total: 50000, Count: 3}},
		settings: model.Settings{Alerts: model.AlertSettings{StockLow: true}},
	}
	w := NewStatsWatcher(client, 10*time.Millisecond, nil)

	if w.Notifications() != nil {
		t.Fatalf("expected nil before first poll")
	}

	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool { return len(w.Notifications()) == 1 })
	if n := w.Notifications()[0]; n.ID != "sales_today" {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestStatsWatcherKeepsLastGoodStats(t *testing.T) {
	client := &fakeStatsClient{
		stats: model.DashboardStats{Today: model.PeriodStats{Total: 50000, Count: 3}},
	}
	w := NewStatsWatcher(client, 10*time.Millisecond, nil)
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool { return len(w.Notifications()) == 1 })

	client.set(model.DashboardStats{}, true)
	waitFor(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.calls >= 3
	})

	if len(w.Notifications()) != 1 {
		t.Fatalf("failed poll must not drop the last good stats")
	}
}
