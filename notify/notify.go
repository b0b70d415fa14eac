// Package notify turns dashboard aggregates into operator notifications:
// low-stock warnings, today's sales and the month's top seller.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"licorera-pos/model"
	"licorera-pos/poller"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
)

type Notification struct {
	ID          string
	Title       string
	Description string
	Level       Level
}

// Build derives the notification list from stats. Pure; same stats and
// settings always give the same list.
func Build(stats model.DashboardStats, alerts model.AlertSettings) []Notification {
	var list []Notification

	if alerts.StockLow && len(stats.LowStock) > 0 {
		names := make([]string, 0, 3)
		for i, it := range stats.LowStock {
			if i == 3 {
				break
			}
			names = append(names, it.Name)
		}
		desc := strings.Join(names, ", ")
		if extra := len(stats.LowStock) - 3; extra > 0 {
			desc += fmt.Sprintf(" y %d más", extra)
		}
		list = append(list, Notification{
			ID:          "low_stock",
			Title:       fmt.Sprintf("Stock bajo: %d productos", len(stats.LowStock)),
			Description: desc,
			Level:       LevelWarning,
		})
	}

	if stats.Today.Count > 0 {
		list = append(list, Notification{
			ID:          "sales_today",
			Title:       fmt.Sprintf("Ventas hoy: %d", stats.Today.Count),
			Description: fmt.Sprintf("Total $%d", stats.Today.Total),
			Level:       LevelSuccess,
		})
	}

	if len(stats.TopProducts) > 0 {
		top := stats.TopProducts[0]
		list = append(list, Notification{
			ID:          "top_product",
			Title:       "Más vendido (30d): " + top.Name,
			Description: fmt.Sprintf("%d uds · $%d", top.Qty, top.Revenue),
			Level:       LevelInfo,
		})
	}

	return list
}

// StatsClient is the piece of the backend API the watcher polls.
type StatsClient interface {
	FetchDashboardStats(ctx context.Context) (model.DashboardStats, error)
	FetchSettings(ctx context.Context) (model.Settings, error)
}

// StatsWatcher refreshes dashboard stats on an interval and exposes the
// derived notifications.
type StatsWatcher struct {
	client StatsClient
	log    *zap.Logger
	poller *poller.Poller

	mu     sync.Mutex
	stats  model.DashboardStats
	alerts model.AlertSettings
	fresh  bool
}

func NewStatsWatcher(c StatsClient, interval time.Duration, log *zap.Logger) *StatsWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	w := &StatsWatcher{client: c, log: log}
	w.poller = poller.New(interval, w.poll)
	return w
}

func (w *StatsWatcher) Start(ctx context.Context) { w.poller.Start(ctx) }
func (w *StatsWatcher) Stop()                     { w.poller.Stop() }

func (w *StatsWatcher) poll(ctx context.Context) {
	stats, err := w.client.FetchDashboardStats(ctx)
	if err != nil {
		// keep the previous stats; notifications go quiet only on settings
		w.log.Warn("dashboard stats fetch failed", zap.Error(err))
		return
	}
	settings, err := w.client.FetchSettings(ctx)
	if err != nil {
		w.log.Warn("settings fetch failed", zap.Error(err))
		return
	}
	w.mu.Lock()
	w.stats = stats
	w.alerts = settings.Alerts
	w.fresh = true
	w.mu.Unlock()
}

// Notifications returns the list built from the last successful poll, nil
// before the first one.
func (w *StatsWatcher) Notifications() []Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.fresh {
		return nil
	}
	return Build(w.stats, w.alerts)
}
