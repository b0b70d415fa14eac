// Package license gates the application on the backend's activation state.
package license

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"licorera-pos/model"
	"licorera-pos/poller"
)

var (
	ErrAlreadyActive = errors.New("license: already active")
	ErrEmptyCode     = errors.New("license: empty activation code")
)

// Client is the slice of the backend API the watcher needs.
type Client interface {
	LicenseStatus(ctx context.Context) (model.LicenseStatus, error)
	ActivateLicense(ctx context.Context, code string) error
	ResetLicense(ctx context.Context) error
}

// Watcher polls the license status on a fixed interval and keeps the latest
// answer. A failed poll marks the license inactive until the next success,
// the same fail-closed behavior the original app had.
type Watcher struct {
	client   Client
	interval time.Duration
	log      *zap.Logger

	poller *poller.Poller

	mu     sync.Mutex
	status model.LicenseStatus
}

func NewWatcher(c Client, interval time.Duration, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watcher{
		client:   c,
		interval: interval,
		log:      log,
	}
	w.poller = poller.New(interval, w.poll)
	return w
}

// Start begins polling; the first status check happens immediately.
func (w *Watcher) Start(ctx context.Context) {
	w.poller.Start(ctx)
}

// Stop cancels the poll loop.
func (w *Watcher) Stop() {
	w.poller.Stop()
}

func (w *Watcher) poll(ctx context.Context) {
	status, err := w.client.LicenseStatus(ctx)
	if err != nil {
		w.log.Warn("license status check failed", zap.Error(err))
		status = model.LicenseStatus{}
	}
	w.setStatus(status)
}

// Refresh forces a status check outside the poll schedule, e.g. right after
// activation.
func (w *Watcher) Refresh(ctx context.Context) {
	w.poll(ctx)
}

func (w *Watcher) setStatus(s model.LicenseStatus) {
	w.mu.Lock()
	w.status = s
	w.mu.Unlock()
}

// Status returns the last polled state.
func (w *Watcher) Status() model.LicenseStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Active reports whether the gate is open.
func (w *Watcher) Active() bool {
	return w.Status().Active
}

// DaysLeft until expiry, per the last poll.
func (w *Watcher) DaysLeft() int {
	return w.Status().DaysLeft(time.Now())
}

// Activate normalizes the code (trimmed, uppercased, as entered on the
// activation screen), refuses when a license is already active, and
// re-polls on success so callers see the new state right away.
func (w *Watcher) Activate(ctx context.Context, code string) error {
	if w.Active() {
		return ErrAlreadyActive
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrEmptyCode
	}
	if err := w.client.ActivateLicense(ctx, code); err != nil {
		return err
	}
	w.Refresh(ctx)
	return nil
}

// Reset deactivates the license and re-polls.
func (w *Watcher) Reset(ctx context.Context) error {
	if err := w.client.ResetLicense(ctx); err != nil {
		return err
	}
	w.Refresh(ctx)
	return nil
}
