package model

import (
	"math"
	"time"
)

// LicenseStatus is the backend's answer to GET /license/status.
type LicenseStatus struct {
	Active  bool         `json:"active"`
	License *LicenseInfo `json:"license,omitempty"`
}

type LicenseInfo struct {
	Code      string    `json:"code,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DaysLeft reports whole days until expiry, rounded up and floored at zero.
// Zero when inactive or no expiry is known.
func (s LicenseStatus) DaysLeft(now time.Time) int {
	if !s.Active || s.License == nil || s.License.ExpiresAt.IsZero() {
		return 0
	}
	diff := s.License.ExpiresAt.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
