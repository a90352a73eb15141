package booking

import (
	"context"
	"time"

	"carebook/models"
)

// HoldStore is a key-value store with per-key TTL, used as a distributed
// advisory lock over a (serviceID, slot start) pair. The persistent
// appointment store, not the hold store, is the final arbiter of whether a
// slot is taken; holds only bridge the gap between slot selection and
// confirmation.
//
// Any underlying I/O failure propagates to the caller; implementations
// perform no silent retries.
type HoldStore interface {
	// Create atomically writes the hold with the requested TTL, unconditionally
	// overwriting any existing value at the key. Fails when ttl <= 0.
	Create(ctx context.Context, serviceID string, slot time.Time, ttl time.Duration, details models.BookingHold) (*models.BookingHold, error)
	// Get returns the hold with its current remaining TTL, or (nil, nil) when
	// the key is absent or already expired.
	Get(ctx context.Context, serviceID string, slot time.Time) (*models.BookingHold, error)
	// Release deletes the key and reports whether one was actually removed.
	// Releasing an expired or already-released hold returns false without error.
	Release(ctx context.Context, serviceID string, slot time.Time) (bool, error)
	// Extend resets the TTL without touching the value; reports whether the key existed.
	Extend(ctx context.Context, serviceID string, slot time.Time, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, serviceID string, slot time.Time) (bool, error)
}

// AvailabilityRequest narrows an availability computation.
type AvailabilityRequest struct {
	RangeDays  int    // default 14, capped at 60
	ServiceID  string // optional
	ProviderID string // optional
}

// AvailabilityResult is the ordered day-by-day output of a generation run.
type AvailabilityResult struct {
	RangeStart time.Time                `json:"rangeStart"`
	RangeEnd   time.Time                `json:"rangeEnd"`
	Days       []models.AvailabilityDay `json:"days"`
}

// AvailabilityEngine derives free slots from weekly windows, per-service
// duration/buffer/lead-time rules and existing appointments.
type AvailabilityEngine interface {
	GetAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error)
}

// HoldRequest is a client's proposal to claim a slot.
type HoldRequest struct {
	ServiceID  string            `json:"serviceId" binding:"required"`
	Slot       time.Time         `json:"slot" binding:"required"`
	TTLSeconds int               `json:"ttlSeconds"`
	ProviderID string            `json:"providerId,omitempty"`
	CustomerID string            `json:"customerId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// BookingRequest carries the final details for the confirm step.
type BookingRequest struct {
	ServiceID   string            `json:"serviceId" binding:"required"`
	Slot        time.Time         `json:"slot" binding:"required"`
	CustomerID  string            `json:"clientId" binding:"required"`
	ProviderID  string            `json:"providerId,omitempty"`
	TimeZone    string            `json:"timeZone,omitempty"`
	ClientNotes string            `json:"clientNotes,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// BookingService orchestrates the hold lifecycle and the confirm/commit step.
type BookingService interface {
	PlaceHold(ctx context.Context, req HoldRequest) (*models.BookingHold, error)
	ReleaseHold(ctx context.Context, serviceID string, slot time.Time) (bool, error)
	Confirm(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error)
}
