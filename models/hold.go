package models

import "time"

// BookingHold is a short-lived claim on a (serviceId, slotStart) pair. It
// bridges the gap between slot selection and final confirmation; the key's
// TTL is the only cleanup mechanism when a client abandons the flow.
type BookingHold struct {
	ServiceID  string            `json:"serviceId"`
	Slot       time.Time         `json:"slot"` // UTC slot start
	ProviderID string            `json:"providerId,omitempty"`
	CustomerID string            `json:"customerId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	TTLSeconds int               `json:"ttlSeconds"` // remaining, as observed at read time
}
