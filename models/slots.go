package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// AvailabilitySlot is a candidate reservation window. It is a pure value,
// recomputed on every availability request and never persisted.
type AvailabilitySlot struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName"`
	ServiceID    string    `json:"serviceId"`
	ServiceName  string    `json:"serviceName"`
	Start        time.Time `json:"start"` // UTC
	End          time.Time `json:"end"`   // UTC
	TimeZone     string    `json:"timeZone"`
}

// AvailabilityDay groups slots sharing a UTC calendar date.
type AvailabilityDay struct {
	Date  string             `json:"date"` // "2006-01-02" in UTC
	Slots []AvailabilitySlot `json:"slots"`
}

// SlotID derives the deterministic identity of a slot. The same real-world
// slot must map to the same ID across independent availability computations.
func SlotID(providerID, serviceID string, start time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", providerID, serviceID, start.UTC().Format(time.RFC3339))))
	return hex.EncodeToString(sum[:16])
}
