package models

import "time"

// ServicePrice is the current price configuration for a service.
type ServicePrice struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
	TaxRate  float64 `bson:"taxRate" json:"taxRate"` // e.g. 0.19 for 19%
}

// Service is a bookable offering delivered by one or more qualified providers.
type Service struct {
	ID              string       `bson:"id" json:"id"`
	Name            string       `bson:"name" json:"name"`
	Description     string       `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes int          `bson:"durationMinutes" json:"durationMinutes"`
	BufferBefore    int          `bson:"bufferBefore" json:"bufferBefore"` // minutes
	BufferAfter     int          `bson:"bufferAfter" json:"bufferAfter"`   // minutes
	LeadTimeHours   int          `bson:"leadTimeHours" json:"leadTimeHours"`
	Active          bool         `bson:"active" json:"active"`
	ProviderIDs     []string     `bson:"providerIds" json:"providerIds"`
	Price           ServicePrice `bson:"price" json:"price"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt,omitzero"`
}
