package models

import "time"

// AvailabilityWindow is one recurring weekly opening in the provider's local time.
// Start and End are "15:04" clock strings interpreted in the provider's time zone.
type AvailabilityWindow struct {
	Day   string `bson:"day" json:"day"`     // e.g. "Saturday"
	Start string `bson:"start" json:"start"` // e.g. "09:00"
	End   string `bson:"end" json:"end"`     // e.g. "17:00"
}

// Provider is an identity offering one or more bookable services.
type Provider struct {
	ID                     string               `bson:"id" json:"id"`
	DisplayName            string               `bson:"displayName" json:"displayName"`
	Email                  string               `bson:"email" json:"email,omitempty"`
	TimeZone               string               `bson:"timeZone" json:"timeZone"` // IANA name, e.g. "Europe/Berlin"
	DefaultDurationMinutes int                  `bson:"defaultDurationMinutes,omitempty" json:"defaultDurationMinutes,omitempty"`
	ServiceIDs             []string             `bson:"serviceIds" json:"serviceIds"`
	Windows                []AvailabilityWindow `bson:"windows" json:"windows"` // replaced wholesale on save
	Active                 bool                 `bson:"active" json:"active"`
	CreatedAt              time.Time            `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt              time.Time            `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// OffersService reports whether the provider is qualified for the given service.
func (p *Provider) OffersService(serviceID string) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
