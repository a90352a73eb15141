package providerRepo

import (
	"carebook/models"
)

// ProviderRepository abstracts persistence for providers. GetByID returns
// (nil, nil) when no provider exists with the given id.
type ProviderRepository interface {
	GetByID(id string) (*models.Provider, error)
	GetAll() ([]models.Provider, error)
	GetByServiceIDs(serviceIDs []string) ([]models.Provider, error)
	Create(provider *models.Provider) error
	Update(provider *models.Provider) error
	ReplaceWindows(id string, windows []models.AvailabilityWindow) error
	Delete(id string) error
}
