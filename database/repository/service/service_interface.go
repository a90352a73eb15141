package serviceRepo

import (
	"carebook/models"
)

// ServiceRepository abstracts persistence for bookable services. GetByID
// returns (nil, nil) when no service exists with the given id.
type ServiceRepository interface {
	GetByID(id string) (*models.Service, error)
	GetActive() ([]models.Service, error)
	Create(service *models.Service) error
	Update(service *models.Service) error
	Delete(id string) error
}
