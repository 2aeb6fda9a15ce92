package repositories

import (
	"katalog/internal/models"
)

// TagRepository defines the interface for tag data access.
type TagRepository interface {
	List(search string) ([]models.Tag, error)
	GetByID(id string) (*models.Tag, error)
	GetByIDs(ids []string) ([]models.Tag, error)
	CountByName(name string, excludeID string) (int64, error)
	Create(tag *models.Tag) error
	Update(tag *models.Tag) error
	Delete(id string) error
}
