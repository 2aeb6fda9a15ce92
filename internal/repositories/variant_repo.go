package repositories

import (
	"katalog/internal/models"
)

// VariantRepository defines the interface for variant data access.
type VariantRepository interface {
	List(search string) ([]models.Variant, error)
	GetByID(id string) (*models.Variant, error)
	CountBySKU(sku string, excludeID string) (int64, error)
	Create(variant *models.Variant) error
	Update(variant *models.Variant) error
	Delete(id string) error
}
