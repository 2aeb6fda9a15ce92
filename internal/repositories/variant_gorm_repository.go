package repositories

import (
	"fmt"
	"strings"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMVariantRepository is a GORM implementation of VariantRepository.
type GORMVariantRepository struct {
	db *gorm.DB
}

// NewGORMVariantRepository creates a new instance of GORMVariantRepository.
func NewGORMVariantRepository(db *gorm.DB) *GORMVariantRepository {
	return &GORMVariantRepository{
		db: db,
	}
}

// List retrieves all variants, optionally narrowed by a
// case-insensitive substring match over sku, name, color and size.
func (r *GORMVariantRepository) List(search string) ([]models.Variant, error) {
	var variants []models.Variant
	q := r.db
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(sku) LIKE ? OR LOWER(name) LIKE ? OR LOWER(color) LIKE ? OR LOWER(size) LIKE ?",
			like, like, like, like,
		)
	}
	if err := q.Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

// GetByID retrieves a single variant by its ID.
func (r *GORMVariantRepository) GetByID(id string) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.First(&variant, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("variant with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get variant by ID %s: %w", id, err)
	}
	return &variant, nil
}

// CountBySKU counts variants carrying the given SKU, excluding the row
// with excludeID when it is non-empty.
func (r *GORMVariantRepository) CountBySKU(sku string, excludeID string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Variant{}).Where("sku = ?", sku)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count variants by SKU: %w", err)
	}
	return count, nil
}

// Create creates a new variant.
func (r *GORMVariantRepository) Create(variant *models.Variant) error {
	if variant.ID == "" {
		variant.ID = uuid.New().String()
	}
	if err := r.db.Create(variant).Error; err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}
	return nil
}

// Update updates an existing variant.
func (r *GORMVariantRepository) Update(variant *models.Variant) error {
	res := r.db.Model(variant).Select("*").Updates(variant)
	if res.Error != nil {
		return fmt.Errorf("failed to update variant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant with ID %s not found for update: %w", variant.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a variant by its ID.
func (r *GORMVariantRepository) Delete(id string) error {
	res := r.db.Delete(&models.Variant{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete variant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
