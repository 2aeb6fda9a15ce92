package repositories

import (
	"fmt"
	"strings"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{
		db: db,
	}
}

// List retrieves all tags, optionally narrowed by a case-insensitive
// substring match on the name.
func (r *GORMTagRepository) List(search string) ([]models.Tag, error) {
	var tags []models.Tag
	q := r.db
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := q.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetByID retrieves a single tag by its ID.
func (r *GORMTagRepository) GetByID(id string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("tag with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag by ID %s: %w", id, err)
	}
	return &tag, nil
}

// GetByIDs retrieves every tag whose ID is in the given set. Missing
// IDs are not an error here; callers compare lengths to detect them.
func (r *GORMTagRepository) GetByIDs(ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by IDs: %w", err)
	}
	return tags, nil
}

// CountByName counts tags carrying the given name, excluding the row
// with excludeID when it is non-empty.
func (r *GORMTagRepository) CountByName(name string, excludeID string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Tag{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tags by name: %w", err)
	}
	return count, nil
}

// Create creates a new tag.
func (r *GORMTagRepository) Create(tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// Update updates an existing tag.
func (r *GORMTagRepository) Update(tag *models.Tag) error {
	res := r.db.Save(tag)
	if res.Error != nil {
		return fmt.Errorf("failed to update tag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tag with ID %s not found for update: %w", tag.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a tag by its ID. Join-table rows referencing the tag
// are removed as well so products do not keep dangling references.
func (r *GORMTagRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach tag %s from products: %w", id, err)
		}
		res := tx.Delete(&models.Tag{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete tag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("tag with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}
