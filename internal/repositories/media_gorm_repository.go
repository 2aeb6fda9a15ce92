package repositories

import (
	"fmt"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMediaRepository is a GORM implementation of MediaRepository.
type GORMMediaRepository struct {
	db *gorm.DB
}

// NewGORMMediaRepository creates a new instance of GORMMediaRepository.
func NewGORMMediaRepository(db *gorm.DB) *GORMMediaRepository {
	return &GORMMediaRepository{
		db: db,
	}
}

// ListImages retrieves all product images.
func (r *GORMMediaRepository) ListImages() ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	return images, nil
}

// GetImageByID retrieves a single product image by its ID.
func (r *GORMMediaRepository) GetImageByID(id string) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product image with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product image by ID %s: %w", id, err)
	}
	return &image, nil
}

// CreateImage creates a new product image row.
func (r *GORMMediaRepository) CreateImage(image *models.ProductImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}

// UpdateImage updates an existing product image row.
func (r *GORMMediaRepository) UpdateImage(image *models.ProductImage) error {
	res := r.db.Model(image).Select("*").Updates(image)
	if res.Error != nil {
		return fmt.Errorf("failed to update product image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product image with ID %s not found for update: %w", image.ID, ErrNotFound)
	}
	return nil
}

// DeleteImage deletes a product image row by its ID.
func (r *GORMMediaRepository) DeleteImage(id string) error {
	res := r.db.Delete(&models.ProductImage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product image with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// ListVideos retrieves all product videos.
func (r *GORMMediaRepository) ListVideos() ([]models.ProductVideo, error) {
	var videos []models.ProductVideo
	if err := r.db.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list product videos: %w", err)
	}
	return videos, nil
}

// GetVideoByID retrieves a single product video by its ID.
func (r *GORMMediaRepository) GetVideoByID(id string) (*models.ProductVideo, error) {
	var video models.ProductVideo
	if err := r.db.First(&video, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product video with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product video by ID %s: %w", id, err)
	}
	return &video, nil
}

// CreateVideo creates a new product video row.
func (r *GORMMediaRepository) CreateVideo(video *models.ProductVideo) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	if err := r.db.Create(video).Error; err != nil {
		return fmt.Errorf("failed to create product video: %w", err)
	}
	return nil
}

// UpdateVideo updates an existing product video row.
func (r *GORMMediaRepository) UpdateVideo(video *models.ProductVideo) error {
	res := r.db.Model(video).Select("*").Updates(video)
	if res.Error != nil {
		return fmt.Errorf("failed to update product video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product video with ID %s not found for update: %w", video.ID, ErrNotFound)
	}
	return nil
}

// DeleteVideo deletes a product video row by its ID.
func (r *GORMMediaRepository) DeleteVideo(id string) error {
	res := r.db.Delete(&models.ProductVideo{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product video with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
