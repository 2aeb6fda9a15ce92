package repositories

import (
	"katalog/internal/models"
)

// MediaRepository defines the interface for product image and video
// data access. Both kinds live here; they are structurally identical
// and always handled by the same storage concerns.
type MediaRepository interface {
	ListImages() ([]models.ProductImage, error)
	GetImageByID(id string) (*models.ProductImage, error)
	CreateImage(image *models.ProductImage) error
	UpdateImage(image *models.ProductImage) error
	DeleteImage(id string) error

	ListVideos() ([]models.ProductVideo, error)
	GetVideoByID(id string) (*models.ProductVideo, error)
	CreateVideo(video *models.ProductVideo) error
	UpdateVideo(video *models.ProductVideo) error
	DeleteVideo(id string) error
}
