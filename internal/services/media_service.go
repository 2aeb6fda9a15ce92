package services

import (
	"errors"
	"io"
	"log"
	"strings"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/storage"
)

// Size caps for uploaded media.
const (
	MaxImageSize = 5 * 1024 * 1024
	MaxVideoSize = 20 * 1024 * 1024
)

// FileInput carries an uploaded file through the service layer without
// tying services to the HTTP framework's multipart types.
type FileInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// MediaService handles business logic for product images and videos:
// file-type and size rules, storage, and the owning-product check.
type MediaService struct {
	mediaRepo   repositories.MediaRepository
	productRepo repositories.ProductRepository
	store       storage.Store
}

// NewMediaService creates a new MediaService.
func NewMediaService(mediaRepo repositories.MediaRepository, productRepo repositories.ProductRepository, store storage.Store) *MediaService {
	return &MediaService{
		mediaRepo:   mediaRepo,
		productRepo: productRepo,
		store:       store,
	}
}

// ListImages retrieves all product images.
func (s *MediaService) ListImages() ([]models.ProductImage, error) {
	return s.mediaRepo.ListImages()
}

// GetImageByID retrieves a single product image by its ID.
func (s *MediaService) GetImageByID(id string) (*models.ProductImage, error) {
	return s.mediaRepo.GetImageByID(id)
}

// CreateImage validates and stores an uploaded image for a product.
// Validation failure leaves both store and filesystem untouched.
func (s *MediaService) CreateImage(productID string, file FileInput, altText string) (*models.ProductImage, error) {
	var errs ValidationErrors
	if !isImageExt(fileExt(file.Filename)) {
		errs = append(errs, &ValidationError{Field: "image", Reason: "unsupported image type"})
	} else if file.Size > MaxImageSize {
		errs = append(errs, &ValidationError{Field: "image", Reason: "image too large"})
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	if err := s.checkProduct(productID); err != nil {
		return nil, err
	}

	ref, err := s.store.Save("products/images", file.Filename, file.Reader)
	if err != nil {
		return nil, err
	}
	image := &models.ProductImage{
		ProductID: productID,
		Image:     ref,
		AltText:   altText,
	}
	if err := s.mediaRepo.CreateImage(image); err != nil {
		s.store.Remove(ref)
		return nil, err
	}
	return image, nil
}

// UpdateImage changes the alt text and optionally replaces the file.
func (s *MediaService) UpdateImage(id string, file *FileInput, altText *string) (*models.ProductImage, error) {
	image, err := s.mediaRepo.GetImageByID(id)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if !isImageExt(fileExt(file.Filename)) {
			return nil, ValidationErrors{{Field: "image", Reason: "unsupported image type"}}
		}
		if file.Size > MaxImageSize {
			return nil, ValidationErrors{{Field: "image", Reason: "image too large"}}
		}
	}
	if altText != nil {
		image.AltText = *altText
	}
	oldRef := ""
	if file != nil {
		ref, err := s.store.Save("products/images", file.Filename, file.Reader)
		if err != nil {
			return nil, err
		}
		oldRef = image.Image
		image.Image = ref
	}
	if err := s.mediaRepo.UpdateImage(image); err != nil {
		return nil, err
	}
	if oldRef != "" {
		if err := s.store.Remove(oldRef); err != nil {
			log.Printf("Warning: failed to remove replaced image %s: %v", oldRef, err)
		}
	}
	return image, nil
}

// DeleteImage deletes the row and then the stored file, best effort.
func (s *MediaService) DeleteImage(id string) error {
	image, err := s.mediaRepo.GetImageByID(id)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.DeleteImage(id); err != nil {
		return err
	}
	if err := s.store.Remove(image.Image); err != nil {
		log.Printf("Warning: failed to remove file of deleted image %s: %v", id, err)
	}
	return nil
}

// ListVideos retrieves all product videos.
func (s *MediaService) ListVideos() ([]models.ProductVideo, error) {
	return s.mediaRepo.ListVideos()
}

// GetVideoByID retrieves a single product video by its ID.
func (s *MediaService) GetVideoByID(id string) (*models.ProductVideo, error) {
	return s.mediaRepo.GetVideoByID(id)
}

// CreateVideo validates and stores an uploaded video for a product.
func (s *MediaService) CreateVideo(productID string, file FileInput, caption string) (*models.ProductVideo, error) {
	var errs ValidationErrors
	if fileExt(file.Filename) != "mp4" {
		errs = append(errs, &ValidationError{Field: "video", Reason: "unsupported video type"})
	} else if file.Size > MaxVideoSize {
		errs = append(errs, &ValidationError{Field: "video", Reason: "video too large"})
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	if err := s.checkProduct(productID); err != nil {
		return nil, err
	}

	ref, err := s.store.Save("products/videos", file.Filename, file.Reader)
	if err != nil {
		return nil, err
	}
	video := &models.ProductVideo{
		ProductID: productID,
		Video:     ref,
		Caption:   caption,
	}
	if err := s.mediaRepo.CreateVideo(video); err != nil {
		s.store.Remove(ref)
		return nil, err
	}
	return video, nil
}

// UpdateVideo changes the caption and optionally replaces the file.
func (s *MediaService) UpdateVideo(id string, file *FileInput, caption *string) (*models.ProductVideo, error) {
	video, err := s.mediaRepo.GetVideoByID(id)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if fileExt(file.Filename) != "mp4" {
			return nil, ValidationErrors{{Field: "video", Reason: "unsupported video type"}}
		}
		if file.Size > MaxVideoSize {
			return nil, ValidationErrors{{Field: "video", Reason: "video too large"}}
		}
	}
	if caption != nil {
		video.Caption = *caption
	}
	oldRef := ""
	if file != nil {
		ref, err := s.store.Save("products/videos", file.Filename, file.Reader)
		if err != nil {
			return nil, err
		}
		oldRef = video.Video
		video.Video = ref
	}
	if err := s.mediaRepo.UpdateVideo(video); err != nil {
		return nil, err
	}
	if oldRef != "" {
		if err := s.store.Remove(oldRef); err != nil {
			log.Printf("Warning: failed to remove replaced video %s: %v", oldRef, err)
		}
	}
	return video, nil
}

// DeleteVideo deletes the row and then the stored file, best effort.
func (s *MediaService) DeleteVideo(id string) error {
	video, err := s.mediaRepo.GetVideoByID(id)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.DeleteVideo(id); err != nil {
		return err
	}
	if err := s.store.Remove(video.Video); err != nil {
		log.Printf("Warning: failed to remove file of deleted video %s: %v", id, err)
	}
	return nil
}

func (s *MediaService) checkProduct(productID string) error {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ValidationErrors{{Field: "product", Reason: "invalid product id"}}
		}
		return err
	}
	return nil
}

// fileExt extracts the trailing segment after the last dot, lowercased.
// A name without a dot yields "".
func fileExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func isImageExt(ext string) bool {
	switch ext {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}
