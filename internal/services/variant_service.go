package services

import (
	"errors"
	"log"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/storage"

	"github.com/shopspring/decimal"
)

// CreateVariantInput is the payload for creating a variant through the
// variants collection. ProductID is required here; it is the only
// place the owner can be chosen outside a nested product write.
type CreateVariantInput struct {
	ProductID string
	Name      string
	SKU       string
	Color     string
	Size      string
	Price     decimal.Decimal
	Stock     int
	Image     *FileInput
}

// UpdateVariantInput is a partial variant update. The owning product
// is write-restricted and cannot be changed after creation.
type UpdateVariantInput struct {
	Name  *string
	SKU   *string
	Color *string
	Size  *string
	Price *decimal.Decimal
	Stock *int
	Image *FileInput
}

// VariantService handles business logic for standalone variant CRUD.
type VariantService struct {
	variantRepo repositories.VariantRepository
	productRepo repositories.ProductRepository
	store       storage.Store
}

// NewVariantService creates a new VariantService.
func NewVariantService(variantRepo repositories.VariantRepository, productRepo repositories.ProductRepository, store storage.Store) *VariantService {
	return &VariantService{
		variantRepo: variantRepo,
		productRepo: productRepo,
		store:       store,
	}
}

// ListVariants retrieves all variants, optionally narrowed by search.
func (s *VariantService) ListVariants(search string) ([]models.Variant, error) {
	return s.variantRepo.List(search)
}

// GetVariantByID retrieves a single variant by its ID.
func (s *VariantService) GetVariantByID(id string) (*models.Variant, error) {
	return s.variantRepo.GetByID(id)
}

// CreateVariant validates the payload and creates one variant owned by
// an existing product. The image, when supplied, is stored only after
// all rules pass.
func (s *VariantService) CreateVariant(input CreateVariantInput) (*models.Variant, error) {
	var errs ValidationErrors
	if input.Price.IsNegative() {
		errs = append(errs, &ValidationError{Field: "price", Reason: "price negative"})
	}
	if input.Stock < 0 {
		errs = append(errs, &ValidationError{Field: "stock", Reason: "stock negative"})
	}
	if input.SKU != "" {
		count, err := s.variantRepo.CountBySKU(input.SKU, "")
		if err != nil {
			return nil, err
		}
		if count > 0 {
			errs = append(errs, &ValidationError{Field: "sku", Reason: "sku not unique"})
		}
	}
	if input.Image != nil && !isImageExt(fileExt(input.Image.Filename)) {
		errs = append(errs, &ValidationError{Field: "image", Reason: "unsupported image type"})
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.GetByID(input.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ValidationErrors{{Field: "product", Reason: "invalid product id"}}
		}
		return nil, err
	}

	variant := &models.Variant{
		ProductID: input.ProductID,
		Name:      input.Name,
		SKU:       input.SKU,
		Color:     input.Color,
		Size:      input.Size,
		Price:     input.Price,
		Stock:     input.Stock,
	}
	if input.Image != nil {
		ref, err := s.store.Save("products/variants", input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, err
		}
		variant.Image = ref
	}
	if err := s.variantRepo.Create(variant); err != nil {
		if variant.Image != "" {
			s.store.Remove(variant.Image)
		}
		return nil, err
	}
	return variant, nil
}

// UpdateVariant applies the supplied fields to an existing variant.
// Any product reference in the payload was already discarded by the
// handler; ownership never changes here.
func (s *VariantService) UpdateVariant(id string, input UpdateVariantInput) (*models.Variant, error) {
	variant, err := s.variantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var errs ValidationErrors
	if input.Price != nil && input.Price.IsNegative() {
		errs = append(errs, &ValidationError{Field: "price", Reason: "price negative"})
	}
	if input.Stock != nil && *input.Stock < 0 {
		errs = append(errs, &ValidationError{Field: "stock", Reason: "stock negative"})
	}
	if input.SKU != nil && *input.SKU != "" {
		count, err := s.variantRepo.CountBySKU(*input.SKU, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			errs = append(errs, &ValidationError{Field: "sku", Reason: "sku not unique"})
		}
	}
	if input.Image != nil && !isImageExt(fileExt(input.Image.Filename)) {
		errs = append(errs, &ValidationError{Field: "image", Reason: "unsupported image type"})
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		variant.Name = *input.Name
	}
	if input.SKU != nil {
		variant.SKU = *input.SKU
	}
	if input.Color != nil {
		variant.Color = *input.Color
	}
	if input.Size != nil {
		variant.Size = *input.Size
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}
	if input.Stock != nil {
		variant.Stock = *input.Stock
	}

	oldImage := ""
	if input.Image != nil {
		ref, err := s.store.Save("products/variants", input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, err
		}
		oldImage = variant.Image
		variant.Image = ref
	}

	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	if oldImage != "" {
		if err := s.store.Remove(oldImage); err != nil {
			log.Printf("Warning: failed to remove replaced variant image %s: %v", oldImage, err)
		}
	}
	return variant, nil
}

// DeleteVariant deletes a variant and its stored image, if any.
func (s *VariantService) DeleteVariant(id string) error {
	variant, err := s.variantRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.variantRepo.Delete(id); err != nil {
		return err
	}
	if variant.Image != "" {
		if err := s.store.Remove(variant.Image); err != nil {
			log.Printf("Warning: failed to remove image of deleted variant %s: %v", id, err)
		}
	}
	return nil
}
