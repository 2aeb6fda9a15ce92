package services

import (
	"fmt"
	"log"
	"unicode/utf8"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/shopspring/decimal"
)

// CatalogEventPublisher publishes catalog change events. Implemented
// by the RabbitMQ client; a nil publisher disables events entirely.
type CatalogEventPublisher interface {
	PublishCatalogEvent(routingKey string, payload map[string]interface{}) error
}

// VariantInput is one variant entry of a nested product payload. An ID
// is accepted for compatibility with clients echoing back earlier
// responses, but the replace semantics always create fresh rows.
type VariantInput struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Color string          `json:"color"`
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// CreateProductInput is the payload for creating a product aggregate.
// Tags holds tag IDs; Variants are created owned by the new product.
type CreateProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Tags        []string        `json:"tags"`
	Variants    []VariantInput  `json:"variants"`
}

// UpdateProductInput is the payload for a partial or full product
// update. Nil pointers mean "leave untouched"; a non-nil Tags or
// Variants pointer replaces the whole collection, even when empty.
type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Tags        *[]string        `json:"tags"`
	Variants    *[]VariantInput  `json:"variants"`
}

// ProductService handles business logic for the product aggregate:
// validation, nested create/update and catalog event publication.
type ProductService struct {
	productRepo repositories.ProductRepository
	tagRepo     repositories.TagRepository
	variantRepo repositories.VariantRepository
	events      CatalogEventPublisher
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(
	productRepo repositories.ProductRepository,
	tagRepo repositories.TagRepository,
	variantRepo repositories.VariantRepository,
	events CatalogEventPublisher,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		tagRepo:     tagRepo,
		variantRepo: variantRepo,
		events:      events,
	}
}

// ListProducts retrieves products matching the given options.
func (s *ProductService) ListProducts(opts repositories.ProductListOptions) ([]models.Product, error) {
	return s.productRepo.List(opts)
}

// GetProductByID retrieves a fully materialized product.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct validates the payload and writes the aggregate
// atomically: the product row, its tag associations and one variant
// row per payload entry. Nothing is persisted on validation failure.
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	var errs ValidationErrors
	nameErrs, err := s.validateName(input.Name, "")
	if err != nil {
		return nil, err
	}
	errs = append(errs, nameErrs...)
	errs = append(errs, validatePrice(input.Price)...)
	errs = append(errs, validateStock(input.Stock)...)
	variantErrs, err := s.validateVariants(input.Variants)
	if err != nil {
		return nil, err
	}
	errs = append(errs, variantErrs...)
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	// Object-level rule: every supplied tag ID must resolve to a row.
	tags, err := s.resolveTags(input.Tags)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := s.productRepo.Create(product, tags, variantRows(input.Variants)); err != nil {
		return nil, err
	}

	created, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return nil, err
	}
	s.publish("product.created", created)
	return created, nil
}

// UpdateProduct validates the supplied fields and applies them to the
// existing product. Tags and variants follow replace semantics when
// present: the tag set is swapped wholesale and the variant set is
// destructively replaced (all prior rows deleted, payload recreated).
func (s *ProductService) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var errs ValidationErrors
	if input.Name != nil {
		nameErrs, err := s.validateName(*input.Name, id)
		if err != nil {
			return nil, err
		}
		errs = append(errs, nameErrs...)
	}
	if input.Price != nil {
		errs = append(errs, validatePrice(*input.Price)...)
	}
	if input.Stock != nil {
		errs = append(errs, validateStock(*input.Stock)...)
	}
	if input.Variants != nil {
		variantErrs, err := s.validateVariants(*input.Variants)
		if err != nil {
			return nil, err
		}
		errs = append(errs, variantErrs...)
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	var tags *[]models.Tag
	if input.Tags != nil {
		resolved, err := s.resolveTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		tags = &resolved
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	var variants *[]models.Variant
	if input.Variants != nil {
		rows := variantRows(*input.Variants)
		variants = &rows
	}

	if err := s.productRepo.Update(product, tags, variants); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.publish("product.updated", updated)
	return updated, nil
}

// DeleteProduct removes the product and everything it owns.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.PublishCatalogEvent("product.deleted", map[string]interface{}{"id": id}); err != nil {
			log.Printf("Warning: failed to publish product.deleted event for product %s: %v", id, err)
		}
	}
	return nil
}

// validateName applies the length and uniqueness rules. excludeID
// keeps a product from colliding with its own row on update.
func (s *ProductService) validateName(name, excludeID string) (ValidationErrors, error) {
	if utf8.RuneCountInString(name) < 2 {
		return ValidationErrors{{Field: "name", Reason: "name too short"}}, nil
	}
	count, err := s.productRepo.CountByName(name, excludeID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return ValidationErrors{{Field: "name", Reason: "name not unique"}}, nil
	}
	return nil, nil
}

func validatePrice(price decimal.Decimal) ValidationErrors {
	if !price.GreaterThan(decimal.Zero) {
		return ValidationErrors{{Field: "price", Reason: "price must be positive"}}
	}
	return nil
}

func validateStock(stock int) ValidationErrors {
	if stock < 0 {
		return ValidationErrors{{Field: "stock", Reason: "stock negative"}}
	}
	return nil
}

// validateVariants applies the per-variant field rules. Unlike the
// product, a variant may be priced at zero. SKUs are checked against
// persisted rows only, so duplicates inside one payload pass.
func (s *ProductService) validateVariants(variants []VariantInput) (ValidationErrors, error) {
	var errs ValidationErrors
	for i, v := range variants {
		if v.Price.IsNegative() {
			errs = append(errs, &ValidationError{
				Field:  fmt.Sprintf("variants[%d].price", i),
				Reason: "price negative",
			})
		}
		if v.Stock < 0 {
			errs = append(errs, &ValidationError{
				Field:  fmt.Sprintf("variants[%d].stock", i),
				Reason: "stock negative",
			})
		}
		if v.SKU != "" {
			count, err := s.variantRepo.CountBySKU(v.SKU, "")
			if err != nil {
				return nil, err
			}
			if count > 0 {
				errs = append(errs, &ValidationError{
					Field:  fmt.Sprintf("variants[%d].sku", i),
					Reason: "sku not unique",
				})
			}
		}
	}
	return errs, nil
}

// resolveTags loads the supplied tag IDs and fails when any of them,
// including duplicates, does not resolve to exactly one row.
func (s *ProductService) resolveTags(ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ValidationErrors{{Field: "tags", Reason: "invalid tag id"}}
	}
	return tags, nil
}

// variantRows converts payload entries to rows, dropping any supplied
// IDs. Missing strings default to "" and numbers to 0 by zero value.
func variantRows(inputs []VariantInput) []models.Variant {
	rows := make([]models.Variant, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, models.Variant{
			Name:  in.Name,
			SKU:   in.SKU,
			Color: in.Color,
			Size:  in.Size,
			Price: in.Price,
			Stock: in.Stock,
		})
	}
	return rows
}

func (s *ProductService) publish(routingKey string, product *models.Product) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"id":    product.ID,
		"name":  product.Name,
		"price": product.Price.StringFixed(2),
		"stock": product.Stock,
	}
	if err := s.events.PublishCatalogEvent(routingKey, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", routingKey, product.ID, err)
	}
}
