package repositories

import (
	"katalog/internal/models"

	"github.com/shopspring/decimal"
)

// ProductListOptions narrows and orders a product listing. Search is a
// case-insensitive substring match over name, description and tag
// names; TagName, Price and Stock are exact-match filters; OrderBy is
// one of price, created_at or stock, with a leading "-" for descending
// ("-created_at" when empty).
type ProductListOptions struct {
	Search  string
	TagName string
	Price   *decimal.Decimal
	Stock   *int
	OrderBy string
}

// ProductRepository defines the interface for product data access.
// Create and Update write the whole aggregate (product row, tag
// associations, owned variants) in a single transaction.
type ProductRepository interface {
	List(opts ProductListOptions) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	CountByName(name string, excludeID string) (int64, error)
	Create(product *models.Product, tags []models.Tag, variants []models.Variant) error
	// Update writes the product's scalar fields. A nil tags or variants
	// pointer leaves that collection untouched; a non-nil pointer
	// replaces it wholesale (variants destructively: delete then
	// recreate).
	Update(product *models.Product, tags *[]models.Tag, variants *[]models.Variant) error
	Delete(id string) error
}
