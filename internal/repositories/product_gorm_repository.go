package repositories

import (
	"fmt"
	"strings"

	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// preloaded returns a query that loads the full aggregate.
func (r *GORMProductRepository) preloaded(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Tags").Preload("Variants").Preload("Images").Preload("Videos")
}

// List retrieves products matching the given options, fully preloaded.
func (r *GORMProductRepository) List(opts ProductListOptions) ([]models.Product, error) {
	q := r.db.Model(&models.Product{}).Distinct("products.*").
		Joins("LEFT JOIN product_tags ON product_tags.product_id = products.id").
		Joins("LEFT JOIN tags ON tags.id = product_tags.tag_id")

	if opts.Search != "" {
		like := "%" + strings.ToLower(opts.Search) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(tags.name) LIKE ?",
			like, like, like,
		)
	}
	if opts.TagName != "" {
		q = q.Where("tags.name = ?", opts.TagName)
	}
	if opts.Price != nil {
		q = q.Where("products.price = ?", *opts.Price)
	}
	if opts.Stock != nil {
		q = q.Where("products.stock = ?", *opts.Stock)
	}

	order, err := productOrderClause(opts.OrderBy)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := r.preloaded(q.Order(order)).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// productOrderClause maps the API ordering parameter onto a safe SQL
// ORDER BY. Only price, created_at and stock are orderable.
func productOrderClause(orderBy string) (string, error) {
	if orderBy == "" {
		orderBy = "-created_at"
	}
	column := strings.TrimPrefix(orderBy, "-")
	switch column {
	case "price", "created_at", "stock":
	default:
		return "", fmt.Errorf("cannot order products by %q", column)
	}
	if strings.HasPrefix(orderBy, "-") {
		return "products." + column + " DESC", nil
	}
	return "products." + column + " ASC", nil
}

// GetByID retrieves a single product by its ID with tags, variants,
// images and videos preloaded.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.preloaded(r.db).First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// CountByName counts products carrying the given name, excluding the
// row with excludeID when it is non-empty.
func (r *GORMProductRepository) CountByName(name string, excludeID string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Product{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products by name: %w", err)
	}
	return count, nil
}

// Create persists the product row, its tag associations and its
// variants as one transaction. Nothing is written if any step fails.
func (r *GORMProductRepository) Create(product *models.Product, tags []models.Tag, variants []models.Variant) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		if len(tags) > 0 {
			if err := tx.Model(product).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to associate tags: %w", err)
			}
		}
		return createVariants(tx, product.ID, variants)
	})
	return err
}

// Update writes the product's scalar fields and, when the pointers are
// non-nil, replaces the tag set and destructively replaces the variant
// set, all in one transaction.
func (r *GORMProductRepository) Update(product *models.Product, tags *[]models.Tag, variants *[]models.Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Select("*") updates zero values too and keeps Save's
		// create-on-miss fallback out of the picture.
		res := tx.Model(product).Select("*").Omit(clause.Associations).Updates(product)
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
		}
		if tags != nil {
			if err := tx.Model(product).Association("Tags").Replace(*tags); err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}
		if variants != nil {
			if err := tx.Delete(&models.Variant{}, "product_id = ?", product.ID).Error; err != nil {
				return fmt.Errorf("failed to delete existing variants: %w", err)
			}
			if err := createVariants(tx, product.ID, *variants); err != nil {
				return err
			}
		}
		return nil
	})
}

// createVariants inserts variant rows owned by productID. Incoming IDs
// are ignored; every row is created fresh.
func createVariants(tx *gorm.DB, productID string, variants []models.Variant) error {
	for i := range variants {
		variants[i].ID = uuid.New().String()
		variants[i].ProductID = productID
		if err := tx.Create(&variants[i]).Error; err != nil {
			return fmt.Errorf("failed to create variant: %w", err)
		}
	}
	return nil
}

// Delete removes a product together with its owned variants, images
// and videos, and detaches its tags. Tags themselves are kept.
func (r *GORMProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Variant{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete variants of product %s: %w", id, err)
		}
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		if err := tx.Delete(&models.ProductVideo{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete videos of product %s: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM product_tags WHERE product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach tags of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}
