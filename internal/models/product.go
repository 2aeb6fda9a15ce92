package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the aggregate root of the catalog. It owns its variants,
// images and videos (they are deleted with it) and shares tags with
// other products through the product_tags join table.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"uniqueIndex;type:varchar(255)"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"-"`

	Tags     []Tag          `json:"tags" gorm:"many2many:product_tags"`
	Variants []Variant      `json:"variants" gorm:"foreignKey:ProductID"`
	Images   []ProductImage `json:"images" gorm:"foreignKey:ProductID"`
	Videos   []ProductVideo `json:"videos" gorm:"foreignKey:ProductID"`
}

// Variant is a sellable variation of a product (size, color, own SKU).
// SKU uniqueness is enforced by the service layer, not the schema:
// variants created through the nested product payload may carry an
// empty SKU, and several of those must be able to coexist.
type Variant struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string          `json:"product" gorm:"index;type:varchar(36)"`
	Name      string          `json:"name" gorm:"type:varchar(255)"`
	SKU       string          `json:"sku" gorm:"type:varchar(255)"`
	Color     string          `json:"color" gorm:"type:varchar(100)"`
	Size      string          `json:"size" gorm:"type:varchar(100)"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock     int             `json:"stock"`
	Image     string          `json:"-" gorm:"type:varchar(512)"`
}
