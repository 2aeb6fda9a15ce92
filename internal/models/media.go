package models

// ProductImage is an image attached to a product. Image holds the
// storage reference (a relative path), not the bytes themselves.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string `json:"product" gorm:"index;type:varchar(36)"`
	Image     string `json:"-" gorm:"type:varchar(512)"`
	AltText   string `json:"alt_text" gorm:"type:varchar(255)"`
}

// ProductVideo is a video attached to a product.
type ProductVideo struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string `json:"product" gorm:"index;type:varchar(36)"`
	Video     string `json:"-" gorm:"type:varchar(512)"`
	Caption   string `json:"caption" gorm:"type:varchar(255)"`
}
