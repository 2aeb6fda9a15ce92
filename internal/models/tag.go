package models

// Tag is a label that can be attached to any number of products.
type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
}
