package models

import "gorm.io/gorm"

// Product is a catalog entry. Prices are stored in the smallest currency unit,
// so they never go negative and need no floating point arithmetic.
type Product struct {
	ID           string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title        string         `json:"title" validate:"required,min=3,max=200"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,min=2,max=200"`
	CategoryID   string         `json:"category_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Image        string         `json:"image" validate:"omitempty,max=500"`
	MarkedPrice  uint           `json:"marked_price" validate:"gte=0"`
	SellingPrice uint           `json:"selling_price" validate:"gte=0"`
	Description  string         `json:"description" validate:"omitempty,max=2000"`
	Warranty     string         `json:"warranty,omitempty" validate:"omitempty,max=300"`
	ReturnPolicy string         `json:"return_policy,omitempty" validate:"omitempty,max=300"`
	ViewCount    uint           `json:"view_count"`
	Images       []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model   // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductImage is an extra gallery image attached to a product beyond its main image.
type ProductImage struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string `json:"product_id" gorm:"index;type:varchar(36)"`
	Image      string `json:"image"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
