package models

import "gorm.io/gorm"

// Category groups products. The slug is the public identifier used in URLs.
// Deleting a category removes its products as well; see CategoryRepository.DeleteCascade.
type Category struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string    `json:"title" validate:"required,min=2,max=200"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,min=2,max=200"`
	Products   []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
