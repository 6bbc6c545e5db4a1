package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the shopper profile tied one-to-one to a User identity.
type Customer struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FullName   string    `json:"full_name" validate:"required,min=2,max=200"`
	Address    string    `json:"address,omitempty" validate:"omitempty,max=300"`
	JoinedOn   time.Time `json:"joined_on" gorm:"autoCreateTime"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Admin marks a User identity as a store administrator.
type Admin struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User       *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FullName   string `json:"full_name"`
	Image      string `json:"image,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
