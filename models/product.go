package models

import "time"

const (
	StatusPublished   = "Published"
	StatusUnpublished = "Unpublished"
)

// Product is a catalog entry owned by a single user email. Stock and the two
// prices are text-typed on purpose: the dashboard submits them as free-form
// strings and never computes with them.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `json:"name" validate:"required"`
	Category      string    `json:"category" gorm:"default:Foods"`
	QuantityStock string    `json:"quantityStock" validate:"required"`
	Mrp           string    `json:"mrp" validate:"required"`
	SellingPrice  string    `json:"sellingPrice" validate:"required"`
	BrandName     string    `json:"brandName" validate:"required"`
	IsReturnable  string    `json:"isReturnable" gorm:"default:Yes"`
	Images        []string  `json:"images" gorm:"type:text;serializer:json" validate:"required,min=1"`
	Status        string    `json:"status"`
	UserEmail     string    `json:"userEmail" gorm:"index" validate:"required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ValidStatus reports whether s is one of the two lifecycle values.
func ValidStatus(s string) bool {
	return s == StatusPublished || s == StatusUnpublished
}
