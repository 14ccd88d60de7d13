package models

import "time"

// Product represents a product in the catalog.
// Timestamps are managed by GORM and never serialized.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Price        float64   `json:"price" gorm:"type:float;not null"`
	Availability bool      `json:"availability" gorm:"not null"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName pins the table name used by the store.
func (Product) TableName() string {
	return "products"
}
