package models

import "time"

// Asset is a plant or facility owned by a customer (platform, refinery unit...).
type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CustomerID uint   `gorm:"index;not null" json:"customerId"`
	Name       string `gorm:"size:255;not null" json:"name"`
}
