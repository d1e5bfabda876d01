package models

import "time"

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	Assets []Asset `gorm:"foreignKey:CustomerID" json:"assets,omitempty"`
}
