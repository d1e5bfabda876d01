package models

import "time"

type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	AssetID uint   `gorm:"index;not null" json:"assetId"`
	Name    string `gorm:"size:255;not null" json:"name"`
}

// Workpack is a named batch of flange work inside one project.
type Workpack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectID uint   `gorm:"index;not null" json:"projectId"`
	Name      string `gorm:"size:255;not null" json:"name"`
}
