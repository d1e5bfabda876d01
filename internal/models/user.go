package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
	RoleQC         UserRole = "qc"
	RoleClient     UserRole = "client"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleQC, RoleClient:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	Name         string   `gorm:"size:255" json:"name"`
	Company      string   `gorm:"size:255" json:"company"`
}
