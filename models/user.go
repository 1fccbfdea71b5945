package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer   = "customer"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// Technician availability
const (
	TechnicianPending   = "pending"
	TechnicianAvailable = "available"
	TechnicianBusy      = "busy"
)

// User represents a customer, technician or admin identity
type User struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Phone           string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	PasswordHash    string    `json:"-"` // empty for technicians who signed up without a password
	Role            string    `gorm:"not null;default:'customer';index" json:"role"`
	Location        string    `json:"location,omitempty"`
	ProfileImageKey *string   `json:"-"`                                // nullable, storage key of the profile photo
	ProfileImageURL *string   `gorm:"-" json:"profile_image_url,omitempty"` // computed from ProfileImageKey
	Status          string    `gorm:"size:20" json:"status,omitempty"`     // technicians only: pending, available, busy
	Profession      string    `json:"profession,omitempty"`
	Experience      int       `json:"experience,omitempty"`
	IsBlocked       bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsTechnician reports whether the user signed up as a service provider
func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician
}

// HasPassword reports whether the user can log in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
