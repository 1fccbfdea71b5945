package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRequest is a customer's work order
type ServiceRequest struct {
	ID             string        `gorm:"primaryKey;size:64" json:"id"`
	CustomerID     string        `gorm:"size:64;not null;index" json:"customer_id"`
	CustomerName   string        `gorm:"not null" json:"customer_name"`
	Category       string        `gorm:"not null" json:"category"`
	Description    string        `gorm:"type:text;not null" json:"description"`
	Location       string        `gorm:"not null" json:"location"`
	PreferredTime  string        `gorm:"not null" json:"preferred_time"`
	Status         RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TechnicianID   *string       `gorm:"size:64;index" json:"technician_id"` // nullable, set on reassignment
	TechnicianName *string       `json:"technician_name"`
	Notes          *string       `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// BeforeCreate assigns an id when none was provided
func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
