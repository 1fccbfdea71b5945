package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemLog is an append-only audit entry
type SystemLog struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Actor     string    `gorm:"size:200;not null" json:"actor"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

// TableName specifies the table name for the SystemLog model
func (SystemLog) TableName() string {
	return "system_logs"
}

// BeforeCreate assigns an id when none was provided
func (l *SystemLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
