package models

import "time"

// Admin access roles. A manager can do everything a staff admin can.
const (
	AdminRoleManager = "manager"
	AdminRoleStaff   = "staff_admin"
)

// IsAdminRole reports whether role names one of the two admin tiers
func IsAdminRole(role string) bool {
	return role == AdminRoleManager || role == AdminRoleStaff
}

// AdminCredential stores the shared password hash of one admin tier
type AdminCredential struct {
	Role         string    `gorm:"primaryKey;size:20" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the AdminCredential model
func (AdminCredential) TableName() string {
	return "admin_credentials"
}

// CMS setting keys
const (
	SettingHeroHeadline = "hero_headline"
	SettingHeroSubtext  = "hero_subtext"
)

// DefaultSettings are served until a manager edits the home page copy
var DefaultSettings = map[string]string{
	SettingHeroHeadline: "اطلب أسطى محترف في دقائق",
	SettingHeroSubtext:  "أفضل السباكين والكهربائيين والفنيين في منطقتك، متاحون الآن لخدمتك بضمان وجودة.",
}

// Setting is one editable home page entry
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// All returns every model that needs a table
func All() []interface{} {
	return []interface{}{
		&User{},
		&ServiceRequest{},
		&SystemLog{},
		&QuickOrder{},
		&AdminCredential{},
		&Setting{},
	}
}
