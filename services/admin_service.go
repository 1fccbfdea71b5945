package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
	"gorm.io/gorm"
)

// AdminService owns the two shared admin credentials
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates an AdminService over db
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// SeedCredentials stores the configured default passwords for any admin
// tier that has no credential yet. Existing credentials are left alone.
func (s *AdminService) SeedCredentials(ctx context.Context, defaults map[string]string) error {
	for role, password := range defaults {
		if !models.IsAdminRole(role) {
			return fmt.Errorf("%w: %s", ErrInvalidAdminRole, role)
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.AdminCredential{}).Where("role = ?", role).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check admin credential: %w", err)
		}
		if count > 0 {
			continue
		}

		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		if err := s.db.WithContext(ctx).Create(&models.AdminCredential{Role: role, PasswordHash: hash}).Error; err != nil {
			return fmt.Errorf("failed to seed admin credential: %w", err)
		}
		log.Printf("Seeded default credential for admin role %s", role)
	}
	return nil
}

// Login verifies the shared password of an admin tier and logs the entry
// under the given display name
func (s *AdminService) Login(ctx context.Context, role, password, name string) (Actor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Actor{}, required("name")
	}
	if !models.IsAdminRole(role) {
		return Actor{}, ErrInvalidAdminRole
	}

	actor := Actor{ID: AdminSubject(role), Name: name, Role: models.RoleAdmin, AdminRole: role}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cred models.AdminCredential
		if err := tx.First(&cred, "role = ?", role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("failed to load admin credential: %w", err)
		}
		if !checkPassword(cred.PasswordHash, password) {
			return ErrInvalidCredentials
		}
		return writeLog(tx, actor, ActionAdminLogin,
			fmt.Sprintf("تم الدخول للبوابة المركزية بصلاحية %s", role))
	})
	if err != nil {
		return Actor{}, err
	}
	return actor, nil
}

// UpdatePassword replaces the password of an admin tier. Managers only.
func (s *AdminService) UpdatePassword(ctx context.Context, actor Actor, role, newPassword string) error {
	if !actor.IsManager() {
		return ErrForbidden
	}
	if !models.IsAdminRole(role) {
		return ErrInvalidAdminRole
	}
	if strings.TrimSpace(newPassword) == "" {
		return required("password")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cred := models.AdminCredential{Role: role, PasswordHash: hash}
		if err := tx.Save(&cred).Error; err != nil {
			return fmt.Errorf("failed to update admin credential: %w", err)
		}
		return writeLog(tx, actor, ActionPasswordChanged,
			fmt.Sprintf("تغيير كلمة مرور صلاحية %s", role))
	})
}
