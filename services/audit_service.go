package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
	"gorm.io/gorm"
)

// SystemActor is recorded when nobody is signed in
const SystemActor = "نظام"

// Audit action labels
const (
	ActionAdminLogin         = "دخول إداري"
	ActionAdminLogout        = "خروج إداري"
	ActionCustomerLogin      = "دخول عميل"
	ActionCustomerLogout     = "خروج عميل"
	ActionTechnicianLogin    = "دخول فني"
	ActionTechnicianLogout   = "خروج فني"
	ActionRegister           = "تسجيل جديد"
	ActionTechnicianSignup   = "طلب انضمام فني"
	ActionRequestCreated     = "طلب جديد"
	ActionRequestUpdated     = "تحديث طلب"
	ActionRequestReassigned  = "تعيين فني"
	ActionRequestDeleted     = "حذف طلب"
	ActionTechnicianApproved = "اعتماد فني"
	ActionUserBlocked        = "حظر مستخدم"
	ActionUserUnblocked      = "إلغاء حظر"
	ActionPasswordChanged    = "تغيير كلمة المرور"
	ActionSettingsUpdated    = "تحديث المحتوى"
	ActionBackupCreated      = "نسخة احتياطية"
)

// SessionEntry picks the audit label and details for a sign-in or sign-out
// by role
func SessionEntry(role, name string, login bool) (action, details string) {
	switch role {
	case models.RoleAdmin:
		if login {
			return ActionAdminLogin, "تم الدخول للبوابة المركزية"
		}
		return ActionAdminLogout, "تم تسجيل الخروج"
	case models.RoleTechnician:
		if login {
			return ActionTechnicianLogin, fmt.Sprintf("الفني %s دخل المنصة", name)
		}
		return ActionTechnicianLogout, fmt.Sprintf("الفني %s خرج من المنصة", name)
	default:
		if login {
			return ActionCustomerLogin, fmt.Sprintf("العميل %s دخل المنصة", name)
		}
		return ActionCustomerLogout, fmt.Sprintf("العميل %s خرج من المنصة", name)
	}
}

// Actor identifies who performed a mutation
type Actor struct {
	ID        string
	Name      string
	Role      string
	AdminRole string
}

// DisplayName is the name written to the audit log
func (a Actor) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return SystemActor
}

// IsManager reports whether the actor holds the manager admin role
func (a Actor) IsManager() bool {
	return a.AdminRole == models.AdminRoleManager
}

// writeLog appends one entry using the caller's transaction
func writeLog(tx *gorm.DB, actor Actor, action, details string) error {
	entry := models.SystemLog{
		Action:  action,
		Actor:   actor.DisplayName(),
		Details: details,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// AuditService reads and records audit entries
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates an AuditService over db
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends a standalone entry, for actions with no other state change
func (s *AuditService) Record(ctx context.Context, actor Actor, action, details string) error {
	return writeLog(s.db.WithContext(ctx), actor, action, details)
}

// List returns every entry, newest first
func (s *AuditService) List(ctx context.Context) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
