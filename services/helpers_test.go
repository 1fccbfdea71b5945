package services

import (
	"context"
	"testing"

	"github.com/el-ostaa/ostaa-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	manager = Actor{ID: AdminSubject(models.AdminRoleManager), Name: "مدير", Role: models.RoleAdmin, AdminRole: models.AdminRoleManager}
	staff   = Actor{ID: AdminSubject(models.AdminRoleStaff), Name: "موظف", Role: models.RoleAdmin, AdminRole: models.AdminRoleStaff}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.User {
	t.Helper()
	user, err := NewUserService(db).RegisterCustomer(context.Background(), RegisterCustomerInput{
		Name:     name,
		Phone:    phone,
		Password: "secret",
		Location: "القاهرة",
	})
	require.NoError(t, err)
	return user
}

func createTechnician(t *testing.T, db *gorm.DB, name, phone string) *models.User {
	t.Helper()
	tech, err := NewUserService(db).RegisterTechnician(context.Background(), RegisterTechnicianInput{
		Name:       name,
		Phone:      phone,
		Profession: "plumber",
		Experience: 5,
		Location:   "الجيزة",
	})
	require.NoError(t, err)
	return tech
}

func submitRequest(t *testing.T, db *gorm.DB, customer *models.User) *models.ServiceRequest {
	t.Helper()
	req, err := NewRequestService(db).Submit(context.Background(), customer, SubmitRequestInput{
		Category:      "plumber",
		Description:   "تسريب في الحمام",
		Location:      "مدينة نصر",
		PreferredTime: "الآن",
	})
	require.NoError(t, err)
	return req
}

func countLogs(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.SystemLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}
