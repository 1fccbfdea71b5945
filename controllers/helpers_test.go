package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/el-ostaa/ostaa-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupControllerTest installs a fresh database, config, token store and
// quick order feed, restoring the previous globals when the test ends
func setupControllerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	originalConfig := config.GetConfig()
	originalStore := services.GetTokenStore()
	originalFeed := services.GetQuickOrderFeed()
	t.Cleanup(func() {
		config.SetConfig(originalConfig)
		services.SetTokenStore(originalStore)
		services.SetQuickOrderFeed(originalFeed)
	})

	config.SetConfig(testutil.TestConfig())
	services.SetTokenStore(services.NewMemoryTokenStore())
	services.SetQuickOrderFeed(services.NewMemoryFeed())

	db := testutil.NewTestDB(t)
	require.NoError(t, services.NewAdminService(db).SeedCredentials(context.Background(), map[string]string{
		models.AdminRoleManager: "manager123",
		models.AdminRoleStaff:   "admin123",
	}))
	return db
}

func performRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	errBody, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error body, got %s", w.Body.String())
	return errBody["code"].(string)
}

func seedCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.User {
	t.Helper()
	user, err := services.NewUserService(db).RegisterCustomer(context.Background(), services.RegisterCustomerInput{
		Name:     name,
		Phone:    phone,
		Password: "secret",
		Location: "القاهرة",
	})
	require.NoError(t, err)
	return user
}

func seedTechnician(t *testing.T, db *gorm.DB, name, phone string) *models.User {
	t.Helper()
	tech, err := services.NewUserService(db).RegisterTechnician(context.Background(), services.RegisterTechnicianInput{
		Name:       name,
		Phone:      phone,
		Profession: "electrician",
		Experience: 3,
		Location:   "الجيزة",
	})
	require.NoError(t, err)
	return tech
}

func seedRequest(t *testing.T, db *gorm.DB, customer *models.User) *models.ServiceRequest {
	t.Helper()
	req, err := services.NewRequestService(db).Submit(context.Background(), customer, services.SubmitRequestInput{
		Category:      "plumber",
		Description:   "تسريب في المطبخ",
		Location:      "المعادي",
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
