package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/controllers"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// loadTestConfig loads configuration through the same path as the server,
// pointed at an in-memory sqlite database
func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	os.Setenv("GO_ENV", "test")
	os.Setenv("DATABASE_DRIVER", "sqlite")
	os.Setenv("DATABASE_URL", ":memory:")
	os.Setenv("JWT_SECRET", "integration-secret")
	os.Setenv("PORT", "8080")
	os.Setenv("REDIS_ADDR", "")
	os.Setenv("AWS_S3_BUCKET", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

// newAPIRouter mirrors the server's route table with the real token middleware
func newAPIRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	auth := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/settings", controllers.GetSettings)
		v1.GET("/categories", controllers.ListCategories)
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", auth, controllers.Logout)
		v1.GET("/session", auth, controllers.GetSession)

		customer := v1.Group("", auth, middleware.RequireRole(models.RoleCustomer))
		customer.POST("/requests", controllers.CreateRequest)
		customer.GET("/requests", controllers.ListMyRequests)
		customer.GET("/profile", controllers.GetMyProfile)

		v1.POST("/technicians", controllers.RegisterTechnician)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		v1.GET("/quick-orders", controllers.ListQuickOrders)
		v1.POST("/quick-orders", controllers.CreateQuickOrder)
		v1.GET("/quick-orders/stream", controllers.StreamQuickOrders)

		v1.POST("/admin/login", controllers.AdminLogin)
		admin := v1.Group("/admin", auth, middleware.RequireAdmin())
		admin.GET("/stats", controllers.GetDashboardStats)
		admin.GET("/requests", controllers.ListAdminRequests)
		admin.PATCH("/requests/:id/status", controllers.UpdateRequestStatus)
		admin.PATCH("/requests/:id/assign", controllers.AssignTechnician)
		admin.GET("/users", controllers.ListUsers)
		admin.PATCH("/users/:id/block", controllers.ToggleUserBlock)
		admin.PATCH("/technicians/:id/approve", controllers.ApproveTechnician)

		manager := admin.Group("", middleware.RequireManager())
		manager.DELETE("/requests/:id", controllers.DeleteRequest)
		manager.GET("/logs", controllers.ListLogs)
		manager.GET("/export", controllers.ExportSnapshot)
		manager.POST("/backup", controllers.CreateBackup)
	}
	return router
}

func seedAdmins(t *testing.T) {
	t.Helper()
	err := services.NewAdminService(config.GetDB()).SeedCredentials(context.Background(), map[string]string{
		models.AdminRoleManager: "manager123",
		models.AdminRoleStaff:   "admin123",
	})
	require.NoError(t, err)
}

// doJSON sends body as JSON with an optional bearer token and decodes the envelope
func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w.Code, response
}

func dataOf(response map[string]interface{}) map[string]interface{} {
	data, _ := response["data"].(map[string]interface{})
	return data
}

func errorCodeOf(response map[string]interface{}) string {
	errBody, _ := response["error"].(map[string]interface{})
	code, _ := errBody["code"].(string)
	return code
}
