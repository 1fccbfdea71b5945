package testutil

import (
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// TestConfig returns a configuration suitable for tests: sqlite, no Redis,
// no S3 and a fixed signing secret
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseDriver:     config.DriverSQLite,
		DatabaseURL:        ":memory:",
		Port:               "8080",
		GoEnv:              "test",
		JWTSecret:          "test-secret",
		JWTIssuer:          "el-ostaa-api",
		JWTAudience:        "el-ostaa",
		TokenTTL:           time.Hour,
		ManagerPassword:    "manager123",
		StaffAdminPassword: "admin123",
		UploadDir:          "./uploads",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
	}
}

// MockValidatedClaims creates ValidatedClaims like the ones EnsureValidToken stores
func MockValidatedClaims(subject, role, adminRole, name string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "el-ostaa-api",
			Subject: subject,
			ID:      "test-token-" + subject,
			Expiry:  time.Now().Add(time.Hour).Unix(),
		},
		CustomClaims: &middleware.CustomClaims{
			Role:      role,
			AdminRole: adminRole,
			Name:      name,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, subject, role, adminRole, name string) {
	c.Set("user_id", subject)
	c.Set("access_token", "test-token")
	c.Set("validated_claims", MockValidatedClaims(subject, role, adminRole, name))
}

// MockAuthMiddleware stands in for EnsureValidToken in handler tests
func MockAuthMiddleware(subject, role, adminRole, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, subject, role, adminRole, name)
		c.Next()
	}
}

// CustomerAuth authenticates as the given customer
func CustomerAuth(user *models.User) gin.HandlerFunc {
	return MockAuthMiddleware(user.ID, user.Role, "", user.Name)
}

// ManagerAuth authenticates as a manager named name
func ManagerAuth(name string) gin.HandlerFunc {
	return MockAuthMiddleware(services.AdminSubject(models.AdminRoleManager), models.RoleAdmin, models.AdminRoleManager, name)
}

// StaffAdminAuth authenticates as a staff admin named name
func StaffAdminAuth(name string) gin.HandlerFunc {
	return MockAuthMiddleware(services.AdminSubject(models.AdminRoleStaff), models.RoleAdmin, models.AdminRoleStaff, name)
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
