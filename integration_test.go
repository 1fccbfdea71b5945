package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/el-ostaa/ostaa-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRouter builds the full application router over a fresh test database
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.NewTestDB(t)
	return setupRouter(testutil.TestConfig())
}

func serve(router http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

// TestPublicRoutes covers everything the home page loads without a token
func TestPublicRoutes(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		path  string
		check func(t *testing.T, data interface{})
	}{
		{
			path: "/api/v1/categories",
			check: func(t *testing.T, data interface{}) {
				categories := data.([]interface{})
				require.Len(t, categories, 6)
				assert.Equal(t, "plumber", categories[0].(map[string]interface{})["id"])
				assert.Equal(t, "سباك", categories[0].(map[string]interface{})["name"])
			},
		},
		{
			path: "/api/v1/settings",
			check: func(t *testing.T, data interface{}) {
				settings := data.(map[string]interface{})
				assert.Equal(t, "اطلب أسطى محترف في دقائق", settings["hero_headline"])
				assert.NotEmpty(t, settings["hero_subtext"])
			},
		},
		{
			path: "/api/v1/time-slots",
			check: func(t *testing.T, data interface{}) {
				slots := data.(map[string]interface{})
				assert.Len(t, slots["presets"], 4)
				assert.Len(t, slots["slots"], 5)
			},
		},
		{
			path: "/api/v1/quick-orders",
			check: func(t *testing.T, data interface{}) {
				assert.Empty(t, data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, response := serve(router, http.MethodGet, tt.path)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, true, response["success"])
			tt.check(t, response["data"])
		})
	}
}

func TestHealthRouting(t *testing.T) {
	router := testRouter(t)

	w, response := serve(router, http.MethodGet, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "El Ostaa API is running", response["message"])

	w, _ = serve(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusNotFound, w.Code, "Routes live under /api/v1")

	w, _ = serve(router, http.MethodPost, "/api/v1/health")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestDatabaseStatusIntegration lists the migrated tables
func TestDatabaseStatusIntegration(t *testing.T) {
	router := testRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/database/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Success bool     `json:"success"`
		Tables  []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Contains(t, response.Tables, "users")
	assert.Contains(t, response.Tables, "service_requests")
	assert.Contains(t, response.Tables, "system_logs")
	assert.Contains(t, response.Tables, "quick_orders")
}

// TestProtectedRoutesRequireToken checks that the real JWT middleware guards the private routes
func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/v1/session", "/api/v1/profile", "/api/v1/requests", "/api/v1/admin/stats", "/api/v1/admin/logs"} {
		w, _ := serve(router, http.MethodGet, path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

// TestCORSPreflight checks the browser preflight is answered
func TestCORSPreflight(t *testing.T) {
	router := testRouter(t)

	req, _ := http.NewRequest("OPTIONS", "/api/v1/requests", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
