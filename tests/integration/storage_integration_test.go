package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/el-ostaa/ostaa-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// setupStorageTest prepares a router and restores the storage singletons afterwards
func setupStorageTest(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := loadTestConfig(t)
	cfg.UploadDir = t.TempDir()
	config.SetConfig(cfg)
	testutil.NewTestDB(t)
	seedAdmins(t)
	services.SetTokenStore(services.NewMemoryTokenStore())

	previousImages := services.GetImageService()
	previousS3 := services.GetS3Service()
	t.Cleanup(func() {
		services.SetImageService(previousImages)
		services.SetS3Service(previousS3)
	})

	return newAPIRouter(cfg), cfg
}

func postSignup(t *testing.T, router http.Handler, phone, photoName string, photo []byte) (int, map[string]interface{}) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"name":       "كريم",
		"phone":      phone,
		"profession": "carpenter",
		"experience": "4",
		"location":   "المعادي",
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/technicians", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

func TestTechnicianPhotoOnS3(t *testing.T) {
	router, _ := setupStorageTest(t)
	mockS3 := services.NewMockS3Service()
	services.InitImageService(mockS3)

	status, response := postSignup(t, router, "01122222222", "me.png", pngHeader)
	require.Equal(t, http.StatusCreated, status, response)

	keys := mockS3.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "technicians/"))
	body, contentType, ok := mockS3.Object(keys[0])
	require.True(t, ok)
	assert.Equal(t, pngHeader, body)
	assert.Equal(t, "image/png", contentType)

	data := dataOf(response)
	assert.Equal(t, "pending", data["status"])
	assert.Contains(t, data["profile_image_url"], keys[0])
	assert.Equal(t, float64(4), data["experience"])
}

func TestTechnicianPhotoRemovedWhenSignupFails(t *testing.T) {
	router, _ := setupStorageTest(t)
	mockS3 := services.NewMockS3Service()
	services.InitImageService(mockS3)

	status, _ := postSignup(t, router, "01122222222", "me.png", pngHeader)
	require.Equal(t, http.StatusCreated, status)

	status, response := postSignup(t, router, "01122222222", "again.png", pngHeader)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PHONE_EXISTS", errorCodeOf(response))
	assert.Len(t, mockS3.Keys(), 1, "The second photo must not be left behind")
}

func TestTechnicianPhotoRejectedFormat(t *testing.T) {
	router, _ := setupStorageTest(t)
	mockS3 := services.NewMockS3Service()
	services.InitImageService(mockS3)

	status, response := postSignup(t, router, "01122222222", "me.gif", []byte("GIF89a"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCodeOf(response))
	assert.Empty(t, mockS3.Keys())
}

func TestTechnicianPhotoOnLocalDisk(t *testing.T) {
	router, cfg := setupStorageTest(t)
	services.InitLocalImageService(cfg.UploadDir)

	status, response := postSignup(t, router, "01133333333", "me.png", pngHeader)
	require.Equal(t, http.StatusCreated, status, response)

	url, _ := dataOf(response)["profile_image_url"].(string)
	require.True(t, strings.HasPrefix(url, "/api/v1/uploads/"), url)

	filename := strings.TrimPrefix(url, "/api/v1/uploads/")
	_, err := os.Stat(filepath.Join(cfg.UploadDir, filename))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, w.Body.Bytes())
}

func TestBackupToS3(t *testing.T) {
	router, _ := setupStorageTest(t)
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()

	_, response := doJSON(t, router, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"role": "manager", "password": "manager123", "name": "سارة",
	})
	token := dataOf(response)["token"].(string)

	status, response := doJSON(t, router, http.MethodPost, "/api/v1/admin/backup", token, nil)
	require.Equal(t, http.StatusCreated, status, response)

	key := dataOf(response)["key"].(string)
	body, contentType, ok := mockS3.Object(key)
	require.True(t, ok)
	assert.Equal(t, "application/json", contentType)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Contains(t, snapshot, "ostaa_users")
	assert.Contains(t, snapshot, "ostaa_logs")
	assert.Equal(t, float64(len(body)), dataOf(response)["size"])
}

func TestBackupWithoutStorage(t *testing.T) {
	router, _ := setupStorageTest(t)
	services.SetS3Service(nil)

	_, response := doJSON(t, router, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"role": "manager", "password": "manager123", "name": "سارة",
	})
	token := dataOf(response)["token"].(string)

	status, response := doJSON(t, router, http.MethodPost, "/api/v1/admin/backup", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORAGE_UNAVAILABLE", errorCodeOf(response))
}
