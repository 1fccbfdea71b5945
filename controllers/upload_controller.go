package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/utils"
	"github.com/gin-gonic/gin"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves technician
// photos stored on local disk
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	dir := "./uploads"
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		dir = cfg.UploadDir
	}

	// Security: Prevent directory traversal attacks
	filePath, ok := utils.SafeUploadPath(dir, filename)
	if !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if _, ok := utils.AllowedImageFormats[strings.ToLower(filepath.Ext(filename))]; !ok {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", utils.ImageContentType(filename))
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
