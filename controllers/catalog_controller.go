package controllers

import (
	"net/http"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// GetSettings handles GET /api/v1/settings - the editable home page content
func GetSettings(c *gin.Context) {
	settings, err := services.NewSettingsService(config.GetDB()).Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve settings")
		return
	}

	respondSuccess(c, http.StatusOK, settings)
}

// ListCategories handles GET /api/v1/categories
func ListCategories(c *gin.Context) {
	respondSuccess(c, http.StatusOK, models.Categories())
}

// ListTimeSlots handles GET /api/v1/time-slots
func ListTimeSlots(c *gin.Context) {
	slots := make([]gin.H, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		slots = append(slots, gin.H{
			"label": slot.Label,
			"range": slot.Range,
			"text":  slot.Text(),
		})
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"presets": models.TimePresets,
		"slots":   slots,
	})
}
