package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// AdminLoginRequest represents the admin gateway form. Both tiers share
// one password each; name is only used for the audit trail.
type AdminLoginRequest struct {
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// UpdatePasswordRequest represents a manager changing a tier password
type UpdatePasswordRequest struct {
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/v1/admin/login
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actor, err := services.NewAdminService(config.GetDB()).Login(c.Request.Context(), req.Role, req.Password, req.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to authenticate admin")
		return
	}

	issued, err := services.NewTokenService(config.GetConfig()).IssueForAdmin(actor.AdminRole, actor.Name)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token":      issued.Token,
		"expires_at": issued.ExpiresAt,
		"admin_role": actor.AdminRole,
		"name":       actor.Name,
	})
}

// ListLogs handles GET /api/v1/admin/logs - newest first, managers only
func ListLogs(c *gin.Context) {
	logs, err := services.NewAuditService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve logs")
		return
	}

	respondSuccess(c, http.StatusOK, logs)
}

// UpdateAdminPassword handles PUT /api/v1/admin/passwords - managers only
func UpdateAdminPassword(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := services.NewAdminService(config.GetDB()).UpdatePassword(c.Request.Context(), actor, req.Role, req.Password); err != nil {
		respondServiceError(c, err, "Failed to update password")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"role": req.Role, "updated": true})
}

// UpdateSettings handles PUT /api/v1/admin/settings - managers only
func UpdateSettings(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	settings, err := services.NewSettingsService(config.GetDB()).Update(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update settings")
		return
	}

	respondSuccess(c, http.StatusOK, settings)
}

// ExportSnapshot handles GET /api/v1/admin/export - downloads every collection as JSON
func ExportSnapshot(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	snap, err := services.NewSnapshotService(config.GetDB(), nil).Export(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "Failed to export data")
		return
	}

	filename := fmt.Sprintf("ostaa-%s.json", snap.ExportedAt.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, snap)
}

// CreateBackup handles POST /api/v1/admin/backup - stores a snapshot in object storage
func CreateBackup(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	result, err := services.NewSnapshotService(config.GetDB(), services.GetS3Service()).Backup(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "Failed to create backup")
		return
	}

	respondSuccess(c, http.StatusCreated, result)
}
