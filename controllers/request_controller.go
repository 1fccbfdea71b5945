package controllers

import (
	"net/http"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// CreateServiceRequest represents the request body for booking a technician
type CreateServiceRequest struct {
	Category      string `json:"category" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Location      string `json:"location" binding:"required"`
	PreferredTime string `json:"preferred_time" binding:"required"`
}

// UpdateStatusRequest represents the request body for moving a request along its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AssignTechnicianRequest represents the request body for (re)assigning a technician
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" binding:"required"`
}

// CreateRequest handles POST /api/v1/requests - customers only
func CreateRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.Role != models.RoleCustomer {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can create requests")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := services.NewRequestService(config.GetDB()).Submit(c.Request.Context(), user, services.SubmitRequestInput{
		Category:      req.Category,
		Description:   req.Description,
		Location:      req.Location,
		PreferredTime: req.PreferredTime,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create request")
		return
	}

	respondSuccess(c, http.StatusCreated, created)
}

// ListMyRequests handles GET /api/v1/requests - the caller's own requests
func ListMyRequests(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := services.NewRequestService(config.GetDB()).ListForCustomer(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve requests")
		return
	}

	respondSuccess(c, http.StatusOK, requests)
}

// ListAdminRequests handles GET /api/v1/admin/requests?view=active|archive&q=
func ListAdminRequests(c *gin.Context) {
	view, ok := services.ParseRequestView(c.Query("view"))
	if !ok {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid view", "view must be active or archive")
		return
	}

	requests, err := services.NewRequestService(config.GetDB()).List(c.Request.Context(), view, c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve requests")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"view":     view,
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest handles GET /api/v1/admin/requests/:id
func GetRequest(c *gin.Context) {
	req, err := services.NewRequestService(config.GetDB()).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve request")
		return
	}

	respondSuccess(c, http.StatusOK, req)
}

// UpdateRequestStatus handles PATCH /api/v1/admin/requests/:id/status
func UpdateRequestStatus(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updated, err := services.NewRequestService(config.GetDB()).UpdateStatus(
		c.Request.Context(), actor, c.Param("id"), models.RequestStatus(req.Status), req.Notes)
	if err != nil {
		respondServiceError(c, err, "Failed to update request")
		return
	}

	respondSuccess(c, http.StatusOK, updated)
}

// AssignTechnician handles PATCH /api/v1/admin/requests/:id/assign
func AssignTechnician(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updated, err := services.NewRequestService(config.GetDB()).Reassign(c.Request.Context(), actor, c.Param("id"), req.TechnicianID)
	if err != nil {
		respondServiceError(c, err, "Failed to assign technician")
		return
	}

	respondSuccess(c, http.StatusOK, updated)
}

// DeleteRequest handles DELETE /api/v1/admin/requests/:id - managers only
func DeleteRequest(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	deleted, err := services.NewRequestService(config.GetDB()).Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to delete request")
		return
	}

	respondSuccess(c, http.StatusOK, deleted)
}

// GetDashboardStats handles GET /api/v1/admin/stats
func GetDashboardStats(c *gin.Context) {
	stats, err := services.NewRequestService(config.GetDB()).Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute statistics")
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}
