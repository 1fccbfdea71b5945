package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// attachImageURL resolves the stored profile image key into a URL the client can load
func attachImageURL(ctx context.Context, user *models.User) {
	if user.ProfileImageKey == nil || *user.ProfileImageKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(ctx, *user.ProfileImageKey)
	if err != nil {
		log.Printf("Failed to resolve image URL for user %s: %v", user.ID, err)
		return
	}
	user.ProfileImageURL = &url
}

// currentUser loads the account behind the bearer token. Blocked accounts
// are refused even while their token is still valid.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	user, err := services.NewUserService(config.GetDB()).Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to load user")
		return nil, false
	}
	if user.IsBlocked {
		respondServiceError(c, services.ErrAccountBlocked, "Account is blocked")
		return nil, false
	}
	return user, true
}

// GetMyProfile handles GET /api/v1/profile - the caller's account and request history
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	attachImageURL(c.Request.Context(), user)

	requests, err := services.NewRequestService(config.GetDB()).ListForCustomer(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to load requests")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"user":     user,
		"requests": requests,
	})
}

// ListUsers handles GET /api/v1/admin/users - optionally filtered by ?role=
func ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && role != models.RoleCustomer && role != models.RoleTechnician {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid role filter", "role must be customer or technician")
		return
	}

	users, err := services.NewUserService(config.GetDB()).List(c.Request.Context(), role)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve users")
		return
	}
	for i := range users {
		attachImageURL(c.Request.Context(), &users[i])
	}

	respondSuccess(c, http.StatusOK, users)
}

// ToggleUserBlock handles PATCH /api/v1/admin/users/:id/block
func ToggleUserBlock(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	user, err := services.NewUserService(config.GetDB()).ToggleBlock(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to update user")
		return
	}

	respondSuccess(c, http.StatusOK, user)
}

// ApproveTechnician handles PATCH /api/v1/admin/technicians/:id/approve
func ApproveTechnician(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	user, err := services.NewUserService(config.GetDB()).ApproveTechnician(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to approve technician")
		return
	}

	respondSuccess(c, http.StatusOK, user)
}
