package controllers

import (
	"net/http"
	"time"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the customer registration form
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// LoginRequest represents the customer login form
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned by every successful login
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user,omitempty"`
}

// Register handles POST /api/v1/auth/register - creates a customer and signs them in
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).RegisterCustomer(c.Request.Context(), services.RegisterCustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Location: req.Location,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to register customer")
		return
	}

	issued, err := services.NewTokenService(config.GetConfig()).IssueForUser(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token")
		return
	}

	respondSuccess(c, http.StatusCreated, SessionResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user})
}

// Login handles POST /api/v1/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Authenticate(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to authenticate")
		return
	}

	issued, err := services.NewTokenService(config.GetConfig()).IssueForUser(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token")
		return
	}

	respondSuccess(c, http.StatusOK, SessionResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user})
}

// Logout handles POST /api/v1/auth/logout - revokes the bearer token for
// customers and admins alike
func Logout(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	ttl := time.Until(time.Unix(claims.RegisteredClaims.Expiry, 0))
	if err := services.GetTokenStore().Revoke(c.Request.Context(), claims.RegisteredClaims.ID, ttl); err != nil {
		respondServiceError(c, err, "Failed to revoke session")
		return
	}

	action, details := services.SessionEntry(actor.Role, actor.DisplayName(), false)
	if err := services.NewAuditService(config.GetDB()).Record(c.Request.Context(), actor, action, details); err != nil {
		respondServiceError(c, err, "Failed to record logout")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"logged_out": true})
}

// GetSession handles GET /api/v1/session - returns the identity bound to the token
func GetSession(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}
	custom, err := middleware.GetCustomClaims(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract session information")
		return
	}

	session := gin.H{
		"subject":    claims.RegisteredClaims.Subject,
		"role":       custom.Role,
		"name":       custom.Name,
		"expires_at": time.Unix(claims.RegisteredClaims.Expiry, 0).UTC(),
	}
	if custom.Role == models.RoleAdmin {
		session["admin_role"] = custom.AdminRole
		respondSuccess(c, http.StatusOK, session)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Get(c.Request.Context(), claims.RegisteredClaims.Subject)
	if err != nil {
		respondServiceError(c, err, "Failed to load session user")
		return
	}
	if user.IsBlocked {
		respondError(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "هذا الحساب محظور من الإدارة")
		return
	}
	session["user"] = user
	respondSuccess(c, http.StatusOK, session)
}
