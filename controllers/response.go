package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/el-ostaa/ostaa-api/services"
	"github.com/el-ostaa/ostaa-api/utils"
	"github.com/gin-gonic/gin"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string, details ...string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 && details[0] != "" {
		body["details"] = details[0]
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

func respondValidationError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// respondServiceError maps a service error to its HTTP status and code.
// Anything unrecognised is reported as a database failure with message.
func respondServiceError(c *gin.Context, err error, message string) {
	var validationErr *services.ValidationError
	var uploadErr *utils.FileUploadError

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", validationErr.Error())
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
	case errors.Is(err, services.ErrPhoneTaken):
		respondError(c, http.StatusConflict, "PHONE_EXISTS", "هذا الرقم مسجل بالفعل")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "بيانات الدخول غير صحيحة")
	case errors.Is(err, services.ErrAccountBlocked):
		respondError(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "هذا الحساب محظور من الإدارة")
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTechnicianNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrInvalidAdminRole):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrTechnicianNotActive):
		respondError(c, http.StatusConflict, "TECHNICIAN_BLOCKED", err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, services.ErrQuickOrderWrite):
		respondError(c, http.StatusBadGateway, "QUICK_ORDER_WRITE_FAILED", err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
	case errors.Is(err, services.ErrRevocationFailed):
		log.Printf("%s: %v", message, err)
		respondError(c, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", message)
	default:
		log.Printf("%s: %v", message, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
	}
}
