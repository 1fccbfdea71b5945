package services

import (
	"errors"
	"fmt"
)

var (
	ErrPhoneTaken          = errors.New("phone number is already registered")
	ErrInvalidCredentials  = errors.New("invalid phone or password")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrUserNotFound        = errors.New("user not found")
	ErrTechnicianNotFound  = errors.New("technician not found")
	ErrRequestNotFound     = errors.New("service request not found")
	ErrInvalidStatus       = errors.New("invalid request status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrForbidden           = errors.New("insufficient admin privileges")
	ErrUnknownCategory     = errors.New("unknown service category")
	ErrInvalidAdminRole    = errors.New("invalid admin role")
	ErrQuickOrderWrite     = errors.New("quick order could not be saved")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
	ErrTechnicianNotActive = errors.New("technician is blocked")
	ErrRevocationFailed    = errors.New("session could not be revoked")
)

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}
