package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// TechnicianSignupRequest represents the technician application form.
// It is accepted as JSON or as multipart form data with an optional photo.
type TechnicianSignupRequest struct {
	Name       string `json:"name" form:"name" binding:"required"`
	Phone      string `json:"phone" form:"phone" binding:"required"`
	Profession string `json:"profession" form:"profession" binding:"required"`
	Experience string `json:"-" form:"experience"`
	Location   string `json:"location" form:"location" binding:"required"`
	Password   string `json:"password" form:"password"`

	ExperienceYears int `json:"experience" form:"-"`
}

// RegisterTechnician handles POST /api/v1/technicians
func RegisterTechnician(c *gin.Context) {
	var req TechnicianSignupRequest
	isMultipart := strings.HasPrefix(c.ContentType(), "multipart/form-data")

	if isMultipart {
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Experience != "" {
			years, err := strconv.Atoi(strings.TrimSpace(req.Experience))
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", "experience must be a whole number of years")
				return
			}
			req.ExperienceYears = years
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var photoKey *string
	if isMultipart {
		if fileHeader, err := c.FormFile("photo"); err == nil {
			imageService := services.GetImageService()
			if imageService == nil {
				respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
				return
			}
			key, err := imageService.UploadImage(c.Request.Context(), fileHeader)
			if err != nil {
				respondServiceError(c, err, "Failed to upload photo")
				return
			}
			photoKey = &key
		}
	}

	user, err := services.NewUserService(config.GetDB()).RegisterTechnician(c.Request.Context(), services.RegisterTechnicianInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Profession: req.Profession,
		Experience: req.ExperienceYears,
		Location:   req.Location,
		Password:   req.Password,
		PhotoKey:   photoKey,
	})
	if err != nil {
		if photoKey != nil {
			if delErr := services.GetImageService().DeleteImage(c.Request.Context(), *photoKey); delErr != nil {
				log.Printf("Failed to remove orphaned photo %s: %v", *photoKey, delErr)
			}
		}
		respondServiceError(c, err, "Failed to register technician")
		return
	}

	attachImageURL(c.Request.Context(), user)
	respondSuccess(c, http.StatusCreated, user)
}
