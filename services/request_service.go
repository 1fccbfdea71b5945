package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
	"gorm.io/gorm"
)

// SubmitRequestInput carries the service request form
type SubmitRequestInput struct {
	Category      string
	Description   string
	Location      string
	PreferredTime string
}

// DashboardStats are the counters on the admin dashboard
type DashboardStats struct {
	TotalUsers           int64 `json:"total_users"`
	TotalRequests        int64 `json:"total_requests"`
	ActiveRequests       int64 `json:"active_requests"`
	CompletedRequests    int64 `json:"completed_requests"`
	AvailableTechnicians int64 `json:"available_technicians"`
}

// RequestService drives the service request lifecycle
type RequestService struct {
	db *gorm.DB
}

// NewRequestService creates a RequestService over db
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

var activeStatuses = []models.RequestStatus{models.StatusPending, models.StatusAccepted}

func findRequest(tx *gorm.DB, id string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := tx.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &req, nil
}

// Submit creates a pending request for the signed-in customer
func (s *RequestService) Submit(ctx context.Context, customer *models.User, in SubmitRequestInput) (*models.ServiceRequest, error) {
	if customer.IsBlocked {
		return nil, ErrAccountBlocked
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.PreferredTime = strings.TrimSpace(in.PreferredTime)
	switch {
	case in.Description == "":
		return nil, required("description")
	case in.Location == "":
		return nil, required("location")
	case in.PreferredTime == "":
		return nil, required("preferred_time")
	}

	category, ok := models.FindCategory(strings.TrimSpace(in.Category))
	if !ok {
		return nil, ErrUnknownCategory
	}

	req := &models.ServiceRequest{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Category:      category.Name,
		Description:   in.Description,
		Location:      in.Location,
		PreferredTime: in.PreferredTime,
		Status:        models.StatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return writeLog(tx, Actor{ID: customer.ID, Name: customer.Name, Role: customer.Role},
			ActionRequestCreated, fmt.Sprintf("طلب خدمة من العميل %s", customer.Name))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateStatus moves a request along the lifecycle. Empty notes keep the
// existing notes. Re-applying the current status only amends notes.
func (s *RequestService) UpdateStatus(ctx context.Context, actor Actor, id string, status models.RequestStatus, notes string) (*models.ServiceRequest, error) {
	if !status.IsValid() || status == models.StatusDeleted {
		return nil, ErrInvalidStatus
	}

	var req *models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = findRequest(tx, id); err != nil {
			return err
		}
		if !models.CanTransition(req.Status, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, req.Status, status)
		}

		updates := map[string]interface{}{"status": status}
		if notes = strings.TrimSpace(notes); notes != "" {
			updates["notes"] = notes
		}
		if err := tx.Model(req).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}
		req.Status = status
		if notes != "" {
			req.Notes = &notes
		}

		return writeLog(tx, actor, ActionRequestUpdated,
			fmt.Sprintf("تعديل حالة الطلب %s إلى %s", req.ID, status))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Reassign binds a technician and marks the request accepted in one update
func (s *RequestService) Reassign(ctx context.Context, actor Actor, id, technicianID string) (*models.ServiceRequest, error) {
	if strings.TrimSpace(technicianID) == "" {
		return nil, required("technician_id")
	}

	var req *models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = findRequest(tx, id); err != nil {
			return err
		}
		if !models.CanReassign(req.Status) {
			return fmt.Errorf("%w: cannot assign a %s request", ErrInvalidTransition, req.Status)
		}

		var tech models.User
		if err := tx.Where("id = ? AND role = ?", technicianID, models.RoleTechnician).First(&tech).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTechnicianNotFound
			}
			return fmt.Errorf("failed to load technician: %w", err)
		}
		if tech.IsBlocked {
			return ErrTechnicianNotActive
		}

		err = tx.Model(req).Updates(map[string]interface{}{
			"technician_id":   tech.ID,
			"technician_name": tech.Name,
			"status":          models.StatusAccepted,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to assign technician: %w", err)
		}
		req.TechnicianID = &tech.ID
		req.TechnicianName = &tech.Name
		req.Status = models.StatusAccepted

		return writeLog(tx, actor, ActionRequestReassigned,
			fmt.Sprintf("تعيين الفني %s للطلب %s", tech.Name, req.ID))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Delete retires a request. Only managers may delete; the record stays in
// the archive with status deleted.
func (s *RequestService) Delete(ctx context.Context, actor Actor, id string) (*models.ServiceRequest, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}

	var req *models.ServiceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = findRequest(tx, id); err != nil {
			return err
		}
		if req.Status == models.StatusDeleted {
			return fmt.Errorf("%w: request already deleted", ErrInvalidTransition)
		}
		if err := tx.Model(req).Update("status", models.StatusDeleted).Error; err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
		req.Status = models.StatusDeleted
		return writeLog(tx, actor, ActionRequestDeleted, fmt.Sprintf("حذف الطلب %s", req.ID))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Get loads one request
func (s *RequestService) Get(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return findRequest(s.db.WithContext(ctx), id)
}

// All returns every request, newest first
func (s *RequestService) All(ctx context.Context) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// List returns the requests of one dashboard view that match query
func (s *RequestService) List(ctx context.Context, view RequestView, query string) ([]models.ServiceRequest, error) {
	requests, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRequests(requests, view, query), nil
}

// ListForCustomer returns a customer's own requests, newest first
func (s *RequestService) ListForCustomer(ctx context.Context, customerID string) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customer requests: %w", err)
	}
	return requests, nil
}

// Stats computes the dashboard counters
func (s *RequestService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&models.User{})},
		{&stats.TotalRequests, db.Model(&models.ServiceRequest{})},
		{&stats.ActiveRequests, db.Model(&models.ServiceRequest{}).Where("status IN ?", activeStatuses)},
		{&stats.CompletedRequests, db.Model(&models.ServiceRequest{}).Where("status = ?", models.StatusCompleted)},
		{&stats.AvailableTechnicians, db.Model(&models.User{}).
			Where("role = ? AND status = ? AND is_blocked = ?", models.RoleTechnician, models.TechnicianAvailable, false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}
	return stats, nil
}
