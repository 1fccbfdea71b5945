package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/el-ostaa/ostaa-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateQuickOrderInput carries a quick product order
type CreateQuickOrderInput struct {
	CustomerName string
	ProductName  string
	Quantity     int
}

// QuickOrderService writes quick orders and pushes snapshots to the feed
type QuickOrderService struct {
	db   *gorm.DB
	feed QuickOrderFeed
}

// NewQuickOrderService creates a QuickOrderService over db publishing to feed
func NewQuickOrderService(db *gorm.DB, feed QuickOrderFeed) *QuickOrderService {
	return &QuickOrderService{db: db, feed: feed}
}

// Create stores the order and publishes the updated collection. A failed
// write is reported once and never retried.
func (s *QuickOrderService) Create(ctx context.Context, in CreateQuickOrderInput) (*models.QuickOrder, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.ProductName = strings.TrimSpace(in.ProductName)
	switch {
	case in.CustomerName == "":
		return nil, required("customer_name")
	case in.ProductName == "":
		return nil, required("product_name")
	case in.Quantity < 1:
		return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	order := &models.QuickOrder{
		ID:           uuid.NewString(),
		CustomerName: in.CustomerName,
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		log.Printf("quick order write failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrQuickOrderWrite, err)
	}

	snapshot, err := s.List(ctx)
	if err != nil {
		log.Printf("quick order snapshot failed: %v", err)
		return order, nil
	}
	if err := s.feed.Publish(ctx, snapshot); err != nil {
		log.Printf("quick order publish failed: %v", err)
	}
	return order, nil
}

// List returns every quick order, newest first
func (s *QuickOrderService) List(ctx context.Context) ([]models.QuickOrder, error) {
	orders := make([]models.QuickOrder, 0)
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list quick orders: %w", err)
	}
	return orders, nil
}

// Subscribe streams snapshots, starting with the current one
func (s *QuickOrderService) Subscribe(ctx context.Context) (<-chan []models.QuickOrder, error) {
	updates, err := s.feed.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.QuickOrder, 1)
	out <- current
	go func() {
		defer close(out)
		for snapshot := range updates {
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
