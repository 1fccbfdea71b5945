package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/el-ostaa/ostaa-api/models"
	"gorm.io/gorm"
)

// Snapshot is the whole-collection export, keyed the way the web client
// persisted its collections
type Snapshot struct {
	Users       []models.User           `json:"ostaa_users"`
	Requests    []models.ServiceRequest `json:"ostaa_requests"`
	Logs        []models.SystemLog      `json:"ostaa_logs"`
	QuickOrders []models.QuickOrder     `json:"quick_orders"`
	ExportedAt  time.Time               `json:"exported_at"`
}

// BackupResult describes a stored snapshot
type BackupResult struct {
	Key        string    `json:"key"`
	Size       int       `json:"size"`
	ExportedAt time.Time `json:"exported_at"`
}

// SnapshotService exports and backs up every collection
type SnapshotService struct {
	db      *gorm.DB
	storage S3Interface
}

// NewSnapshotService creates a SnapshotService. storage may be nil when
// object storage is not configured; Backup then fails.
func NewSnapshotService(db *gorm.DB, storage S3Interface) *SnapshotService {
	return &SnapshotService{db: db, storage: storage}
}

// Export reads every collection. Managers only.
func (s *SnapshotService) Export(ctx context.Context, actor Actor) (*Snapshot, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)
	snap := &Snapshot{
		Users:       make([]models.User, 0),
		Requests:    make([]models.ServiceRequest, 0),
		Logs:        make([]models.SystemLog, 0),
		QuickOrders: make([]models.QuickOrder, 0),
		ExportedAt:  time.Now().UTC(),
	}
	if err := db.Order("created_at ASC").Find(&snap.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if err := db.Order("created_at DESC").Find(&snap.Requests).Error; err != nil {
		return nil, fmt.Errorf("failed to export requests: %w", err)
	}
	if err := db.Order("created_at DESC").Find(&snap.Logs).Error; err != nil {
		return nil, fmt.Errorf("failed to export logs: %w", err)
	}
	if err := db.Order("timestamp DESC").Find(&snap.QuickOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to export quick orders: %w", err)
	}
	return snap, nil
}

// Backup writes the snapshot to object storage and logs it
func (s *SnapshotService) Backup(ctx context.Context, actor Actor) (*BackupResult, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	snap, err := s.Export(ctx, actor)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("snapshots/ostaa-%d.json", snap.ExportedAt.Unix())
	if err := s.storage.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}

	if err := writeLog(s.db.WithContext(ctx), actor, ActionBackupCreated, key); err != nil {
		return nil, err
	}
	return &BackupResult{Key: key, Size: len(body), ExportedAt: snap.ExportedAt}, nil
}
