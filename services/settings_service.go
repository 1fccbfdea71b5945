package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
	"gorm.io/gorm"
)

// SettingsUpdate holds the home page fields a manager may change. Nil
// fields are left untouched.
type SettingsUpdate struct {
	HeroHeadline *string `json:"hero_headline"`
	HeroSubtext  *string `json:"hero_subtext"`
}

// SettingsService serves the editable home page content
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a SettingsService over db
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns every setting, falling back to defaults for unset keys
func (s *SettingsService) Get(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(models.DefaultSettings))
	for k, v := range models.DefaultSettings {
		out[k] = v
	}

	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Update saves the provided fields. Managers only.
func (s *SettingsService) Update(ctx context.Context, actor Actor, in SettingsUpdate) (map[string]string, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}

	changes := map[string]*string{
		models.SettingHeroHeadline: in.HeroHeadline,
		models.SettingHeroSubtext:  in.HeroSubtext,
	}
	var changed []string
	for key, value := range changes {
		if value == nil {
			continue
		}
		if strings.TrimSpace(*value) == "" {
			return nil, required(key)
		}
		changed = append(changed, key)
	}
	sort.Strings(changed)
	if len(changed) == 0 {
		return nil, &ValidationError{Field: "settings", Message: "nothing to update"}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range changed {
			row := models.Setting{Key: key, Value: strings.TrimSpace(*changes[key])}
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return writeLog(tx, actor, ActionSettingsUpdated, strings.Join(changed, ", "))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx)
}
