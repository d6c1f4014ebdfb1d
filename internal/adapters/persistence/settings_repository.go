package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meadowmc/economyd/internal/domain/settings"
)

// GormSettingsRepository implements settings.Repository using GORM. The
// store holds only explicitly written keys; missing keys fall back to
// documented defaults at read time, through the snapshot accessors.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GORM settings repository.
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// All reads a consistent snapshot of every stored setting.
func (r *GormSettingsRepository) All(ctx context.Context) (settings.Snapshot, error) {
	var models []SettingModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to read settings: %w", result.Error)
	}

	snap := make(settings.Snapshot, len(models))
	for _, m := range models {
		snap[m.Key] = m.Value
	}
	return snap, nil
}

// Set writes one setting.
func (r *GormSettingsRepository) Set(ctx context.Context, key, value string) error {
	model := SettingModel{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
