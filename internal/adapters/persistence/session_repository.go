package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// GormSessionRepository implements session.Repository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Upsert creates or replaces the session row for the player.
func (r *GormSessionRepository) Upsert(ctx context.Context, s *session.PlayerSession) error {
	model := SessionModel{
		PlayerID:     s.PlayerID().Value(),
		PlayerName:   s.Name(),
		LoginTime:    s.LoginTime(),
		LastActivity: s.LastActivity(),
		Online:       s.IsOnline(),
		Weight:       s.Weight(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// FindAll returns all persisted sessions, for registry restore.
func (r *GormSessionRepository) FindAll(ctx context.Context) ([]*session.PlayerSession, error) {
	var models []SessionModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", result.Error)
	}

	sessions := make([]*session.PlayerSession, 0, len(models))
	for i := range models {
		playerID, err := shared.NewPlayerID(models[i].PlayerID)
		if err != nil {
			return nil, fmt.Errorf("invalid player id in database: %w", err)
		}
		sessions = append(sessions, session.ReconstructPlayerSession(
			playerID,
			models[i].PlayerName,
			models[i].LoginTime,
			models[i].LastActivity,
			models[i].Online,
			models[i].Weight,
		))
	}
	return sessions, nil
}
