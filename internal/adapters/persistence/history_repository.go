package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/shared"
)

// GormHistoryRepository implements pricing.HistoryRepository and
// pricing.Publisher using GORM. PublishTick writes the item's new price and
// its history row in one database transaction so the two never diverge.
type GormHistoryRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormHistoryRepository creates a new GORM price history repository.
func NewGormHistoryRepository(db *gorm.DB, clock shared.Clock) *GormHistoryRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormHistoryRepository{db: db, clock: clock}
}

// Append persists one history entry.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *pricing.PriceHistoryEntry) error {
	model := historyToModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append price history: %w", err)
	}
	return nil
}

// Recent returns the newest entries for an item, newest first.
func (r *GormHistoryRepository) Recent(ctx context.Context, itemID string, limit int) ([]*pricing.PriceHistoryEntry, error) {
	if limit <= 0 {
		limit = 48
	}

	var models []PriceHistoryModel
	result := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("tick_time DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read price history: %w", result.Error)
	}

	entries := make([]*pricing.PriceHistoryEntry, len(models))
	for i := range models {
		entries[i] = modelToHistory(&models[i])
	}
	return entries, nil
}

// PublishTick durably records one repricing step: the item's new current
// price and the history entry, atomically, with transient-failure retries.
func (r *GormHistoryRepository) PublishTick(ctx context.Context, itemID string, price decimal.Decimal, entry *pricing.PriceHistoryEntry) error {
	model := historyToModel(entry)
	err := withRetry(ctx, r.clock, "tick publish", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&ItemModel{}).
				Where("id = ?", itemID).
				Update("current_price", price)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("no item row for %s", itemID)
			}
			return tx.Create(model).Error
		})
	})
	if err != nil {
		return fmt.Errorf("failed to publish tick for %s: %w", itemID, err)
	}
	return nil
}

func historyToModel(entry *pricing.PriceHistoryEntry) *PriceHistoryModel {
	return &PriceHistoryModel{
		ID:            entry.ID(),
		ItemID:        entry.ItemID(),
		TickTime:      entry.TickTime(),
		PreviousPrice: entry.PreviousPrice(),
		NewPrice:      entry.NewPrice(),
		ChangePercent: entry.ChangePercent(),
		Demand:        entry.Demand(),
		Supply:        entry.Supply(),
		Net:           entry.Net(),
		BuyCount:      entry.BuyCount(),
		SellCount:     entry.SellCount(),
		BuyVolume:     entry.BuyVolume(),
		SellVolume:    entry.SellVolume(),
		OnlineCount:   entry.OnlineCount(),
		Correction:    entry.Correction(),
	}
}

func modelToHistory(model *PriceHistoryModel) *pricing.PriceHistoryEntry {
	return pricing.ReconstructPriceHistoryEntry(
		model.ID,
		model.ItemID,
		model.TickTime,
		model.PreviousPrice,
		model.NewPrice,
		model.ChangePercent,
		model.Demand,
		model.Supply,
		model.Net,
		model.BuyCount,
		model.SellCount,
		model.BuyVolume,
		model.SellVolume,
		model.OnlineCount,
		model.Correction,
	)
}
