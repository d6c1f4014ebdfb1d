package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meadowmc/economyd/internal/domain/catalog"
)

// GormItemRepository implements catalog.ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM item repository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create persists a new item. Fails on a duplicate id.
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := itemToModel(item)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return &catalog.ErrInvalidItem{Field: "id", Reason: "item id already exists"}
		}
		return fmt.Errorf("failed to create item: %w", result.Error)
	}
	return nil
}

// FindByID retrieves an item regardless of its active flag.
func (r *GormItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	var model ItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &catalog.ErrItemNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}
	return modelToItem(&model)
}

// FindAll lists items, optionally filtered by category.
func (r *GormItemRepository) FindAll(ctx context.Context, category *catalog.Category, includeInactive bool) ([]*catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&ItemModel{})
	if category != nil {
		query = query.Where("category = ?", category.String())
	}
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var models []ItemModel
	if result := query.Order("id ASC").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list items: %w", result.Error)
	}

	items := make([]*catalog.Item, len(models))
	for i := range models {
		item, err := modelToItem(&models[i])
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// ListActive lists the items visible to the transaction executor.
func (r *GormItemRepository) ListActive(ctx context.Context) ([]*catalog.Item, error) {
	return r.FindAll(ctx, nil, false)
}

// Deactivate soft-deletes an item.
func (r *GormItemRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &catalog.ErrItemNotFound{ID: id}
	}
	return nil
}

func modelToItem(model *ItemModel) (*catalog.Item, error) {
	category, err := catalog.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}
	complexity, err := catalog.ParseComplexity(model.Complexity)
	if err != nil {
		return nil, fmt.Errorf("invalid complexity in database: %w", err)
	}

	return catalog.ReconstructItem(
		model.ID,
		model.Name,
		category,
		model.Hunger,
		model.Saturation,
		complexity,
		model.BaseSellPrice,
		model.BaseBuyPrice,
		model.MinPrice,
		model.MaxPrice,
		model.CurrentPrice,
		model.Active,
		model.CreatedAt,
	), nil
}

func itemToModel(item *catalog.Item) *ItemModel {
	return &ItemModel{
		ID:            item.ID(),
		Name:          item.Name(),
		Category:      item.Category().String(),
		Hunger:        item.Hunger(),
		Saturation:    item.Saturation(),
		Complexity:    item.Complexity().String(),
		BaseSellPrice: item.BaseSellPrice(),
		BaseBuyPrice:  item.BaseBuyPrice(),
		MinPrice:      item.MinPrice(),
		MaxPrice:      item.MaxPrice(),
		CurrentPrice:  item.CurrentPrice(),
		Active:        item.IsActive(),
		CreatedAt:     item.CreatedAt(),
	}
}
