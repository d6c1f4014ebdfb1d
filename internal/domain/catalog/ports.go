package catalog

import (
	"context"
)

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	// Create persists a new item. Fails if the id already exists.
	Create(ctx context.Context, item *Item) error

	// FindByID retrieves an item regardless of its active flag.
	FindByID(ctx context.Context, id string) (*Item, error)

	// FindAll lists items, optionally filtered by category. Inactive items
	// are included only when includeInactive is set.
	FindAll(ctx context.Context, category *Category, includeInactive bool) ([]*Item, error)

	// ListActive lists the items visible to the transaction executor.
	ListActive(ctx context.Context) ([]*Item, error)
}
