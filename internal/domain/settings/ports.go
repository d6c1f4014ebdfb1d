package settings

import "context"

// Repository defines persistence for the runtime settings store.
type Repository interface {
	// All reads a consistent snapshot of every stored setting.
	All(ctx context.Context) (Snapshot, error)

	// Set writes one setting and bumps its updated_at timestamp. This is the
	// single mutator.
	Set(ctx context.Context, key, value string) error
}
