package catalog

import "fmt"

// ErrItemNotFound signals an unknown item id.
type ErrItemNotFound struct {
	ID string
}

func (e *ErrItemNotFound) Error() string {
	return fmt.Sprintf("item not found: %s", e.ID)
}

// ErrItemInactive signals a trade against a soft-deleted item.
type ErrItemInactive struct {
	ID string
}

func (e *ErrItemInactive) Error() string {
	return fmt.Sprintf("item is inactive: %s", e.ID)
}

// ErrInvalidItem signals an item that violates a catalog invariant.
type ErrInvalidItem struct {
	Field  string
	Reason string
}

func (e *ErrInvalidItem) Error() string {
	return fmt.Sprintf("invalid item (%s): %s", e.Field, e.Reason)
}
