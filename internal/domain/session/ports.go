package session

import "context"

// Repository persists session rows behind the in-memory registry.
type Repository interface {
	// Upsert creates or replaces the session row for the player.
	Upsert(ctx context.Context, s *PlayerSession) error

	// FindAll returns all persisted sessions, for registry restore.
	FindAll(ctx context.Context) ([]*PlayerSession, error)
}
