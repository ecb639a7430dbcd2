package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/questforge/questforge/pkg/session"
)

// Storage is the contract for session persistence. At most one live
// session exists per identifier.
type Storage interface {
	// Ping tests the store connection.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error

	// SaveSession persists a session under its identifier.
	SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error

	// LoadSession retrieves a session by identifier.
	// Returns nil if the session doesn't exist.
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)

	// DeleteSession removes a session by identifier.
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
