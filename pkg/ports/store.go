package ports

import (
	"context"

	"github.com/aretw0/fomod/pkg/domain"
)

// SessionStore defines the interface for persisting wizard sessions.
// This allows a host to serve a wizard across requests ("Stop & Resume").
type SessionStore interface {
	// Save persists the snapshot under snapshot.ID.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
