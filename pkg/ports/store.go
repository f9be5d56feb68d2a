package ports

import (
	"context"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// SnapshotStore defines the interface for persisting working data documents.
// This allows a draft to survive between edit sessions while the engine
// itself stays stateless.
type SnapshotStore interface {
	// Save persists the snapshot under its ID.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves a snapshot by ID.
	// Returns domain.ErrSnapshotNotFound if the snapshot does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes a snapshot by ID. Deleting an absent snapshot is not
	// an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored snapshot IDs ordered by most recent update.
	List(ctx context.Context) ([]string, error)
}
