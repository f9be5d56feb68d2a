package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// honors the interface contract. Adapter test suites call it against their
// own backend.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	base := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			ID: base,
			Data: map[string]any{
				"applicant": map[string]any{"name": "Ada", "age": 36},
			},
			UpdatedAt: time.Now(),
		}
		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, base, loaded.ID)
		applicant, ok := loaded.Data["applicant"].(map[string]any)
		require.True(t, ok, "nested maps must survive persistence, got %T", loaded.Data["applicant"])
		assert.Equal(t, "Ada", applicant["name"])
		// JSON-backed stores turn ints into floats; both are acceptable.
		assert.EqualValues(t, 36, applicant["age"])
		assert.WithinDuration(t, snap.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Isolation", func(t *testing.T) {
		snap := &domain.Snapshot{
			ID:        base + "-iso",
			Data:      map[string]any{"color": "green"},
			UpdatedAt: time.Now(),
		}
		require.NoError(t, store.Save(ctx, snap))

		// Mutating the caller's document after Save must not leak into
		// the stored copy.
		snap.Data["color"] = "red"

		loaded, err := store.Load(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, "green", loaded.Data["color"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+base)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := base + "-del"
		require.NoError(t, store.Save(ctx, &domain.Snapshot{ID: id, UpdatedAt: time.Now()}))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		// Deleting again is a no-op, not an error.
		assert.NoError(t, store.Delete(ctx, id))
	})

	t.Run("List Recency", func(t *testing.T) {
		older := base + "-older"
		newer := base + "-newer"
		now := time.Now()
		require.NoError(t, store.Save(ctx, &domain.Snapshot{ID: older, UpdatedAt: now.Add(-time.Hour)}))
		require.NoError(t, store.Save(ctx, &domain.Snapshot{ID: newer, UpdatedAt: now}))
		defer func() {
			_ = store.Delete(ctx, older)
			_ = store.Delete(ctx, newer)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, older)
		assert.Contains(t, ids, newer)
		assert.Less(t, indexOf(ids, newer), indexOf(ids, older), "newer snapshots list first")
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
