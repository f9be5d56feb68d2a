package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/dsl"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/session"
)

func newTestEvaluator(t *testing.T) *formwork.Engine {
	t.Helper()
	b := dsl.New()
	b.Section("profile", "$.profile")
	b.Field("$.profile.email").Required("Email is required")
	b.Edge(dsl.Start, "profile").Edge("profile", dsl.End)

	eng, err := formwork.New(b.Build())
	require.NoError(t, err)
	return eng
}

// SlowStore simulates IO latency to provoke races if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[snap.ID] = snap
	return nil
}

func (s *SlowStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.data[id]; ok {
		return snap, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

func (s *SlowStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

// recordingLocker counts lock round trips.
type recordingLocker struct {
	mu       sync.Mutex
	locked   int
	released int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locked++
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_SaveEvaluatesDraft(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t))
	ctx := context.Background()

	state, _, err := manager.Save(ctx, "draft-1", map[string]any{
		"profile": map[string]any{"name": "Ada"},
	})
	require.NoError(t, err)

	section := state.Section("profile")
	assert.Equal(t, domain.SectionInvalid, section.Status)
	require.Len(t, section.ValidationMessages, 1)
	assert.Equal(t, "profile.email", section.ValidationMessages[0].Path)

	snap, err := manager.Load(ctx, "draft-1")
	require.NoError(t, err)
	profile := snap.Data["profile"].(map[string]any)
	assert.Equal(t, "Ada", profile["name"])
}

func TestManager_DiffReportsChanges(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t))
	ctx := context.Background()

	// First save reports the whole state as a diff.
	_, diff, err := manager.Save(ctx, "draft-1", map[string]any{"profile": map[string]any{}})
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, domain.SectionInvalid, diff.Sections["profile"])

	// An identical save changes nothing.
	_, diff, err = manager.Save(ctx, "draft-1", map[string]any{"profile": map[string]any{}})
	require.NoError(t, err)
	assert.Nil(t, diff)

	// Filling the missing field flips the section.
	_, diff, err = manager.Save(ctx, "draft-1", map[string]any{
		"profile": map[string]any{"email": "ada@example.com"},
	})
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, domain.SectionValid, diff.Sections["profile"])
}

func TestManager_StartAssignsID(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t))
	ctx := context.Background()

	id, state, err := manager.Start(ctx, map[string]any{"profile": map[string]any{}})
	require.NoError(t, err)
	require.NotNil(t, state)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "draft IDs are uuids")

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
}

func TestManager_DeleteForgetsHistory(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t))
	ctx := context.Background()
	data := map[string]any{"profile": map[string]any{}}

	_, first, err := manager.Save(ctx, "draft-1", data)
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, manager.Delete(ctx, "draft-1"))
	_, err = manager.Load(ctx, "draft-1")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// With the history gone, an identical save reports a full diff again.
	_, diff, err := manager.Save(ctx, "draft-1", data)
	require.NoError(t, err)
	assert.NotNil(t, diff)
}

func TestManager_EvaluateReadsStore(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t))
	ctx := context.Background()

	_, _, err := manager.Save(ctx, "draft-1", map[string]any{
		"profile": map[string]any{"email": "ada@example.com"},
	})
	require.NoError(t, err)

	state, err := manager.Evaluate(ctx, "draft-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SectionValid, state.Section("profile").Status)
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store, newTestEvaluator(t))
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Save(ctx, id, map[string]any{"profile": map[string]any{}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), newTestEvaluator(t), session.WithLocker(locker))
	ctx := context.Background()

	_, _, err := manager.Save(ctx, "draft-1", map[string]any{"profile": map[string]any{}})
	require.NoError(t, err)

	assert.Equal(t, 1, locker.locked)
	assert.Equal(t, 1, locker.released)
}
