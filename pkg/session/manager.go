package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/formwork-dev/formwork/internal/logging"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates draft access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks, and keeps the
// last evaluated state per draft so saves can report what changed.
type Manager struct {
	store     ports.SnapshotStore
	evaluator ports.Evaluator

	mu    sync.Mutex            // Global lock for the maps
	locks map[string]*lockEntry // Map of active locks
	last  map[string]*domain.WorkflowState

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a crashed replica can hold a distributed
// lock. Ignored without a locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a draft manager over a snapshot store and the engine
// that evaluates saved data.
func NewManager(store ports.SnapshotStore, evaluator ports.Evaluator, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		evaluator: evaluator,
		locks:     make(map[string]*lockEntry),
		last:      make(map[string]*domain.WorkflowState),
		lockTTL:   30 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after
// unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it
// reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Start creates a draft under a fresh ID, persists it and evaluates it.
func (m *Manager) Start(ctx context.Context, data map[string]any) (string, *domain.WorkflowState, error) {
	id := uuid.NewString()
	state, _, err := m.Save(ctx, id, data)
	if err != nil {
		return "", nil, err
	}
	return id, state, nil
}

// Save persists a new data document for the draft and evaluates it. The
// returned diff covers the change against the draft's previous evaluation;
// it is nil when nothing moved.
func (m *Manager) Save(ctx context.Context, id string, data map[string]any) (*domain.WorkflowState, *domain.StateDiff, error) {
	var (
		state *domain.WorkflowState
		diff  *domain.StateDiff
	)
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		snap := &domain.Snapshot{ID: id, Data: data, UpdatedAt: time.Now().UTC()}
		if err := m.store.Save(ctx, snap); err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}

		var err error
		state, err = m.evaluator.GetWorkflowState(ctx, data)
		if err != nil {
			return fmt.Errorf("failed to evaluate draft: %w", err)
		}

		diff = m.remember(id, state)
		if diff != nil {
			m.logger.Debug("draft state changed", "draft_id", id, "diff", diff)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return state, diff, nil
}

// Load retrieves the stored draft.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, id)
		return err
	})
	return snap, err
}

// Evaluate recomputes the workflow state from the stored draft without
// writing anything.
func (m *Manager) Evaluate(ctx context.Context, id string) (*domain.WorkflowState, error) {
	snap, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.evaluator.GetWorkflowState(ctx, snap.Data)
}

// Delete removes the draft and forgets its evaluation history.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
		m.mu.Lock()
		delete(m.last, id)
		m.mu.Unlock()
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Evaluator returns the engine the manager evaluates drafts with.
func (m *Manager) Evaluator() ports.Evaluator {
	return m.evaluator
}

// WithLock executes a function while holding the lock for the draft.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	// Distributed locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, key expires via TTL",
					"draft_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// remember swaps the cached evaluation for the draft and reports the diff
// against the previous one.
func (m *Manager) remember(id string, state *domain.WorkflowState) *domain.StateDiff {
	m.mu.Lock()
	defer m.mu.Unlock()
	diff := domain.DiffStates(m.last[id], state)
	m.last[id] = state
	return diff
}
