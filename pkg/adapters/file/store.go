package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Store implements ports.SnapshotStore using the local filesystem.
// It stores drafts as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".formwork/drafts".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".formwork", "drafts")
	}
	return &Store{BasePath: basePath}
}

// Draft IDs become file names; anything that could escape the base
// directory is rejected.
func validID(id string) error {
	if id == "" {
		return fmt.Errorf("draft ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("draft ID %q contains path elements", id)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.BasePath, id+".json")
}

// Save persists the draft to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := validID(snap.ID); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure draft directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	// The temp file lives in the same directory so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+snap.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Rename of an open file fails on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(snap.ID)

	// os.Rename over an existing destination also fails on Windows, so the
	// old draft goes first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing draft file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to draft: %w", err)
	}

	return nil
}

// Load retrieves the draft from its JSON file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &snap, nil
}

// Delete removes the draft file. Deleting an absent draft is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}

	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete draft file: %w", err)
	}

	return nil
}

// List returns all draft IDs, most recently updated first. Recency follows
// the stored update time, not file metadata, so it matches what the other
// stores report.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	type draftFile struct {
		id        string
		updatedAt time.Time
	}

	var drafts []draftFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.BasePath, name))
		if err != nil {
			continue
		}
		var meta struct {
			UpdatedAt time.Time `json:"updated_at"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			continue
		}

		drafts = append(drafts, draftFile{
			id:        name[:len(name)-len(".json")],
			updatedAt: meta.UpdatedAt,
		})
	}

	sort.Slice(drafts, func(i, j int) bool {
		if drafts[i].updatedAt.Equal(drafts[j].updatedAt) {
			return drafts[i].id < drafts[j].id
		}
		return drafts[i].updatedAt.After(drafts[j].updatedAt)
	})

	ids := make([]string, len(drafts))
	for i, d := range drafts {
		ids[i] = d.id
	}
	return ids, nil
}
