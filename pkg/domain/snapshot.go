package domain

import "time"

// Snapshot is a draft of user-entered data held by stores and sessions while
// a workflow is being filled in. The engine itself never persists snapshots;
// it only evaluates their Data.
type Snapshot struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}
