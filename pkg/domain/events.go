package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEvaluation EventType = "evaluation"
	EventSection    EventType = "section"
	EventPrune      EventType = "prune"
)

// EvaluationEvent summarizes one GetWorkflowState call.
type EvaluationEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Pruned    int           `json:"pruned"`   // concrete data paths cleared
	Sections  int           `json:"sections"` // sections evaluated
	Invalid   int           `json:"invalid"`  // sections found invalid
}

// SectionEvent reports one section's verdict.
type SectionEvent struct {
	SectionID string        `json:"section_id"`
	Status    SectionStatus `json:"status"`
	Messages  int           `json:"messages"`
}

// PruneEvent reports one concrete data path cleared by the pruner.
type PruneEvent struct {
	NodePath string `json:"node_path"` // the governing node's ref-path pattern
	DataPath string `json:"data_path"` // the concrete path cleared
}

// LifecycleHooks defines callbacks for engine observability. Nil callbacks
// are skipped. Hooks run synchronously inside the evaluation call.
type LifecycleHooks struct {
	OnEvaluation func(context.Context, *EvaluationEvent)
	OnSection    func(context.Context, *SectionEvent)
	OnPrune      func(context.Context, *PruneEvent)
}
