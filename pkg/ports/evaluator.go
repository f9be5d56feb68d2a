package ports

import (
	"context"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Evaluator defines the engine surface consumed by transport adapters
// (HTTP, MCP, CLI). Each call is a pure function of the definition and the
// supplied data document.
type Evaluator interface {
	// GetWorkflowState evaluates a data document against the definition,
	// returning pruned data, derived values, section states and edge states.
	GetWorkflowState(ctx context.Context, data map[string]any) (*domain.WorkflowState, error)

	// Definition exposes the index the evaluator was built with, for
	// introspection and visualization.
	Definition() DefinitionIndex
}
