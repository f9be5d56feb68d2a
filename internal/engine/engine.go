package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/formwork-dev/formwork/internal/logging"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/refpath"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// Engine runs the evaluation passes over one definition index: prune,
// validate, graph walk, derive. It holds no mutable state between calls;
// a single Engine may serve concurrent evaluations.
type Engine struct {
	index    ports.DefinitionIndex
	resolver *resolve.Resolver
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	pruneSteps []pruneStep
	flowOrder  []string
	flowByID   map[string]domain.FlowNode
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger configures a logger for evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks installs lifecycle callbacks fired during evaluation.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New builds an evaluator over a definition index. Configuration errors
// (malformed ref-paths, cyclic precondition dependencies, cyclic flow
// graphs, unknown edge endpoints) surface here, never at evaluation time.
func New(index ports.DefinitionIndex, resolver *resolve.Resolver, opts ...Option) (*Engine, error) {
	e := &Engine{
		index:    index,
		resolver: resolver,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	steps, err := pruneOrder(index.Nodes())
	if err != nil {
		return nil, err
	}
	e.pruneSteps = steps

	order, err := flowOrder(index.Flow(), index.Edges())
	if err != nil {
		return nil, err
	}
	e.flowOrder = order

	e.flowByID = make(map[string]domain.FlowNode, len(index.Flow()))
	for _, fn := range index.Flow() {
		e.flowByID[fn.ID] = fn
	}
	return e, nil
}

// Evaluate computes the full workflow state for one data document. The
// input is deep-copied once before pruning and never read again, so the
// caller may reuse its document freely after the call returns.
func (e *Engine) Evaluate(ctx context.Context, data map[string]any) *domain.WorkflowState {
	start := time.Now()
	if data == nil {
		data = map[string]any{}
	}

	// 1. Prune inapplicable data
	pruned := refpath.DeepCopy(data).(map[string]any)
	cleared := e.prune(ctx, data, pruned)

	// 2. Validate each section
	sections := e.validateSections(ctx, pruned)

	// 3. Walk the workflow graph
	edges := e.evaluateGraph(pruned, sections)

	// 4. Resolve derived values against the pruned data, no target path
	declared := e.index.Derived()
	derived := make(map[string]any, len(declared))
	for _, d := range declared {
		derived[d.ID] = e.resolver.Resolve(d.Value, pruned, nil)
	}

	invalid := 0
	for _, s := range sections {
		if s.Status == domain.SectionInvalid {
			invalid++
		}
	}
	e.logger.Debug("workflow state evaluated",
		"duration", time.Since(start),
		"pruned", cleared,
		"sections", len(sections),
		"invalid", invalid,
	)
	e.emitEvaluation(ctx, start, cleared, len(sections), invalid)

	return &domain.WorkflowState{
		Data:          pruned,
		Derived:       derived,
		SectionStates: sections,
		EdgeStates:    edges,
	}
}

func (e *Engine) emitPrune(ctx context.Context, nodePath string, target refpath.Path) {
	if e.hooks.OnPrune == nil {
		return
	}
	e.hooks.OnPrune(ctx, &domain.PruneEvent{NodePath: nodePath, DataPath: target.Key()})
}

func (e *Engine) emitSection(ctx context.Context, id string, state domain.SectionState) {
	if e.hooks.OnSection == nil {
		return
	}
	e.hooks.OnSection(ctx, &domain.SectionEvent{
		SectionID: id,
		Status:    state.Status,
		Messages:  len(state.ValidationMessages),
	})
}

func (e *Engine) emitEvaluation(ctx context.Context, start time.Time, pruned, sections, invalid int) {
	if e.hooks.OnEvaluation == nil {
		return
	}
	e.hooks.OnEvaluation(ctx, &domain.EvaluationEvent{
		Timestamp: start,
		Duration:  time.Since(start),
		Pruned:    pruned,
		Sections:  sections,
		Invalid:   invalid,
	})
}
