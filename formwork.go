package formwork

import (
	"context"
	"io"
	"log/slog"

	"github.com/formwork-dev/formwork/internal/engine"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// Engine is the high-level entry point for the Formwork library.
// It wraps the internal evaluator and provides a simplified API for consumers.
type Engine struct {
	core     *engine.Engine
	index    ports.DefinitionIndex
	registry *resolve.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCapabilities registers caller capabilities for expression rules,
// overriding builtins of the same name.
func WithCapabilities(caps map[string]resolve.Capability) Option {
	return func(e *Engine) {
		for name, fn := range caps {
			e.registry.Register(name, fn)
		}
	}
}

// WithCapability registers a single capability.
func WithCapability(name string, fn resolve.Capability) Option {
	return func(e *Engine) {
		e.registry.Register(name, fn)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine in log output, typically with the workflow's
// file or repository name.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new Formwork Engine over a definition index.
// Configuration errors (malformed ref-paths, cyclic precondition
// dependencies, cyclic flow graphs) are returned here; a constructed
// Engine cannot fail at evaluation time.
func New(index ports.DefinitionIndex, opts ...Option) (*Engine, error) {
	eng := &Engine{
		index:    index,
		registry: resolve.NewRegistry(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to the core,
	// which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("workflow", eng.Name)
	}

	resolver := resolve.New(eng.registry, resolve.WithLogger(eng.logger))
	core, err := engine.New(index, resolver,
		engine.WithLogger(eng.logger),
		engine.WithHooks(eng.hooks),
	)
	if err != nil {
		return nil, err
	}
	eng.core = core
	return eng, nil
}

// GetWorkflowState evaluates one data document against the definition,
// returning the pruned data, derived values, section verdicts and edge
// states. The call is pure: data is deep-copied before any mutation and
// the engine keeps no state between calls.
func (e *Engine) GetWorkflowState(ctx context.Context, data map[string]any) (*domain.WorkflowState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.core.Evaluate(ctx, data), nil
}

// Definition exposes the index the engine was built with, for
// introspection and visualization tools.
func (e *Engine) Definition() ports.DefinitionIndex {
	return e.index
}

// Capabilities returns the sorted names of every registered capability.
func (e *Engine) Capabilities() []string {
	return e.registry.Names()
}
