package resolve

import (
	"log/slog"

	"github.com/formwork-dev/formwork/internal/logging"
	"github.com/formwork-dev/formwork/pkg/refpath"
)

const (
	fnKey   = "fn"
	argsKey = "args"
)

// Resolver evaluates expressions against a data document and a capability
// registry.
type Resolver struct {
	registry *Registry
	logger   *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger configures a logger for resolution warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver backed by the given capability registry.
func New(registry *Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve evaluates an expression against data. target is the concrete
// path the expression is being evaluated at; it feeds the "$value"
// sentinel and relative references and may be nil.
func (r *Resolver) Resolve(expr any, data any, target refpath.Path) any {
	switch node := expr.(type) {
	case map[string]any:
		// 1. Capability call
		if name, ok := node[fnKey].(string); ok {
			if fn, found := r.registry.Lookup(name); found {
				return r.call(name, fn, node, data, target)
			}
		}
		// 2. Plain mapping: keys pass through, values resolve
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[k] = r.Resolve(v, data, target)
		}
		return out
	case string:
		// 3. Sentinel, reference or literal
		return r.resolveString(node, data, target)
	case []any:
		// 4. Sequence: element-wise, order preserved
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = r.Resolve(item, data, target)
		}
		return out
	default:
		// 5. Scalar literal
		return expr
	}
}

func (r *Resolver) call(name string, fn Capability, node map[string]any, data any, target refpath.Path) any {
	var raw []any
	if list, ok := node[argsKey].([]any); ok {
		raw = list
	}
	args := make([]any, len(raw))
	for i, a := range raw {
		args[i] = r.Resolve(a, data, target)
	}
	result, err := fn(args...)
	if err != nil {
		r.logger.Error("capability failed", "fn", name, "error", err)
		return nil
	}
	return result
}

func (r *Resolver) resolveString(s string, data any, target refpath.Path) any {
	if s == refpath.ValueSentinel {
		if target == nil {
			r.logger.Warn("$value used without a target path")
			return nil
		}
		v, _ := refpath.Get(data, target)
		return v
	}
	if !refpath.IsRef(s) {
		return s
	}
	path, err := refpath.Parse(s)
	if err != nil {
		r.logger.Warn("unresolvable reference", "ref", s, "error", err)
		return nil
	}
	path = refpath.ApplyRelativeIndexes(path, target)
	if path.HasWildcard() {
		matched := refpath.Match(data, path)
		out := make([]any, 0, len(matched))
		for _, p := range matched {
			v, _ := refpath.Get(data, p)
			out = append(out, v)
		}
		return out
	}
	v, _ := refpath.Get(data, path)
	return v
}
