package engine

import (
	"context"

	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/refpath"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// prune clears every concrete data path whose governing preconditions do
// not hold. Applicability is always decided against the original snapshot:
// one node's removal never changes what another node's pattern matches or
// what its preconditions see, so removals do not cascade.
func (e *Engine) prune(ctx context.Context, original, output map[string]any) int {
	cleared := 0
	for _, step := range e.pruneSteps {
		if len(step.node.Preconditions) == 0 {
			continue
		}
		for _, target := range refpath.Match(original, step.pattern) {
			if e.applicable(step.node, original, target) {
				continue
			}
			refpath.Clear(output, target)
			cleared++
			e.logger.Debug("pruned inapplicable data", "node", step.node.Path, "path", target.Key())
			e.emitPrune(ctx, step.node.Path, target)
		}
	}
	return cleared
}

// applicable reports whether every precondition of node resolves truthy at
// target. Nodes without preconditions are always applicable.
func (e *Engine) applicable(node *domain.Node, data map[string]any, target refpath.Path) bool {
	for _, cond := range node.Preconditions {
		if !resolve.Truthy(e.resolver.Resolve(cond, data, target)) {
			return false
		}
	}
	return true
}
