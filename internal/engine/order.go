package engine

import (
	"fmt"

	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/refpath"
)

// pruneStep is one entry of the precomputed pruning order.
type pruneStep struct {
	node    *domain.Node
	pattern refpath.Path
}

// pruneOrder computes the order nodes are pruned in: any path referenced by
// another node's preconditions must have its own applicability resolved
// first. Ties keep declaration order so pruning is reproducible run to run.
func pruneOrder(nodes []*domain.Node) ([]pruneStep, error) {
	byPath := make(map[string]*domain.Node, len(nodes))
	patterns := make(map[string]refpath.Path, len(nodes))

	// 1. Register every declared node path as a vertex
	var vertices []string
	rank := make(map[string]int)
	addVertex := func(path string) {
		if _, seen := rank[path]; seen {
			return
		}
		rank[path] = len(vertices)
		vertices = append(vertices, path)
	}
	for _, node := range nodes {
		if node.Path == "" {
			continue
		}
		pattern, err := refpath.Parse(node.Path)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Path, err)
		}
		byPath[node.Path] = node
		patterns[node.Path] = pattern
		addVertex(node.Path)
	}

	// 2. Record "owner precedes referrer" relations from preconditions
	succ := make(map[string]map[string]bool)
	indeg := make(map[string]int)
	addEdge := func(from, to string) {
		if succ[from] == nil {
			succ[from] = make(map[string]bool)
		}
		if succ[from][to] {
			return
		}
		succ[from][to] = true
		indeg[to]++
	}
	for _, node := range nodes {
		if node.Path == "" || len(node.Preconditions) == 0 {
			continue
		}
		var refs []string
		for _, cond := range node.Preconditions {
			scanRefs(cond, &refs)
		}
		for _, ref := range refs {
			owner, err := ownerPattern(ref, byPath)
			if err != nil {
				return nil, fmt.Errorf("node %q precondition: %w", node.Path, err)
			}
			addVertex(owner)
			addEdge(owner, node.Path)
		}
	}

	// 3. Kahn's algorithm, lowest declaration rank first
	order := make([]string, 0, len(vertices))
	done := make(map[string]bool, len(vertices))
	for len(order) < len(vertices) {
		next := ""
		for _, v := range vertices {
			if !done[v] && indeg[v] == 0 {
				next = v
				break
			}
		}
		if next == "" {
			return nil, fmt.Errorf("%w: involving %s", domain.ErrCyclicDependency, firstUndone(vertices, done))
		}
		done[next] = true
		order = append(order, next)
		for to := range succ[next] {
			indeg[to]--
		}
	}

	// 4. Keep only declared nodes; foreign refs were ordering aids
	steps := make([]pruneStep, 0, len(byPath))
	for _, path := range order {
		if node, ok := byPath[path]; ok {
			steps = append(steps, pruneStep{node: node, pattern: patterns[path]})
		}
	}
	return steps, nil
}

// scanRefs collects every "$."-prefixed string embedded anywhere in an
// expression. Mapping keys are not scanned.
func scanRefs(expr any, out *[]string) {
	switch v := expr.(type) {
	case string:
		if refpath.IsRef(v) {
			*out = append(*out, v)
		}
	case []any:
		for _, item := range v {
			scanRefs(item, out)
		}
	case map[string]any:
		for _, item := range v {
			scanRefs(item, out)
		}
	}
}

// ownerPattern canonicalizes a reference to the declared node pattern that
// governs it: indexes and relative markers generalize to the wildcard, and
// a trailing wildcard falls back to the array's own node when no element
// node is declared.
func ownerPattern(ref string, byPath map[string]*domain.Node) (string, error) {
	path, err := refpath.Parse(ref)
	if err != nil {
		return "", err
	}
	canon := make(refpath.Path, len(path))
	for i, tok := range path {
		if tok == refpath.Relative {
			canon[i] = refpath.Wildcard
			continue
		}
		if _, ok := refpath.Index(tok); ok {
			canon[i] = refpath.Wildcard
			continue
		}
		canon[i] = tok
	}
	pattern := canon.String()
	if _, ok := byPath[pattern]; ok {
		return pattern, nil
	}
	if n := len(canon); n > 1 && canon[n-1] == refpath.Wildcard {
		parent := canon[:n-1].String()
		if _, ok := byPath[parent]; ok {
			return parent, nil
		}
	}
	return pattern, nil
}

func firstUndone(vertices []string, done map[string]bool) string {
	for _, v := range vertices {
		if !done[v] {
			return v
		}
	}
	return ""
}
