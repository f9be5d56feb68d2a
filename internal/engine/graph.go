package engine

import (
	"fmt"

	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// flowOrder computes the topological evaluation order of the workflow
// graph, predecessors first. START and END are implicit vertices with an
// implicit START->END edge; ties keep declaration order.
func flowOrder(flow []domain.FlowNode, edges []domain.Edge) ([]string, error) {
	var vertices []string
	rank := make(map[string]int)
	addVertex := func(id string) {
		if _, seen := rank[id]; seen {
			return
		}
		rank[id] = len(vertices)
		vertices = append(vertices, id)
	}
	addVertex(domain.FlowStart)
	for _, fn := range flow {
		addVertex(fn.ID)
	}
	addVertex(domain.FlowEnd)

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
	addEdge(domain.FlowStart, domain.FlowEnd)
	for _, edge := range edges {
		for _, id := range []string{edge.From, edge.To} {
			if _, known := rank[id]; !known {
				return nil, fmt.Errorf("%w: edge %s->%s references %q", domain.ErrUnknownFlowNode, edge.From, edge.To, id)
			}
		}
		addEdge(edge.From, edge.To)
	}

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
			return nil, fmt.Errorf("%w: involving %s", domain.ErrCyclicFlow, firstUndone(vertices, done))
		}
		done[next] = true
		order = append(order, next)
		for to := range succ[next] {
			indeg[to]--
		}
	}
	return order, nil
}

// flowStatus tracks one node's evaluation outcome.
type flowStatus struct {
	active         bool
	output         bool // decision nodes only
	decision       bool
	shortCircuited bool
}

// evaluateGraph walks the flow in topological order. The first invalid
// section becomes the frontier: every node evaluated after it is inactive
// without its rule being consulted. START and END are always active.
func (e *Engine) evaluateGraph(pruned map[string]any, sections map[string]domain.SectionState) []domain.EdgeState {
	status := make(map[string]flowStatus, len(e.flowOrder))
	frontierFound := false

	for _, id := range e.flowOrder {
		if domain.IsSentinel(id) {
			status[id] = flowStatus{active: true}
			continue
		}
		fn := e.flowByID[id]
		if frontierFound {
			status[id] = flowStatus{decision: fn.Kind == domain.FlowKindDecision, shortCircuited: true}
			continue
		}
		switch fn.Kind {
		case domain.FlowKindSection:
			valid := sections[id].Status == domain.SectionValid
			if !valid {
				frontierFound = true
			}
			status[id] = flowStatus{active: valid}
		case domain.FlowKindDecision:
			output := false
			if node, ok := e.index.NodeByID(id); ok {
				output = resolve.Truthy(e.resolver.Resolve(node.Output, pruned, nil))
			}
			status[id] = flowStatus{active: output, output: output, decision: true}
		default:
			status[id] = flowStatus{active: true}
		}
	}

	edges := e.index.Edges()
	out := make([]domain.EdgeState, 0, len(edges))
	for _, edge := range edges {
		from := status[edge.From]
		active := from.active
		// Tagged edges leaving a live decision follow the branch selector
		// instead of the node status.
		if from.decision && !from.shortCircuited && edge.WhenInputIs != nil {
			active = from.output == *edge.WhenInputIs
		}
		st := domain.EdgeActive
		if !active {
			st = domain.EdgeInactive
		}
		out = append(out, domain.EdgeState{Edge: edge, Status: st})
	}
	return out
}
