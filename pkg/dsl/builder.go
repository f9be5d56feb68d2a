package dsl

import (
	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
)

// Sentinel flow node IDs, re-exported so definitions read naturally.
const (
	Start = domain.FlowStart
	End   = domain.FlowEnd
)

// Builder manages definition construction. Declaration order is kept
// exactly as calls are made; it drives pruning tie-breaks and message
// ordering downstream.
type Builder struct {
	nodes   []*NodeBuilder
	byPath  map[string]*NodeBuilder
	byID    map[string]*NodeBuilder
	flow    []domain.FlowNode
	edges   []domain.Edge
	derived []domain.Derived
}

// New creates a new definition builder.
func New() *Builder {
	return &Builder{
		byPath: make(map[string]*NodeBuilder),
		byID:   make(map[string]*NodeBuilder),
	}
}

// Section declares an input section: a configuration node at path plus a
// flow node under id.
func (b *Builder) Section(id, path string) *NodeBuilder {
	nb := b.node(path)
	nb.node.ID = id
	b.byID[id] = nb
	b.flow = append(b.flow, domain.FlowNode{ID: id, Kind: domain.FlowKindSection})
	return nb
}

// Field declares a configuration node at path.
// If the path was already declared, it returns the existing builder.
func (b *Builder) Field(path string) *NodeBuilder {
	return b.node(path)
}

// Decision declares a decision flow node whose output follows expr.
func (b *Builder) Decision(id string, output any) *NodeBuilder {
	if nb, ok := b.byID[id]; ok {
		nb.node.Output = output
		return nb
	}
	nb := &NodeBuilder{node: domain.Node{ID: id, Output: output}, builder: b}
	b.nodes = append(b.nodes, nb)
	b.byID[id] = nb
	b.flow = append(b.flow, domain.FlowNode{ID: id, Kind: domain.FlowKindDecision})
	return nb
}

// Edge adds an untagged transition between two flow nodes.
func (b *Builder) Edge(from, to string) *Builder {
	b.edges = append(b.edges, domain.Edge{From: from, To: to})
	return b
}

// EdgeWhen adds a branch transition leaving a decision node, active when
// the decision's output equals when.
func (b *Builder) EdgeWhen(from, to string, when bool) *Builder {
	b.edges = append(b.edges, domain.Edge{From: from, To: to, WhenInputIs: &when})
	return b
}

// Derive declares a derived value computed once per evaluation.
func (b *Builder) Derive(id string, value any) *Builder {
	b.derived = append(b.derived, domain.Derived{ID: id, Value: value})
	return b
}

// Definition returns the assembled definition document.
func (b *Builder) Definition() domain.Definition {
	nodes := make([]domain.Node, 0, len(b.nodes))
	for _, nb := range b.nodes {
		nodes = append(nodes, nb.node)
	}
	return domain.Definition{
		Nodes:   nodes,
		Flow:    b.flow,
		Edges:   b.edges,
		Derived: b.derived,
	}
}

// Build compiles the definition into an in-memory index ready for the
// engine.
func (b *Builder) Build() *memory.Index {
	return memory.NewIndex(b.Definition())
}

func (b *Builder) node(path string) *NodeBuilder {
	if nb, ok := b.byPath[path]; ok {
		return nb
	}
	nb := &NodeBuilder{node: domain.Node{Path: path}, builder: b}
	b.nodes = append(b.nodes, nb)
	b.byPath[path] = nb
	return nb
}

// Call builds a capability-call expression. Arguments are resolvables:
// literals, "$."-references or nested Call results.
func Call(fn string, args ...any) map[string]any {
	return map[string]any{"fn": fn, "args": args}
}
