package memory

import (
	"strings"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Index implements ports.DefinitionIndex over an in-memory definition.
// It is immutable after construction and safe for concurrent use.
type Index struct {
	nodes   []*domain.Node
	byPath  map[string]*domain.Node
	byID    map[string]*domain.Node
	flow    []domain.FlowNode
	edges   []domain.Edge
	derived []domain.Derived
}

// NewIndex builds an index over a definition. Later declarations win when
// two nodes share a path or ID.
func NewIndex(def domain.Definition) *Index {
	idx := &Index{
		nodes:   make([]*domain.Node, 0, len(def.Nodes)),
		byPath:  make(map[string]*domain.Node, len(def.Nodes)),
		byID:    make(map[string]*domain.Node, len(def.Nodes)),
		flow:    def.Flow,
		edges:   def.Edges,
		derived: def.Derived,
	}
	for i := range def.Nodes {
		node := &def.Nodes[i]
		idx.nodes = append(idx.nodes, node)
		if node.Path != "" {
			idx.byPath[node.Path] = node
		}
		if node.ID != "" {
			idx.byID[node.ID] = node
		}
	}
	return idx
}

// NodeByPath retrieves the node declared for an exact ref-path pattern.
func (idx *Index) NodeByPath(pattern string) (*domain.Node, bool) {
	node, ok := idx.byPath[pattern]
	return node, ok
}

// NodeByID retrieves a node by its stable identifier.
func (idx *Index) NodeByID(id string) (*domain.Node, bool) {
	node, ok := idx.byID[id]
	return node, ok
}

// NodesUnder returns the nodes rooted at prefix in declaration order.
func (idx *Index) NodesUnder(prefix string) []*domain.Node {
	var out []*domain.Node
	for _, node := range idx.nodes {
		if node.Path == prefix || strings.HasPrefix(node.Path, prefix+".") {
			out = append(out, node)
		}
	}
	return out
}

// Nodes returns every declared node in declaration order.
func (idx *Index) Nodes() []*domain.Node {
	return idx.nodes
}

// Flow returns the declared workflow graph nodes.
func (idx *Index) Flow() []domain.FlowNode {
	return idx.flow
}

// Edges returns the declared workflow graph edges.
func (idx *Index) Edges() []domain.Edge {
	return idx.edges
}

// Derived returns the declared derived values.
func (idx *Index) Derived() []domain.Derived {
	return idx.derived
}
