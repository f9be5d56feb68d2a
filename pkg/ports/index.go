package ports

import "github.com/formwork-dev/formwork/pkg/domain"

// DefinitionIndex gives the engine read access to a structured workflow
// definition. Implementations must preserve declaration order wherever a
// slice is returned; evaluation order and message order depend on it.
type DefinitionIndex interface {
	// NodeByPath retrieves the node declared for an exact ref-path pattern.
	NodeByPath(pattern string) (*domain.Node, bool)

	// NodeByID retrieves a node by its stable identifier.
	NodeByID(id string) (*domain.Node, bool)

	// NodesUnder returns the nodes whose path equals prefix or nests below
	// it, in declaration order. The prefix is a ref-path pattern.
	NodesUnder(prefix string) []*domain.Node

	// Nodes returns every declared node in declaration order.
	Nodes() []*domain.Node

	// Flow returns the workflow graph nodes in declaration order, without
	// the START/END sentinels.
	Flow() []domain.FlowNode

	// Edges returns the workflow graph edges in declaration order.
	Edges() []domain.Edge

	// Derived returns the derived value declarations in declaration order.
	Derived() []domain.Derived
}
