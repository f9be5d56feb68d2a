package domain

// Definition is a complete workflow configuration document: the declared
// nodes, the flow graph and the derived values. Declaration order is
// meaningful and must survive loading.
type Definition struct {
	Nodes   []Node     `json:"nodes" yaml:"nodes"`
	Flow    []FlowNode `json:"flow,omitempty" yaml:"flow,omitempty"`
	Edges   []Edge     `json:"edges,omitempty" yaml:"edges,omitempty"`
	Derived []Derived  `json:"derived,omitempty" yaml:"derived,omitempty"`
}
