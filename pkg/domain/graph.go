package domain

// FlowKind classifies workflow graph nodes.
type FlowKind string

const (
	// FlowKindSection is a data-entry section; its activation follows the
	// section's validation verdict.
	FlowKindSection FlowKind = "input_section"
	// FlowKindDecision is a branching rule; its activation follows the
	// boolean output of the decision node's expression.
	FlowKindDecision FlowKind = "decision"
)

// Sentinel flow node IDs. START and END bound every workflow graph; they are
// implicit (edges may reference them without a declaration) and always
// evaluate active.
const (
	FlowStart = "START"
	FlowEnd   = "END"
)

// FlowNode is a vertex of the workflow graph. For sections and decisions the
// ID matches the configuration Node carrying the section subtree or the
// decision output.
type FlowNode struct {
	ID   string   `json:"id" yaml:"id"`
	Kind FlowKind `json:"kind" yaml:"kind"`
}

// Edge is a directed transition of the workflow graph. WhenInputIs is only
// meaningful on edges leaving a decision node: a true-branch edge activates
// when the decision's output is truthy, a false-branch edge when it is falsy.
type Edge struct {
	From        string `json:"from" yaml:"from"`
	To          string `json:"to" yaml:"to"`
	WhenInputIs *bool  `json:"when_input_is,omitempty" yaml:"when_input_is,omitempty"`
}

// IsSentinel reports whether id names one of the implicit terminal nodes.
func IsSentinel(id string) bool {
	return id == FlowStart || id == FlowEnd
}
