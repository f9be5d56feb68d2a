package domain

// Node is a single entry of the workflow configuration. It can describe an
// input section, a repeated group, a field inside a section, or a decision
// rule. Nodes are identified by a ref-path pattern (Path) and/or a stable ID;
// sections and decisions always carry an ID so the flow graph can reference
// them.
type Node struct {
	// Path is the ref-path pattern addressing this node's data, e.g.
	// "$.applicant.pets.*.kind". Array positions appear as the wildcard "*".
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ID is the stable identifier used by flow nodes and derived values.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Preconditions gate applicability: every entry must resolve truthy at a
	// concrete data path for that data to survive pruning. Absent or empty
	// means always applicable.
	Preconditions []any `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`

	// Required marks the node's value as mandatory. Either a single
	// resolvable whose truthy result is the reported message itself, or a
	// list of RequiredRule entries evaluated in order (first truthy rule
	// contributes its message).
	Required any `json:"required,omitempty" yaml:"required,omitempty"`

	// Validations are custom rules evaluated against non-blank values in
	// declared order. Evaluation stops at the first rule resolving to
	// exactly false.
	Validations []Validation `json:"validations,omitempty" yaml:"validations,omitempty"`

	// Output is the boolean expression of a decision node, resolved against
	// the pruned data with no target path.
	Output any `json:"output,omitempty" yaml:"output,omitempty"`
}

// RequiredRule pairs a requiredness condition with the message reported when
// the governed value is blank.
type RequiredRule struct {
	Rule    any    `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

// Validation pairs a custom rule with the message reported when the rule
// resolves to exactly false.
type Validation struct {
	Rule    any    `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

// Derived names a value computed once per evaluation, independent of any
// specific data location.
type Derived struct {
	ID    string `json:"id" yaml:"id"`
	Value any    `json:"value" yaml:"value"`
}
