package domain

// SectionStatus is the validation verdict of one input section.
type SectionStatus string

const (
	SectionValid   SectionStatus = "valid"
	SectionInvalid SectionStatus = "invalid"
)

// EdgeStatus is the activation state of one workflow transition.
type EdgeStatus string

const (
	EdgeActive   EdgeStatus = "active"
	EdgeInactive EdgeStatus = "inactive"
)

// Message reports a failed required or custom rule at a concrete data path.
// Path is the dotted concrete path (keys and array indexes), without the
// "$." prefix.
type Message struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// SectionState is the verdict for one section. ValidationMessages preserves
// recording order: required checks first (in subtree traversal and expansion
// order), then custom checks in data-traversal order.
type SectionState struct {
	Status             SectionStatus `json:"status"`
	ValidationMessages []Message     `json:"validationMessages"`
}

// EdgeState is an Edge augmented with its evaluated activation status.
type EdgeState struct {
	Edge
	Status EdgeStatus `json:"status"`
}

// WorkflowState is the complete output of one evaluation call. Every field
// is recomputed from scratch per call; the engine persists nothing.
type WorkflowState struct {
	// Data is the input snapshot pruned of entries whose applicability
	// conditions do not hold.
	Data map[string]any `json:"data"`

	// Derived maps each derived value's ID to its resolved result.
	Derived map[string]any `json:"derived"`

	// SectionStates maps each input_section flow node's ID to its verdict.
	SectionStates map[string]SectionState `json:"input_section_states"`

	// EdgeStates lists every workflow edge, in declaration order, with its
	// activation status appended.
	EdgeStates []EdgeState `json:"edge_states"`
}

// Section returns the state recorded for the given section ID, defaulting to
// a valid verdict when the section is unknown.
func (ws *WorkflowState) Section(id string) SectionState {
	if s, ok := ws.SectionStates[id]; ok {
		return s
	}
	return SectionState{Status: SectionValid}
}
