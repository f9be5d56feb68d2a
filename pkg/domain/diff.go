package domain

import (
	"reflect"
)

// StateDiff represents the changes between two evaluated workflow states.
// It is designed to be serialized to JSON for partial updates on clients
// that track a draft across edits.
type StateDiff struct {
	// Sections contains only sections whose status flipped; the value is the
	// new status.
	Sections map[string]SectionStatus `json:"sections,omitempty"`

	// Edges contains only edges whose activation flipped, keyed "from->to";
	// the value is the new status.
	Edges map[string]EdgeStatus `json:"edges,omitempty"`

	// Derived contains derived values that changed (added keys included;
	// removed keys present with a nil value).
	Derived map[string]any `json:"derived,omitempty"`
}

// DiffStates calculates the difference between two workflow states. If old
// is nil the whole new state is reported as a diff (initial load). Returns
// nil when nothing changed.
func DiffStates(old, new *WorkflowState) *StateDiff {
	if new == nil {
		return nil
	}

	diff := &StateDiff{}

	// 1. Section verdict flips
	for id, ns := range new.SectionStates {
		if old == nil {
			ensureSections(diff)[id] = ns.Status
			continue
		}
		if os, ok := old.SectionStates[id]; !ok || os.Status != ns.Status {
			ensureSections(diff)[id] = ns.Status
		}
	}

	// 2. Edge activation flips
	for i, ne := range new.EdgeStates {
		key := ne.From + "->" + ne.To
		if old == nil || i >= len(old.EdgeStates) {
			ensureEdges(diff)[key] = ne.Status
			continue
		}
		if old.EdgeStates[i].Status != ne.Status {
			ensureEdges(diff)[key] = ne.Status
		}
	}

	// 3. Derived value changes
	for id, nv := range new.Derived {
		if old == nil {
			ensureDerived(diff)[id] = nv
			continue
		}
		if ov, ok := old.Derived[id]; !ok || !reflect.DeepEqual(ov, nv) {
			ensureDerived(diff)[id] = nv
		}
	}
	if old != nil {
		for id := range old.Derived {
			if _, ok := new.Derived[id]; !ok {
				ensureDerived(diff)[id] = nil
			}
		}
	}

	if diff.Sections == nil && diff.Edges == nil && diff.Derived == nil {
		return nil
	}
	return diff
}

func ensureSections(d *StateDiff) map[string]SectionStatus {
	if d.Sections == nil {
		d.Sections = make(map[string]SectionStatus)
	}
	return d.Sections
}

func ensureEdges(d *StateDiff) map[string]EdgeStatus {
	if d.Edges == nil {
		d.Edges = make(map[string]EdgeStatus)
	}
	return d.Edges
}

func ensureDerived(d *StateDiff) map[string]any {
	if d.Derived == nil {
		d.Derived = make(map[string]any)
	}
	return d.Derived
}
