package validator

import (
	"errors"
	"fmt"

	"github.com/formwork-dev/formwork/internal/engine"
	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/refpath"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// Validate checks a definition document for authoring mistakes without
// evaluating any data: malformed ref-paths, duplicate declarations,
// decisions lacking an output expression, unknown edge endpoints, and
// cyclic dependency or flow graphs. Every finding is reported; the
// returned error joins them all and matches the domain sentinels under
// errors.Is.
func Validate(def domain.Definition) error {
	var issues []error

	// 1. Configuration nodes: addressability, path syntax, duplicates,
	// and ref syntax inside every expression slot.
	seenPaths := make(map[string]bool)
	seenIDs := make(map[string]bool)
	for i, node := range def.Nodes {
		label := node.Path
		if label == "" {
			label = node.ID
		}
		if label == "" {
			issues = append(issues, fmt.Errorf("node %d has neither path nor id", i))
			continue
		}

		if node.Path != "" {
			if _, err := refpath.Parse(node.Path); err != nil {
				issues = append(issues, fmt.Errorf("node %q: %w", label, err))
			}
			if seenPaths[node.Path] {
				issues = append(issues, fmt.Errorf("duplicate node path %q", node.Path))
			}
			seenPaths[node.Path] = true
		}
		if node.ID != "" {
			if seenIDs[node.ID] {
				issues = append(issues, fmt.Errorf("duplicate node id %q", node.ID))
			}
			seenIDs[node.ID] = true
		}

		for _, cond := range node.Preconditions {
			issues = append(issues, checkRefs(label, cond)...)
		}
		issues = append(issues, checkRequired(label, node.Required)...)
		for _, v := range node.Validations {
			issues = append(issues, checkRefs(label, v.Rule)...)
		}
		issues = append(issues, checkRefs(label, node.Output)...)
	}

	// 2. Flow nodes: identifiers, kinds, decision outputs.
	flowIDs := make(map[string]bool, len(def.Flow))
	for _, fn := range def.Flow {
		switch {
		case fn.ID == "":
			issues = append(issues, errors.New("flow node with empty id"))
			continue
		case domain.IsSentinel(fn.ID):
			issues = append(issues, fmt.Errorf("flow node uses reserved id %q", fn.ID))
			continue
		case flowIDs[fn.ID]:
			issues = append(issues, fmt.Errorf("duplicate flow node id %q", fn.ID))
		}
		flowIDs[fn.ID] = true

		switch fn.Kind {
		case domain.FlowKindSection:
		case domain.FlowKindDecision:
			if node, ok := nodeByID(def.Nodes, fn.ID); !ok || node.Output == nil {
				issues = append(issues, fmt.Errorf("decision %q has no output expression", fn.ID))
			}
		default:
			issues = append(issues, fmt.Errorf("flow node %q has unknown kind %q", fn.ID, fn.Kind))
		}
	}

	// 3. Edge endpoints must name declared flow nodes or the sentinels.
	for _, edge := range def.Edges {
		for _, id := range []string{edge.From, edge.To} {
			if !domain.IsSentinel(id) && !flowIDs[id] {
				issues = append(issues, fmt.Errorf("edge %s->%s: %q: %w", edge.From, edge.To, id, domain.ErrUnknownFlowNode))
			}
		}
	}

	// 4. Derived values need distinct identifiers and sound expressions.
	derivedIDs := make(map[string]bool, len(def.Derived))
	for _, d := range def.Derived {
		if d.ID == "" {
			issues = append(issues, errors.New("derived value with empty id"))
			continue
		}
		if derivedIDs[d.ID] {
			issues = append(issues, fmt.Errorf("duplicate derived id %q", d.ID))
		}
		derivedIDs[d.ID] = true
		issues = append(issues, checkRefs("derived "+d.ID, d.Value)...)
	}

	// 5. Cycle detection runs only on an otherwise sound definition; the
	// engine constructor performs both topological sorts.
	if len(issues) == 0 {
		if _, err := engine.New(memory.NewIndex(def), resolve.New(resolve.NewRegistry())); err != nil {
			issues = append(issues, err)
		}
	}

	return errors.Join(issues...)
}

// checkRequired validates ref syntax across the three accepted
// requirement forms.
func checkRequired(label string, required any) []error {
	switch rules := required.(type) {
	case nil:
		return nil
	case []domain.RequiredRule:
		var issues []error
		for _, r := range rules {
			issues = append(issues, checkRefs(label, r.Rule)...)
		}
		return issues
	default:
		return checkRefs(label, required)
	}
}

// checkRefs walks an expression and parses every "$."-prefixed string it
// contains. Mapping keys are labels, not references, so only values are
// inspected.
func checkRefs(label string, expr any) []error {
	var issues []error
	switch v := expr.(type) {
	case string:
		if refpath.IsRef(v) {
			if _, err := refpath.Parse(v); err != nil {
				issues = append(issues, fmt.Errorf("%s: %w", label, err))
			}
		}
	case []any:
		for _, item := range v {
			issues = append(issues, checkRefs(label, item)...)
		}
	case map[string]any:
		for _, item := range v {
			issues = append(issues, checkRefs(label, item)...)
		}
	}
	return issues
}

func nodeByID(nodes []domain.Node, id string) (*domain.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], true
		}
	}
	return nil, false
}
