package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Markdown renders one evaluated workflow state as a markdown document.
// Sections follow the declared flow order; derived values are sorted by
// ID so successive reports diff cleanly.
func Markdown(state *domain.WorkflowState, flow []domain.FlowNode) string {
	var sb strings.Builder
	sb.WriteString("# Workflow state\n\n")

	sections := sectionIDs(state, flow)
	if len(sections) > 0 {
		sb.WriteString("## Sections\n\n")
		sb.WriteString("| Section | Status | Messages |\n")
		sb.WriteString("| --- | --- | --- |\n")
		for _, id := range sections {
			s := state.Section(id)
			sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", id, badge(s.Status), len(s.ValidationMessages)))
		}
		sb.WriteString("\n")
	}

	wroteHeader := false
	for _, id := range sections {
		msgs := state.Section(id).ValidationMessages
		if len(msgs) == 0 {
			continue
		}
		if !wroteHeader {
			sb.WriteString("## Validation messages\n\n")
			wroteHeader = true
		}
		for _, m := range msgs {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", m.Path, m.Message))
		}
	}
	if wroteHeader {
		sb.WriteString("\n")
	}

	if len(state.Derived) > 0 {
		sb.WriteString("## Derived values\n\n")
		ids := make([]string, 0, len(state.Derived))
		for id := range state.Derived {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			sb.WriteString(fmt.Sprintf("- **%s**: %v\n", id, state.Derived[id]))
		}
		sb.WriteString("\n")
	}

	if len(state.EdgeStates) > 0 {
		sb.WriteString("## Flow\n\n")
		for _, es := range state.EdgeStates {
			sb.WriteString(fmt.Sprintf("- %s -> %s: %s\n", es.From, es.To, es.Status))
		}
	}

	return sb.String()
}

// sectionIDs orders sections by flow declaration, then appends any
// evaluated section the flow does not declare, sorted for determinism.
func sectionIDs(state *domain.WorkflowState, flow []domain.FlowNode) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, node := range flow {
		if node.Kind != domain.FlowKindSection {
			continue
		}
		seen[node.ID] = true
		ids = append(ids, node.ID)
	}

	var extra []string
	for id := range state.SectionStates {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func badge(status domain.SectionStatus) string {
	if status == domain.SectionValid {
		return "✅ valid"
	}
	return "❌ invalid"
}
