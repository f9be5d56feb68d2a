package graph

import (
	"fmt"
	"strings"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Overlay carries an evaluated state to paint on top of the declared graph.
type Overlay struct {
	State *domain.WorkflowState
}

// GenerateMermaid produces a Mermaid flowchart syntax string from the
// declared workflow graph. It applies semantic styling:
// - START/END sentinels: ((Circle))
// - Input section: [/Parallelogram/]
// - Decision: {Diamond}
// Branch edges are labelled yes/no. With an overlay, sections are classed
// by their verdict and inactive edges are drawn dashed.
func GenerateMermaid(flow []domain.FlowNode, edges []domain.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", domain.FlowStart, domain.FlowStart))
	for _, node := range flow {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(node.ID)

		// Node Shape based on Kind
		opener, closer := "[/", "/]"
		if node.Kind == domain.FlowKindDecision {
			opener, closer = "{", "}"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))
	}
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", domain.FlowEnd, domain.FlowEnd))

	for _, e := range edges {
		safeFrom := sanitizeMermaidID(e.From)
		safeTo := sanitizeMermaidID(e.To)

		arrow := "-->"
		if e.WhenInputIs != nil {
			label := "no"
			if *e.WhenInputIs {
				label = "yes"
			}
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	// Apply Overlay Styles
	if overlay != nil && overlay.State != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef valid fill:#e8f5e9,stroke:#1b5e20,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")

		for _, node := range flow {
			if node.Kind != domain.FlowKindSection {
				continue
			}
			class := "valid"
			if overlay.State.Section(node.ID).Status == domain.SectionInvalid {
				class = "invalid"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(node.ID), class))
		}

		// Edge states follow declaration order, so the index lines up with
		// Mermaid's link numbering.
		for i, es := range overlay.State.EdgeStates {
			if i >= len(edges) || es.Status == domain.EdgeActive {
				continue
			}
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#9e9e9e,stroke-dasharray: 3 3;\n", i))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
