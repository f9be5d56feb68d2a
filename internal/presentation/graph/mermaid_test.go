package graph_test

import (
	"strings"
	"testing"

	"github.com/formwork-dev/formwork/internal/presentation/graph"
	"github.com/formwork-dev/formwork/pkg/domain"
)

func boolPtr(v bool) *bool { return &v }

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		flow     []domain.FlowNode
		edges    []domain.Edge
		contains []string
	}{
		{
			name: "Sentinel Shapes",
			flow: []domain.FlowNode{
				{ID: "intro", Kind: domain.FlowKindSection},
			},
			contains: []string{
				"START((\"START\"))",
				"END((\"END\"))",
			},
		},
		{
			name: "Section Shape",
			flow: []domain.FlowNode{
				{ID: "applicant", Kind: domain.FlowKindSection},
			},
			contains: []string{
				"applicant[/\"applicant\"/]",
			},
		},
		{
			name: "Decision Shape",
			flow: []domain.FlowNode{
				{ID: "has_pets", Kind: domain.FlowKindDecision},
			},
			contains: []string{
				"has_pets{\"has_pets\"}",
			},
		},
		{
			name: "ID Sanitization",
			flow: []domain.FlowNode{
				{ID: "pet-details", Kind: domain.FlowKindSection},
			},
			edges: []domain.Edge{
				{From: domain.FlowStart, To: "pet-details"},
			},
			contains: []string{
				"pet_details[/\"pet-details\"/]",
				"START --> pet_details",
			},
		},
		{
			name: "Branch Labels",
			flow: []domain.FlowNode{
				{ID: "has_pets", Kind: domain.FlowKindDecision},
				{ID: "pets", Kind: domain.FlowKindSection},
			},
			edges: []domain.Edge{
				{From: "has_pets", To: "pets", WhenInputIs: boolPtr(true)},
				{From: "has_pets", To: domain.FlowEnd, WhenInputIs: boolPtr(false)},
			},
			contains: []string{
				"has_pets -- \"yes\" --> pets",
				"has_pets -- \"no\" --> END",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.flow, tt.edges, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	flow := []domain.FlowNode{
		{ID: "applicant", Kind: domain.FlowKindSection},
		{ID: "review", Kind: domain.FlowKindSection},
	}
	edges := []domain.Edge{
		{From: domain.FlowStart, To: "applicant"},
		{From: "applicant", To: "review"},
		{From: "review", To: domain.FlowEnd},
	}
	state := &domain.WorkflowState{
		SectionStates: map[string]domain.SectionState{
			"applicant": {Status: domain.SectionInvalid},
			"review":    {Status: domain.SectionValid},
		},
		EdgeStates: []domain.EdgeState{
			{Edge: edges[0], Status: domain.EdgeActive},
			{Edge: edges[1], Status: domain.EdgeInactive},
			{Edge: edges[2], Status: domain.EdgeInactive},
		},
	}

	got := graph.GenerateMermaid(flow, edges, &graph.Overlay{State: state})

	for _, want := range []string{
		"class applicant invalid;",
		"class review valid;",
		"linkStyle 1 stroke:#9e9e9e",
		"linkStyle 2 stroke:#9e9e9e",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}

	if strings.Contains(got, "linkStyle 0 ") {
		t.Errorf("GenerateMermaid() styled the active edge:\n%v", got)
	}
}
