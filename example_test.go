package formwork_test

import (
	"context"
	"fmt"
	"log"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
)

// ExampleNew_memory demonstrates building an engine from an in-memory
// definition and evaluating a partially filled document.
func ExampleNew_memory() {
	def := domain.Definition{
		Nodes: []domain.Node{
			{Path: "$.profile", ID: "profile"},
			{Path: "$.profile.email", Required: "Email is required"},
		},
		Flow: []domain.FlowNode{
			{ID: "profile", Kind: domain.FlowKindSection},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "profile"},
			{From: "profile", To: domain.FlowEnd},
		},
	}

	eng, err := formwork.New(memory.NewIndex(def))
	if err != nil {
		log.Fatal(err)
	}

	state, err := eng.GetWorkflowState(context.Background(), map[string]any{
		"profile": map[string]any{"name": "Ada"},
	})
	if err != nil {
		log.Fatal(err)
	}

	section := state.Section("profile")
	fmt.Println("status:", section.Status)
	for _, m := range section.ValidationMessages {
		fmt.Printf("%s: %s\n", m.Path, m.Message)
	}
	// Output:
	// status: invalid
	// profile.email: Email is required
}
