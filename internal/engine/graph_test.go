package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

func TestFlowOrderPredecessorsFirst(t *testing.T) {
	flow := []domain.FlowNode{
		{ID: "b", Kind: domain.FlowKindSection},
		{ID: "a", Kind: domain.FlowKindSection},
	}
	edges := []domain.Edge{
		{From: domain.FlowStart, To: "a"},
		{From: "a", To: "b"},
		{From: "b", To: domain.FlowEnd},
	}

	order, err := flowOrder(flow, edges)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.FlowStart, "a", "b", domain.FlowEnd}, order)
}

func TestFlowOrderKeepsDeclarationOrderForPeers(t *testing.T) {
	flow := []domain.FlowNode{
		{ID: "later", Kind: domain.FlowKindSection},
		{ID: "earlier", Kind: domain.FlowKindSection},
	}

	order, err := flowOrder(flow, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.FlowStart, "later", "earlier", domain.FlowEnd}, order)
}

func TestFlowOrderCycleFails(t *testing.T) {
	flow := []domain.FlowNode{
		{ID: "a", Kind: domain.FlowKindSection},
		{ID: "b", Kind: domain.FlowKindSection},
	}
	edges := []domain.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
	}

	_, err := flowOrder(flow, edges)
	assert.ErrorIs(t, err, domain.ErrCyclicFlow)
}

func TestFlowOrderUnknownEndpointFails(t *testing.T) {
	edges := []domain.Edge{
		{From: domain.FlowStart, To: "nowhere"},
	}

	_, err := flowOrder(nil, edges)
	assert.ErrorIs(t, err, domain.ErrUnknownFlowNode)
}

// frontierDefinition wires START -> s1 -> s2 -> END where s1 validity is
// driven by the presence of $.first.value.
func frontierDefinition() domain.Definition {
	return domain.Definition{
		Nodes: []domain.Node{
			{Path: "$.first", ID: "s1"},
			{Path: "$.first.value", Required: "First value is required"},
			{Path: "$.second", ID: "s2"},
		},
		Flow: []domain.FlowNode{
			{ID: "s1", Kind: domain.FlowKindSection},
			{ID: "s2", Kind: domain.FlowKindSection},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "s1"},
			{From: "s1", To: "s2"},
			{From: "s2", To: domain.FlowEnd},
		},
	}
}

func TestFrontierBlocksEverythingAfterFirstInvalidSection(t *testing.T) {
	eng := newTestEngine(t, frontierDefinition())

	state := eng.Evaluate(context.Background(), map[string]any{
		"second": map[string]any{"anything": true},
	})

	assert.Equal(t, domain.SectionInvalid, state.Section("s1").Status)
	// s2 is perfectly valid on its own, yet unreachable.
	assert.Equal(t, domain.SectionValid, state.Section("s2").Status)

	assert.Equal(t, domain.EdgeActive, edgeStatus(t, state, domain.FlowStart, "s1"))
	assert.Equal(t, domain.EdgeInactive, edgeStatus(t, state, "s1", "s2"))
	assert.Equal(t, domain.EdgeInactive, edgeStatus(t, state, "s2", domain.FlowEnd))
}

func TestFrontierClearsWhenSectionBecomesValid(t *testing.T) {
	eng := newTestEngine(t, frontierDefinition())

	state := eng.Evaluate(context.Background(), map[string]any{
		"first": map[string]any{"value": "filled"},
	})

	assert.Equal(t, domain.EdgeActive, edgeStatus(t, state, "s1", "s2"))
	assert.Equal(t, domain.EdgeActive, edgeStatus(t, state, "s2", domain.FlowEnd))
}

func TestDecisionBranching(t *testing.T) {
	yes := true
	no := false
	def := domain.Definition{
		Nodes: []domain.Node{
			{ID: "big_order", Output: map[string]any{"fn": "gt", "args": []any{"$.total", 100}}},
		},
		Flow: []domain.FlowNode{
			{ID: "big_order", Kind: domain.FlowKindDecision},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "big_order"},
			{From: "big_order", To: domain.FlowEnd, WhenInputIs: &yes},
			{From: "big_order", To: domain.FlowEnd, WhenInputIs: &no},
		},
	}
	eng := newTestEngine(t, def)

	state := eng.Evaluate(context.Background(), map[string]any{"total": float64(250)})
	require.Len(t, state.EdgeStates, 3)
	assert.Equal(t, domain.EdgeActive, state.EdgeStates[1].Status, "true branch")
	assert.Equal(t, domain.EdgeInactive, state.EdgeStates[2].Status, "false branch")

	state = eng.Evaluate(context.Background(), map[string]any{"total": float64(20)})
	assert.Equal(t, domain.EdgeInactive, state.EdgeStates[1].Status, "true branch")
	assert.Equal(t, domain.EdgeActive, state.EdgeStates[2].Status, "false branch")
}

func TestDecisionEdgeWithoutTagInheritsNodeStatus(t *testing.T) {
	def := domain.Definition{
		Nodes: []domain.Node{
			{ID: "check", Output: "$.flag"},
		},
		Flow: []domain.FlowNode{
			{ID: "check", Kind: domain.FlowKindDecision},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "check"},
			{From: "check", To: domain.FlowEnd},
		},
	}
	eng := newTestEngine(t, def)

	state := eng.Evaluate(context.Background(), map[string]any{"flag": true})
	assert.Equal(t, domain.EdgeActive, state.EdgeStates[1].Status)

	state = eng.Evaluate(context.Background(), map[string]any{"flag": false})
	assert.Equal(t, domain.EdgeInactive, state.EdgeStates[1].Status)
}

func TestShortCircuitedDecisionIgnoresBranchTags(t *testing.T) {
	yes := true
	def := domain.Definition{
		Nodes: []domain.Node{
			{Path: "$.intake", ID: "intake"},
			{Path: "$.intake.done", Required: "Intake must be completed"},
			{ID: "approved", Output: true},
		},
		Flow: []domain.FlowNode{
			{ID: "intake", Kind: domain.FlowKindSection},
			{ID: "approved", Kind: domain.FlowKindDecision},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "intake"},
			{From: "intake", To: "approved"},
			{From: "approved", To: domain.FlowEnd, WhenInputIs: &yes},
		},
	}
	eng := newTestEngine(t, def)

	// intake invalid: the decision sits past the frontier, so its
	// always-true output is never consulted.
	state := eng.Evaluate(context.Background(), map[string]any{})

	assert.Equal(t, domain.EdgeInactive, edgeStatus(t, state, "approved", domain.FlowEnd))
}

func TestDecisionWithoutConfigNodeIsFalse(t *testing.T) {
	yes := true
	def := domain.Definition{
		Flow: []domain.FlowNode{
			{ID: "phantom", Kind: domain.FlowKindDecision},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "phantom"},
			{From: "phantom", To: domain.FlowEnd, WhenInputIs: &yes},
		},
	}
	eng := newTestEngine(t, def)

	state := eng.Evaluate(context.Background(), map[string]any{})

	assert.Equal(t, domain.EdgeInactive, edgeStatus(t, state, "phantom", domain.FlowEnd))
}

func TestSentinelEdgesAlwaysActive(t *testing.T) {
	def := frontierDefinition()
	def.Edges = append(def.Edges, domain.Edge{From: domain.FlowStart, To: domain.FlowEnd})
	eng := newTestEngine(t, def)

	// Everything invalid, yet START -> END reflects START's own status.
	state := eng.Evaluate(context.Background(), map[string]any{})

	assert.Equal(t, domain.EdgeActive, edgeStatus(t, state, domain.FlowStart, domain.FlowEnd))
}

func TestEngineConstructionRejectsCyclicFlow(t *testing.T) {
	def := domain.Definition{
		Nodes: []domain.Node{
			{Path: "$.a", ID: "a"},
			{Path: "$.b", ID: "b"},
		},
		Flow: []domain.FlowNode{
			{ID: "a", Kind: domain.FlowKindSection},
			{ID: "b", Kind: domain.FlowKindSection},
		},
		Edges: []domain.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}

	_, err := New(memory.NewIndex(def), resolve.New(resolve.NewRegistry()))
	assert.ErrorIs(t, err, domain.ErrCyclicFlow)
}
