package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork/pkg/domain"
)

func testDefinition() domain.Definition {
	return domain.Definition{
		Nodes: []domain.Node{
			{Path: "$.applicant", ID: "applicant"},
			{Path: "$.applicant.name", Required: "Name is required"},
			{Path: "$.applicant.pets.*", Preconditions: []any{"$.applicant.has_pets"}},
			{Path: "$.applicant.pets.*.kind", Required: "Pet kind is required"},
			{ID: "eligible", Output: map[string]any{"fn": "gte", "args": []any{"$.applicant.age", 18}}},
		},
		Flow: []domain.FlowNode{
			{ID: "applicant", Kind: domain.FlowKindSection},
			{ID: "eligible", Kind: domain.FlowKindDecision},
		},
		Edges: []domain.Edge{
			{From: domain.FlowStart, To: "applicant"},
			{From: "applicant", To: "eligible"},
		},
		Derived: []domain.Derived{
			{ID: "pet_count", Value: map[string]any{"fn": "count", "args": []any{"$.applicant.pets"}}},
		},
	}
}

func TestIndexLookups(t *testing.T) {
	idx := NewIndex(testDefinition())

	node, ok := idx.NodeByPath("$.applicant.pets.*.kind")
	require.True(t, ok)
	assert.Equal(t, "Pet kind is required", node.Required)

	node, ok = idx.NodeByID("eligible")
	require.True(t, ok)
	assert.NotNil(t, node.Output)

	_, ok = idx.NodeByPath("$.nope")
	assert.False(t, ok)
	_, ok = idx.NodeByID("nope")
	assert.False(t, ok)
}

func TestIndexNodesUnder(t *testing.T) {
	idx := NewIndex(testDefinition())

	under := idx.NodesUnder("$.applicant")
	require.Len(t, under, 4)
	// Declaration order survives indexing.
	assert.Equal(t, "$.applicant", under[0].Path)
	assert.Equal(t, "$.applicant.name", under[1].Path)
	assert.Equal(t, "$.applicant.pets.*", under[2].Path)
	assert.Equal(t, "$.applicant.pets.*.kind", under[3].Path)

	// Prefix matching is token-wise, not a raw string prefix.
	assert.Empty(t, idx.NodesUnder("$.app"))
}

func TestIndexGraphAccessors(t *testing.T) {
	idx := NewIndex(testDefinition())

	assert.Len(t, idx.Nodes(), 5)
	assert.Len(t, idx.Flow(), 2)
	assert.Len(t, idx.Edges(), 2)
	require.Len(t, idx.Derived(), 1)
	assert.Equal(t, "pet_count", idx.Derived()[0].ID)
}
