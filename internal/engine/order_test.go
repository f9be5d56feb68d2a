package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork/pkg/domain"
)

func stepPaths(steps []pruneStep) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.node.Path
	}
	return out
}

func TestPruneOrderRespectsDependencies(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.b", Preconditions: []any{"$.a"}},
		{Path: "$.a"},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"$.a", "$.b"}, stepPaths(steps))
}

func TestPruneOrderKeepsDeclarationOrderForIndependentNodes(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.c"},
		{Path: "$.a"},
		{Path: "$.b"},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"$.c", "$.a", "$.b"}, stepPaths(steps))
}

func TestPruneOrderScansNestedExpressions(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.b", Preconditions: []any{
			map[string]any{"fn": "and", "args": []any{
				map[string]any{"fn": "eq", "args": []any{"$.a", "yes"}},
			}},
		}},
		{Path: "$.a"},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"$.a", "$.b"}, stepPaths(steps))
}

func TestPruneOrderCanonicalizesIndexAndRelativeTokens(t *testing.T) {
	// "$.items.0.flag" and "$.items.^.flag" both resolve to the declared
	// "$.items.*.flag" node.
	nodes := []*domain.Node{
		{Path: "$.x", Preconditions: []any{"$.items.0.flag"}},
		{Path: "$.y", Preconditions: []any{"$.items.^.flag"}},
		{Path: "$.items.*.flag"},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	paths := stepPaths(steps)
	assert.Less(t, indexOf(paths, "$.items.*.flag"), indexOf(paths, "$.x"))
	assert.Less(t, indexOf(paths, "$.items.*.flag"), indexOf(paths, "$.y"))
}

func TestPruneOrderTrailingWildcardFallsBackToArrayNode(t *testing.T) {
	// "$.tags.2" canonicalizes to "$.tags.*"; with no element node declared
	// the array's own node takes ownership.
	nodes := []*domain.Node{
		{Path: "$.x", Preconditions: []any{"$.tags.2"}},
		{Path: "$.tags"},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"$.tags", "$.x"}, stepPaths(steps))
}

func TestPruneOrderUnknownReferencesStillOrder(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.a", Preconditions: []any{"$.external.flag"}},
	}

	steps, err := pruneOrder(nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"$.a"}, stepPaths(steps))
}

func TestPruneOrderCycleFails(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.a", Preconditions: []any{"$.b"}},
		{Path: "$.b", Preconditions: []any{"$.a"}},
	}

	_, err := pruneOrder(nodes)
	assert.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestPruneOrderMalformedNodePathFails(t *testing.T) {
	_, err := pruneOrder([]*domain.Node{{Path: "applicant.name"}})
	assert.ErrorIs(t, err, domain.ErrMalformedRefPath)
}

func TestPruneOrderMalformedReferenceFails(t *testing.T) {
	nodes := []*domain.Node{
		{Path: "$.a", Preconditions: []any{"$."}},
	}

	_, err := pruneOrder(nodes)
	assert.ErrorIs(t, err, domain.ErrMalformedRefPath)
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
