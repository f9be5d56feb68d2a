package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, name string, args ...any) any {
	t.Helper()
	got, err := NewRegistry().Invoke(name, args...)
	require.NoError(t, err)
	return got
}

func TestEqCoercesNumbers(t *testing.T) {
	// Definition literals decode as int, JSON data as float64.
	assert.Equal(t, true, invoke(t, "eq", 2, float64(2)))
	assert.Equal(t, true, invoke(t, "eq", "a", "a"))
	assert.Equal(t, false, invoke(t, "eq", "a", "b"))
	assert.Equal(t, false, invoke(t, "neq", 2, float64(2)))
	assert.Equal(t, true, invoke(t, "neq", nil, "x"))
}

func TestComparisons(t *testing.T) {
	assert.Equal(t, true, invoke(t, "gt", float64(3), 2))
	assert.Equal(t, false, invoke(t, "gt", 2, 2))
	assert.Equal(t, true, invoke(t, "gte", 2, 2))
	assert.Equal(t, true, invoke(t, "lt", "apple", "banana"))
	assert.Equal(t, true, invoke(t, "lte", 2, float64(2)))

	_, err := NewRegistry().Invoke("gt", "x", 1)
	require.Error(t, err)
}

func TestLogic(t *testing.T) {
	assert.Equal(t, true, invoke(t, "not", false))
	assert.Equal(t, false, invoke(t, "not", "x"))
	assert.Equal(t, true, invoke(t, "and", true, 1, "y"))
	assert.Equal(t, false, invoke(t, "and", true, 0))
	assert.Equal(t, true, invoke(t, "and"))
	assert.Equal(t, true, invoke(t, "or", false, "", 5))
	assert.Equal(t, false, invoke(t, "or", false, ""))
	assert.Equal(t, false, invoke(t, "or"))
}

func TestIfCoalesce(t *testing.T) {
	assert.Equal(t, "yes", invoke(t, "if", true, "yes", "no"))
	assert.Equal(t, "no", invoke(t, "if", 0, "yes", "no"))
	assert.Nil(t, invoke(t, "if", false, "yes"))
	assert.Equal(t, "fallback", invoke(t, "coalesce", nil, nil, "fallback"))
	assert.Nil(t, invoke(t, "coalesce", nil, nil))
}

func TestPresence(t *testing.T) {
	assert.Equal(t, true, invoke(t, "defined", ""))
	assert.Equal(t, false, invoke(t, "defined", nil))
	assert.Equal(t, true, invoke(t, "empty", []any{}))
	assert.Equal(t, false, invoke(t, "empty", "x"))
}

func TestCountSkipsClearedEntries(t *testing.T) {
	assert.Equal(t, 2, invoke(t, "count", []any{"a", nil, "b"}))
	assert.Equal(t, 0, invoke(t, "count", nil))
	assert.Equal(t, 1, invoke(t, "count", map[string]any{"k": 1}))

	_, err := NewRegistry().Invoke("count", 7)
	require.Error(t, err)
}

func TestAggregates(t *testing.T) {
	assert.Equal(t, float64(6), invoke(t, "sum", []any{1, float64(2), nil, 3}))
	assert.Equal(t, float64(5), invoke(t, "sum", 2, 3))
	assert.Equal(t, float64(1), invoke(t, "min", []any{3, 1, 2}))
	assert.Equal(t, float64(3), invoke(t, "max", []any{3, 1, 2}))
	assert.Nil(t, invoke(t, "min"))
}

func TestIncludes(t *testing.T) {
	assert.Equal(t, true, invoke(t, "includes", []any{"cat", "dog"}, "dog"))
	assert.Equal(t, true, invoke(t, "includes", []any{1, 2}, float64(2)))
	assert.Equal(t, false, invoke(t, "includes", []any{"cat"}, "dog"))
	assert.Equal(t, true, invoke(t, "includes", "workflow", "flow"))
	assert.Equal(t, false, invoke(t, "includes", nil, "x"))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "ab3", invoke(t, "concat", "a", "b", 3))
	assert.Equal(t, []any{1, 2, 3}, invoke(t, "concat", []any{1, 2}, 3))
	assert.Equal(t, "", invoke(t, "concat"))
}

func TestMatches(t *testing.T) {
	assert.Equal(t, true, invoke(t, "matches", "ABC-123", `^[A-Z]+-\d+$`))
	assert.Equal(t, false, invoke(t, "matches", "abc", `^\d+$`))
	assert.Equal(t, false, invoke(t, "matches", nil, `x`))

	_, err := NewRegistry().Invoke("matches", "abc", "(")
	require.Error(t, err)
}

func TestRegistryRegisterAndNames(t *testing.T) {
	r := NewRegistry()
	r.Register("always", func(args ...any) (any, error) { return true, nil })

	got, err := r.Invoke("always")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	_, err = r.Invoke("missing")
	require.Error(t, err)

	names := r.Names()
	assert.Contains(t, names, "always")
	assert.Contains(t, names, "eq")
	assert.IsIncreasing(t, names)
}

func TestRegistryOverrideBeatsDefault(t *testing.T) {
	r := NewRegistry()
	r.Register("eq", func(args ...any) (any, error) { return "overridden", nil })

	got, err := r.Invoke("eq", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "overridden", got)

	// Each registry owns its entries; the default set is untouched.
	fresh, err := NewRegistry().Invoke("eq", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, true, fresh)
}
