package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/dsl"
	"github.com/formwork-dev/formwork/pkg/observability"
)

func TestMetrics_CountEvaluations(t *testing.T) {
	metrics := observability.NewMetrics()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, metrics.Register(reg))

	b := dsl.New()
	b.Section("contact", "$.contact")
	b.Field("$.contact.email").Required("Email is required")
	b.Field("$.contact.fax").When("$.contact.has_fax")
	b.Edge(dsl.Start, "contact").Edge("contact", dsl.End)

	eng, err := formwork.New(b.Build(), formwork.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	// First evaluation: fax pruned, email missing.
	_, err = eng.GetWorkflowState(ctx, map[string]any{
		"contact": map[string]any{"fax": "555-0100"},
	})
	require.NoError(t, err)
	// Second evaluation: complete and applicable.
	_, err = eng.GetWorkflowState(ctx, map[string]any{
		"contact": map[string]any{"email": "ada@example.com", "has_fax": true, "fax": "555-0100"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Evaluations))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SectionsInvalid.WithLabelValues("contact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PathsPruned.WithLabelValues("$.contact.fax")))
}

func TestJoinHooks_FansOut(t *testing.T) {
	var first, second int
	joined := observability.JoinHooks(
		domain.LifecycleHooks{OnPrune: func(context.Context, *domain.PruneEvent) { first++ }},
		domain.LifecycleHooks{OnPrune: func(context.Context, *domain.PruneEvent) { second++ }},
		domain.LifecycleHooks{}, // nil callbacks are skipped
	)

	joined.OnPrune(context.Background(), &domain.PruneEvent{})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	// Joined hooks never leave nil callbacks behind.
	assert.NotNil(t, joined.OnEvaluation)
	assert.NotNil(t, joined.OnSection)
}
