package middleware_test

import (
	"context"
	"testing"

	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/persistence/middleware"
)

func TestPIIMiddleware_MasksMatchingKeys(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewPIIMiddleware([]string{"(?i)ssn", "(?i)card_number"})
	store := mw(underlyingStore)

	ctx := context.Background()
	original := &domain.Snapshot{
		ID: "draft-1",
		Data: map[string]any{
			"applicant": map[string]any{
				"name": "Ada",
				"ssn":  "123-45-6789",
			},
			"payments": []any{
				map[string]any{"card_number": "4111", "amount": 10},
			},
		},
	}

	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, "draft-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	applicant := stored.Data["applicant"].(map[string]any)
	if applicant["ssn"] != "***" {
		t.Errorf("Expected masked ssn, got %v", applicant["ssn"])
	}
	if applicant["name"] != "Ada" {
		t.Errorf("Expected name untouched, got %v", applicant["name"])
	}

	payment := stored.Data["payments"].([]any)[0].(map[string]any)
	if payment["card_number"] != "***" {
		t.Errorf("Expected masked card_number inside list, got %v", payment["card_number"])
	}

	// The caller's draft must not be mutated by masking.
	if original.Data["applicant"].(map[string]any)["ssn"] != "123-45-6789" {
		t.Error("Masking mutated the caller's draft")
	}
}
