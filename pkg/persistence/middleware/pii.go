package middleware

import (
	"context"
	"regexp"

	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/refpath"
)

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks draft values whose keys
// match the patterns before they reach storage. Masking is destructive:
// loads return the masked values.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, snap *domain.Snapshot) error {
	// Deep clone to avoid side effects on the draft held by the caller.
	cloned := *snap
	cloned.Data = refpath.DeepCopy(snap.Data).(map[string]any)

	maskMap(cloned.Data, m.patterns)

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}
		maskValue(m[k], patterns)
	}
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch tv := v.(type) {
	case map[string]any:
		maskMap(tv, patterns)
	case []any:
		// Form data nests repeated groups as lists of maps.
		for _, item := range tv {
			maskValue(item, patterns)
		}
	}
}
