package refpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/formwork-dev/formwork/pkg/domain"
)

const (
	// Prefix anchors every reference at the document root.
	Prefix = "$."

	// Wildcard stands for every index of an array.
	Wildcard = "*"

	// Relative stands for the array index of the entry currently being
	// evaluated, carried over position by position from the target path.
	Relative = "^"

	// ValueSentinel resolves to the value at the evaluation target instead
	// of a fixed location.
	ValueSentinel = "$value"
)

// Path is a parsed reference, one token per segment.
type Path []string

// IsRef reports whether s looks like a reference rather than a literal.
func IsRef(s string) bool {
	return strings.HasPrefix(s, Prefix)
}

// Parse splits a "$."-prefixed reference into tokens. Empty segments and a
// missing prefix are rejected.
func Parse(ref string) (Path, error) {
	if !strings.HasPrefix(ref, Prefix) {
		return nil, fmt.Errorf("%w: %q must start with %q", domain.ErrMalformedRefPath, ref, Prefix)
	}
	body := strings.TrimPrefix(ref, Prefix)
	if body == "" {
		return nil, fmt.Errorf("%w: %q has no segments", domain.ErrMalformedRefPath, ref)
	}
	tokens := strings.Split(body, ".")
	for _, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("%w: %q contains an empty segment", domain.ErrMalformedRefPath, ref)
		}
	}
	return Path(tokens), nil
}

// MustParse is Parse for statically known references.
func MustParse(ref string) Path {
	p, err := Parse(ref)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path back into reference notation.
func (p Path) String() string {
	return Prefix + strings.Join(p, ".")
}

// Key renders the path without the root prefix. Validation messages report
// locations in this form.
func (p Path) Key() string {
	return strings.Join(p, ".")
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Parent returns the path minus its final token, or nil at the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// HasWildcard reports whether any token is the array wildcard.
func (p Path) HasWildcard() bool {
	for _, tok := range p {
		if tok == Wildcard {
			return true
		}
	}
	return false
}

// Index interprets a token as a decimal array index.
func Index(tok string) (int, bool) {
	if tok == "" {
		return 0, false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}
