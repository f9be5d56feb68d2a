package refpath

import "strconv"

// Match expands a pattern against a document, returning every concrete path
// whose location exists. Wildcards fan out over array indexes in ascending
// order and results follow depth-first traversal order, which downstream
// passes rely on for deterministic message ordering.
func Match(data any, pattern Path) []Path {
	var out []Path
	matchWalk(data, pattern, nil, &out)
	return out
}

func matchWalk(current any, rest Path, walked Path, out *[]Path) {
	if len(rest) == 0 {
		*out = append(*out, walked.Clone())
		return
	}
	tok := rest[0]
	switch node := current.(type) {
	case map[string]any:
		v, ok := node[tok]
		if !ok {
			return
		}
		matchWalk(v, rest[1:], append(walked, tok), out)
	case []any:
		if tok == Wildcard {
			for i, child := range node {
				matchWalk(child, rest[1:], append(walked.Clone(), strconv.Itoa(i)), out)
			}
			return
		}
		if i, ok := Index(tok); ok && i < len(node) {
			matchWalk(node[i], rest[1:], append(walked, tok), out)
		}
	}
}

// PatternFor converts a concrete data path into the node pattern governing
// it. Array indexes generalize to the wildcard; a path ending in a bare
// index is governed by the array's own node, so the trailing segment is
// dropped.
func PatternFor(path Path) Path {
	out := make(Path, 0, len(path))
	lastWasIndex := false
	for _, tok := range path {
		if _, ok := Index(tok); ok {
			out = append(out, Wildcard)
			lastWasIndex = true
			continue
		}
		out = append(out, tok)
		lastWasIndex = false
	}
	if lastWasIndex {
		out = out[:len(out)-1]
	}
	return out
}

// ApplyRelativeIndexes substitutes each "^" with the token of target at the
// same position. Alignment is purely positional; markers beyond the target
// length are left untouched.
func ApplyRelativeIndexes(pattern, target Path) Path {
	out := pattern.Clone()
	for i, tok := range out {
		if tok == Relative && i < len(target) {
			out[i] = target[i]
		}
	}
	return out
}
