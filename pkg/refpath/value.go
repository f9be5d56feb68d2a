package refpath

// Get walks a concrete path through nested maps and slices. The boolean
// reports whether every segment resolved to an existing location.
func Get(data any, path Path) (any, bool) {
	current := data
	for _, tok := range path {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[tok]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			i, ok := Index(tok)
			if !ok || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// Clear removes the value at a concrete path. Map entries are deleted;
// array elements are set to nil so sibling indexes keep their positions.
func Clear(data any, path Path) {
	if len(path) == 0 {
		return
	}
	parent, ok := Get(data, path.Parent())
	if !ok {
		return
	}
	last := path[len(path)-1]
	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		if i, ok := Index(last); ok && i < len(node) {
			node[i] = nil
		}
	}
}

// DeepCopy duplicates nested maps and slices so mutating passes never touch
// the caller's document. Scalar leaves are shared.
func DeepCopy(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = DeepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = DeepCopy(child)
		}
		return out
	default:
		return v
	}
}
