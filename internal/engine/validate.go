package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/formwork-dev/formwork/pkg/domain"
	"github.com/formwork-dev/formwork/pkg/refpath"
	"github.com/formwork-dev/formwork/pkg/resolve"
)

// validateSections computes the verdict of every input_section flow node
// against the pruned data.
func (e *Engine) validateSections(ctx context.Context, pruned map[string]any) map[string]domain.SectionState {
	out := make(map[string]domain.SectionState)
	for _, fn := range e.index.Flow() {
		if fn.Kind != domain.FlowKindSection {
			continue
		}
		state := e.validateSection(fn.ID, pruned)
		out[fn.ID] = state
		e.emitSection(ctx, fn.ID, state)
	}
	return out
}

// validateSection runs the required and custom passes for one section.
// Messages preserve recording order; required messages come first and
// suppress custom failures at the same path.
func (e *Engine) validateSection(id string, pruned map[string]any) domain.SectionState {
	section, ok := e.index.NodeByID(id)
	if !ok || section.Path == "" {
		// Nothing governs this section's data; there is nothing to fail.
		return domain.SectionState{Status: domain.SectionValid}
	}

	var messages []domain.Message
	fromRequired := make(map[string]bool)

	// 1. Required presence checks over the section's configuration subtree
	for _, node := range e.index.NodesUnder(section.Path) {
		if node.Required == nil {
			continue
		}
		pattern, err := refpath.Parse(node.Path)
		if err != nil {
			continue
		}
		for _, target := range requiredTargets(pattern, pruned) {
			msg := e.requiredMessage(node.Required, pruned, target)
			if msg == "" {
				continue
			}
			if !e.applicable(node, pruned, target) {
				continue
			}
			value, _ := refpath.Get(pruned, target)
			if !resolve.Blank(value) {
				continue
			}
			key := target.Key()
			fromRequired[key] = true
			messages = append(messages, domain.Message{Path: key, Message: msg})
		}
	}

	// 2. Custom checks over the leaves of the pruned section data
	if sectionPattern, err := refpath.Parse(section.Path); err == nil {
		for _, root := range refpath.Match(pruned, sectionPattern) {
			rootValue, _ := refpath.Get(pruned, root)
			walkLeaves(rootValue, root, func(leaf refpath.Path, value any) {
				if resolve.Blank(value) {
					return
				}
				key := leaf.Key()
				if fromRequired[key] {
					return
				}
				node, ok := e.index.NodeByPath(refpath.PatternFor(leaf).String())
				if !ok || len(node.Validations) == 0 {
					return
				}
				if !e.applicable(node, pruned, leaf) {
					return
				}
				for _, v := range node.Validations {
					result := e.resolver.Resolve(v.Rule, pruned, leaf)
					if failed, isBool := result.(bool); isBool && !failed {
						messages = append(messages, domain.Message{Path: key, Message: v.Message})
						return
					}
				}
			})
		}
	}

	status := domain.SectionValid
	if len(messages) > 0 {
		status = domain.SectionInvalid
	}
	return domain.SectionState{Status: status, ValidationMessages: messages}
}

// requiredTargets resolves a required node's pattern to the concrete data
// paths its presence check runs against.
func requiredTargets(pattern refpath.Path, pruned map[string]any) []refpath.Path {
	// Concrete pattern: check it directly
	if !pattern.HasWildcard() {
		return []refpath.Path{pattern}
	}
	// Wildcard leaf over a concrete parent (array of scalars): the array
	// itself carries the requirement
	parent := pattern.Parent()
	if !parent.HasWildcard() {
		return []refpath.Path{parent}
	}
	// Expand the deepest wildcard-terminated prefix against the data and
	// rebase the remaining tokens onto each expansion
	anchor := 0
	for i := len(pattern) - 1; i >= 0; i-- {
		if pattern[i] == refpath.Wildcard {
			anchor = i + 1
			break
		}
	}
	prefix, rest := pattern[:anchor], pattern[anchor:]
	var out []refpath.Path
	for _, base := range refpath.Match(pruned, prefix) {
		out = append(out, append(base.Clone(), rest...))
	}
	return out
}

// requiredMessage resolves a node's required declaration at target. The
// single form reports its own truthy result as the message; the list form
// reports the message of the first rule resolving truthy. An empty result
// means the requirement does not apply at this target.
func (e *Engine) requiredMessage(required any, data map[string]any, target refpath.Path) string {
	switch rules := required.(type) {
	case []domain.RequiredRule:
		for _, r := range rules {
			if resolve.Truthy(e.resolver.Resolve(r.Rule, data, target)) {
				return r.Message
			}
		}
		return ""
	case []any:
		for _, raw := range rules {
			pair, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if resolve.Truthy(e.resolver.Resolve(pair["rule"], data, target)) {
				return stringify(pair["message"])
			}
		}
		return ""
	default:
		result := e.resolver.Resolve(required, data, target)
		if !resolve.Truthy(result) {
			return ""
		}
		return stringify(result)
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// walkLeaves visits every scalar under v in deterministic order: map keys
// sorted, array indexes ascending.
func walkLeaves(v any, at refpath.Path, visit func(path refpath.Path, value any)) {
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkLeaves(node[k], append(at.Clone(), k), visit)
		}
	case []any:
		for i, item := range node {
			walkLeaves(item, append(at.Clone(), strconv.Itoa(i)), visit)
		}
	default:
		visit(at, node)
	}
}
