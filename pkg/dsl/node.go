package dsl

import "github.com/formwork-dev/formwork/pkg/domain"

// NodeBuilder configures a single node through a fluent interface. Every
// method returns the builder so calls chain.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// When adds preconditions. A node with preconditions is pruned from the
// evaluated data unless every expression is truthy.
func (nb *NodeBuilder) When(conds ...any) *NodeBuilder {
	nb.node.Preconditions = append(nb.node.Preconditions, conds...)
	return nb
}

// Required marks the node's value as mandatory. The rule may be a plain
// message string or any expression whose truthy result becomes the
// message.
func (nb *NodeBuilder) Required(rule any) *NodeBuilder {
	nb.node.Required = rule
	return nb
}

// RequiredIf appends a conditional requirement: message applies when rule
// resolves truthy. Multiple calls accumulate; the first rule to hold
// wins.
func (nb *NodeBuilder) RequiredIf(rule any, message string) *NodeBuilder {
	rules, _ := nb.node.Required.([]domain.RequiredRule)
	nb.node.Required = append(rules, domain.RequiredRule{Rule: rule, Message: message})
	return nb
}

// Validate appends a custom validation rule with its failure message.
// Rules run in order and stop at the first that resolves to false.
func (nb *NodeBuilder) Validate(rule any, message string) *NodeBuilder {
	nb.node.Validations = append(nb.node.Validations, domain.Validation{Rule: rule, Message: message})
	return nb
}

// Field declares a sibling configuration node on the parent builder,
// letting section blocks read as one chain.
func (nb *NodeBuilder) Field(path string) *NodeBuilder {
	return nb.builder.Field(path)
}
