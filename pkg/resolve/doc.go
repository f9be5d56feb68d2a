// Package resolve evaluates the expression DSL of workflow definitions.
//
// An expression is a literal, a "$."-prefixed reference, a capability call
// ({"fn": name, "args": [...]}), an ordered list, or a plain mapping; lists
// and mappings resolve element-wise. Evaluation is side-effect-free and
// never mutates the data document.
package resolve
