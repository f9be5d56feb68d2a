/*
Package domain contains the core domain models for the Formwork engine.

It defines the static configuration of a data-entry workflow (Nodes, the flow
graph, derived values) and the evaluated runtime output (WorkflowState,
section and edge states). This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: one configuration entry (a section, repeated group, field, or
    decision rule) identified by a ref-path pattern and/or a stable ID.
  - FlowNode / Edge: the directed workflow graph of input sections and
    decisions, bounded by the START and END sentinels.
  - WorkflowState: the result of one evaluation: pruned data, derived
    values, per-section verdicts, and per-edge activation.
  - LifecycleHooks: observability callbacks fired around an evaluation.
*/
package domain
