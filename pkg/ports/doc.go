/*
Package ports defines the driven ports (interfaces) for the Formwork engine.

These interfaces decouple the core evaluation logic from external
implementations, allowing the engine to work with various definition
sources and snapshot stores.

# Key Interfaces

  - DefinitionIndex: read access to a structured workflow definition
    (nodes keyed by path and ID, the flow graph, derived values).
  - SnapshotStore: persistence of working data documents between edits.
  - Evaluator: the engine surface consumed by transport adapters.
*/
package ports
