/*
Package formwork is a deterministic evaluation engine for form-driven
workflows: given a static definition (sections, fields, preconditions,
validation rules, a transition graph) and a snapshot of user-entered data,
it computes the complete workflow state in a single pure call.

It separates the definition (Logic) from the data being filled in
(Snapshot) and from the capabilities available to rules (Context). This
Hexagonal Architecture allows Formwork to be embedded in any interface:
CLI, HTTP server, or agent infrastructure.

# Concept

A definition declares configuration nodes addressed by ref-paths such as
"$.applicant.pets.*.kind". Each node can gate its data with preconditions,
demand a value with required rules, and constrain it with custom
validations. Sections and decisions form a directed graph whose edges
activate and deactivate as the data changes. One evaluation call prunes
inapplicable data, validates every section, walks the graph, and resolves
derived values.

# Key Features

  - Deterministic Evaluation: the same definition and data always produce
    the same state, including message order and edge states.
  - Pure Calls: the engine never mutates its inputs and persists nothing;
    concurrent evaluations need no coordination.
  - Hexagonal Architecture: definition sources, snapshot stores and
    transports are adapters around a small core.
  - Strict Construction: malformed ref-paths and cyclic dependencies fail
    at engine construction, never mid-evaluation.

# Usage

Build a definition index, create the engine, and evaluate snapshots of
data as they change.

	package main

	import (
		"context"
		"encoding/json"
		"log"
		"os"

		"github.com/formwork-dev/formwork"
		"github.com/formwork-dev/formwork/pkg/adapters/yamldef"
	)

	func main() {
		def, err := yamldef.LoadFile("./adoption.yaml")
		if err != nil {
			log.Fatal(err)
		}

		eng, err := formwork.New(yamldef.Index(def))
		if err != nil {
			log.Fatal(err)
		}

		state, err := eng.GetWorkflowState(context.Background(), map[string]any{
			"applicant": map[string]any{"name": "Ada"},
		})
		if err != nil {
			log.Fatal(err)
		}

		json.NewEncoder(os.Stdout).Encode(state)
	}
*/
package formwork
