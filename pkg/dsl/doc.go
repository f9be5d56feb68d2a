/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically
constructing workflow definitions.

It allows developers to define sections, fields, decisions and the flow
graph using a type-safe, fluent builder pattern instead of relying on
external YAML or JSON files. This is particularly useful for dynamic
definition generation, unit testing, and leveraging IDE
autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/formwork-dev/formwork"
		"github.com/formwork-dev/formwork/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Section("applicant", "$.applicant")
		b.Field("$.applicant.name").Required("Name is required")
		b.Field("$.applicant.pets.*.kind").
			When("$.applicant.has_pets").
			Required("Pet kind is required")

		b.Decision("eligible", dsl.Call("gte", "$.applicant.age", 18))

		b.Edge(dsl.Start, "applicant")
		b.Edge("applicant", "eligible")
		b.EdgeWhen("eligible", dsl.End, true)

		eng, err := formwork.New(b.Build())
		// ...
		_ = eng
		_ = err
	}
*/
package dsl
