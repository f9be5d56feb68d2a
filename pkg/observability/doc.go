/*
Package observability provides Prometheus instrumentation for the engine.

Collectors are fed through the engine's lifecycle hooks, so wiring them up
is a matter of registering the metrics and passing Hooks() to the engine
constructor.
*/
package observability
