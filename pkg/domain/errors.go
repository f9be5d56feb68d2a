package domain

import "errors"

// ErrCyclicDependency is returned when precondition references form a cycle,
// making a pruning order impossible.
var ErrCyclicDependency = errors.New("cyclic precondition dependency")

// ErrCyclicFlow is returned when the workflow graph contains a cycle.
var ErrCyclicFlow = errors.New("cyclic workflow graph")

// ErrMalformedRefPath is returned for a ref-path that does not start with
// "$." or contains empty tokens.
var ErrMalformedRefPath = errors.New("malformed ref-path")

// ErrUnknownFlowNode is returned when an edge references a node that is
// neither declared nor a sentinel.
var ErrUnknownFlowNode = errors.New("unknown workflow node")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in a
// store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
