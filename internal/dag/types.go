package dag

import "strings"

// Graph is a collection of nodes and their dependencies. It is built and
// checked by a single goroutine.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node is un-exported to enforce interaction with the graph via the public
// API (using string IDs), not by direct struct manipulation.
type node struct {
	id string
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

// CycleError describes a dependency cycle. Path starts and ends with the
// same id.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}
