package dag

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		dependents: make(map[string]*node),
	}
}

// AddEdge records that `toID` depends on `fromID`. Both nodes must exist.
// A self edge is accepted and reported later by DetectCycles.
func (g *Graph) AddEdge(fromID, toID string) error {
	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	fromNode.dependents[toID] = toNode

	return nil
}

// DetectCycles checks the graph for cycles and returns a *CycleError for the
// first one found. Nodes are visited in ID order, so the reported cycle is
// stable across runs.
func (g *Graph) DetectCycles() error {
	// permanent: fully visited and not part of a cycle.
	// stack: the nodes of the current traversal, in order.
	permanent := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if onStack[n.id] {
			start := slices.Index(stack, n.id)
			path := append(slices.Clone(stack[start:]), n.id)
			return &CycleError{Path: path}
		}

		onStack[n.id] = true
		stack = append(stack, n.id)

		for _, id := range sortedIDs(n.dependents) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedIDs(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

func sortedIDs(nodes map[string]*node) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
