// SPDX-License-Identifier: MPL-2.0

// Package dag orders build tasks and packages. It reports dependency cycles
// both for the topological task listing and for package loading, where a
// package re-entered while it is still loading is a cycle.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycle is the sentinel wrapped by every CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle names the nodes on the cycle. When produced by package loading
		// it is the full path, starting and ending with the re-entered node.
		Cycle []string
	}

	// Graph is a directed graph of build tasks keyed by task identifier.
	// An edge from A to B means A must complete before B starts.
	Graph struct {
		// successors maps each node to the nodes that wait for it.
		successors map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// NewPathCycle builds the error for a traversal that reached node again while
// walking path. The reported cycle starts at the first visit of node.
func NewPathCycle(path []string, node string) *CycleError {
	start := slices.Index(path, node)
	if start < 0 {
		start = 0
	}
	cycle := slices.Clone(path[start:])
	return &CycleError{Cycle: append(cycle, node)}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		successors: make(map[string][]string),
		nodeSet:    make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that "from" must run before "to". Both nodes are added if
// missing and a repeated edge is ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.successors[from], to) {
		return
	}
	g.successors[from] = append(g.successors[from], to)
}

// HasNode reports whether name was added.
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Predecessors returns the nodes with an edge into name, in insertion order.
func (g *Graph) Predecessors(name string) []string {
	var preds []string
	for _, node := range g.nodes {
		if slices.Contains(g.successors[node], name) {
			preds = append(preds, node)
		}
	}
	return preds
}

// TopologicalSort returns a valid execution order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// Nodes at the same level appear in the order they were first added.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, succ := range g.successors {
		for _, s := range succ {
			inDegree[s]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, s := range g.successors[node] {
			inDegree[s]--
			if inDegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Nodes left with a non-zero in-degree are on or behind a cycle.
		var remaining []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining = append(remaining, node)
			}
		}
		return nil, &CycleError{Cycle: remaining}
	}

	return result, nil
}
