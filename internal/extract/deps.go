package extract

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"
)

// dependencies tracks which components nest which, keyed by resource ID.
type dependencies struct {
	g     graph.Graph[string, string]
	order map[string]int
}

func newDependencies(resources []*Resource) (*dependencies, error) {
	d := &dependencies{
		g:     graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
		order: make(map[string]int, len(resources)),
	}
	for i, res := range resources {
		if err := d.g.AddVertex(res.ID); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add component %s: %w", res.ID, err)
		}
		d.order[res.ID] = i
	}
	return d, nil
}

// add records that owner contains an instance of nested.
func (d *dependencies) add(owner, nested string) error {
	err := d.g.AddEdge(owner, nested)
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Errorf("%w: %s contains %s", ErrComponentCycle, owner, nested)
	default:
		return fmt.Errorf("failed to link %s -> %s: %w", owner, nested, err)
	}
}

// nestedFirst returns resource IDs ordered so that every component comes after
// the components it contains. Ties keep registration order.
func (d *dependencies) nestedFirst() ([]string, error) {
	sorted, err := graph.StableTopologicalSort(d.g, func(a, b string) bool {
		return d.order[a] > d.order[b]
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComponentCycle, err)
	}
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}

// nested returns, per owner, the components it directly contains in
// registration order.
func (d *dependencies) nested() (map[string][]string, error) {
	adj, err := d.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read component graph: %w", err)
	}
	out := make(map[string][]string, len(adj))
	for owner, edges := range adj {
		if len(edges) == 0 {
			continue
		}
		ids := make([]string, 0, len(edges))
		for id := range edges {
			ids = append(ids, id)
		}
		slices.SortFunc(ids, func(a, b string) int { return d.order[a] - d.order[b] })
		out[owner] = ids
	}
	return out, nil
}
