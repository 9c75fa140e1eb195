package extract

import (
	"math"

	"github.com/google/uuid"
)

// ResourceNamespace seeds component resource identifiers. A component's ID is
// a SHA-1 UUID of its structural hash, so identical structures map to the
// same ID across runs.
var ResourceNamespace = uuid.MustParse("9b0f4a36-2d7e-4c1a-8f65-3e2b7d9c1a04")

// Table maps structural hashes to component resources, in registration order.
type Table struct {
	order  []*Resource
	byHash map[string]*Resource
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byHash: make(map[string]*Resource)}
}

// Register pre-registers one component resource per group so that references
// between groups resolve regardless of group order.
func (t *Table) Register(groups *Groups) {
	for _, g := range groups.List() {
		if _, ok := t.byHash[g.Hash]; ok {
			continue
		}
		canonical := g.Canonical()
		res := &Resource{
			ID:     uuid.NewSHA1(ResourceNamespace, []byte(g.Hash)).String(),
			Name:   canonical.Name,
			Kind:   KindComponent,
			Hash:   g.Hash,
			Width:  int(math.Ceil(canonical.Geometry.Width)),
			Height: int(math.Ceil(canonical.Geometry.Height)),
		}
		t.byHash[g.Hash] = res
		t.order = append(t.order, res)
	}
}

// Lookup returns the resource registered for hash.
func (t *Table) Lookup(hash string) (*Resource, bool) {
	res, ok := t.byHash[hash]
	return res, ok
}

// Remove drops the resource registered for hash.
func (t *Table) Remove(hash string) {
	res, ok := t.byHash[hash]
	if !ok {
		return
	}
	delete(t.byHash, hash)
	for i, r := range t.order {
		if r == res {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Resources returns the registered resources in registration order.
func (t *Table) Resources() []*Resource {
	out := make([]*Resource, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of registered resources.
func (t *Table) Len() int {
	return len(t.order)
}
