package extract

import "github.com/mvp-joe/componentize/internal/node"

// Group is the set of extracted instances sharing one structural hash, in
// discovery order. The first instance is canonical.
type Group struct {
	Hash      string
	Instances []*node.Node
}

// Canonical returns the first-discovered instance.
func (g *Group) Canonical() *node.Node {
	if len(g.Instances) == 0 {
		return nil
	}
	return g.Instances[0]
}

// Groups is an insertion-ordered map of structural hash to Group.
type Groups struct {
	order  []*Group
	byHash map[string]*Group
}

func newGroups() *Groups {
	return &Groups{byHash: make(map[string]*Group)}
}

func (g *Groups) add(hash string, n *node.Node) {
	grp, ok := g.byHash[hash]
	if !ok {
		grp = &Group{Hash: hash}
		g.byHash[hash] = grp
		g.order = append(g.order, grp)
	}
	grp.Instances = append(grp.Instances, n)
}

// Get returns the group for hash.
func (g *Groups) Get(hash string) (*Group, bool) {
	grp, ok := g.byHash[hash]
	return grp, ok
}

// List returns groups in discovery order.
func (g *Groups) List() []*Group {
	return g.order
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// Candidates returns the total number of extracted instances.
func (g *Groups) Candidates() int {
	total := 0
	for _, grp := range g.order {
		total += len(grp.Instances)
	}
	return total
}
