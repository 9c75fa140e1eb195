package extract

import (
	"fmt"
	"log/slog"

	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
	"github.com/mvp-joe/componentize/internal/render"
)

// transformer replaces extracted subtrees with reference nodes.
type transformer struct {
	table    *Table
	policy   *keywords.Policy
	pipeline render.Pipeline
	deps     *dependencies
	logger   *slog.Logger

	exported   map[string]bool
	references int
}

func newTransformer(table *Table, policy *keywords.Policy, pipeline render.Pipeline, deps *dependencies, logger *slog.Logger) *transformer {
	return &transformer{
		table:    table,
		policy:   policy,
		pipeline: pipeline,
		deps:     deps,
		logger:   logger,
		exported: make(map[string]bool),
	}
}

// Transform rewrites the forest and every canonical subtree in place. Each
// extracted node is replaced in its parent by a reference node that links to
// the component registered under the node's captured hash. Extracted roots
// are replaced in the returned forest.
func (t *transformer) Transform(roots []*node.Node, groups *Groups) ([]*node.Node, error) {
	out := make([]*node.Node, len(roots))
	for i, r := range roots {
		if r.Extracted {
			ref, err := t.reference(r)
			if err != nil {
				return nil, err
			}
			t.exported[ref.Ref] = true
			out[i] = ref
			continue
		}
		if err := t.rewrite(r, ""); err != nil {
			return nil, err
		}
		out[i] = r
	}

	for _, g := range groups.List() {
		res, ok := t.table.Lookup(g.Hash)
		if !ok {
			return nil, unresolved(g.Canonical())
		}
		if err := t.rewrite(g.Canonical(), res.ID); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// rewrite replaces extracted descendants of parent. owner is the resource ID
// of the component being rewritten, or "" for the page forest.
func (t *transformer) rewrite(parent *node.Node, owner string) error {
	for i, child := range parent.Children {
		if !child.Extracted {
			if err := t.rewrite(child, owner); err != nil {
				return err
			}
			continue
		}

		ref, err := t.reference(child)
		if err != nil {
			return err
		}
		parent.Children[i] = ref

		if owner == "" {
			t.exported[ref.Ref] = true
			continue
		}
		if err := t.deps.add(owner, ref.Ref); err != nil {
			return err
		}
	}
	return nil
}

func (t *transformer) reference(n *node.Node) (*node.Node, error) {
	res, ok := t.table.Lookup(n.Hash)
	if !ok {
		return nil, unresolved(n)
	}

	ref := &node.Node{
		ID:       n.ID,
		SourceID: n.SourceID,
		Name:     n.Name,
		Type:     node.TypeComponent,
		Geometry: n.Geometry,
		Hidden:   n.Hidden,
		Ref:      res.ID,
		Hash:     n.Hash,
		Page:     n.Page,
	}

	overrides := t.overrides(n)
	if n.Page != 0 {
		overrides[node.OverridePage] = n.Page
	}
	if len(overrides) > 0 {
		ref.Overrides = overrides
	}

	t.references++
	return ref, nil
}

// overrides scans the instance for content that differs per occurrence.
// Nested extracted nodes carry their own overrides and are not entered.
func (t *transformer) overrides(n *node.Node) map[string]any {
	out := make(map[string]any)
	node.Descendants(n, func(d *node.Node) bool {
		if d.Extracted {
			return false
		}
		if _, ok := out[node.OverrideTitle]; !ok && d.Type.IsText() && t.policy.IsTitle(d.Name) {
			out[node.OverrideTitle] = d.Text()
		}
		if _, ok := out[node.OverrideIcon]; !ok && d.Type.IsVisual() && t.policy.IsIcon(d.Name) {
			if id := t.resolveVisual(d); id != "" {
				out[node.OverrideIcon] = id
			}
		}
		return true
	})
	return out
}

// resolveVisual returns the resource bound to a visual leaf, asking the
// rendering pipeline for one when the leaf has none yet.
func (t *transformer) resolveVisual(d *node.Node) string {
	if id := d.ResourceID(); id != "" {
		return id
	}
	if t.pipeline == nil || !d.IsLeaf() {
		return ""
	}
	asset, err := t.pipeline.Enqueue(d, "")
	if err != nil {
		t.logger.Warn("failed to enqueue icon", "node", d.ID, "name", d.Name, "error", err)
		return ""
	}
	if asset.ResourceID == "" {
		return ""
	}
	if d.Content == nil {
		d.Content = &node.Content{}
	}
	d.Content.Resource = asset.ResourceID
	return asset.ResourceID
}

func unresolved(n *node.Node) error {
	if n == nil {
		return fmt.Errorf("%w: empty group", ErrUnresolvedReference)
	}
	return fmt.Errorf("%w: node %s (%q) with hash %s", ErrUnresolvedReference, n.ID, n.Name, n.Hash)
}
