package extract

import (
	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
)

// Slot names understood by the component runtime.
const (
	SlotTitle = "title"
	SlotIcon  = "icon"
	SlotBar   = "bar"
	SlotGrip  = "grip"
)

// NormalizeNames renames the first matching layer of each slot inside a
// canonical component so the runtime can bind title, icon, bar and grip.
// Reference nodes may take a slot name but their subtrees are not entered,
// and they keep their type. It returns the title-like text layers left
// unrenamed because the title slot was already taken.
func NormalizeNames(root *node.Node, policy *keywords.Policy) []*node.Node {
	var skipped []*node.Node
	taken := make(map[string]bool)
	ranged := root.Type == node.TypeProgressBar || root.Type == node.TypeSlider

	node.Descendants(root, func(d *node.Node) bool {
		ref := d.Ref != ""

		switch {
		case ranged && !taken[SlotBar] && !d.Type.IsText() && policy.IsBar(d.Name):
			d.Name = SlotBar
			taken[SlotBar] = true
		case ranged && !taken[SlotGrip] && !d.Type.IsText() && policy.IsGrip(d.Name):
			d.Name = SlotGrip
			taken[SlotGrip] = true
		case d.Type.IsText() && policy.IsTitle(d.Name):
			if taken[SlotTitle] {
				skipped = append(skipped, d)
				break
			}
			d.Name = SlotTitle
			taken[SlotTitle] = true
		case isIconCandidate(d) && !taken[SlotIcon] && policy.IsIcon(d.Name):
			d.Name = SlotIcon
			if !ref && (d.IsLeaf() || d.ResourceID() != "") {
				d.Type = node.TypeLoader
			}
			taken[SlotIcon] = true
		}
		return !ref
	})
	return skipped
}

func isIconCandidate(n *node.Node) bool {
	switch n.Type {
	case node.TypeImage, node.TypeGraph, node.TypeComponent, node.TypeLoader:
		return true
	}
	return false
}
