package extract

import (
	"github.com/mvp-joe/componentize/internal/fingerprint"
	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
)

// Collect walks the forest bottom-up, marks every significant subtree as
// extracted and groups the extracted nodes by structural hash.
//
// Children are visited before their parent so that nested candidates are
// marked before the enclosing node is evaluated. The structural hash is
// captured on the node at the moment it is marked.
func Collect(roots []*node.Node, policy *keywords.Policy) *Groups {
	c := &collector{policy: policy, groups: newGroups()}
	for _, r := range roots {
		c.visit(r)
	}
	return c.groups
}

type collector struct {
	policy *keywords.Policy
	groups *Groups
}

func (c *collector) visit(n *node.Node) {
	if n == nil {
		return
	}
	for _, child := range n.Children {
		c.visit(child)
	}

	if !c.isCandidate(n) {
		return
	}

	hash := fingerprint.Structural(n)
	n.Extracted = true
	n.Hash = hash
	c.groups.add(hash, n)
}

func (c *collector) isCandidate(n *node.Node) bool {
	if n.IsLeaf() {
		return false
	}
	if c.policy.IsDenied(n.Name) {
		return false
	}
	// Hidden layers named after an interaction state are alternate looks and
	// still take part in variant analysis.
	if n.Hidden && !c.policy.IsStateName(n.Name) {
		return false
	}

	extension := n.Type.IsExtension()
	if !extension {
		if node.IsPureShape(n) {
			return false
		}
		if node.AnyDescendant(n, (*node.Node).IsMask) {
			return false
		}
	}

	return isSignificant(n, extension)
}

func isSignificant(n *node.Node, extension bool) bool {
	if len(n.Children) > 2 || extension {
		return true
	}
	for _, child := range n.Children {
		if child.Extracted {
			return true
		}
	}
	return n.HasBackground()
}

// PureShapeRoots returns the maximal subtrees consisting only of shape
// primitives that were not extracted. They are rasterized as single images.
func PureShapeRoots(roots []*node.Node) []*node.Node {
	var out []*node.Node
	for _, r := range roots {
		node.Walk(r, func(n *node.Node) bool {
			if n.Extracted {
				return true
			}
			if node.IsPureShape(n) {
				out = append(out, n)
				return false
			}
			return true
		})
	}
	return out
}
