// Package node defines the mutable design tree shared by all extraction passes.
package node

import (
	"fmt"
	"strings"
)

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// StyleString returns the style value for key as a string.
// Missing or non-string values yield "".
func (n *Node) StyleString(key string) string {
	if n.Style == nil {
		return ""
	}
	switch v := n.Style[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// HasStyle reports whether key is present with a non-empty value.
func (n *Node) HasStyle(key string) bool {
	if n.Style == nil {
		return false
	}
	v, ok := n.Style[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// IsMask reports whether the node is flagged as a mask in its custom properties.
func (n *Node) IsMask() bool {
	if n.Custom == nil {
		return false
	}
	switch v := n.Custom[CustomMask].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// ResourceID returns the bound resource of the node, if any.
func (n *Node) ResourceID() string {
	if n.Content == nil {
		return ""
	}
	return n.Content.Resource
}

// Text returns the text content of the node, if any.
func (n *Node) Text() string {
	if n.Content == nil {
		return ""
	}
	return n.Content.Text
}

// HasBackground reports whether the node paints a background or a border.
func (n *Node) HasBackground() bool {
	if IsVisibleColor(n.StyleString(StyleFill)) || n.HasStyle(StyleBackground) {
		return true
	}
	return n.HasStyle(StyleBorder) || n.HasStyle(StyleStroke)
}

// IsVisibleColor reports whether a color value paints anything.
// Empty, "none", "transparent" and fully transparent hex/rgba values do not.
func IsVisibleColor(c string) bool {
	c = strings.ToLower(strings.TrimSpace(c))
	switch c {
	case "", "none", "transparent":
		return false
	}
	if strings.HasPrefix(c, "#") && len(c) == 9 && strings.HasSuffix(c, "00") {
		return false
	}
	if strings.HasPrefix(c, "rgba(") {
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(c, "rgba("), ")"), ",")
		if len(parts) == 4 {
			alpha := strings.TrimSpace(parts[3])
			if alpha == "0" || alpha == "0.0" || alpha == "0%" {
				return false
			}
		}
	}
	return true
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Descendants visits every node below n, pre-order, excluding n itself.
func Descendants(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// AllDescendants reports whether pred holds for every node below n.
// A node without children trivially satisfies it.
func AllDescendants(n *Node, pred func(*Node) bool) bool {
	ok := true
	Descendants(n, func(d *Node) bool {
		if !pred(d) {
			ok = false
		}
		return ok
	})
	return ok
}

// AnyDescendant reports whether pred holds for some node below n.
func AnyDescendant(n *Node, pred func(*Node) bool) bool {
	found := false
	Descendants(n, func(d *Node) bool {
		if found {
			return false
		}
		if pred(d) {
			found = true
			return false
		}
		return true
	})
	return found
}

// IsShapePrimitive reports whether n is a pure vector shape.
func IsShapePrimitive(n *Node) bool {
	return n.Type == TypeGraph
}

// IsPureShape reports whether every descendant of n is a shape primitive.
// Leaves are not considered pure-shape containers.
func IsPureShape(n *Node) bool {
	if n.IsLeaf() {
		return false
	}
	return AllDescendants(n, IsShapePrimitive)
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, r := range roots {
		Walk(r, func(*Node) bool {
			total++
			return true
		})
	}
	return total
}

// Find returns the first node in the forest with the given ID.
func Find(roots []*Node, id string) *Node {
	var found *Node
	for _, r := range roots {
		Walk(r, func(n *Node) bool {
			if found != nil {
				return false
			}
			if n.ID == id {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}
