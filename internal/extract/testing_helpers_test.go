package extract

import (
	"github.com/mvp-joe/componentize/internal/node"
)

// button builds a button with a colored background shape and a title.
func button(id, name, color, title string) *node.Node {
	return &node.Node{
		ID:       id,
		SourceID: "src:" + id,
		Name:     name,
		Type:     node.TypeButton,
		Geometry: node.Geometry{Width: 120, Height: 40},
		Children: []*node.Node{
			{ID: id + "/bg", Name: "bg", Type: node.TypeGraph, Geometry: node.Geometry{Width: 120, Height: 40}, Style: map[string]any{node.StyleFill: color, node.StyleCornerRadius: 6}},
			{ID: id + "/title", Name: "title", Type: node.TypeText, Geometry: node.Geometry{Width: 80, Height: 20}, Content: &node.Content{Text: title}},
		},
	}
}

// card builds a plain container with three children, significant by child count.
func card(id, name, color, heading string) *node.Node {
	return &node.Node{
		ID:       id,
		Name:     name,
		Type:     node.TypeComponent,
		Geometry: node.Geometry{Width: 300, Height: 120},
		Children: []*node.Node{
			{ID: id + "/bg", Name: "frame", Type: node.TypeGraph, Geometry: node.Geometry{Width: 300, Height: 120}, Style: map[string]any{node.StyleFill: color}},
			{ID: id + "/heading", Name: "Heading Title", Type: node.TypeText, Geometry: node.Geometry{Width: 200, Height: 24}, Content: &node.Content{Text: heading}},
			{ID: id + "/body", Name: "Body", Type: node.TypeText, Geometry: node.Geometry{Width: 260, Height: 60}, Content: &node.Content{Text: "body of " + heading}},
		},
	}
}

// badge builds a two-child container that is significant through its background.
func badge(id, text string) *node.Node {
	return &node.Node{
		ID:       id,
		Name:     "IconBadge_24",
		Type:     node.TypeComponent,
		Geometry: node.Geometry{Width: 24, Height: 24},
		Style:    map[string]any{node.StyleFill: "#ff5252", node.StyleCornerRadius: 12},
		Children: []*node.Node{
			{ID: id + "/dot", Name: "dot", Type: node.TypeGraph, Geometry: node.Geometry{Width: 8, Height: 8}, Style: map[string]any{node.StyleFill: "#ffffff"}},
			{ID: id + "/label", Name: "label", Type: node.TypeText, Geometry: node.Geometry{Width: 16, Height: 12}, Content: &node.Content{Text: text}},
		},
	}
}

func page(id string, children ...*node.Node) *node.Node {
	return &node.Node{
		ID:       id,
		Name:     "Page " + id,
		Type:     node.TypeGroup,
		Geometry: node.Geometry{Width: 1280, Height: 800},
		Children: children,
	}
}

// references collects every reference node in the forest and inside the
// serialized component payloads' live canonicals.
func references(roots []*node.Node) []*node.Node {
	var refs []*node.Node
	for _, r := range roots {
		node.Walk(r, func(n *node.Node) bool {
			if n.Ref != "" {
				refs = append(refs, n)
			}
			return true
		})
	}
	return refs
}
