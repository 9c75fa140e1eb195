// Package fingerprint computes the two subtree fingerprints used for component
// extraction: a structural hash that ignores content and colors, and a visual
// fingerprint that captures colors only.
package fingerprint

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mvp-joe/componentize/internal/node"
	"github.com/zeebo/xxh3"
)

// ShapeKeys is the whitelist of style keys that define the shape of a node.
// Order is part of the hash encoding; do not reorder.
var ShapeKeys = []string{
	node.StyleCornerRadius,
	node.StyleBorder,
	node.StyleStrokeSize,
	node.StyleShadow,
	node.StyleFillType,
}

// Structural returns the structural hash of the subtree rooted at n.
//
// The hash covers the node type, its size, the whitelisted shape styles and the
// structural hashes of its children in order. Text, bound resources and
// fill/stroke colors are excluded so that color-only variants collide.
func Structural(n *node.Node) string {
	if n == nil {
		return ""
	}
	data, _ := json.Marshal(canonicalForm(n))

	h := xxh3.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalForm builds the ordered list that Structural digests. Every element
// is a string so the encoding cannot fail on exotic style values.
func canonicalForm(n *node.Node) []any {
	form := []any{
		[]string{string(n.Type), formatSize(n.Geometry.Width), formatSize(n.Geometry.Height)},
	}
	for _, key := range ShapeKeys {
		if n.Style == nil {
			break
		}
		v, ok := n.Style[key]
		if !ok {
			continue
		}
		form = append(form, []string{key, serializeValue(v)})
	}
	for _, c := range n.Children {
		form = append(form, Structural(c))
	}
	return form
}

func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func serializeValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Visual returns the color fingerprint of the subtree rooted at n: an
// order-preserving concatenation of name:fill:color and name:stroke:color for
// every descendant that paints a visible fill or a stroke. The root's own
// colors lead the list unnamed.
func Visual(n *node.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeColors(&b, "", n)
	node.Descendants(n, func(d *node.Node) bool {
		writeColors(&b, d.Name, d)
		return true
	})
	return b.String()
}

func writeColors(b *strings.Builder, name string, d *node.Node) {
	if fill := d.StyleString(node.StyleFill); node.IsVisibleColor(fill) {
		writeEntry(b, name, node.StyleFill, fill)
	}
	if stroke := d.StyleString(node.StyleStroke); node.IsVisibleColor(stroke) {
		writeEntry(b, name, node.StyleStroke, stroke)
	}
}

func writeEntry(b *strings.Builder, name, kind, color string) {
	if b.Len() > 0 {
		b.WriteByte(';')
	}
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(strings.ToLower(color))
}
