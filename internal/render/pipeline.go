// Package render is the boundary to the image rendering pipeline. Extraction
// hands visual nodes over here and receives opaque resource identifiers back;
// no network or file I/O happens on this side of the boundary.
package render

import (
	"github.com/mvp-joe/componentize/internal/node"
)

// Asset is the pipeline's answer to an enqueue request.
type Asset struct {
	ResourceID string
	Width      int
	Height     int
}

// Pipeline turns visual nodes into raster resources.
type Pipeline interface {
	// Enqueue schedules a render of n and returns the resource that will hold
	// it. variantSuffix distinguishes renders of alternate looks of one node.
	Enqueue(n *node.Node, variantSuffix string) (Asset, error)

	// Scan enqueues every node as a single flattened image.
	Scan(nodes []*node.Node) error
}

// NoOpPipeline accepts nothing and returns empty assets.
// Used when extraction runs without a rendering backend.
type NoOpPipeline struct{}

func (NoOpPipeline) Enqueue(*node.Node, string) (Asset, error) { return Asset{}, nil }
func (NoOpPipeline) Scan([]*node.Node) error                   { return nil }
