package render

// Test Plan for Render Manifest:
// - Enqueue returns deterministic ids derived from source id and suffix
// - Enqueue of the same node/suffix twice records one job
// - Different suffixes produce different resources
// - Enqueue falls back to node id when the source id is empty
// - Enqueue rejects nil nodes
// - Scan binds resources to node content
// - NoOpPipeline returns empty assets

import (
	"testing"

	"github.com/mvp-joe/componentize/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_Enqueue(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	n := &node.Node{ID: "n1", SourceID: "12:34", Name: "icon", Geometry: node.Geometry{Width: 23.2, Height: 24}}

	first, err := m.Enqueue(n, "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ResourceID)
	assert.Equal(t, 24, first.Width)
	assert.Equal(t, 24, first.Height)

	again, err := m.Enqueue(n, "")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	variant, err := m.Enqueue(n, "@1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ResourceID, variant.ResourceID)

	jobs := m.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "@1", jobs[1].Suffix)
	assert.Equal(t, jobs[0].ResourceID+".png", jobs[0].FileName)

	// Deterministic across manifests
	other, err := NewManifest().Enqueue(n, "")
	require.NoError(t, err)
	assert.Equal(t, first.ResourceID, other.ResourceID)
}

func TestManifest_EnqueueFallsBackToID(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	a, err := m.Enqueue(&node.Node{ID: "a"}, "")
	require.NoError(t, err)
	b, err := m.Enqueue(&node.Node{ID: "b"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ResourceID, b.ResourceID)
}

func TestManifest_EnqueueNil(t *testing.T) {
	t.Parallel()

	_, err := NewManifest().Enqueue(nil, "")
	assert.ErrorIs(t, err, ErrNilNode)
}

func TestManifest_Scan(t *testing.T) {
	t.Parallel()

	m := NewManifest()
	shapes := []*node.Node{
		{ID: "s1", Type: node.TypeGroup},
		{ID: "s2", Type: node.TypeGroup, Content: &node.Content{Text: "kept"}},
	}

	require.NoError(t, m.Scan(shapes))
	assert.Len(t, m.Jobs(), 2)
	for _, s := range shapes {
		require.NotNil(t, s.Content)
		assert.NotEmpty(t, s.Content.Resource)
	}
	assert.Equal(t, "kept", shapes[1].Content.Text)
}

func TestNoOpPipeline(t *testing.T) {
	t.Parallel()

	var p Pipeline = NoOpPipeline{}
	asset, err := p.Enqueue(&node.Node{ID: "x"}, "")
	require.NoError(t, err)
	assert.Empty(t, asset.ResourceID)
	assert.NoError(t, p.Scan(nil))
}
