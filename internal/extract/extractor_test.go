package extract

// Test Plan for Extractor:
// - Variant buttons: one group, two looks, page override on the pressed reference
// - Identical instances: one resource, no looks, no gear
// - Repeated badges: one resource, per-instance title overrides, no icon override
// - Every reference in the forest and in payloads resolves to a resource or a dropped id
// - Snapshot failures drop the resource, are reported and do not abort the run
// - Cancelled contexts and nil documents are rejected
// - Alternate looks are rendered with a page suffix when a pipeline is set
// - Pure-shape subtrees are scanned when enabled
// - Upstream resources pass through after the components
// - Upstream resources whose id is already taken are skipped
// - Differently named instances with identical colors share one look
// - Components are emitted nested-first with exported flags
// - Progress callbacks fire once per phase in order

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/componentize/internal/node"
	"github.com/mvp-joe/componentize/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cfg *Config, roots ...*node.Node) *Result {
	t.Helper()
	result, err := New(cfg).Run(t.Context(), &Document{Nodes: roots})
	require.NoError(t, err)
	return result
}

func payload(t *testing.T, res *Resource) *node.Node {
	t.Helper()
	var n node.Node
	require.NoError(t, json.Unmarshal(res.Payload, &n))
	return &n
}

func TestExtractor_ButtonVariants(t *testing.T) {
	t.Parallel()

	def := button("def", "Button/Default", "#1e88e5", "OK")
	pressed := button("pressed", "Button/Pressed", "#e53935", "Cancel")

	result := run(t, nil, def, pressed)

	require.Len(t, result.Resources, 1)
	res := result.Resources[0]
	assert.Equal(t, KindComponent, res.Kind)
	assert.Equal(t, "Button/Default", res.Name)
	assert.True(t, res.Exported)
	assert.Equal(t, 120, res.Width)

	require.Len(t, result.Roots, 2)
	refDef, refPressed := result.Roots[0], result.Roots[1]
	assert.Equal(t, res.ID, refDef.Ref)
	assert.Equal(t, res.ID, refPressed.Ref)
	assert.NotContains(t, refDef.Overrides, node.OverridePage)
	assert.Equal(t, 1, refPressed.Overrides[node.OverridePage])
	assert.Equal(t, "OK", refDef.Overrides[node.OverrideTitle])
	assert.Equal(t, "Cancel", refPressed.Overrides[node.OverrideTitle])

	canonical := payload(t, res)
	require.Contains(t, canonical.Looks, 1)
	assert.Equal(t, "src:pressed", canonical.Looks[1].SourceID)
	assert.Equal(t, []node.Gear{{Kind: node.GearIcon, Controller: ControllerButton}}, canonical.Gears)
	require.Len(t, canonical.Controllers, 1)
	assert.Equal(t, ControllerButton, canonical.Controllers[0].Name)

	assert.Equal(t, Stats{
		Nodes:         6,
		Candidates:    2,
		Groups:        1,
		VariantGroups: 1,
		Looks:         1,
		References:    2,
		Controllers:   1,
	}, result.Stats)
}

func TestExtractor_IdenticalInstances(t *testing.T) {
	t.Parallel()

	var roots []*node.Node
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		roots = append(roots, card(id, "Card", "#fafafa", "title "+id))
	}

	result := run(t, nil, roots...)

	require.Len(t, result.Resources, 1)
	canonical := payload(t, result.Resources[0])
	assert.Empty(t, canonical.Looks)
	assert.Empty(t, canonical.Gears)
	assert.Empty(t, canonical.Controllers)
	for _, r := range result.Roots {
		assert.Equal(t, result.Resources[0].ID, r.Ref)
		assert.NotContains(t, r.Overrides, node.OverridePage)
	}
}

func TestExtractor_DifferentlyNamedInstances(t *testing.T) {
	t.Parallel()

	var roots []*node.Node
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("card-%d", i)
		c := card(id, fmt.Sprintf("Card %d", i), "#ffffff", "t")
		c.Style = map[string]any{node.StyleFill: "#ffffff"}
		roots = append(roots, c)
	}

	result := run(t, nil, roots...)

	require.Len(t, result.Resources, 1)
	assert.Equal(t, 0, result.Stats.Looks)
	assert.Equal(t, 0, result.Stats.VariantGroups)
	canonical := payload(t, result.Resources[0])
	assert.Empty(t, canonical.Looks)
	assert.Empty(t, canonical.Gears)
	for _, r := range result.Roots {
		assert.Equal(t, result.Resources[0].ID, r.Ref)
		assert.NotContains(t, r.Overrides, node.OverridePage)
	}
}

func TestExtractor_RepeatedBadges(t *testing.T) {
	t.Parallel()

	result := run(t, nil, badge("b1", "3"), badge("b2", "12"), badge("b3", "99+"))

	require.Len(t, result.Resources, 1)
	assert.Equal(t, "IconBadge_24", result.Resources[0].Name)

	var titles []any
	for _, r := range result.Roots {
		assert.Equal(t, result.Resources[0].ID, r.Ref)
		assert.NotContains(t, r.Overrides, node.OverrideIcon)
		titles = append(titles, r.Overrides[node.OverrideTitle])
	}
	assert.Equal(t, []any{"3", "12", "99+"}, titles)

	canonical := payload(t, result.Resources[0])
	assert.Equal(t, SlotTitle, canonical.Children[1].Name)
}

func TestExtractor_ReferenceIntegrity(t *testing.T) {
	t.Parallel()

	list := func(id string) *node.Node {
		return &node.Node{ID: id, Name: "List", Type: node.TypeGroup, Children: []*node.Node{
			card(id+"/c1", "Card", "#fff", "one"),
			card(id+"/c2", "Card", "#eee", "two"),
			badge(id+"/b", "1"),
		}}
	}
	screen := page("home", list("l1"), list("l2"), button("ok", "Button", "#000", "OK"))

	result := run(t, nil, screen)

	ids := make(map[string]bool)
	for _, res := range result.Resources {
		ids[res.ID] = true
	}

	refs := references(result.Roots)
	for _, res := range result.Resources {
		refs = append(refs, references([]*node.Node{payload(t, res)})...)
	}
	require.NotEmpty(t, refs)
	for _, ref := range refs {
		assert.True(t, ids[ref.Ref], "reference %s -> %s", ref.ID, ref.Ref)
	}
}

func TestExtractor_SnapshotFailureDropsResource(t *testing.T) {
	t.Parallel()

	broken := card("broken", "Broken", "#fff", "x")
	broken.Custom = map[string]any{"weight": math.Inf(1)}
	screen := page("p", broken)

	result := run(t, nil, screen)

	require.Len(t, result.Dropped, 1)
	assert.Equal(t, 1, result.Stats.Dropped)
	assert.Nil(t, result.Resource(result.Dropped[0]))

	require.Len(t, result.Resources, 1)
	assert.Equal(t, "Page p", result.Resources[0].Name)
	// The surviving page still points at the dropped component.
	inner := payload(t, result.Resources[0]).Children[0]
	assert.Equal(t, result.Dropped[0], inner.Ref)
}

func TestExtractor_Rejects(t *testing.T) {
	t.Parallel()

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()
		_, err := New(nil).Run(t.Context(), nil)
		assert.ErrorIs(t, err, ErrNilDocument)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := New(nil).Run(ctx, &Document{Nodes: []*node.Node{card("a", "Card", "#fff", "x")}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExtractor_RendersLooks(t *testing.T) {
	t.Parallel()

	manifest := render.NewManifest()
	def := button("def", "Button/Default", "#1e88e5", "OK")
	pressed := button("pressed", "Button/Pressed", "#e53935", "OK")

	result := run(t, &Config{Pipeline: manifest}, def, pressed)

	jobs := manifest.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "pressed", jobs[0].NodeID)
	assert.Equal(t, "@1", jobs[0].Suffix)

	canonical := payload(t, result.Resources[0])
	assert.Equal(t, jobs[0].ResourceID, canonical.Looks[1].Resource)
}

func TestExtractor_ScanShapes(t *testing.T) {
	t.Parallel()

	logo := &node.Node{ID: "logo", Name: "Logo", Type: node.TypeGroup, Geometry: node.Geometry{Width: 32.4, Height: 32}, Children: []*node.Node{
		{ID: "s1", Type: node.TypeGraph},
		{ID: "s2", Type: node.TypeGraph},
		{ID: "s3", Type: node.TypeGraph},
	}}
	root := &node.Node{ID: "root", Type: node.TypeGroup, Children: []*node.Node{logo, {ID: "t", Type: node.TypeText}}}

	tests := []struct {
		name string
		scan bool
		want int
	}{
		{"enabled", true, 1},
		{"disabled", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			manifest := render.NewManifest()
			roots := []*node.Node{cloneNode(t, root)}

			result := run(t, &Config{Pipeline: manifest, ScanShapes: tt.scan}, roots...)

			assert.Equal(t, tt.want, result.Stats.ShapesScanned)
			require.Len(t, manifest.Jobs(), tt.want)
			if tt.want > 0 {
				assert.Equal(t, 33, manifest.Jobs()[0].Width)
				scanned := node.Find(result.Roots, "logo")
				assert.Equal(t, manifest.Jobs()[0].ResourceID, scanned.ResourceID())
			}
		})
	}
}

func TestExtractor_PassthroughResources(t *testing.T) {
	t.Parallel()

	upstream := &Resource{ID: "img-1", Name: "photo.png", Kind: KindImage}
	result, err := New(nil).Run(t.Context(), &Document{
		Nodes:     []*node.Node{card("a", "Card", "#fff", "x"), nil},
		Resources: []*Resource{upstream, nil},
	})
	require.NoError(t, err)

	require.Len(t, result.Resources, 2)
	assert.Equal(t, KindComponent, result.Resources[0].Kind)
	assert.Same(t, upstream, result.Resources[1])
	assert.Len(t, result.Roots, 1)
}

func TestExtractor_PassthroughDuplicateIDs(t *testing.T) {
	t.Parallel()

	first := run(t, nil, card("a", "Card", "#fff", "x"))
	require.Len(t, first.Resources, 1)
	componentID := first.Resources[0].ID

	clash := &Resource{ID: componentID, Name: "clash.png", Kind: KindImage}
	photo := &Resource{ID: "img-1", Name: "photo.png", Kind: KindImage}
	again := &Resource{ID: "img-1", Name: "photo-copy.png", Kind: KindImage}
	result, err := New(nil).Run(t.Context(), &Document{
		Nodes:     []*node.Node{card("a", "Card", "#fff", "x")},
		Resources: []*Resource{clash, photo, again},
	})
	require.NoError(t, err)

	require.Len(t, result.Resources, 2)
	assert.Equal(t, componentID, result.Resources[0].ID)
	assert.Equal(t, KindComponent, result.Resources[0].Kind)
	assert.Same(t, photo, result.Resources[1])
}

func TestExtractor_NestedFirst(t *testing.T) {
	t.Parallel()

	list := &node.Node{ID: "list", Name: "List", Type: node.TypeGroup, Children: []*node.Node{
		card("a", "Card", "#fff", "x"),
		card("b", "Card", "#fff", "y"),
	}}

	result := run(t, nil, list)

	require.Len(t, result.Resources, 2)
	assert.Equal(t, "Card", result.Resources[0].Name)
	assert.False(t, result.Resources[0].Exported)
	assert.Equal(t, "List", result.Resources[1].Name)
	assert.True(t, result.Resources[1].Exported)
	assert.Equal(t, []string{result.Resources[0].ID}, result.Resources[1].Nested)
	assert.Empty(t, result.Resources[0].Nested)
}

type recordingReporter struct {
	mu     sync.Mutex
	starts []Phase
	done   []Phase
	stats  *Stats
}

func (r *recordingReporter) OnPhaseStart(phase Phase, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, phase)
}

func (r *recordingReporter) OnPhaseProgress(Phase, int) {}

func (r *recordingReporter) OnPhaseComplete(phase Phase, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, phase)
}

func (r *recordingReporter) OnComplete(stats *Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = stats
}

func TestExtractor_Progress(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	_, err := NewWithProgress(nil, reporter).Run(t.Context(), &Document{Nodes: []*node.Node{card("a", "Card", "#fff", "x")}})
	require.NoError(t, err)

	phases := []Phase{PhaseCollect, PhaseAnalyze, PhaseTransform, PhaseFinalize}
	assert.Equal(t, phases, reporter.starts)
	assert.Equal(t, phases, reporter.done)
	require.NotNil(t, reporter.stats)
	assert.Equal(t, 1, reporter.stats.Candidates)
}

func cloneNode(t *testing.T, n *node.Node) *node.Node {
	t.Helper()
	data, err := json.Marshal(n)
	require.NoError(t, err)
	var out node.Node
	require.NoError(t, json.Unmarshal(data, &out))
	return &out
}
