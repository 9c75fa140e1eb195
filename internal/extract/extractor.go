// Package extract turns a laid-out design forest into reusable components.
//
// Extraction runs four strict phases over one shared tree:
//
//  1. collect   - mark significant subtrees and group them by structural hash
//  2. analyze   - detect visual variants per group and pre-register resources
//  3. transform - replace every extracted subtree with a reference node
//  4. finalize  - normalize slot names, synthesize state controllers and
//     snapshot each canonical subtree into its resource
//
// Each phase sees the fully settled output of the previous one.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
	"github.com/mvp-joe/componentize/internal/render"
)

// Config configures an Extractor.
type Config struct {
	// Policy drives every name-based heuristic. Defaults to keywords.Default().
	Policy *keywords.Policy

	// Pipeline receives visual nodes that need a raster resource. When nil, no
	// renders are requested and icons resolve only from existing resources.
	Pipeline render.Pipeline

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger

	// VisibilityGears enables per-layer display gears for detected state layers.
	VisibilityGears bool

	// ScanShapes hands pure-shape subtrees to the pipeline as single images.
	ScanShapes bool
}

// Extractor runs component extraction over a document.
type Extractor interface {
	// Run extracts components from doc. The document's forest is mutated in
	// place; the returned Result holds the rewritten forest.
	Run(ctx context.Context, doc *Document) (*Result, error)
}

type extractor struct {
	policy          *keywords.Policy
	pipeline        render.Pipeline
	logger          *slog.Logger
	visibilityGears bool
	scanShapes      bool
	progress        ProgressReporter
}

// New creates an extractor without progress reporting.
func New(cfg *Config) Extractor {
	return NewWithProgress(cfg, &NoOpProgressReporter{})
}

// NewWithProgress creates an extractor that reports phase progress.
func NewWithProgress(cfg *Config, progress ProgressReporter) Extractor {
	if cfg == nil {
		cfg = &Config{}
	}
	e := &extractor{
		policy:          cfg.Policy,
		pipeline:        cfg.Pipeline,
		logger:          cfg.Logger,
		visibilityGears: cfg.VisibilityGears,
		scanShapes:      cfg.ScanShapes,
		progress:        progress,
	}
	if e.policy == nil {
		e.policy = keywords.Default()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.progress == nil {
		e.progress = &NoOpProgressReporter{}
	}
	return e
}

// Run executes the four phases in order. ctx is checked between phases only.
func (e *extractor) Run(ctx context.Context, doc *Document) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	roots := make([]*node.Node, 0, len(doc.Nodes))
	for _, r := range doc.Nodes {
		if r != nil {
			roots = append(roots, r)
		}
	}

	result := &Result{}
	result.Stats.Nodes = node.Count(roots)

	// Phase 1: collect
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	e.progress.OnPhaseStart(PhaseCollect, len(roots))
	groups := Collect(roots, e.policy)
	e.progress.OnPhaseProgress(PhaseCollect, len(roots))
	result.Stats.Candidates = groups.Candidates()
	result.Stats.Groups = groups.Len()
	e.logger.Debug("collected candidates", "groups", groups.Len(), "candidates", result.Stats.Candidates)
	e.progress.OnPhaseComplete(PhaseCollect, time.Since(start))

	// Phase 2: analyze variants and pre-register every component
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	e.progress.OnPhaseStart(PhaseAnalyze, groups.Len())
	analysis := Analyze(groups, e.policy)
	table := NewTable()
	table.Register(groups)
	e.renderLooks(analysis)
	e.progress.OnPhaseProgress(PhaseAnalyze, groups.Len())
	for _, ga := range analysis.Groups {
		if ga.HasLooks() {
			result.Stats.VariantGroups++
		}
	}
	result.Stats.Looks = analysis.Looks()
	e.logger.Debug("analyzed variants", "groups", len(analysis.Groups), "looks", result.Stats.Looks)
	e.progress.OnPhaseComplete(PhaseAnalyze, time.Since(start))

	// Phase 3: transform
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	e.progress.OnPhaseStart(PhaseTransform, result.Stats.Candidates)
	deps, err := newDependencies(table.Resources())
	if err != nil {
		return nil, err
	}
	tr := newTransformer(table, e.policy, e.pipeline, deps, e.logger)
	out, err := tr.Transform(roots, groups)
	if err != nil {
		return nil, fmt.Errorf("failed to transform tree: %w", err)
	}
	result.Roots = out
	result.Stats.References = tr.references
	e.progress.OnPhaseProgress(PhaseTransform, tr.references)
	e.logger.Debug("replaced instances", "references", tr.references)
	e.progress.OnPhaseComplete(PhaseTransform, time.Since(start))

	// Phase 4: finalize
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	e.progress.OnPhaseStart(PhaseFinalize, table.Len())
	f := &finalizer{
		extractor: e,
		table:     table,
		deps:      deps,
		exported:  tr.exported,
		result:    result,
	}
	if err := f.finalize(groups, doc.Resources); err != nil {
		return nil, err
	}
	e.progress.OnPhaseComplete(PhaseFinalize, time.Since(start))

	e.progress.OnComplete(&result.Stats)
	return result, nil
}

// renderLooks asks the pipeline for an independent render of each alternate
// look so the runtime can swap icons per page.
func (e *extractor) renderLooks(analysis *Analysis) {
	if e.pipeline == nil {
		return
	}
	for _, ga := range analysis.Groups {
		canonical := ga.Group.Canonical()
		for _, v := range ga.Variants {
			if v.Page == 0 {
				continue
			}
			look, ok := canonical.Looks[v.Page]
			if !ok || look.Resource != "" {
				continue
			}
			asset, err := e.pipeline.Enqueue(v.Representative(), fmt.Sprintf("@%d", v.Page))
			if err != nil {
				e.logger.Warn("failed to enqueue look", "component", canonical.Name, "page", v.Page, "error", err)
				continue
			}
			look.Resource = asset.ResourceID
		}
	}
}
