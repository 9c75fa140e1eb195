package extract

import (
	"encoding/json"

	"github.com/mvp-joe/componentize/internal/node"
)

type finalizer struct {
	*extractor
	table    *Table
	deps     *dependencies
	exported map[string]bool
	result   *Result
}

// finalize normalizes every canonical component, synthesizes state
// controllers, snapshots canonical subtrees and assembles the output resource
// list with components ordered nested-first.
func (f *finalizer) finalize(groups *Groups, passthrough []*Resource) error {
	canonicals := make(map[string]*node.Node, groups.Len())
	for _, g := range groups.List() {
		canonicals[g.Hash] = g.Canonical()
	}

	if f.scanShapes && f.pipeline != nil {
		scope := append([]*node.Node{}, f.result.Roots...)
		for _, g := range groups.List() {
			scope = append(scope, g.Canonical())
		}
		shapes := PureShapeRoots(scope)
		if err := f.pipeline.Scan(shapes); err != nil {
			f.logger.Warn("failed to scan shape subtrees", "count", len(shapes), "error", err)
		}
		f.result.Stats.ShapesScanned = len(shapes)
	}

	for _, g := range groups.List() {
		canonical := g.Canonical()
		for _, d := range NormalizeNames(canonical, f.policy) {
			f.logger.Debug("title slot taken, keeping layer name",
				"component", canonical.Name, "node", d.ID, "name", d.Name)
		}
		if DetectStates(canonical, f.policy, f.visibilityGears) {
			f.result.Stats.Controllers++
		}
		if ensureLookController(canonical, f.policy) {
			f.result.Stats.Controllers++
		}
	}
	for _, r := range f.result.Roots {
		if r.Ref != "" {
			continue
		}
		if DetectStates(r, f.policy, f.visibilityGears) {
			f.result.Stats.Controllers++
		}
	}

	order, err := f.deps.nestedFirst()
	if err != nil {
		return err
	}
	nested, err := f.deps.nested()
	if err != nil {
		return err
	}

	byID := make(map[string]*Resource, f.table.Len())
	for _, res := range f.table.Resources() {
		byID[res.ID] = res
	}

	done := 0
	for _, id := range order {
		res, ok := byID[id]
		if !ok {
			continue
		}
		canonical := canonicals[res.Hash]

		payload, err := json.Marshal(canonical)
		if err != nil {
			f.logger.Error("failed to snapshot component, dropping resource",
				"component", res.Name, "resource", res.ID, "node", canonical.ID, "error", err)
			f.table.Remove(res.Hash)
			f.result.Dropped = append(f.result.Dropped, res.ID)
			continue
		}
		res.Payload = payload
		res.Exported = f.exported[res.ID]
		res.Nested = nested[res.ID]
		f.result.Resources = append(f.result.Resources, res)

		done++
		f.progress.OnPhaseProgress(PhaseFinalize, done)
	}
	f.result.Stats.Dropped = len(f.result.Dropped)

	seen := make(map[string]bool, len(f.result.Resources)+len(passthrough))
	for _, res := range f.result.Resources {
		seen[res.ID] = true
	}
	for _, res := range passthrough {
		if res == nil {
			continue
		}
		if seen[res.ID] {
			f.logger.Warn("skipping upstream resource with duplicate id", "resource", res.ID, "name", res.Name)
			continue
		}
		seen[res.ID] = true
		f.result.Resources = append(f.result.Resources, res)
	}
	return nil
}
