package extract

import (
	"github.com/mvp-joe/componentize/internal/fingerprint"
	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
)

// Variant is one visual cluster of a group.
type Variant struct {
	Page        int
	Fingerprint string
	Instances   []*node.Node
}

// Representative returns the first instance of the cluster.
func (v *Variant) Representative() *node.Node {
	return v.Instances[0]
}

// GroupAnalysis is the variant breakdown of one group.
type GroupAnalysis struct {
	Group    *Group
	Variants []*Variant
}

// HasLooks reports whether any instance occupies a non-zero page.
func (a *GroupAnalysis) HasLooks() bool {
	for _, v := range a.Variants {
		if v.Page != 0 {
			return true
		}
	}
	return false
}

// Analysis is the result of variant analysis over all groups.
type Analysis struct {
	Groups []*GroupAnalysis
}

// Looks returns the number of non-zero pages across all groups.
func (a *Analysis) Looks() int {
	total := 0
	for _, ga := range a.Groups {
		for _, v := range ga.Variants {
			if v.Page != 0 {
				total++
			}
		}
	}
	return total
}

// Analyze detects appearance variants within each group of two or more
// instances and tags every instance with its page.
//
// Instances are clustered by visual fingerprint. The canonical instance's
// cluster is page 0. Other clusters take the page of the interaction state
// named by their representative when it is free, else the next unused page
// from 1. When all instances look alike, names alone decide non-zero pages.
// The canonical node records a Look per non-zero page and carries a single
// gearIcon gear once one exists.
func Analyze(groups *Groups, policy *keywords.Policy) *Analysis {
	analysis := &Analysis{}
	for _, g := range groups.List() {
		if len(g.Instances) < 2 {
			continue
		}
		analysis.Groups = append(analysis.Groups, analyzeGroup(g, policy))
	}
	return analysis
}

func analyzeGroup(g *Group, policy *keywords.Policy) *GroupAnalysis {
	clusters := clusterByFingerprint(g.Instances)
	ga := &GroupAnalysis{Group: g}

	if len(clusters) == 1 {
		ga.Variants = splitByStateName(clusters[0], policy)
	} else {
		ga.Variants = assignPages(clusters, policy)
	}

	canonical := g.Canonical()
	for _, v := range ga.Variants {
		for _, inst := range v.Instances {
			inst.Page = v.Page
		}
		if v.Page != 0 {
			recordLook(canonical, v.Page, v.Representative())
		}
	}
	canonical.Page = 0

	if ga.HasLooks() {
		ensureIconGear(canonical)
	}
	return ga
}

// clusterByFingerprint groups instances by visual fingerprint, keeping the
// order in which each fingerprint was first seen.
func clusterByFingerprint(instances []*node.Node) []*Variant {
	var clusters []*Variant
	byPrint := make(map[string]*Variant)
	for _, inst := range instances {
		fp := fingerprint.Visual(inst)
		v, ok := byPrint[fp]
		if !ok {
			v = &Variant{Fingerprint: fp}
			byPrint[fp] = v
			clusters = append(clusters, v)
		}
		v.Instances = append(v.Instances, inst)
	}
	return clusters
}

// splitByStateName partitions a visually uniform cluster by the interaction
// state named in each instance. The canonical instance always stays on page 0.
func splitByStateName(cluster *Variant, policy *keywords.Policy) []*Variant {
	base := &Variant{Page: 0, Fingerprint: cluster.Fingerprint}
	variants := []*Variant{base}
	byPage := map[int]*Variant{0: base}

	for i, inst := range cluster.Instances {
		page := 0
		if i > 0 {
			page = policy.StatePage(inst.Name)
		}
		v, ok := byPage[page]
		if !ok {
			v = &Variant{Page: page, Fingerprint: cluster.Fingerprint}
			byPage[page] = v
			variants = append(variants, v)
		}
		v.Instances = append(v.Instances, inst)
	}
	return variants
}

// assignPages resolves pages for several visual clusters. The first cluster
// holds the canonical instance and is page 0.
func assignPages(clusters []*Variant, policy *keywords.Policy) []*Variant {
	taken := map[int]bool{0: true}
	next := 1

	clusters[0].Page = 0
	for _, v := range clusters[1:] {
		page := policy.StatePage(v.Representative().Name)
		if page == 0 || taken[page] {
			for taken[next] {
				next++
			}
			page = next
		}
		taken[page] = true
		v.Page = page
	}
	return clusters
}

func recordLook(canonical *node.Node, page int, alt *node.Node) {
	if canonical.Looks == nil {
		canonical.Looks = make(map[int]*node.Look)
	}
	if _, ok := canonical.Looks[page]; ok {
		return
	}
	source := alt.SourceID
	if source == "" {
		source = alt.ID
	}
	canonical.Looks[page] = &node.Look{SourceID: source}
}

func ensureIconGear(canonical *node.Node) {
	controller := "state"
	if canonical.Type == node.TypeButton {
		controller = "button"
	}
	for i := range canonical.Gears {
		if canonical.Gears[i].Kind == node.GearIcon {
			canonical.Gears[i].Controller = controller
			return
		}
	}
	canonical.Gears = append(canonical.Gears, node.Gear{Kind: node.GearIcon, Controller: controller})
}
