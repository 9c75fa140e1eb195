package extract

import (
	"github.com/mvp-joe/componentize/internal/keywords"
	"github.com/mvp-joe/componentize/internal/node"
)

// Controller names.
const (
	ControllerButton = "button"
	ControllerState  = "state"
)

type stateMatch struct {
	node *node.Node
	rule keywords.StateRule
}

// DetectStates scans the subtree below root for layers named after
// interaction states and attaches a controller describing them. Buttons get
// the fixed four-page button controller; other nodes get "Normal" plus one
// page per distinct detected state.
//
// When visibilityGears is set, each matched layer also receives a display
// gear bound to its state's page. Layers without a state keyword get no gear.
//
// Returns false when no state layer was found.
func DetectStates(root *node.Node, policy *keywords.Policy, visibilityGears bool) bool {
	var matches []stateMatch
	node.Descendants(root, func(d *node.Node) bool {
		if rule, ok := policy.DetectState(d.Name); ok {
			matches = append(matches, stateMatch{node: d, rule: rule})
		}
		return d.Ref == ""
	})
	if len(matches) == 0 {
		return false
	}

	ctrl, pageOf := buildController(root.Type, matches)
	if !hasController(root, ctrl.Name) {
		root.Controllers = append(root.Controllers, ctrl)
	}

	if visibilityGears {
		for _, m := range matches {
			page, ok := pageOf[m.rule.State]
			if !ok || hasGear(m.node, node.GearDisplay) {
				continue
			}
			m.node.Gears = append(m.node.Gears, node.Gear{
				Kind:       node.GearDisplay,
				Controller: ctrl.Name,
				Pages:      []int{page},
			})
		}
	}
	return true
}

// buildController returns the controller for root and the page index of each
// state it covers.
func buildController(typ node.Type, matches []stateMatch) (node.Controller, map[string]int) {
	pageOf := make(map[string]int)

	if typ == node.TypeButton {
		ctrl := node.Controller{Name: ControllerButton}
		for i, name := range keywords.ButtonPages {
			ctrl.Pages = append(ctrl.Pages, node.ControllerPage{ID: i, Name: name})
		}
		for _, m := range matches {
			if m.rule.Page < len(keywords.ButtonPages) {
				pageOf[m.rule.State] = m.rule.Page
			}
		}
		return ctrl, pageOf
	}

	ctrl := node.Controller{
		Name:  ControllerState,
		Pages: []node.ControllerPage{{ID: 0, Name: "Normal"}},
	}
	pageOf[keywords.StateNormal] = 0
	for _, m := range matches {
		if _, ok := pageOf[m.rule.State]; ok {
			continue
		}
		id := len(ctrl.Pages)
		ctrl.Pages = append(ctrl.Pages, node.ControllerPage{ID: id, Name: m.rule.State})
		pageOf[m.rule.State] = id
	}
	return ctrl, pageOf
}

// ensureLookController attaches the controller named by the canonical's icon
// gear when the canonical has alternate looks but no such controller yet.
func ensureLookController(n *node.Node, policy *keywords.Policy) bool {
	if len(n.Looks) == 0 {
		return false
	}
	name := ""
	for _, g := range n.Gears {
		if g.Kind == node.GearIcon {
			name = g.Controller
			break
		}
	}
	if name == "" || hasController(n, name) {
		return false
	}

	ctrl := node.Controller{Name: name}
	if name == ControllerButton {
		for i, label := range keywords.ButtonPages {
			ctrl.Pages = append(ctrl.Pages, node.ControllerPage{ID: i, Name: label})
		}
	} else {
		last := 0
		for page := range n.Looks {
			last = max(last, page)
		}
		ctrl.Pages = append(ctrl.Pages, node.ControllerPage{ID: 0, Name: "Normal"})
		for i := 1; i <= last; i++ {
			ctrl.Pages = append(ctrl.Pages, node.ControllerPage{ID: i, Name: policy.PageLabel(i)})
		}
	}
	n.Controllers = append(n.Controllers, ctrl)
	return true
}

func hasController(n *node.Node, name string) bool {
	for _, c := range n.Controllers {
		if c.Name == name {
			return true
		}
	}
	return false
}

func hasGear(n *node.Node, kind string) bool {
	for _, g := range n.Gears {
		if g.Kind == kind {
			return true
		}
	}
	return false
}
