// Package keywords holds the name-based classification policy: which layer
// names denote title/icon/bar/grip slots, which denote interaction states and
// which are excluded from extraction.
package keywords

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// ErrEmptyTable indicates a keyword table with no entries.
var ErrEmptyTable = errors.New("empty keyword table")

// Policy is a compiled, read-only view over Tables.
type Policy struct {
	tables   Tables
	denylist []glob.Glob
}

// New compiles the tables into a Policy.
func New(t Tables) (*Policy, error) {
	p := &Policy{tables: normalize(t)}

	for _, entry := range p.tables.Denylist {
		g, err := glob.Compile(denyPattern(entry))
		if err != nil {
			return nil, fmt.Errorf("failed to compile denylist pattern %q: %w", entry, err)
		}
		p.denylist = append(p.denylist, g)
	}

	return p, nil
}

// Default returns the policy built from DefaultTables.
func Default() *Policy {
	p, err := New(DefaultTables())
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports tables that cannot drive the heuristics.
func Validate(t Tables) error {
	var errs []error
	for name, table := range map[string][]string{"title": t.Title, "icon": t.Icon, "bar": t.Bar, "grip": t.Grip} {
		if len(table) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyTable, name))
		}
	}
	if len(t.States) == 0 {
		errs = append(errs, fmt.Errorf("%w: states", ErrEmptyTable))
	}
	seen := make(map[int]string)
	for _, rule := range t.States {
		if rule.Page < 0 {
			errs = append(errs, fmt.Errorf("state %q: page cannot be negative, got %d", rule.State, rule.Page))
		}
		if prev, ok := seen[rule.Page]; ok {
			errs = append(errs, fmt.Errorf("states %q and %q share page %d", prev, rule.State, rule.Page))
		}
		seen[rule.Page] = rule.State
	}
	for _, entry := range t.Denylist {
		if _, err := glob.Compile(denyPattern(entry)); err != nil {
			errs = append(errs, fmt.Errorf("invalid denylist pattern %q: %w", entry, err))
		}
	}
	return errors.Join(errs...)
}

// Tables returns a copy of the underlying tables.
func (p *Policy) Tables() Tables {
	return p.tables
}

func (p *Policy) IsTitle(name string) bool { return containsAny(name, p.tables.Title) }
func (p *Policy) IsIcon(name string) bool  { return containsAny(name, p.tables.Icon) }
func (p *Policy) IsBar(name string) bool   { return containsAny(name, p.tables.Bar) }
func (p *Policy) IsGrip(name string) bool  { return containsAny(name, p.tables.Grip) }

// IsDenied reports whether the name matches the extraction denylist.
func (p *Policy) IsDenied(name string) bool {
	lower := strings.ToLower(name)
	for _, g := range p.denylist {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

// DetectState returns the first state rule whose keywords appear in name.
func (p *Policy) DetectState(name string) (StateRule, bool) {
	for _, rule := range p.tables.States {
		if containsAny(name, rule.Keywords) {
			return rule, true
		}
	}
	return StateRule{}, false
}

// IsStateName reports whether name carries any interaction-state keyword.
func (p *Policy) IsStateName(name string) bool {
	_, ok := p.DetectState(name)
	return ok
}

// StatePage returns the page of the state detected in name, or 0.
func (p *Policy) StatePage(name string) int {
	rule, ok := p.DetectState(name)
	if !ok {
		return 0
	}
	return rule.Page
}

// PageLabel returns the controller page name for page, falling back to the
// page number when no state rule claims it.
func (p *Policy) PageLabel(page int) string {
	for _, rule := range p.tables.States {
		if rule.Page == page && rule.Label != "" {
			return rule.Label
		}
	}
	return strconv.Itoa(page)
}

func containsAny(name string, keywords []string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func normalize(t Tables) Tables {
	out := Tables{
		Title:    lowerAll(t.Title),
		Icon:     lowerAll(t.Icon),
		Bar:      lowerAll(t.Bar),
		Grip:     lowerAll(t.Grip),
		Denylist: lowerAll(t.Denylist),
	}
	for _, rule := range t.States {
		rule.Keywords = lowerAll(rule.Keywords)
		out.States = append(out.States, rule)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// denyPattern turns a plain denylist entry into a substring glob.
func denyPattern(entry string) string {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if strings.ContainsAny(entry, "*?[{") {
		return entry
	}
	return "*" + entry + "*"
}
