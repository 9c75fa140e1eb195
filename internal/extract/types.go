package extract

import (
	"encoding/json"
	"fmt"

	"github.com/mvp-joe/componentize/internal/node"
)

// ResourceKind is the kind of an output artifact.
type ResourceKind string

const (
	KindImage     ResourceKind = "image"
	KindComponent ResourceKind = "component"
)

// Resource is an output artifact handed to the serializer. Component
// resources carry a frozen JSON snapshot of their canonical subtree.
type Resource struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Kind     ResourceKind    `json:"kind" yaml:"kind"`
	Hash     string          `json:"hash,omitempty" yaml:"hash,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty" yaml:"-"`
	Width    int             `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int             `json:"height,omitempty" yaml:"height,omitempty"`
	Exported bool            `json:"exported" yaml:"exported"`
	Nested   []string        `json:"nested,omitempty" yaml:"nested,omitempty"` // components this one directly contains
}

// MarshalYAML inlines the JSON payload as a YAML mapping.
func (r Resource) MarshalYAML() (any, error) {
	type plain Resource
	out := struct {
		plain   `yaml:",inline"`
		Payload any `yaml:"payload,omitempty"`
	}{plain: plain(r)}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &out.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", r.ID, err)
		}
	}
	return out, nil
}

// Document is the input of an extraction run: the laid-out forest plus any
// resources produced upstream, which pass through unchanged.
type Document struct {
	Nodes     []*node.Node `json:"nodes" yaml:"nodes"`
	Resources []*Resource  `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Result is the output of an extraction run.
type Result struct {
	Roots     []*node.Node `json:"nodes" yaml:"nodes"`
	Resources []*Resource  `json:"resources" yaml:"resources"`
	Dropped   []string     `json:"dropped,omitempty" yaml:"dropped,omitempty"` // component resources whose snapshot failed
	Stats     Stats        `json:"stats" yaml:"stats"`
}

// Resource returns the output resource with the given ID.
func (r *Result) Resource(id string) *Resource {
	for _, res := range r.Resources {
		if res.ID == id {
			return res
		}
	}
	return nil
}

// Stats counts what each phase produced.
type Stats struct {
	Nodes         int `json:"nodes" yaml:"nodes"`
	Candidates    int `json:"candidates" yaml:"candidates"`
	Groups        int `json:"groups" yaml:"groups"`
	VariantGroups int `json:"variant_groups" yaml:"variant_groups"`
	Looks         int `json:"looks" yaml:"looks"`
	References    int `json:"references" yaml:"references"`
	ShapesScanned int `json:"shapes_scanned" yaml:"shapes_scanned"`
	Controllers   int `json:"controllers" yaml:"controllers"`
	Dropped       int `json:"dropped" yaml:"dropped"`
}
