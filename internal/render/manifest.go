package render

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/mvp-joe/componentize/internal/node"
)

// ErrNilNode indicates an enqueue request without a node.
var ErrNilNode = errors.New("nil node")

// Namespace seeds the deterministic resource identifiers of rendered assets.
var Namespace = uuid.MustParse("6f1c2a52-58a4-4b8e-9a53-0c7f1d8b2e41")

// Job is one pending render request.
type Job struct {
	ResourceID string `json:"resourceId" yaml:"resourceId"`
	NodeID     string `json:"nodeId" yaml:"nodeId"`
	SourceID   string `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
	Name       string `json:"name" yaml:"name"`
	Suffix     string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	FileName   string `json:"fileName" yaml:"fileName"`
}

// Manifest is an in-process Pipeline that records render jobs for a
// downstream renderer. Identifiers are derived from the node's source id (or
// id) and the variant suffix, so repeated requests for the same render
// collapse into one job.
type Manifest struct {
	mu    sync.Mutex
	jobs  []Job
	index map[string]int
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{index: make(map[string]int)}
}

// Enqueue records a render job for n.
func (m *Manifest) Enqueue(n *node.Node, variantSuffix string) (Asset, error) {
	if n == nil {
		return Asset{}, ErrNilNode
	}

	key := n.SourceID
	if key == "" {
		key = n.ID
	}
	key += variantSuffix
	id := uuid.NewSHA1(Namespace, []byte(key)).String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[id]; ok {
		job := m.jobs[i]
		return Asset{ResourceID: job.ResourceID, Width: job.Width, Height: job.Height}, nil
	}

	job := Job{
		ResourceID: id,
		NodeID:     n.ID,
		SourceID:   n.SourceID,
		Name:       n.Name,
		Suffix:     variantSuffix,
		Width:      int(math.Ceil(n.Geometry.Width)),
		Height:     int(math.Ceil(n.Geometry.Height)),
		FileName:   id + ".png",
	}
	m.index[id] = len(m.jobs)
	m.jobs = append(m.jobs, job)

	return Asset{ResourceID: job.ResourceID, Width: job.Width, Height: job.Height}, nil
}

// Scan enqueues every node without a variant suffix and binds the resulting
// resource to the node's content.
func (m *Manifest) Scan(nodes []*node.Node) error {
	var errs []error
	for _, n := range nodes {
		asset, err := m.Enqueue(n, "")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if n.Content == nil {
			n.Content = &node.Content{}
		}
		n.Content.Resource = asset.ResourceID
		n.Content.FileName = asset.ResourceID + ".png"
	}
	return errors.Join(errs...)
}

// Jobs returns a copy of the recorded jobs in enqueue order.
func (m *Manifest) Jobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Job, len(m.jobs))
	copy(out, m.jobs)
	return out
}
