// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

var (
	// ErrDimension is returned for vectors of the wrong dimension.
	ErrDimension = errors.New("vector dimension mismatch")
	// ErrZeroVector is returned for vectors without direction.
	ErrZeroVector = errors.New("zero vector")
)

type (
	// memVectorStorage scores every stored vector by cosine similarity.
	// "dim=<n>" fixes the dimension; otherwise the first vector sets it.
	memVectorStorage struct{}

	memVectorClient struct {
		mu      sync.RWMutex
		dim     int
		ids     []uint32
		vectors map[uint32][]float32
		norms   map[uint32]float64
		closed  bool
	}
)

func (memVectorStorage) CreateClient(config string, _ module.FileLocator) (module.VectorStorageClient, error) {
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	dim, err := cfg.Int("dim", 0)
	if err != nil {
		return nil, err
	}
	if dim < 0 {
		return nil, fmt.Errorf("%w: dim must not be negative", cfgstr.ErrSyntax)
	}
	return &memVectorClient{
		dim:     dim,
		vectors: map[uint32][]float32{},
		norms:   map[uint32]float64{},
	}, nil
}

func (c *memVectorClient) Add(id uint32, vec []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.dim == 0 {
		c.dim = len(vec)
	}
	if len(vec) != c.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(vec), c.dim)
	}
	n := norm(vec)
	if n == 0 {
		return ErrZeroVector
	}
	if _, ok := c.vectors[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.vectors[id] = slices.Clone(vec)
	c.norms[id] = n
	return nil
}

// Nearest returns up to k stored vectors ordered by descending cosine
// similarity, ties by ascending id.
func (c *memVectorClient) Nearest(vec []float32, k int) ([]module.VectorMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	if k <= 0 {
		return nil, nil
	}
	if c.dim != 0 && len(vec) != c.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(vec), c.dim)
	}
	qn := norm(vec)
	if qn == 0 {
		return nil, ErrZeroVector
	}

	matches := make([]module.VectorMatch, 0, len(c.ids))
	for _, id := range c.ids {
		var dot float64
		for i, x := range c.vectors[id] {
			dot += float64(x) * float64(vec[i])
		}
		matches = append(matches, module.VectorMatch{ID: id, Weight: dot / (qn * c.norms[id])})
	}
	slices.SortFunc(matches, func(a, b module.VectorMatch) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (c *memVectorClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func norm(vec []float32) float64 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
