package node

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an embedded in-memory Store. It backs offline deployments
// where no PostgreSQL instance is reachable, and the package tests. Nodes
// are held in an arena keyed by id with a per-layer index; the summary_of
// back-references are discovered by scanning, never by forward pointers.
type MemStore struct {
	mu      sync.RWMutex
	nodes   map[uuid.UUID]*Node
	byLayer map[int][]uuid.UUID
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		nodes:   make(map[uuid.UUID]*Node),
		byLayer: make(map[int][]uuid.UUID),
	}
}

func (s *MemStore) Create(_ context.Context, n *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("create node %s: duplicate id: %w", n.ID, ErrInvalidInput)
	}

	stored := *n
	s.nodes[n.ID] = &stored
	s.byLayer[n.Metadata.Layer] = append(s.byLayer[n.Metadata.Layer], n.ID)
	return nil
}

func (s *MemStore) Get(_ context.Context, id uuid.UUID) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("get node %s: %w", id, ErrNotFound)
	}
	copied := *n
	return &copied, nil
}

func (s *MemStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	delete(s.nodes, id)

	ids := s.byLayer[n.Metadata.Layer]
	for i, candidate := range ids {
		if candidate == id {
			s.byLayer[n.Metadata.Layer] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) QueryByLayer(_ context.Context, layer int, filter LayerFilter) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []*Node
	for _, id := range s.byLayer[layer] {
		n := s.nodes[id]
		if !filter.Matches(n.Metadata) {
			continue
		}
		copied := *n
		nodes = append(nodes, &copied)
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Metadata.CreatedAt.After(nodes[j].Metadata.CreatedAt)
	})
	return nodes, nil
}

func (s *MemStore) QuerySummariesOf(_ context.Context, id uuid.UUID) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := id.String()
	var nodes []*Node
	for _, n := range s.nodes {
		for _, src := range n.Metadata.SummaryOf {
			if src == target {
				copied := *n
				nodes = append(nodes, &copied)
				break
			}
		}
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Metadata.Layer != nodes[j].Metadata.Layer {
			return nodes[i].Metadata.Layer < nodes[j].Metadata.Layer
		}
		return nodes[i].Metadata.CreatedAt.After(nodes[j].Metadata.CreatedAt)
	})
	return nodes, nil
}
