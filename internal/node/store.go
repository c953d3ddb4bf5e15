package node

import (
	"context"

	"github.com/google/uuid"
)

// Store is the contract over the underlying document store. The store is
// the single source of truth for nodes; no component keeps a private cache
// across calls. Implementations must provide at least read-your-writes
// consistency per call.
type Store interface {
	// Create persists a new node. The node's id must already be assigned.
	Create(ctx context.Context, n *Node) error
	// Get fetches a node by id, ErrNotFound if unknown.
	Get(ctx context.Context, id uuid.UUID) (*Node, error)
	// Delete hard-removes a node. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// QueryByLayer returns all nodes on the given layer matching the filter,
	// newest first.
	QueryByLayer(ctx context.Context, layer int, filter LayerFilter) ([]*Node, error)
	// QuerySummariesOf returns all nodes whose summary_of set contains id,
	// lowest layer first then newest first.
	QuerySummariesOf(ctx context.Context, id uuid.UUID) ([]*Node, error)
}
