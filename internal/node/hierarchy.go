package node

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Engine creates nodes and enforces the layer invariants: layer 0 nodes
// carry no summary_of set, layer >= 1 nodes summarize a non-empty set of
// strictly lower-layer nodes. Existence of the referenced ids is the
// caller's responsibility; the engine does not cross-check the store to
// avoid an extra round trip.
type Engine struct {
	store     Store
	patientID string
	now       func() time.Time
}

func NewEngine(store Store, patientID string) *Engine {
	return &Engine{store: store, patientID: patientID, now: time.Now}
}

// Store exposes the engine's backing store for read-side collaborators.
func (e *Engine) Store() Store {
	return e.store
}

// PatientID returns the patient context all created nodes are tagged with.
func (e *Engine) PatientID() string {
	return e.patientID
}

// AddNode persists a node with caller-supplied metadata. The embedding is
// optional and stored as given; this package never computes embeddings.
// One store write per call, no retries; store failures propagate as-is.
func (e *Engine) AddNode(ctx context.Context, content string, md Metadata, embedding []float32) (uuid.UUID, error) {
	if content == "" {
		return uuid.Nil, fmt.Errorf("add node: empty content: %w", ErrInvalidInput)
	}
	if md.Layer < 0 {
		return uuid.Nil, fmt.Errorf("add node: negative layer %d: %w", md.Layer, ErrInvalidInput)
	}
	if md.Layer > 0 && len(md.SummaryOf) == 0 {
		return uuid.Nil, fmt.Errorf("add node: layer %d node without summary_of: %w", md.Layer, ErrInvalidInput)
	}
	if md.Layer == 0 && len(md.SummaryOf) > 0 {
		return uuid.Nil, fmt.Errorf("add node: layer 0 node with summary_of: %w", ErrInvalidInput)
	}
	if md.CreatedAt.IsZero() {
		md.CreatedAt = e.now()
	}
	if md.PatientID == "" {
		md.PatientID = e.patientID
	}

	n := &Node{
		ID:       uuid.New(),
		Content:  content,
		Metadata: md,
	}
	if embedding != nil {
		v := pgvector.NewVector(embedding)
		n.Embedding = &v
	}

	if err := e.store.Create(ctx, n); err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

// Ingest creates a layer-0 observation node.
func (e *Engine) Ingest(ctx context.Context, content, recordType string, embedding []float32) (uuid.UUID, error) {
	return e.AddNode(ctx, content, Metadata{
		RecordType: recordType,
		Layer:      0,
	}, embedding)
}

// CreateSummaryNode creates a layer >= 1 node summarizing sourceIDs. The
// patient id comes from the engine's context, not from the sources.
func (e *Engine) CreateSummaryNode(ctx context.Context, content string, sourceIDs []string, layer int, recordType string) (uuid.UUID, error) {
	if layer < 1 {
		return uuid.Nil, fmt.Errorf("create summary node: layer must be >= 1, got %d: %w", layer, ErrInvalidInput)
	}
	return e.AddNode(ctx, content, Metadata{
		RecordType: recordType,
		Layer:      layer,
		SummaryOf:  sourceIDs,
	}, nil)
}
