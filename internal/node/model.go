package node

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

var (
	// ErrInvalidInput indicates malformed node content or metadata.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates an unknown node id.
	ErrNotFound = errors.New("node not found")
)

// RecordType is an open string tag; the constants below cover the common
// observation types plus the synthetic type used for generated summaries.
const (
	TypeSymptom       = "symptom"
	TypeDiagnosis     = "diagnosis"
	TypeMedication    = "medication"
	TypeVitalSign     = "vital_sign"
	TypePeriodSummary = "health_period_summary"
)

// Metadata describes a node's position in the hierarchy.
type Metadata struct {
	CreatedAt  time.Time `json:"created_at"`
	RecordType string    `json:"record_type"`
	PatientID  string    `json:"patient_id"`
	Layer      int       `json:"layer"`
	SummaryOf  []string  `json:"summary_of,omitempty"` // ids of nodes this node summarizes
}

// Node is the atomic unit of memory. Nodes are immutable once created;
// corrections are represented as new nodes, never mutation.
type Node struct {
	ID        uuid.UUID        `json:"id"`
	Content   string           `json:"content"`
	Metadata  Metadata         `json:"metadata"`
	Embedding *pgvector.Vector `json:"-"`
}

// IsSummary reports whether the node lives above the raw observation layer.
func (n *Node) IsSummary() bool {
	return n.Metadata.Layer > 0
}

// LayerFilter narrows a by-layer query; zero values mean "no constraint".
type LayerFilter struct {
	PatientID string
	From      time.Time
	To        time.Time
}

// Matches reports whether md satisfies the filter. The time range is
// inclusive on both ends.
func (f LayerFilter) Matches(md Metadata) bool {
	if f.PatientID != "" && md.PatientID != f.PatientID {
		return false
	}
	if !f.From.IsZero() && md.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && md.CreatedAt.After(f.To) {
		return false
	}
	return true
}
