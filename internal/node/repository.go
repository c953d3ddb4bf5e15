package node

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, n *Node) error {
	query := `
		INSERT INTO nodes (id, content, embedding, created_at, record_type, patient_id, layer, summary_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		n.ID, n.Content, n.Embedding,
		n.Metadata.CreatedAt, n.Metadata.RecordType, n.Metadata.PatientID,
		n.Metadata.Layer, n.Metadata.SummaryOf,
	)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Node, error) {
	query := `
		SELECT id, content, embedding, created_at, record_type, patient_id, layer, summary_of
		FROM nodes WHERE id = $1
	`
	n := &Node{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Content, &n.Embedding,
		&n.Metadata.CreatedAt, &n.Metadata.RecordType, &n.Metadata.PatientID,
		&n.Metadata.Layer, &n.Metadata.SummaryOf,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("get node %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	return n, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM nodes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return nil
}

func (r *Repository) QueryByLayer(ctx context.Context, layer int, filter LayerFilter) ([]*Node, error) {
	query := `
		SELECT id, content, embedding, created_at, record_type, patient_id, layer, summary_of
		FROM nodes WHERE layer = $1
	`
	args := []any{layer}
	argIdx := 2

	if filter.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIdx)
		args = append(args, filter.PatientID)
		argIdx++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.From)
		argIdx++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.To)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query layer %d: %w", layer, err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

func (r *Repository) QuerySummariesOf(ctx context.Context, id uuid.UUID) ([]*Node, error) {
	query := `
		SELECT id, content, embedding, created_at, record_type, patient_id, layer, summary_of
		FROM nodes WHERE summary_of @> ARRAY[$1::text]
		ORDER BY layer ASC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("query summaries of %s: %w", id, err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

func scanNodes(rows pgx.Rows) ([]*Node, error) {
	var nodes []*Node
	for rows.Next() {
		n := &Node{}
		if err := rows.Scan(
			&n.ID, &n.Content, &n.Embedding,
			&n.Metadata.CreatedAt, &n.Metadata.RecordType, &n.Metadata.PatientID,
			&n.Metadata.Layer, &n.Metadata.SummaryOf,
		); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}
