package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/orionhealth/hirag/internal/config"
	"github.com/orionhealth/hirag/internal/node"
)

// Layers are strictly decreasing along summary_of edges, so the hierarchy
// can never be deeper than the scan ceiling in practice.
const maxLayerScan = 16

// ContextNode is a node reached by traversal from a direct hit.
type ContextNode struct {
	NodeID  string `json:"node_id"`
	Content string `json:"content"`
	Layer   int    `json:"layer"`
}

// MultiHopResult is a direct hit plus the summary context that transitively
// includes it. Purely transient, constructed per query.
type MultiHopResult struct {
	NodeID         string        `json:"node_id"`
	Content        string        `json:"content"`
	Layer          int           `json:"layer"`
	Context        []ContextNode `json:"context"`
	RelevanceScore float64       `json:"relevance_score"`
}

// SmartSearchResult aggregates direct and hierarchical results for one query.
type SmartSearchResult struct {
	Query               string           `json:"query"`
	Strategy            Strategy         `json:"strategy"`
	Explanation         string           `json:"explanation"`
	DirectResults       []string         `json:"direct_results"`
	HierarchicalResults []MultiHopResult `json:"hierarchical_results"`
	SearchTime          time.Time        `json:"search_time"`
}

// TotalResults returns the number of unique results across both views.
func (r *SmartSearchResult) TotalResults() int {
	return len(r.DirectResults) + len(r.HierarchicalResults)
}

// HasHierarchicalContext reports whether any hit carries summary context.
func (r *SmartSearchResult) HasHierarchicalContext() bool {
	for _, hr := range r.HierarchicalResults {
		if len(hr.Context) > 0 {
			return true
		}
	}
	return false
}

// Retriever ranks nodes from the store under a strategy and walks the
// summary_of back-reference graph for hierarchical context. It holds no
// state across calls beyond its configuration.
type Retriever struct {
	store     node.Store
	patientID string
	cfg       config.SearchConfig
	now       func() time.Time
}

func NewRetriever(store node.Store, patientID string, cfg config.SearchConfig) *Retriever {
	return &Retriever{store: store, patientID: patientID, cfg: cfg, now: time.Now}
}

func (r *Retriever) clampLimit(limit int) int {
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}
	if r.cfg.MaxLimit > 0 && limit > r.cfg.MaxLimit {
		limit = r.cfg.MaxLimit
	}
	return limit
}

// loadLayers reads the hierarchy bottom-up until the first empty layer.
func (r *Retriever) loadLayers(ctx context.Context, maxLayers int) ([]*node.Node, error) {
	var docs []*node.Node
	for layer := 0; layer < maxLayers; layer++ {
		nodes, err := r.store.QueryByLayer(ctx, layer, node.LayerFilter{PatientID: r.patientID})
		if err != nil {
			return nil, fmt.Errorf("load layer %d: %w", layer, err)
		}
		if len(nodes) == 0 {
			break
		}
		docs = append(docs, nodes...)
	}
	return docs, nil
}

func (r *Retriever) rank(docs []*node.Node, query string, strategy Strategy, limit int) []ranked {
	c := newCorpus(docs)
	queryTokens := tokenize(query)

	switch strategy {
	case StrategyBM25:
		return rankBM25(c, queryTokens, limit)
	case StrategyRecency:
		return rankRecency(c, queryTokens, r.now(), r.cfg.RecencyHalfLife, limit)
	case StrategyDiversity:
		return rankDiversity(c, queryTokens, r.cfg.DiversityFloor, limit)
	default:
		return rankMMR(c, queryTokens, r.cfg.MMRLambda, limit)
	}
}

// Search returns node ids across all layers ranked under the strategy.
func (r *Retriever) Search(ctx context.Context, query string, limit int, strategy Strategy) ([]string, error) {
	limit = r.clampLimit(limit)

	docs, err := r.loadLayers(ctx, maxLayerScan)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, limit)
	for _, hit := range r.rank(docs, query, strategy, limit) {
		ids = append(ids, docs[hit.index].ID.String())
	}
	return ids, nil
}

// MultiHop finds the top-k matching layer-0 nodes, then walks the
// summary_of back-reference graph upward for up to maxHops hops, attaching
// every summary node that transitively includes the hit. Context entries
// are ordered layer ascending then newest first; no node id appears twice
// across the returned results.
func (r *Retriever) MultiHop(ctx context.Context, query string, maxHops, topK int, strategy Strategy) ([]MultiHopResult, error) {
	if maxHops <= 0 {
		maxHops = r.cfg.DefaultMaxHops
	}
	if maxHops < 1 {
		maxHops = 1
	}
	if topK <= 0 {
		topK = r.cfg.DefaultTopK
	}

	leaves, err := r.store.QueryByLayer(ctx, 0, node.LayerFilter{PatientID: r.patientID})
	if err != nil {
		return nil, fmt.Errorf("load base layer: %w", err)
	}

	hits := r.rank(leaves, query, strategy, topK)

	seen := make(map[string]bool)
	results := make([]MultiHopResult, 0, len(hits))

	for _, hit := range hits {
		leaf := leaves[hit.index]
		leafID := leaf.ID.String()
		if seen[leafID] {
			continue
		}
		seen[leafID] = true

		hitContext, err := r.collectContext(ctx, leaf.ID, maxHops, seen)
		if err != nil {
			return nil, err
		}

		results = append(results, MultiHopResult{
			NodeID:         leafID,
			Content:        leaf.Content,
			Layer:          leaf.Metadata.Layer,
			Context:        hitContext,
			RelevanceScore: hit.score,
		})
	}
	return results, nil
}

// collectContext performs a bounded breadth-first walk up the summary
// graph from id, marking every reached node in seen.
func (r *Retriever) collectContext(ctx context.Context, id uuid.UUID, maxHops int, seen map[string]bool) ([]ContextNode, error) {
	type reached struct {
		n *node.Node
	}
	var found []reached

	frontier := []uuid.UUID{id}
	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		var next []uuid.UUID
		for _, cur := range frontier {
			summaries, err := r.store.QuerySummariesOf(ctx, cur)
			if err != nil {
				return nil, fmt.Errorf("walk summaries of %s: %w", cur, err)
			}
			for _, s := range summaries {
				sid := s.ID.String()
				if seen[sid] {
					continue
				}
				seen[sid] = true
				found = append(found, reached{n: s})
				next = append(next, s.ID)
			}
		}
		frontier = next
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].n.Metadata.Layer != found[j].n.Metadata.Layer {
			return found[i].n.Metadata.Layer < found[j].n.Metadata.Layer
		}
		return found[i].n.Metadata.CreatedAt.After(found[j].n.Metadata.CreatedAt)
	})

	out := make([]ContextNode, 0, len(found))
	for _, f := range found {
		out = append(out, ContextNode{
			NodeID:  f.n.ID.String(),
			Content: f.n.Content,
			Layer:   f.n.Metadata.Layer,
		})
	}
	return out, nil
}

// CompareStrategies runs Search once per strategy. A failing strategy
// contributes an inline error entry instead of aborting the comparison.
func (r *Retriever) CompareStrategies(ctx context.Context, query string, limit int) map[string][]string {
	results := make(map[string][]string, len(All()))
	for _, strategy := range All() {
		ids, err := r.Search(ctx, query, limit, strategy)
		if err != nil {
			results[string(strategy)] = []string{fmt.Sprintf("error: %v", err)}
			continue
		}
		results[string(strategy)] = ids
	}
	return results
}

// SmartSearch selects a strategy for the query and combines direct search
// with multi-hop hierarchical retrieval.
func (r *Retriever) SmartSearch(ctx context.Context, query string, limit int) (*SmartSearchResult, error) {
	strategy := SelectStrategy(query)

	direct, err := r.Search(ctx, query, limit, strategy)
	if err != nil {
		return nil, err
	}

	hierarchical, err := r.MultiHop(ctx, query, r.cfg.DefaultMaxHops, r.cfg.DefaultTopK, strategy)
	if err != nil {
		return nil, err
	}

	return &SmartSearchResult{
		Query:               query,
		Strategy:            strategy,
		Explanation:         strategy.Explain(),
		DirectResults:       direct,
		HierarchicalResults: hierarchical,
		SearchTime:          r.now(),
	}, nil
}
