package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orionhealth/hirag/internal/config"
	"github.com/orionhealth/hirag/internal/node"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultLimit:    10,
		MaxLimit:        100,
		MMRLambda:       0.7,
		DiversityFloor:  0.05,
		RecencyHalfLife: 7 * 24 * time.Hour,
		DefaultMaxHops:  2,
		DefaultTopK:     3,
	}
}

// seedHierarchy creates three observations, a layer-1 summary over all of
// them and a layer-2 summary over the layer-1 node.
func seedHierarchy(t *testing.T, store node.Store) (leafIDs []uuid.UUID, l1, l2 uuid.UUID) {
	t.Helper()
	eng := node.NewEngine(store, "patient-1")
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	contents := []string{
		"morning headache with nausea",
		"headache resolved after rest",
		"blood pressure 130/85 measured at home",
	}
	var sources []string
	for i, content := range contents {
		id, err := eng.AddNode(ctx, content, node.Metadata{
			RecordType: node.TypeSymptom,
			Layer:      0,
			CreatedAt:  base.AddDate(0, 0, i),
		}, nil)
		if err != nil {
			t.Fatalf("AddNode() error = %v", err)
		}
		leafIDs = append(leafIDs, id)
		sources = append(sources, id.String())
	}

	var err error
	l1, err = eng.CreateSummaryNode(ctx, "Week of recurring headaches, blood pressure slightly high", sources, 1, node.TypePeriodSummary)
	if err != nil {
		t.Fatalf("CreateSummaryNode() error = %v", err)
	}
	l2, err = eng.CreateSummaryNode(ctx, "May: tension-type headache episode", []string{l1.String()}, 2, node.TypePeriodSummary)
	if err != nil {
		t.Fatalf("CreateSummaryNode() error = %v", err)
	}
	return leafIDs, l1, l2
}

func TestRetriever_SearchRanksAcrossLayers(t *testing.T) {
	store := node.NewMemStore()
	seedHierarchy(t, store)
	r := NewRetriever(store, "patient-1", testSearchConfig())

	ids, err := r.Search(context.Background(), "headache", 10, StrategyBM25)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ids) < 3 {
		t.Fatalf("expected hits across layers, got %d", len(ids))
	}
}

func TestRetriever_MultiHopAttachesSummaryContext(t *testing.T) {
	store := node.NewMemStore()
	leafIDs, l1, l2 := seedHierarchy(t, store)
	r := NewRetriever(store, "patient-1", testSearchConfig())

	results, err := r.MultiHop(context.Background(), "headache", 2, 1, StrategyBM25)
	if err != nil {
		t.Fatalf("MultiHop() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(results))
	}

	hit := results[0]
	if hit.Layer != 0 {
		t.Fatalf("hits must come from layer 0, got layer %d", hit.Layer)
	}
	isLeaf := false
	for _, id := range leafIDs {
		if hit.NodeID == id.String() {
			isLeaf = true
		}
	}
	if !isLeaf {
		t.Fatalf("hit %s is not one of the seeded observations", hit.NodeID)
	}
	if hit.RelevanceScore <= 0 {
		t.Fatalf("expected positive relevance score, got %v", hit.RelevanceScore)
	}

	// Two hops reach the layer-1 and transitively the layer-2 summary,
	// ordered layer ascending.
	if len(hit.Context) != 2 {
		t.Fatalf("expected 2 context nodes, got %d", len(hit.Context))
	}
	if hit.Context[0].NodeID != l1.String() || hit.Context[1].NodeID != l2.String() {
		t.Fatalf("unexpected context order: %s, %s", hit.Context[0].NodeID, hit.Context[1].NodeID)
	}
}

func TestRetriever_MultiHopBoundedByHops(t *testing.T) {
	store := node.NewMemStore()
	_, l1, _ := seedHierarchy(t, store)
	r := NewRetriever(store, "patient-1", testSearchConfig())

	results, err := r.MultiHop(context.Background(), "headache", 1, 1, StrategyBM25)
	if err != nil {
		t.Fatalf("MultiHop() error = %v", err)
	}
	hit := results[0]
	if len(hit.Context) != 1 {
		t.Fatalf("one hop should reach only the direct summary, got %d context nodes", len(hit.Context))
	}
	if hit.Context[0].NodeID != l1.String() {
		t.Fatalf("expected the layer-1 summary, got %s", hit.Context[0].NodeID)
	}
}

func TestRetriever_MultiHopDeduplicatesAcrossHits(t *testing.T) {
	store := node.NewMemStore()
	seedHierarchy(t, store)
	r := NewRetriever(store, "patient-1", testSearchConfig())

	// Both headache observations share the same summary chain; with two
	// hits the shared summaries must appear exactly once overall.
	results, err := r.MultiHop(context.Background(), "headache", 2, 2, StrategyBM25)
	if err != nil {
		t.Fatalf("MultiHop() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, hit := range results {
		if seen[hit.NodeID] {
			t.Fatalf("node %s appears twice", hit.NodeID)
		}
		seen[hit.NodeID] = true
		for _, ctxNode := range hit.Context {
			if seen[ctxNode.NodeID] {
				t.Fatalf("context node %s appears twice", ctxNode.NodeID)
			}
			seen[ctxNode.NodeID] = true
		}
	}
}

// flakyStore fails the Nth QueryByLayer call and delegates everything else.
type flakyStore struct {
	node.Store
	failOn int64
	calls  atomic.Int64
}

func (f *flakyStore) QueryByLayer(ctx context.Context, layer int, filter node.LayerFilter) ([]*node.Node, error) {
	if f.calls.Add(1) == f.failOn {
		return nil, errors.New("storage offline")
	}
	return f.Store.QueryByLayer(ctx, layer, filter)
}

func TestRetriever_CompareStrategiesCapturesFailuresInline(t *testing.T) {
	mem := node.NewMemStore()
	seedHierarchy(t, mem)
	store := &flakyStore{Store: mem, failOn: 1}
	r := NewRetriever(store, "patient-1", testSearchConfig())

	results := r.CompareStrategies(context.Background(), "headache", 5)
	if len(results) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(results))
	}

	failed := 0
	for strategy, ids := range results {
		if len(ids) == 1 && strings.HasPrefix(ids[0], "error:") {
			failed++
			continue
		}
		if len(ids) == 0 {
			t.Fatalf("strategy %s returned no results and no error", strategy)
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly 1 inline error entry, got %d", failed)
	}
}

func TestRetriever_SmartSearchCombinesDirectAndHierarchical(t *testing.T) {
	store := node.NewMemStore()
	seedHierarchy(t, store)
	r := NewRetriever(store, "patient-1", testSearchConfig())

	result, err := r.SmartSearch(context.Background(), "recent headache symptom history", 5)
	if err != nil {
		t.Fatalf("SmartSearch() error = %v", err)
	}

	if result.Strategy != StrategyBM25 {
		t.Fatalf("medical wording should select BM25, got %v", result.Strategy)
	}
	if result.Explanation != StrategyBM25.Explain() {
		t.Fatalf("explanation does not match strategy")
	}
	if len(result.DirectResults) == 0 {
		t.Fatalf("expected direct results")
	}
	if !result.HasHierarchicalContext() {
		t.Fatalf("expected hierarchical context on at least one hit")
	}
	if result.SearchTime.IsZero() {
		t.Fatalf("expected search time to be stamped")
	}
	if result.TotalResults() != len(result.DirectResults)+len(result.HierarchicalResults) {
		t.Fatalf("TotalResults() inconsistent")
	}
}

func TestRetriever_SearchScopedToPatient(t *testing.T) {
	store := node.NewMemStore()
	seedHierarchy(t, store)

	other := node.NewEngine(store, "patient-2")
	if _, err := other.Ingest(context.Background(), "headache reported by someone else", node.TypeSymptom, nil); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	r := NewRetriever(store, "patient-2", testSearchConfig())
	ids, err := r.Search(context.Background(), "headache", 10, StrategyBM25)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected only patient-2's node, got %d results", len(ids))
	}
}
