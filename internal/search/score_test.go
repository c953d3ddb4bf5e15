package search

import (
	"math"
	"testing"
	"time"

	"github.com/orionhealth/hirag/internal/node"
)

func docsFromContents(contents ...string) []*node.Node {
	docs := make([]*node.Node, len(contents))
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range contents {
		docs[i] = &node.Node{
			Content: c,
			Metadata: node.Metadata{
				CreatedAt:  base.Add(time.Duration(i) * time.Hour),
				RecordType: node.TypeSymptom,
			},
		}
	}
	return docs
}

func TestRankBM25_PrefersTermMatches(t *testing.T) {
	docs := docsFromContents(
		"persistent headache since Monday",
		"blood glucose reading 110",
		"mild headache after exercise, headache recurring",
	)
	c := newCorpus(docs)

	out := rankBM25(c, tokenize("headache"), 10)
	if len(out) != 2 {
		t.Fatalf("expected 2 matching docs, got %d", len(out))
	}
	for _, r := range out {
		if r.index == 1 {
			t.Fatalf("non-matching doc ranked as a result")
		}
	}
	if out[0].score < out[1].score {
		t.Fatalf("results not sorted by score")
	}
}

func TestRankBM25_ScoresNormalized(t *testing.T) {
	docs := docsFromContents("fever and chills", "fever", "no complaints")
	c := newCorpus(docs)

	out := rankBM25(c, tokenize("fever"), 10)
	for _, r := range out {
		if r.score <= 0 || r.score > 1 {
			t.Fatalf("score %v outside (0,1]", r.score)
		}
	}
	if out[0].score != 1 {
		t.Fatalf("top score should normalize to 1, got %v", out[0].score)
	}
}

func TestRankRecency_NewestFirst(t *testing.T) {
	docs := docsFromContents("oldest entry", "middle entry", "newest entry")
	c := newCorpus(docs)
	now := docs[2].Metadata.CreatedAt.Add(time.Hour)

	out := rankRecency(c, nil, now, 7*24*time.Hour, 10)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	if out[0].index != 2 || out[2].index != 0 {
		t.Fatalf("expected newest-first, got order %d,%d,%d", out[0].index, out[1].index, out[2].index)
	}
}

func TestRankRecency_TieBrokenByOverlap(t *testing.T) {
	docs := docsFromContents("entry about sleep", "entry about appetite")
	docs[1].Metadata.CreatedAt = docs[0].Metadata.CreatedAt
	c := newCorpus(docs)
	now := docs[0].Metadata.CreatedAt.Add(time.Hour)

	out := rankRecency(c, tokenize("appetite"), now, 7*24*time.Hour, 10)
	if out[0].index != 1 {
		t.Fatalf("expected lexical overlap to break the tie, got index %d first", out[0].index)
	}
}

func TestRankDiversity_SpreadsRecordTypes(t *testing.T) {
	docs := docsFromContents(
		"headache pain reported",
		"headache pain worse at night",
		"headache medication ibuprofen taken",
	)
	docs[0].Metadata.RecordType = node.TypeSymptom
	docs[1].Metadata.RecordType = node.TypeSymptom
	docs[2].Metadata.RecordType = node.TypeMedication
	c := newCorpus(docs)

	out := rankDiversity(c, tokenize("headache"), 0.05, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	types := map[string]bool{
		docs[out[0].index].Metadata.RecordType: true,
		docs[out[1].index].Metadata.RecordType: true,
	}
	if len(types) != 2 {
		t.Fatalf("expected both record types represented, got %v", types)
	}
}

func TestRankDiversity_RespectsRelevanceFloor(t *testing.T) {
	docs := docsFromContents("dizziness on standing", "completely unrelated note")
	c := newCorpus(docs)

	out := rankDiversity(c, tokenize("dizziness"), 0.05, 10)
	if len(out) != 1 {
		t.Fatalf("expected only the relevant doc, got %d results", len(out))
	}
	if out[0].index != 0 {
		t.Fatalf("expected doc 0, got %d", out[0].index)
	}
}

func TestRankMMR_PenalizesRedundancy(t *testing.T) {
	docs := docsFromContents(
		"chest pain when climbing stairs",
		"chest pain when climbing stairs today",
		"shortness of breath with chest pain",
	)
	c := newCorpus(docs)

	out := rankMMR(c, tokenize("chest pain"), 0.7, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	// The second pick should not be the near-duplicate of the first.
	first, second := out[0].index, out[1].index
	if (first == 0 && second == 1) || (first == 1 && second == 0) {
		t.Fatalf("MMR selected near-duplicates %d and %d", first, second)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected cosine 1, got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("expected cosine 0, got %v", got)
	}
	if got := cosine(nil, []float32{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched lengths, got %v", got)
	}
}

func TestJaccard(t *testing.T) {
	a := tokenize("fever and chills")
	b := tokenize("fever without chills")
	got := jaccard(a, b)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected jaccard 0.5, got %v", got)
	}
}
