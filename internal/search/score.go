package search

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/orionhealth/hirag/internal/node"
)

// BM25 parameters, standard Robertson defaults.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// corpus holds per-query term statistics over a candidate set. Built
// fresh for every search; nothing here survives across calls.
type corpus struct {
	docs   []*node.Node
	tokens [][]string
	df     map[string]int
	avgLen float64
}

func newCorpus(docs []*node.Node) *corpus {
	c := &corpus{
		docs:   docs,
		tokens: make([][]string, len(docs)),
		df:     make(map[string]int),
	}

	totalLen := 0
	for i, d := range docs {
		c.tokens[i] = tokenize(d.Content)
		totalLen += len(c.tokens[i])

		seen := make(map[string]bool)
		for _, tok := range c.tokens[i] {
			if !seen[tok] {
				c.df[tok]++
				seen[tok] = true
			}
		}
	}
	if len(docs) > 0 {
		c.avgLen = float64(totalLen) / float64(len(docs))
	}
	return c
}

// bm25 computes the Okapi BM25 score of document i against queryTokens.
func (c *corpus) bm25(queryTokens []string, i int) float64 {
	docLen := float64(len(c.tokens[i]))
	if docLen == 0 || c.avgLen == 0 {
		return 0
	}

	tf := make(map[string]int)
	for _, tok := range c.tokens[i] {
		tf[tok]++
	}

	n := float64(len(c.docs))
	score := 0.0
	for _, q := range queryTokens {
		f := float64(tf[q])
		if f == 0 {
			continue
		}
		df := float64(c.df[q])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*docLen/c.avgLen))
	}
	return score
}

// relevance computes normalized BM25 scores in [0,1] for every document.
func (c *corpus) relevance(queryTokens []string) []float64 {
	scores := make([]float64, len(c.docs))
	maxScore := 0.0
	for i := range c.docs {
		scores[i] = c.bm25(queryTokens, i)
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	if maxScore > 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}
	return scores
}

// lexicalOverlap is the fraction of query tokens present in document i.
func (c *corpus) lexicalOverlap(queryTokens []string, i int) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	docSet := make(map[string]bool, len(c.tokens[i]))
	for _, tok := range c.tokens[i] {
		docSet[tok] = true
	}
	hits := 0
	for _, q := range queryTokens {
		if docSet[q] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

// similarity measures content closeness between two documents: embedding
// cosine when both sides carry one, token Jaccard otherwise.
func (c *corpus) similarity(i, j int) float64 {
	a, b := c.docs[i], c.docs[j]
	if a.Embedding != nil && b.Embedding != nil {
		return cosine(a.Embedding.Slice(), b.Embedding.Slice())
	}
	return jaccard(c.tokens[i], c.tokens[j])
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, tok := range a {
		setA[tok] = true
	}
	setB := make(map[string]bool, len(b))
	for _, tok := range b {
		setB[tok] = true
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

type ranked struct {
	index int
	score float64
}

// rankBM25 orders documents by BM25 score descending. Documents sharing
// no terms with the query are not results.
func rankBM25(c *corpus, queryTokens []string, limit int) []ranked {
	scores := c.relevance(queryTokens)
	out := make([]ranked, 0, len(c.docs))
	for i := range c.docs {
		if scores[i] > 0 {
			out = append(out, ranked{index: i, score: scores[i]})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].score > out[b].score
	})
	return truncate(out, limit)
}

// rankRecency scores by an exponential decay of record age with the given
// half-life; equal-age ties fall back to lexical overlap with the query.
func rankRecency(c *corpus, queryTokens []string, now time.Time, halfLife time.Duration, limit int) []ranked {
	out := make([]ranked, len(c.docs))
	overlap := make([]float64, len(c.docs))
	for i, d := range c.docs {
		age := now.Sub(d.Metadata.CreatedAt)
		if age < 0 {
			age = 0
		}
		out[i] = ranked{index: i, score: math.Exp2(-age.Hours() / halfLife.Hours())}
		overlap[i] = c.lexicalOverlap(queryTokens, i)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].score != out[b].score {
			return out[a].score > out[b].score
		}
		return overlap[out[a].index] > overlap[out[b].index]
	})
	return truncate(out, limit)
}

// rankDiversity greedily selects results that maximize spread across
// record types and content distance, subject to a minimum relevance floor.
func rankDiversity(c *corpus, queryTokens []string, floor float64, limit int) []ranked {
	relevance := c.relevance(queryTokens)

	candidates := make([]int, 0, len(c.docs))
	for i := range c.docs {
		if relevance[i] >= floor {
			candidates = append(candidates, i)
		}
	}

	var selected []ranked
	selectedTypes := make(map[string]bool)
	taken := make(map[int]bool)

	for len(selected) < limit && len(selected) < len(candidates) {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for _, i := range candidates {
			if taken[i] {
				continue
			}
			score := relevance[i]
			if len(selected) > 0 {
				// Distance to the closest already-selected result.
				minDist := math.Inf(1)
				for _, s := range selected {
					if d := 1 - c.similarity(i, s.index); d < minDist {
						minDist = d
					}
				}
				score += minDist
			}
			if !selectedTypes[c.docs[i].Metadata.RecordType] {
				score += 0.5
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		taken[bestIdx] = true
		selectedTypes[c.docs[bestIdx].Metadata.RecordType] = true
		selected = append(selected, ranked{index: bestIdx, score: relevance[bestIdx]})
	}
	return selected
}

// rankMMR iteratively balances relevance against redundancy with the
// already-selected set using the fixed trade-off parameter lambda.
func rankMMR(c *corpus, queryTokens []string, lambda float64, limit int) []ranked {
	relevance := c.relevance(queryTokens)

	var selected []ranked
	taken := make(map[int]bool)

	for len(selected) < limit && len(selected) < len(c.docs) {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i := range c.docs {
			if taken[i] {
				continue
			}
			redundancy := 0.0
			for _, s := range selected {
				if sim := c.similarity(i, s.index); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance[i] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		taken[bestIdx] = true
		selected = append(selected, ranked{index: bestIdx, score: relevance[bestIdx]})
	}
	return selected
}

func truncate(r []ranked, limit int) []ranked {
	if limit > 0 && len(r) > limit {
		return r[:limit]
	}
	return r
}
