package search

import (
	"fmt"
	"strings"
)

// Strategy identifies one of the four ranking strategies. It is a pure
// classification label and is never persisted.
type Strategy string

const (
	StrategyBM25      Strategy = "bm25"
	StrategyRecency   Strategy = "recency"
	StrategyDiversity Strategy = "diversity"
	StrategyMMR       Strategy = "mmr"
)

// All returns the strategies in the order compareStrategies runs them.
func All() []Strategy {
	return []Strategy{StrategyBM25, StrategyMMR, StrategyDiversity, StrategyRecency}
}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategyBM25:
		return StrategyBM25, nil
	case StrategyRecency:
		return StrategyRecency, nil
	case StrategyDiversity:
		return StrategyDiversity, nil
	case StrategyMMR:
		return StrategyMMR, nil
	}
	return "", fmt.Errorf("unknown search strategy %q", s)
}

// Vocabulary lists for query classification. Checked in priority order:
// medical terminology wins over temporal wording, temporal over
// exploratory, and MMR is the balanced default. The ordering is a design
// decision (precision > recency > breadth > balanced) and must not change,
// or strategy explanations stop being reproducible.
var medicalTerms = []string{
	"diagnosis", "symptom", "medication", "treatment", "prescription",
	"dose", "lab result", "test result", "diabetes", "hypertension",
	"allergy", "pain", "blood pressure", "cholesterol",
}

var temporalTerms = []string{
	"recent", "latest", "last", "current", "today", "yesterday",
	"this week", "this month", "new",
}

var exploratoryTerms = []string{
	"all", "different", "variety", "types", "options",
	"alternatives", "what else", "overview",
}

// SelectStrategy classifies a free-text query into a ranking strategy via
// case-insensitive substring matching. Total and deterministic: only the
// first matching category wins.
func SelectStrategy(query string) Strategy {
	q := strings.ToLower(query)

	for _, term := range medicalTerms {
		if strings.Contains(q, term) {
			return StrategyBM25
		}
	}
	for _, term := range temporalTerms {
		if strings.Contains(q, term) {
			return StrategyRecency
		}
	}
	for _, term := range exploratoryTerms {
		if strings.Contains(q, term) {
			return StrategyDiversity
		}
	}
	return StrategyMMR
}

// Explain returns the fixed user-facing rationale for a strategy choice.
func (s Strategy) Explain() string {
	switch s {
	case StrategyBM25:
		return "Using BM25: your query contains specific medical terms. This strategy prioritizes exact keyword matches."
	case StrategyRecency:
		return "Using Recency: your query asks for recent information. This strategy prioritizes the newest records."
	case StrategyDiversity:
		return "Using Diversity: your query is exploratory. This strategy maximizes the variety of results."
	case StrategyMMR:
		return "Using MMR (Maximal Marginal Relevance): this strategy balances relevance and diversity for well-rounded results."
	}
	return "Unknown strategy."
}
