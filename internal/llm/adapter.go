package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable indicates no generation backend is eligible under the
	// current routing state. This is an expected control-flow outcome, not
	// a defect.
	ErrUnavailable = errors.New("no generation backend available")
	// ErrBackendFailure indicates a reachable backend returned an error or
	// a malformed response.
	ErrBackendFailure = errors.New("generation backend failure")
)

// SummaryType labels the period a summary covers.
type SummaryType string

const (
	SummaryWeekly    SummaryType = "weekly"
	SummaryMonthly   SummaryType = "monthly"
	SummaryQuarterly SummaryType = "quarterly"
)

func ParseSummaryType(s string) (SummaryType, error) {
	switch SummaryType(strings.ToLower(s)) {
	case SummaryWeekly:
		return SummaryWeekly, nil
	case SummaryMonthly:
		return SummaryMonthly, nil
	case SummaryQuarterly:
		return SummaryQuarterly, nil
	}
	return "", fmt.Errorf("unknown summary type %q", s)
}

// Days returns the nominal period length the summary type covers.
func (t SummaryType) Days() int {
	switch t {
	case SummaryMonthly:
		return 30
	case SummaryQuarterly:
		return 90
	default:
		return 7
	}
}

// Adapter is the capability set every generation backend exposes. Exactly
// three implementations exist: LocalAdapter, GeminiAdapter and MockAdapter.
type Adapter interface {
	// Available reports whether the backend can serve requests. Cheap
	// state check, no probing.
	Available() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateSummary(ctx context.Context, contents []string, summaryType SummaryType) (string, error)
}

// TokenUsage is the per-call token accounting a cloud backend reports.
type TokenUsage struct {
	PromptTokens     uint64
	CompletionTokens uint64
	TotalTokens      uint64
}

// CloudBackend extends Adapter with the raw completion call that surfaces
// token usage, so the router can do the budget accounting itself.
type CloudBackend interface {
	Adapter
	Complete(ctx context.Context, prompt string, temperature, topP float32, maxTokens int) (string, *TokenUsage, error)
}

// MockAdapter is the test backend: never available, fixed diagnostics.
type MockAdapter struct{}

func (MockAdapter) Available() bool {
	return false
}

func (MockAdapter) GenerateText(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("mock adapter cannot generate text: %w", ErrUnavailable)
}

func (MockAdapter) GenerateSummary(_ context.Context, _ []string, summaryType SummaryType) (string, error) {
	return fmt.Sprintf("[mock] %s summary generated without a model", summaryType), nil
}

// SummaryPrompt builds the generation prompt for a period summary over the
// given record contents.
func SummaryPrompt(contents []string, summaryType SummaryType) string {
	return fmt.Sprintf(`Generate a %s summary of the following medical records:

%s

The summary must cover:
- Main diagnoses and symptoms
- Prescribed medications and treatment changes
- Relevant lab or study results
- Trends observed in vital signs
- Pending recommendations or follow-ups

Format: structured, clear text addressed to the patient.`, summaryType, strings.Join(contents, "\n\n"))
}
