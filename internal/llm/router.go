package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/orionhealth/hirag/internal/config"
)

// RouterStrategy fixes which backends the router may use.
type RouterStrategy string

const (
	LocalOnly RouterStrategy = "local_only"
	CloudOnly RouterStrategy = "cloud_only"
	Hybrid    RouterStrategy = "hybrid"
)

func ParseRouterStrategy(s string) (RouterStrategy, error) {
	switch RouterStrategy(strings.ToLower(s)) {
	case LocalOnly:
		return LocalOnly, nil
	case CloudOnly:
		return CloudOnly, nil
	case Hybrid:
		return Hybrid, nil
	}
	return "", fmt.Errorf("unknown router strategy %q", s)
}

// Choice records which backend served a request.
type Choice string

const (
	ChoiceLocal Choice = "local"
	ChoiceCloud Choice = "cloud"
)

// UsageStats are the cumulative cloud counters. Process-lifetime state,
// not persisted; resettable by the caller.
type UsageStats struct {
	PromptTokens     uint64 `json:"prompt_tokens"`
	CompletionTokens uint64 `json:"completion_tokens"`
	TotalTokens      uint64 `json:"total_tokens"`
	RequestsCount    uint64 `json:"requests_count"`
}

// Router adaptively dispatches generation requests between a local and a
// cloud backend. It owns the only core-wide mutable shared state: the
// cloud usage counters and the network-availability flag, both guarded by
// a reader/writer lock so usage increments stay atomic relative to
// concurrent SelectAdapter reads. Budget enforcement is best effort; one
// in-flight request may overshoot.
type Router struct {
	strategy         RouterStrategy
	monthlyBudget    uint64
	preferLocalUnder int

	local Adapter
	cloud CloudBackend

	mu               sync.RWMutex
	networkAvailable bool
	usage            UsageStats
}

func NewRouter(cfg config.RouterConfig) (*Router, error) {
	strategy, err := ParseRouterStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &Router{
		strategy:         strategy,
		monthlyBudget:    cfg.MonthlyTokens,
		preferLocalUnder: cfg.PreferLocalUnder,
		networkAvailable: true,
	}, nil
}

// WithLocal configures the local backend.
func (r *Router) WithLocal(a Adapter) *Router {
	r.local = a
	return r
}

// WithCloud configures the cloud backend.
func (r *Router) WithCloud(c CloudBackend) *Router {
	r.cloud = c
	return r
}

// SetNetworkAvailable updates the caller-supplied connectivity signal.
// The router never probes the network itself.
func (r *Router) SetNetworkAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.networkAvailable = available
}

func (r *Router) NetworkAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.networkAvailable
}

// Usage returns a snapshot of the cloud usage counters.
func (r *Router) Usage() UsageStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage
}

// ResetUsage zeroes the cloud usage counters.
func (r *Router) ResetUsage() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = UsageStats{}
}

// Strategy returns the configured routing strategy.
func (r *Router) Strategy() RouterStrategy {
	return r.strategy
}

// Available reports whether any backend could serve a minimal request.
func (r *Router) Available() bool {
	_, err := r.SelectAdapter(0)
	return err == nil
}

func (r *Router) localAvailable() bool {
	return r.local != nil && r.local.Available()
}

// SelectAdapter decides which backend serves a prompt of the given size.
// Pure decision over current state, no I/O.
func (r *Router) SelectAdapter(promptSize int) (Choice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectLocked(promptSize)
}

func (r *Router) selectLocked(promptSize int) (Choice, error) {
	cloudReachable := r.cloud != nil && r.cloud.Available() && r.networkAvailable

	switch r.strategy {
	case LocalOnly:
		if r.localAvailable() {
			return ChoiceLocal, nil
		}
		return "", fmt.Errorf("local backend not configured under local_only: %w", ErrUnavailable)

	case CloudOnly:
		if cloudReachable {
			return ChoiceCloud, nil
		}
		return "", fmt.Errorf("cloud backend not reachable under cloud_only: %w", ErrUnavailable)
	}

	// Hybrid
	cloudEligible := cloudReachable && r.usage.TotalTokens < r.monthlyBudget
	localEligible := r.localAvailable()

	switch {
	case cloudEligible && localEligible:
		if promptSize < r.preferLocalUnder {
			return ChoiceLocal, nil
		}
		return ChoiceCloud, nil
	case cloudEligible:
		return ChoiceCloud, nil
	case localEligible:
		return ChoiceLocal, nil
	}
	return "", fmt.Errorf("no backend eligible under hybrid: %w", ErrUnavailable)
}

// recordCloudSuccess updates the usage counters after a successful cloud
// call. Failed calls never touch the budget accounting.
func (r *Router) recordCloudSuccess(usage *TokenUsage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage.RequestsCount++
	if usage != nil {
		r.usage.PromptTokens += usage.PromptTokens
		r.usage.CompletionTokens += usage.CompletionTokens
		r.usage.TotalTokens += usage.TotalTokens
	}
}

// GenerateText routes a text generation request and reports which backend
// served it. A cloud timeout is a cloud failure; the router does not fail
// over within the same request.
func (r *Router) GenerateText(ctx context.Context, prompt string) (string, Choice, error) {
	choice, err := r.SelectAdapter(len(prompt))
	if err != nil {
		return "", "", err
	}

	switch choice {
	case ChoiceLocal:
		text, err := r.local.GenerateText(ctx, prompt)
		if err != nil {
			return "", choice, fmt.Errorf("local generation: %w", err)
		}
		return text, choice, nil
	default:
		text, usage, err := r.cloud.Complete(ctx, prompt, 0.7, 0.9, 512)
		if err != nil {
			return "", choice, fmt.Errorf("cloud generation: %w", err)
		}
		r.recordCloudSuccess(usage)
		return text, choice, nil
	}
}

// GenerateSummary routes a period-summary generation request. The prompt
// size used for routing is the size of the assembled summary prompt.
func (r *Router) GenerateSummary(ctx context.Context, contents []string, summaryType SummaryType) (string, Choice, error) {
	prompt := SummaryPrompt(contents, summaryType)

	choice, err := r.SelectAdapter(len(prompt))
	if err != nil {
		return "", "", err
	}

	switch choice {
	case ChoiceLocal:
		text, err := r.local.GenerateSummary(ctx, contents, summaryType)
		if err != nil {
			return "", choice, fmt.Errorf("local summary generation: %w", err)
		}
		return text, choice, nil
	default:
		text, usage, err := r.cloud.Complete(ctx, prompt, 0.7, 0.9, 1024)
		if err != nil {
			return "", choice, fmt.Errorf("cloud summary generation: %w", err)
		}
		r.recordCloudSuccess(usage)
		return text, choice, nil
	}
}
