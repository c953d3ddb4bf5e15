package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orionhealth/hirag/internal/config"
)

type fakeLocal struct {
	out string
}

func (f fakeLocal) Available() bool { return true }

func (f fakeLocal) GenerateText(context.Context, string) (string, error) {
	return f.out, nil
}

func (f fakeLocal) GenerateSummary(context.Context, []string, SummaryType) (string, error) {
	return f.out, nil
}

type fakeCloud struct {
	out   string
	usage *TokenUsage
	fail  bool
}

func (f *fakeCloud) Available() bool { return true }

func (f *fakeCloud) Complete(context.Context, string, float32, float32, int) (string, *TokenUsage, error) {
	if f.fail {
		return "", nil, fmt.Errorf("cloud exploded: %w", ErrBackendFailure)
	}
	return f.out, f.usage, nil
}

func (f *fakeCloud) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, _, err := f.Complete(ctx, prompt, 0.7, 0.9, 512)
	return text, err
}

func (f *fakeCloud) GenerateSummary(ctx context.Context, contents []string, st SummaryType) (string, error) {
	text, _, err := f.Complete(ctx, SummaryPrompt(contents, st), 0.7, 0.9, 1024)
	return text, err
}

func hybridConfig() config.RouterConfig {
	return config.RouterConfig{Strategy: "hybrid", MonthlyTokens: 1_000_000, PreferLocalUnder: 2048}
}

func newTestRouter(t *testing.T, cfg config.RouterConfig) *Router {
	t.Helper()
	r, err := NewRouter(cfg)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return r
}

func TestSelectAdapter_HybridSmallPromptPrefersLocal(t *testing.T) {
	r := newTestRouter(t, hybridConfig()).
		WithLocal(fakeLocal{}).
		WithCloud(&fakeCloud{})

	choice, err := r.SelectAdapter(500)
	if err != nil {
		t.Fatalf("SelectAdapter() error = %v", err)
	}
	if choice != ChoiceLocal {
		t.Fatalf("expected local for prompt size 500, got %v", choice)
	}
}

func TestSelectAdapter_HybridLargePromptPrefersCloud(t *testing.T) {
	r := newTestRouter(t, hybridConfig()).
		WithLocal(fakeLocal{}).
		WithCloud(&fakeCloud{})

	choice, err := r.SelectAdapter(5000)
	if err != nil {
		t.Fatalf("SelectAdapter() error = %v", err)
	}
	if choice != ChoiceCloud {
		t.Fatalf("expected cloud for prompt size 5000, got %v", choice)
	}
}

func TestSelectAdapter_NetworkDownFallsBackToLocal(t *testing.T) {
	r := newTestRouter(t, hybridConfig()).
		WithLocal(fakeLocal{}).
		WithCloud(&fakeCloud{})

	r.SetNetworkAvailable(false)

	choice, err := r.SelectAdapter(5000)
	if err != nil {
		t.Fatalf("SelectAdapter() error = %v", err)
	}
	if choice != ChoiceLocal {
		t.Fatalf("expected local with network down, got %v", choice)
	}
}

func TestSelectAdapter_BudgetExhaustedRoutesLocal(t *testing.T) {
	cfg := hybridConfig()
	cfg.MonthlyTokens = 100
	r := newTestRouter(t, cfg).
		WithLocal(fakeLocal{out: "ok"}).
		WithCloud(&fakeCloud{out: "ok", usage: &TokenUsage{PromptTokens: 80, CompletionTokens: 40, TotalTokens: 120}})

	// Burn through the budget with one large cloud call.
	if _, choice, err := r.GenerateText(context.Background(), strings.Repeat("x", 3000)); err != nil || choice != ChoiceCloud {
		t.Fatalf("setup call: choice = %v, err = %v", choice, err)
	}

	choice, err := r.SelectAdapter(5000)
	if err != nil {
		t.Fatalf("SelectAdapter() error = %v", err)
	}
	if choice != ChoiceLocal {
		t.Fatalf("expected local after budget exhaustion, got %v", choice)
	}
}

func TestSelectAdapter_LocalOnlyWithoutLocalFails(t *testing.T) {
	cfg := hybridConfig()
	cfg.Strategy = "local_only"
	r := newTestRouter(t, cfg).WithCloud(&fakeCloud{})

	for _, size := range []int{0, 500, 5000} {
		if _, err := r.SelectAdapter(size); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("prompt size %d: expected ErrUnavailable, got %v", size, err)
		}
	}
}

func TestSelectAdapter_CloudOnlyNeedsNetwork(t *testing.T) {
	cfg := hybridConfig()
	cfg.Strategy = "cloud_only"
	r := newTestRouter(t, cfg).
		WithLocal(fakeLocal{}).
		WithCloud(&fakeCloud{})

	if choice, err := r.SelectAdapter(10); err != nil || choice != ChoiceCloud {
		t.Fatalf("expected cloud, got %v (err %v)", choice, err)
	}

	r.SetNetworkAvailable(false)
	if _, err := r.SelectAdapter(10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable with network down, got %v", err)
	}
}

func TestSelectAdapter_NoBackendsUnavailable(t *testing.T) {
	r := newTestRouter(t, hybridConfig())

	if _, err := r.SelectAdapter(100); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if r.Available() {
		t.Fatalf("Available() should be false with no backends")
	}
}

func TestSelectAdapter_MockLocalCountsAsUnavailable(t *testing.T) {
	cfg := hybridConfig()
	cfg.Strategy = "local_only"
	r := newTestRouter(t, cfg).WithLocal(MockAdapter{})

	if _, err := r.SelectAdapter(100); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("mock adapter must not be selectable, got %v", err)
	}
}

func TestRouter_UsageCountersSumExactly(t *testing.T) {
	cloud := &fakeCloud{out: "response", usage: &TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}
	cfg := hybridConfig()
	cfg.Strategy = "cloud_only"
	r := newTestRouter(t, cfg).WithCloud(cloud)
	ctx := context.Background()

	const calls = 4
	for i := 0; i < calls; i++ {
		if _, _, err := r.GenerateText(ctx, "prompt"); err != nil {
			t.Fatalf("GenerateText() error = %v", err)
		}
	}

	usage := r.Usage()
	if usage.TotalTokens != 15*calls {
		t.Fatalf("expected %d total tokens, got %d", 15*calls, usage.TotalTokens)
	}
	if usage.PromptTokens != 10*calls || usage.CompletionTokens != 5*calls {
		t.Fatalf("unexpected token split: %+v", usage)
	}
	if usage.RequestsCount != calls {
		t.Fatalf("expected %d requests, got %d", calls, usage.RequestsCount)
	}
}

func TestRouter_FailedCloudCallLeavesCountersUnchanged(t *testing.T) {
	cloud := &fakeCloud{fail: true}
	cfg := hybridConfig()
	cfg.Strategy = "cloud_only"
	r := newTestRouter(t, cfg).WithCloud(cloud)

	_, choice, err := r.GenerateText(context.Background(), "prompt")
	if !errors.Is(err, ErrBackendFailure) {
		t.Fatalf("expected ErrBackendFailure, got %v", err)
	}
	if choice != ChoiceCloud {
		t.Fatalf("failure should still report the attempted backend, got %v", choice)
	}

	if usage := r.Usage(); usage != (UsageStats{}) {
		t.Fatalf("failed call mutated counters: %+v", usage)
	}
}

func TestRouter_ResetUsage(t *testing.T) {
	cloud := &fakeCloud{out: "ok", usage: &TokenUsage{TotalTokens: 9}}
	cfg := hybridConfig()
	cfg.Strategy = "cloud_only"
	r := newTestRouter(t, cfg).WithCloud(cloud)

	if _, _, err := r.GenerateText(context.Background(), "p"); err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if r.Usage().TotalTokens != 9 {
		t.Fatalf("expected usage recorded")
	}

	r.ResetUsage()
	if usage := r.Usage(); usage != (UsageStats{}) {
		t.Fatalf("expected zeroed counters, got %+v", usage)
	}
}

func TestRouter_GenerateSummaryReportsChoice(t *testing.T) {
	r := newTestRouter(t, hybridConfig()).
		WithLocal(fakeLocal{out: "local summary"}).
		WithCloud(&fakeCloud{out: "cloud summary"})

	// Short contents produce a prompt under the threshold.
	text, choice, err := r.GenerateSummary(context.Background(), []string{"a", "b"}, SummaryWeekly)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if choice != ChoiceLocal || text != "local summary" {
		t.Fatalf("expected local summary, got %q via %v", text, choice)
	}

	// Long contents push the assembled prompt past the threshold.
	long := []string{strings.Repeat("record ", 400)}
	text, choice, err = r.GenerateSummary(context.Background(), long, SummaryWeekly)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if choice != ChoiceCloud || text != "cloud summary" {
		t.Fatalf("expected cloud summary, got %q via %v", text, choice)
	}
}

func TestParseRouterStrategy(t *testing.T) {
	for _, s := range []string{"local_only", "cloud_only", "hybrid"} {
		if _, err := ParseRouterStrategy(s); err != nil {
			t.Fatalf("ParseRouterStrategy(%q) error = %v", s, err)
		}
	}
	if _, err := ParseRouterStrategy("carrier-pigeon"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestMockAdapter(t *testing.T) {
	mock := MockAdapter{}
	if mock.Available() {
		t.Fatalf("mock must be unavailable")
	}
	if _, err := mock.GenerateText(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	out, err := mock.GenerateSummary(context.Background(), nil, SummaryMonthly)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if !strings.Contains(out, "[mock]") {
		t.Fatalf("expected fixed diagnostic, got %q", out)
	}
}
