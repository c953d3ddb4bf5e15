package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orionhealth/hirag/internal/config"
)

// LocalAdapter talks to a locally hosted llama.cpp-style completion server.
// The inference engine itself is external; this adapter only knows its HTTP
// surface and whether a model file has been resolved for it.
type LocalAdapter struct {
	serverURL  string
	modelPath  string
	httpClient *http.Client
}

var _ Adapter = (*LocalAdapter)(nil)

// NewLocalAdapter builds an adapter for the given server. modelPath is the
// resolved local model file; empty means no model is downloaded and the
// adapter reports itself unavailable.
func NewLocalAdapter(cfg config.LocalModelConfig, modelPath string) *LocalAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LocalAdapter{
		serverURL:  cfg.ServerURL,
		modelPath:  modelPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *LocalAdapter) Available() bool {
	return a.serverURL != "" && a.modelPath != ""
}

type localCompletionRequest struct {
	Prompt      string  `json:"prompt"`
	NPredict    int     `json:"n_predict"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
}

type localCompletionResponse struct {
	Content string `json:"content"`
}

func (a *LocalAdapter) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("local model not resolved: %w", ErrUnavailable)
	}

	reqBody := localCompletionRequest{
		Prompt:      prompt,
		NPredict:    maxTokens,
		Temperature: 0.7,
		TopP:        0.9,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.serverURL+"/completion", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w: %w", err, ErrBackendFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("local completion failed (%d): %s: %w", resp.StatusCode, string(body), ErrBackendFailure)
	}

	var out localCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w: %w", err, ErrBackendFailure)
	}
	return out.Content, nil
}

func (a *LocalAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	return a.complete(ctx, prompt, 512)
}

func (a *LocalAdapter) GenerateSummary(ctx context.Context, contents []string, summaryType SummaryType) (string, error) {
	return a.complete(ctx, SummaryPrompt(contents, summaryType), 1024)
}
