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

// GeminiAdapter is the cloud backend over the Gemini generateContent API.
// It keeps no usage state of its own; token accounting belongs to the
// router, which receives the per-call usage from Complete.
type GeminiAdapter struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

var _ CloudBackend = (*GeminiAdapter)(nil)

func NewGeminiAdapter(cfg config.CloudModelConfig) *GeminiAdapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiAdapter{
		apiKey:     cfg.APIKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *GeminiAdapter) Available() bool {
	return a.apiKey != ""
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     uint64 `json:"promptTokenCount"`
		CandidatesTokenCount uint64 `json:"candidatesTokenCount"`
		TotalTokenCount      uint64 `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Complete issues one generateContent call. Non-2xx responses map to
// ErrBackendFailure; the returned usage is nil when the API reports none.
func (a *GeminiAdapter) Complete(ctx context.Context, prompt string, temperature, topP float32, maxTokens int) (string, *TokenUsage, error) {
	if a.apiKey == "" {
		return "", nil, fmt.Errorf("gemini api key not configured: %w", ErrUnavailable)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.endpoint, a.model, a.apiKey)

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     temperature,
			TopP:            topP,
			MaxOutputTokens: maxTokens,
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", nil, fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("send gemini request: %w: %w", err, ErrBackendFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("gemini api error (%d): %s: %w", resp.StatusCode, string(body), ErrBackendFailure)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode gemini response: %w: %w", err, ErrBackendFailure)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("empty gemini response: %w", ErrBackendFailure)
	}

	var usage *TokenUsage
	if out.UsageMetadata != nil {
		usage = &TokenUsage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		}
	}
	return out.Candidates[0].Content.Parts[0].Text, usage, nil
}

func (a *GeminiAdapter) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, _, err := a.Complete(ctx, prompt, 0.7, 0.9, 512)
	return text, err
}

func (a *GeminiAdapter) GenerateSummary(ctx context.Context, contents []string, summaryType SummaryType) (string, error) {
	text, _, err := a.Complete(ctx, SummaryPrompt(contents, summaryType), 0.7, 0.9, 1024)
	return text, err
}
