package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) Ingest(ctx context.Context, req IngestRequest) (string, error) {
	var result IngestResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/nodes", req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("ingest: empty id in response")
	}
	return result.ID, nil
}

func (c *Client) GetNode(ctx context.Context, id string) (*Node, error) {
	var n Node
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/nodes/"+id, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNode(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/nodes/"+id, nil, nil)
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	var result SearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) MultiHopSearch(ctx context.Context, req SearchRequest) (*MultiHopResult, error) {
	var result MultiHopResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/search/multihop", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CompareStrategies(ctx context.Context, req SearchRequest) (*CompareResult, error) {
	var result CompareResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/search/compare", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SmartSearch(ctx context.Context, req SearchRequest) (*SmartSearchResult, error) {
	var result SmartSearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/search/smart", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ExplainStrategies(ctx context.Context) (map[string]string, error) {
	var result map[string]string
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/strategies", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GenerateSummary(ctx context.Context, req SummaryRequest) (*SummaryReport, error) {
	var report SummaryReport
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/summaries", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) GetUsage(ctx context.Context) (*UsageReport, error) {
	var report UsageReport
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/usage", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ResetUsage(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/usage/reset", nil, nil)
}

func (c *Client) SetNetwork(ctx context.Context, available bool) error {
	return c.doJSON(ctx, http.MethodPut, "/api/v1/network", map[string]bool{"available": available}, nil)
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var result ModelsResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/models", nil, &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error %s: %s", resp.Status, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
