package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ModelInfo describes a model file in the local cache.
type ModelInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SizeBytes  int64  `json:"size_bytes"`
	Path       string `json:"path"`
	Downloaded bool   `json:"downloaded"`
}

// DownloadProgress reports streaming download state to a callback.
type DownloadProgress struct {
	DownloadedBytes int64
	TotalBytes      int64
	Percentage      float64
}

// knownModels maps model ids to their HuggingFace download sources.
var knownModels = map[string]string{
	"phi-3-mini-4k-instruct-q4": "https://huggingface.co/microsoft/Phi-3-mini-4k-instruct-gguf/resolve/main/Phi-3-mini-4k-instruct-q4.gguf",
}

// ModelManager acquires and caches local model files (.gguf). It scans a
// cache directory, resolves model ids to file paths and downloads missing
// files with progress reporting.
type ModelManager struct {
	dir        string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]ModelInfo
}

func NewModelManager(dir string) *ModelManager {
	return &ModelManager{
		dir: dir,
		// Model files run to gigabytes; rely on context for cancellation
		// instead of a client timeout.
		httpClient: &http.Client{},
		cache:      make(map[string]ModelInfo),
	}
}

// Init creates the cache directory if needed and scans it.
func (m *ModelManager) Init() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}
	return m.Refresh()
}

// Refresh rescans the cache directory.
func (m *ModelManager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache = make(map[string]ModelInfo)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("scan models dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gguf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := strings.ToLower(strings.TrimSuffix(entry.Name(), ".gguf"))
		m.cache[id] = ModelInfo{
			ID:         id,
			Name:       entry.Name(),
			SizeBytes:  info.Size(),
			Path:       filepath.Join(m.dir, entry.Name()),
			Downloaded: true,
		}
	}
	return nil
}

// List returns the cached models.
func (m *ModelManager) List() []ModelInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	models := make([]ModelInfo, 0, len(m.cache))
	for _, info := range m.cache {
		models = append(models, info)
	}
	return models
}

// IsDownloaded reports whether the model file is present locally.
func (m *ModelManager) IsDownloaded(modelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cache[strings.ToLower(modelID)]
	return ok
}

// Resolve returns the local file path for a downloaded model.
func (m *ModelManager) Resolve(modelID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.cache[strings.ToLower(modelID)]
	if !ok {
		return "", fmt.Errorf("model %q not downloaded", modelID)
	}
	return info.Path, nil
}

// Download fetches a known model into the cache, reporting progress to the
// optional callback. Returns the local path; an already-present file is
// returned as-is without re-downloading.
func (m *ModelManager) Download(ctx context.Context, modelID string, progress func(DownloadProgress)) (string, error) {
	url, ok := knownModels[strings.ToLower(modelID)]
	if !ok {
		return "", fmt.Errorf("unknown model %q", modelID)
	}

	fileName := filepath.Base(url)
	destination := filepath.Join(m.dir, fileName)

	if _, err := os.Stat(destination); err == nil {
		return destination, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", modelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download model %s: unexpected status %d", modelID, resp.StatusCode)
	}

	// Write to a temp file first so a cancelled download never leaves a
	// partial .gguf behind for the cache scan to pick up.
	tmp, err := os.CreateTemp(m.dir, fileName+".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	total := resp.ContentLength
	var downloaded int64
	lastReport := time.Now()

	buf := make([]byte, 1<<20)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				tmp.Close()
				return "", fmt.Errorf("write model file: %w", err)
			}
			downloaded += int64(n)
			if progress != nil && (time.Since(lastReport) > time.Second || downloaded == total) {
				lastReport = time.Now()
				p := DownloadProgress{DownloadedBytes: downloaded, TotalBytes: total}
				if total > 0 {
					p.Percentage = float64(downloaded) / float64(total) * 100
				}
				progress(p)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmp.Close()
			return "", fmt.Errorf("download model %s: %w", modelID, readErr)
		}
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), destination); err != nil {
		return "", fmt.Errorf("finalize model file: %w", err)
	}

	if err := m.Refresh(); err != nil {
		return "", err
	}
	return destination, nil
}
