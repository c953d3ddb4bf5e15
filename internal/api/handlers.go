package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orionhealth/hirag/internal/llm"
	"github.com/orionhealth/hirag/internal/node"
	"github.com/orionhealth/hirag/internal/search"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

type addNodeRequest struct {
	Content    string    `json:"content"`
	RecordType string    `json:"record_type"`
	Layer      int       `json:"layer"`
	SummaryOf  []string  `json:"summary_of,omitempty"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// POST /api/v1/nodes
func (h *Handlers) AddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := h.svc.Engine.AddNode(r.Context(), req.Content, node.Metadata{
		RecordType: req.RecordType,
		Layer:      req.Layer,
		SummaryOf:  req.SummaryOf,
	}, req.Embedding)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// GET /api/v1/nodes/{id}
func (h *Handlers) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}

	n, err := h.svc.Engine.Store().Get(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, n)
}

// DELETE /api/v1/nodes/{id}
func (h *Handlers) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}

	if err := h.svc.Engine.Store().Delete(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id.String()})
}

type searchRequest struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	MaxHops  int    `json:"max_hops,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

func (req *searchRequest) strategy() (search.Strategy, error) {
	if req.Strategy == "" {
		return search.StrategyBM25, nil
	}
	return search.ParseStrategy(req.Strategy)
}

// POST /api/v1/search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	strategy, err := req.strategy()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.svc.Retriever.Search(r.Context(), req.Query, req.Limit, strategy)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":    req.Query,
		"strategy": strategy,
		"results":  ids,
	})
}

// POST /api/v1/search/multihop
func (h *Handlers) MultiHopSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	strategy, err := req.strategy()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.svc.Retriever.MultiHop(r.Context(), req.Query, req.MaxHops, req.TopK, strategy)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": results,
	})
}

// POST /api/v1/search/compare
func (h *Handlers) CompareStrategies(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := h.svc.Retriever.CompareStrategies(r.Context(), req.Query, req.Limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": results,
	})
}

// POST /api/v1/search/smart
func (h *Handlers) SmartSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.svc.Retriever.SmartSearch(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /api/v1/strategies
func (h *Handlers) ExplainStrategies(w http.ResponseWriter, r *http.Request) {
	explanations := make(map[string]string, len(search.All()))
	for _, s := range search.All() {
		explanations[string(s)] = s.Explain()
	}
	writeJSON(w, http.StatusOK, explanations)
}

type summaryRequest struct {
	SummaryType string    `json:"summary_type"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
}

// POST /api/v1/summaries
func (h *Handlers) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	summaryType, err := llm.ParseSummaryType(req.SummaryType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Absent window: the trailing period of the summary type.
	end := req.End
	if end.IsZero() {
		end = time.Now()
	}
	start := req.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -summaryType.Days())
	}

	report, err := h.svc.Summaries.GenerateSummary(r.Context(), start, end, summaryType)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GET /api/v1/usage
func (h *Handlers) GetUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"strategy":          h.svc.Router.Strategy(),
		"network_available": h.svc.Router.NetworkAvailable(),
		"usage":             h.svc.Router.Usage(),
	})
}

// POST /api/v1/usage/reset
func (h *Handlers) ResetUsage(w http.ResponseWriter, r *http.Request) {
	h.svc.Router.ResetUsage()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

type networkRequest struct {
	Available bool `json:"available"`
}

// PUT /api/v1/network
func (h *Handlers) SetNetwork(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	h.svc.Router.SetNetworkAvailable(req.Available)
	writeJSON(w, http.StatusOK, map[string]any{"network_available": req.Available})
}

// GET /api/v1/models
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	models := []llm.ModelInfo{}
	if h.svc.Models != nil {
		models = h.svc.Models.List()
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

// Health check
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, node.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, node.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llm.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
