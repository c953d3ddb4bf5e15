package client

import "time"

type NodeMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	RecordType string    `json:"record_type"`
	PatientID  string    `json:"patient_id"`
	Layer      int       `json:"layer"`
	SummaryOf  []string  `json:"summary_of,omitempty"`
}

type Node struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	Metadata NodeMetadata `json:"metadata"`
}

type IngestRequest struct {
	Content    string   `json:"content"`
	RecordType string   `json:"record_type"`
	Layer      int      `json:"layer,omitempty"`
	SummaryOf  []string `json:"summary_of,omitempty"`
}

type IngestResult struct {
	ID string `json:"id"`
}

type SearchRequest struct {
	Query    string `json:"query"`
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	MaxHops  int    `json:"max_hops,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

type SearchResult struct {
	Query    string   `json:"query"`
	Strategy string   `json:"strategy"`
	Results  []string `json:"results"`
}

type ContextNode struct {
	NodeID  string `json:"node_id"`
	Content string `json:"content"`
	Layer   int    `json:"layer"`
}

type MultiHopHit struct {
	NodeID         string        `json:"node_id"`
	Content        string        `json:"content"`
	Layer          int           `json:"layer"`
	Context        []ContextNode `json:"context"`
	RelevanceScore float64       `json:"relevance_score"`
}

type MultiHopResult struct {
	Query   string        `json:"query"`
	Results []MultiHopHit `json:"results"`
}

type CompareResult struct {
	Query   string              `json:"query"`
	Results map[string][]string `json:"results"`
}

type SmartSearchResult struct {
	Query               string        `json:"query"`
	Strategy            string        `json:"strategy"`
	Explanation         string        `json:"explanation"`
	DirectResults       []string      `json:"direct_results"`
	HierarchicalResults []MultiHopHit `json:"hierarchical_results"`
	SearchTime          time.Time     `json:"search_time"`
}

type SummaryRequest struct {
	SummaryType string     `json:"summary_type"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
}

type SummaryReport struct {
	Period          string   `json:"period"`
	TotalRecords    int      `json:"total_records"`
	SummaryNodeID   string   `json:"summary_node_id,omitempty"`
	Summary         string   `json:"summary"`
	KeyInsights     []string `json:"key_insights"`
	Recommendations []string `json:"recommendations"`
	UsedLLM         bool     `json:"used_llm"`
}

type UsageStats struct {
	PromptTokens     uint64 `json:"prompt_tokens"`
	CompletionTokens uint64 `json:"completion_tokens"`
	TotalTokens      uint64 `json:"total_tokens"`
	RequestsCount    uint64 `json:"requests_count"`
}

type UsageReport struct {
	Strategy         string     `json:"strategy"`
	NetworkAvailable bool       `json:"network_available"`
	Usage            UsageStats `json:"usage"`
}

type ModelInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SizeBytes  int64  `json:"size_bytes"`
	Path       string `json:"path,omitempty"`
	Downloaded bool   `json:"downloaded"`
}

type ModelsResult struct {
	Models []ModelInfo `json:"models"`
}
