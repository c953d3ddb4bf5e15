package api

import (
	"github.com/orionhealth/hirag/internal/health"
	"github.com/orionhealth/hirag/internal/llm"
	"github.com/orionhealth/hirag/internal/node"
	"github.com/orionhealth/hirag/internal/search"
)

// Service bundles the components the HTTP surface exposes. Models may be
// nil when no local model directory is configured; the models endpoint
// then reports an empty list.
type Service struct {
	Engine    *node.Engine
	Retriever *search.Retriever
	Summaries *health.Generator
	Router    *llm.Router
	Models    *llm.ModelManager
}
