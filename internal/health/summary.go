// Package health turns a time window of raw observations into a period
// summary: a layer-1 node in the hierarchy plus a human-readable report.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/orionhealth/hirag/internal/llm"
	"github.com/orionhealth/hirag/internal/node"
)

// Report is the outcome of one summary run. Sparse input produces a valid,
// degraded report, never an error.
type Report struct {
	Period          string   `json:"period"`
	TotalRecords    int      `json:"total_records"`
	SummaryNodeID   string   `json:"summary_node_id,omitempty"`
	Summary         string   `json:"summary"`
	KeyInsights     []string `json:"key_insights"`
	Recommendations []string `json:"recommendations"`
	UsedLLM         bool     `json:"used_llm"`
}

// Generator orchestrates the hierarchy engine and the model router.
type Generator struct {
	engine     *node.Engine
	router     *llm.Router
	minRecords int
}

func NewGenerator(engine *node.Engine, router *llm.Router, minRecords int) *Generator {
	if minRecords < 1 {
		minRecords = 3
	}
	return &Generator{engine: engine, router: router, minRecords: minRecords}
}

// GenerateSummary reads the layer-0 nodes inside [start, end], generates a
// period summary when enough records exist and a backend is eligible, and
// persists it as a layer-1 node referencing every summarized record.
func (g *Generator) GenerateSummary(ctx context.Context, start, end time.Time, summaryType llm.SummaryType) (*Report, error) {
	records, err := g.engine.Store().QueryByLayer(ctx, 0, node.LayerFilter{
		PatientID: g.engine.PatientID(),
		From:      start,
		To:        end,
	})
	if err != nil {
		return nil, fmt.Errorf("load period records: %w", err)
	}

	contents := make([]string, len(records))
	for i, r := range records {
		contents[i] = r.Content
	}

	report := &Report{
		Period:       fmt.Sprintf("%s: %s - %s", summaryType, start.Format("2006-01-02"), end.Format("2006-01-02")),
		TotalRecords: len(records),
	}

	if len(records) >= g.minRecords && g.router.Available() {
		text, choice, err := g.router.GenerateSummary(ctx, contents, summaryType)
		if err != nil {
			return nil, fmt.Errorf("generate %s summary: %w", summaryType, err)
		}

		sourceIDs := make([]string, len(records))
		for i, r := range records {
			sourceIDs[i] = r.ID.String()
		}
		summaryID, err := g.engine.CreateSummaryNode(ctx, text, sourceIDs, 1, node.TypePeriodSummary)
		if err != nil {
			return nil, fmt.Errorf("persist summary node: %w", err)
		}

		slog.Info("created period summary node", "id", summaryID, "records", len(records), "backend", choice)
		report.SummaryNodeID = summaryID.String()
		report.Summary = text
		report.UsedLLM = true
	} else {
		report.Summary = fallbackSummary(contents, summaryType)
	}

	report.KeyInsights = gatherInsights(records)
	report.Recommendations = recommendations(report.KeyInsights)
	return report, nil
}

// fallbackSummary is the rule-based template used when no model runs:
// record contents concatenated under a record-count header.
func fallbackSummary(contents []string, summaryType llm.SummaryType) string {
	return fmt.Sprintf("[Automatic %s summary]\n\nTotal records: %d\n\n%s",
		summaryType, len(contents), strings.Join(contents, "\n\n"))
}

// gatherInsights renders one line per distinct record type.
func gatherInsights(records []*node.Node) []string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Metadata.RecordType]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	insights := make([]string, 0, len(types))
	for _, t := range types {
		insights = append(insights, fmt.Sprintf("%d %s records", counts[t], t))
	}
	if len(insights) == 0 {
		insights = append(insights, "Not enough data to generate insights")
	}
	return insights
}

// recommendations is deliberately simple policy, not statistics; it keys
// on the number of insight lines, not the record count.
func recommendations(insights []string) []string {
	if len(insights) < 3 {
		return []string{"Record more health information to get better recommendations"}
	}
	return []string{
		"Keep a regular record of your health",
		"Consult your doctor for detailed analysis",
	}
}
