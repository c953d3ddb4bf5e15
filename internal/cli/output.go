package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/orionhealth/hirag/internal/client"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

func isColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return true
}

func colorize(color, text string) string {
	if !isColorEnabled() {
		return text
	}
	return color + text + colorReset
}

func printOK(msg string) {
	fmt.Println(colorize(colorGreen, "  ✓ ") + msg)
}

func printWarn(msg string) {
	fmt.Println(colorize(colorYellow, "  ! ") + msg)
}

func printFail(msg string) {
	fmt.Println(colorize(colorRed, "  ✗ ") + msg)
}

func printInfo(msg string) {
	fmt.Println(colorize(colorBlue, "  → ") + msg)
}

func printHeader(msg string) {
	fmt.Println()
	fmt.Println(colorize(colorBold, "  "+msg))
	fmt.Println(colorize(colorDim, "  "+strings.Repeat("─", len(msg)+2)))
}

func recordTypeColor(recordType string) string {
	switch recordType {
	case "symptom":
		return colorYellow
	case "diagnosis":
		return colorRed
	case "medication":
		return colorGreen
	case "vital_sign":
		return colorCyan
	}
	return colorBlue
}

func printNode(n *client.Node) {
	fmt.Println()
	fmt.Printf("  %s %s\n",
		colorize(recordTypeColor(n.Metadata.RecordType), n.Metadata.RecordType),
		colorize(colorDim, n.ID),
	)
	fmt.Printf("  Layer: %d  Patient: %s  Created: %s\n",
		n.Metadata.Layer, n.Metadata.PatientID, formatTime(n.Metadata.CreatedAt))
	if len(n.Metadata.SummaryOf) > 0 {
		fmt.Printf("  Summarizes: %d records\n", len(n.Metadata.SummaryOf))
	}
	fmt.Println()
	fmt.Println(colorize(colorDim, "  ─────"))
	for _, line := range strings.Split(n.Content, "\n") {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println(colorize(colorDim, "  ─────"))
}

func printIDList(ids []string) {
	if len(ids) == 0 {
		printWarn("No results found.")
		return
	}
	for i, id := range ids {
		fmt.Printf("  %2d. %s\n", i+1, id)
	}
	fmt.Printf("\n  %s %d results\n", colorize(colorDim, "Total:"), len(ids))
}

func printMultiHopHits(hits []client.MultiHopHit) {
	if len(hits) == 0 {
		printWarn("No results found.")
		return
	}
	for _, hit := range hits {
		fmt.Printf("  %s  %s  %s\n",
			colorize(colorBold, truncateLine(hit.Content, 60)),
			colorize(colorDim, fmt.Sprintf("score:%.2f", hit.RelevanceScore)),
			colorize(colorDim, hit.NodeID),
		)
		for _, c := range hit.Context {
			fmt.Printf("    %s L%d %s\n",
				colorize(colorCyan, "↑"), c.Layer, truncateLine(c.Content, 56))
		}
	}
	fmt.Printf("\n  %s %d results\n", colorize(colorDim, "Total:"), len(hits))
}

func printSummaryReport(report *client.SummaryReport) {
	printHeader("Health Summary")
	fmt.Printf("  Period:  %s\n", report.Period)
	fmt.Printf("  Records: %d\n", report.TotalRecords)
	if report.UsedLLM {
		printOK("Generated with a language model")
	} else {
		printWarn("Generated without a model (rule-based fallback)")
	}
	fmt.Println()
	for _, line := range strings.Split(report.Summary, "\n") {
		fmt.Printf("  %s\n", line)
	}
	if len(report.KeyInsights) > 0 {
		fmt.Println()
		fmt.Println(colorize(colorDim, "  Key insights:"))
		for _, insight := range report.KeyInsights {
			fmt.Printf("    • %s\n", insight)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println()
		fmt.Println(colorize(colorDim, "  Recommendations:"))
		for _, rec := range report.Recommendations {
			fmt.Printf("    • %s\n", rec)
		}
	}
	fmt.Println()
}

func printUsage(report *client.UsageReport) {
	printHeader("Model Routing")
	fmt.Printf("  Strategy:   %s\n", report.Strategy)
	if report.NetworkAvailable {
		fmt.Printf("  Network:    %s\n", colorize(colorGreen, "available"))
	} else {
		fmt.Printf("  Network:    %s\n", colorize(colorRed, "unavailable"))
	}
	fmt.Println()
	fmt.Println(colorize(colorDim, "  Cloud usage:"))
	fmt.Printf("    Requests:          %d\n", report.Usage.RequestsCount)
	fmt.Printf("    Prompt tokens:     %d\n", report.Usage.PromptTokens)
	fmt.Printf("    Completion tokens: %d\n", report.Usage.CompletionTokens)
	fmt.Printf("    Total tokens:      %d\n", report.Usage.TotalTokens)
	fmt.Println()
}

func printModels(models []client.ModelInfo) {
	if len(models) == 0 {
		printWarn("No models downloaded.")
		return
	}
	for _, m := range models {
		fmt.Printf("  %s %s %s\n",
			colorize(colorGreen, "✓"),
			colorize(colorBold, m.ID),
			colorize(colorDim, fmt.Sprintf("%.1f GB", float64(m.SizeBytes)/(1<<30))),
		)
	}
}

func truncateLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
