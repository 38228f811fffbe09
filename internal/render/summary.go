package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// Summary prints a plain-text report for the terminal
func Summary(w io.Writer, report Report) {
	rec := report.Record

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "  Credibility Report: %s\n", report.Query)
	fmt.Fprintf(w, "%s\n\n", rule)

	fmt.Fprintf(w, "  Mode:                %s\n", report.Mode)
	if rec.Metadata != nil && rec.Metadata.RecordID != "" {
		fmt.Fprintf(w, "  Record ID:           %s\n", rec.Metadata.RecordID)
	}
	fmt.Fprintf(w, "\n")

	summaryScore(w, "Overall credibility", rec.OverallScore())
	summaryScore(w, "Author credibility", rec.AuthorCredibilityScore)
	summaryScore(w, "Source reliability", rec.SourceReliabilityScore)
	summaryScore(w, "Model confidence", rec.ModelScore.Confidence)
	fmt.Fprintf(w, "\n")

	if rec.BiasReport.BiasClassification != "" {
		fmt.Fprintf(w, "  Bias:       %s\n", rec.BiasReport.BiasClassification)
	}
	if len(rec.BiasReport.SentimentDistribution) > 0 {
		fmt.Fprintf(w, "  Sentiment:  %s\n", strings.Join(rec.BiasReport.SentimentDistribution, ", "))
	}

	if rec.GeneralOverview != "" {
		fmt.Fprintf(w, "\n  Overview\n  %s\n", rec.GeneralOverview)
	}
	if rec.EvidenceContradictions != "" {
		fmt.Fprintf(w, "\n  Contradictions\n  %s\n", rec.EvidenceContradictions)
	}

	if len(rec.ManipulationTechniques) > 0 {
		fmt.Fprintf(w, "\n  Manipulation techniques\n")
		for _, m := range rec.ManipulationTechniques {
			fmt.Fprintf(w, "  ⚠ %s\n", m)
		}
	}

	if len(rec.Citations) > 0 {
		fmt.Fprintf(w, "\n  Citations\n")
		for i, c := range ParseCitations(rec.Citations) {
			if c.Host != "" {
				fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, c.Text, c.Host)
			} else {
				fmt.Fprintf(w, "  %d. %s\n", i+1, c.Text)
			}
		}
	}

	if len(rec.ToolsUsed) > 0 {
		fmt.Fprintf(w, "\n  Tools: %s\n", strings.Join(rec.ToolsUsed, ", "))
	}
	fmt.Fprintf(w, "\n")
}

func summaryScore(w io.Writer, label string, score int) {
	fmt.Fprintf(w, "  %-20s %s %3d/100 (%s)\n", label+":", Bar(score, 20), score, model.BandFor(score))
}
