package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
)

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report Report) string {
	rec := report.Record
	var b strings.Builder

	b.WriteString("# Credibility Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s  \n", report.Query)
	fmt.Fprintf(&b, "**Mode:** %s  \n", report.Mode)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "**Generated:** %s  \n", report.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if rec.Metadata != nil && rec.Metadata.RecordID != "" {
		fmt.Fprintf(&b, "**Record ID:** `%s`  \n", rec.Metadata.RecordID)
	}
	b.WriteString("\n")

	b.WriteString("## Scores\n\n")
	b.WriteString("| Metric | Score | Band |\n")
	b.WriteString("|--------|-------|------|\n")
	scoreRow(&b, "Overall credibility", rec.OverallScore())
	scoreRow(&b, "Author credibility", rec.AuthorCredibilityScore)
	scoreRow(&b, "Source reliability", rec.SourceReliabilityScore)
	scoreRow(&b, "Model confidence", rec.ModelScore.Confidence)
	b.WriteString("\n")

	section(&b, "Overview", rec.GeneralOverview)

	b.WriteString("## Bias & Sentiment\n\n")
	if rec.BiasReport.BiasClassification != "" {
		fmt.Fprintf(&b, "**Classification:** %s (%s)\n\n", rec.BiasReport.BiasClassification, model.LeanOf(rec.BiasReport.BiasClassification))
	}
	if len(rec.BiasReport.SentimentDistribution) > 0 {
		fmt.Fprintf(&b, "**Sentiment:** %s\n\n", strings.Join(rec.BiasReport.SentimentDistribution, ", "))
	} else {
		b.WriteString("_No sentiment reported._\n\n")
	}

	section(&b, "Evidence-Based Contradictions", rec.EvidenceContradictions)
	bullets(&b, "Manipulation Techniques", rec.ManipulationTechniques, "_None detected._")
	section(&b, "Key Features Influencing the Assessment", rec.ModelScore.KeyFeatures)

	b.WriteString("## Citations\n\n")
	if len(rec.Citations) == 0 {
		b.WriteString("_No citations._\n\n")
	} else {
		for i, c := range ParseCitations(rec.Citations) {
			if c.URL == "" {
				fmt.Fprintf(&b, "%d. %s\n", i+1, c.Text)
				continue
			}
			fmt.Fprintf(&b, "%d. %s ([%s](%s))\n", i+1, c.Text, c.Host, c.URL)
		}
		b.WriteString("\n")
	}

	bullets(&b, "Tools Used", rec.ToolsUsed, "_None listed._")

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by Aletheia. Scores describe credibility signals reported by the analysis service; they are not a verdict on truth.*\n")
	}

	return b.String()
}

func scoreRow(b *strings.Builder, label string, score int) {
	fmt.Fprintf(b, "| %s | %d/100 | %s |\n", label, score, model.BandFor(score))
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if strings.TrimSpace(body) == "" {
		b.WriteString("_Not provided._\n\n")
		return
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
}

func bullets(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString(empty)
		b.WriteString("\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
