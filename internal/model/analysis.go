package model

import (
	"math"
	"strings"
)

// AnalysisRecord is the normalized credibility report returned by the analysis service.
// Every field is populated after normalization; slices are never nil.
type AnalysisRecord struct {
	AuthorCredibilityScore int        `json:"authorCredibilityScore"` // 0-100
	SourceReliabilityScore int        `json:"sourceReliabilityScore"` // 0-100
	Citations              []string   `json:"citations"`              // May embed a URL
	BiasReport             BiasReport `json:"biasReport"`
	EvidenceContradictions string     `json:"evidenceContradictions"`
	ManipulationTechniques []string   `json:"manipulationTechniques"`
	ModelScore             ModelScore `json:"modelScore"`
	GeneralOverview        string     `json:"generalOverview"`
	ToolsUsed              []string   `json:"toolsUsed"`

	// Metadata is only set for reports from the journalist endpoint
	Metadata *ReportMetadata `json:"metadata,omitempty"`
}

// BiasReport describes the sentiment and bias classification of the analysed content
type BiasReport struct {
	SentimentDistribution []string `json:"sentimentDistribution"` // Order is significant for display
	BiasClassification    string   `json:"biasClassification"`
}

// ModelScore is the analysis model's self-reported confidence
type ModelScore struct {
	Confidence  int    `json:"confidence"` // 0-100
	KeyFeatures string `json:"keyFeatures"`
}

// ReportMetadata is the optional metadata block of a wrapped report envelope
type ReportMetadata struct {
	RecordID string         `json:"recordId,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// OverallScore is the rounded mean of the author and source scores
func (r AnalysisRecord) OverallScore() int {
	return int(math.Round(float64(r.AuthorCredibilityScore+r.SourceReliabilityScore) / 2))
}

// ScoreBand buckets a 0-100 score for display
type ScoreBand string

const (
	BandHigh   ScoreBand = "high"   // >= 70
	BandMedium ScoreBand = "medium" // >= 40
	BandLow    ScoreBand = "low"
)

// BandFor returns the display band of a score
func BandFor(score int) ScoreBand {
	switch {
	case score >= 70:
		return BandHigh
	case score >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// BiasLean is the political lean inferred from a bias classification label
type BiasLean string

const (
	LeanLeft    BiasLean = "left"
	LeanRight   BiasLean = "right"
	LeanNeutral BiasLean = "neutral"
	LeanUnknown BiasLean = "unknown"
)

// LeanOf infers the lean from a free-text classification such as "Moderate Left-leaning"
func LeanOf(classification string) BiasLean {
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "left"):
		return LeanLeft
	case strings.Contains(c, "right"):
		return LeanRight
	case strings.Contains(c, "neutral"):
		return LeanNeutral
	default:
		return LeanUnknown
	}
}

// ClampScore limits a score to the 0-100 range
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
