package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/tidwall/gjson"
)

// Accepted key spellings per field, canonical key first.
// The canonical spellings are the ones the analysis service emits, typos included.
var (
	authorScoreKeys      = []string{"author_cred_score", "authorCredScore", "authorCredibilityScore"}
	sourceScoreKeys      = []string{"source_reliablity_score", "source_reliability_score", "sourceReliabilityScore"}
	citationKeys         = []string{"citations", "citationList"}
	biasReportKeys       = []string{"Bias_sentiment_report", "bias_sentiment_report", "biasSentimentReport", "biasReport"}
	sentimentKeys        = []string{"sentiment_distribution", "sentimentDistribution"}
	biasClassKeys        = []string{"bias_classification", "biasClassification"}
	contradictionKeys    = []string{"evidence_based_contradictions", "evidenceBasedContradictions", "evidenceContradictions"}
	manipulationKeys     = []string{"manupulation_techniques", "manipulation_techniques", "manipulationTechniques"}
	modelScoreKeys       = []string{"Model_score", "model_score", "modelScore"}
	confidenceKeys       = []string{"Confidence_score", "confidence_score", "confidenceScore", "confidence"}
	keyFeatureKeys       = []string{"Key_features_influencing_decision", "key_features_influencing_decision", "keyFeaturesInfluencingDecision", "keyFeatures"}
	overviewKeys         = []string{"general_overview", "generalOverview"}
	toolsKeys            = []string{"tools_used", "toolsUsed"}
	recordIDKeys         = []string{"record_id", "recordId"}
	articleIDKeys        = []string{"id", "_id", "article_id"}
	articleTitleKeys     = []string{"title", "headline"}
	articleDescKeys      = []string{"description", "summary", "excerpt"}
	articleScoreKeys     = []string{"credibilityScore", "credibility_score", "score"}
	articleCatKeys       = []string{"category", "topic"}
	articleSourceKeys    = []string{"source.name", "source", "publisher"}
	articleURLKeys       = []string{"url", "link"}
	articlePublishedKeys = []string{"publishedAt", "published_at"}
)

// lookup returns the first value under keys that is present, non-null and accepted
func lookup(obj gjson.Result, keys []string, accept func(gjson.Result) bool) (gjson.Result, bool) {
	for _, key := range keys {
		r := obj.Get(key)
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if accept == nil || accept(r) {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func isScalar(r gjson.Result) bool {
	return !r.IsObject() && !r.IsArray()
}

func isNumeric(r gjson.Result) bool {
	_, ok := numericValue(r)
	return ok
}

// numericValue reads a finite number from a JSON number or a numeric string
func numericValue(r gjson.Result) (float64, bool) {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Float()
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// scoreField reads a 0-100 integer, rounding fractions and clamping out-of-range values
func scoreField(obj gjson.Result, keys []string, def int) int {
	r, ok := lookup(obj, keys, isNumeric)
	if !ok {
		return def
	}
	f, _ := numericValue(r)
	f = math.Max(0, math.Min(100, f))
	return model.ClampScore(int(math.Round(f)))
}

func stringField(obj gjson.Result, keys []string) string {
	r, ok := lookup(obj, keys, isScalar)
	if !ok {
		return ""
	}
	return r.String()
}

// listField reads an array of strings. A lone non-empty string becomes a one-element list.
func listField(obj gjson.Result, keys []string) []string {
	out := []string{}
	r, ok := lookup(obj, keys, func(r gjson.Result) bool {
		return r.IsArray() || (r.Type == gjson.String && strings.TrimSpace(r.Str) != "")
	})
	if !ok {
		return out
	}
	if r.Type == gjson.String {
		return append(out, r.Str)
	}
	for _, item := range r.Array() {
		if item.Type == gjson.Null {
			continue
		}
		out = append(out, item.String())
	}
	return out
}

func objectField(obj gjson.Result, keys []string) gjson.Result {
	r, _ := lookup(obj, keys, gjson.Result.IsObject)
	return r
}

// normalizeRecord converts a loosely shaped analysis object into a fully populated record
func normalizeRecord(obj gjson.Result, d FieldDefaults) model.AnalysisRecord {
	bias := objectField(obj, biasReportKeys)
	score := objectField(obj, modelScoreKeys)

	return model.AnalysisRecord{
		AuthorCredibilityScore: scoreField(obj, authorScoreKeys, d.AuthorCredibility),
		SourceReliabilityScore: scoreField(obj, sourceScoreKeys, d.SourceReliability),
		Citations:              listField(obj, citationKeys),
		BiasReport: model.BiasReport{
			SentimentDistribution: listField(bias, sentimentKeys),
			BiasClassification:    stringField(bias, biasClassKeys),
		},
		EvidenceContradictions: stringField(obj, contradictionKeys),
		ManipulationTechniques: listField(obj, manipulationKeys),
		ModelScore: model.ModelScore{
			Confidence:  scoreField(score, confidenceKeys, d.Confidence),
			KeyFeatures: stringField(score, keyFeatureKeys),
		},
		GeneralOverview: stringField(obj, overviewKeys),
		ToolsUsed:       listField(obj, toolsKeys),
	}
}

// normalizeMetadata keeps the metadata object verbatim and lifts record_id out of it
func normalizeMetadata(obj gjson.Result) *model.ReportMetadata {
	if !obj.IsObject() {
		return nil
	}
	meta := &model.ReportMetadata{
		RecordID: stringField(obj, recordIDKeys),
	}
	if fields, ok := obj.Value().(map[string]interface{}); ok {
		meta.Fields = fields
	}
	return meta
}

func normalizeArticle(obj gjson.Result, index int) model.Article {
	id := stringField(obj, articleIDKeys)
	if id == "" {
		id = strconv.Itoa(index + 1)
	}
	return model.Article{
		ID:               id,
		Title:            stringField(obj, articleTitleKeys),
		Description:      stringField(obj, articleDescKeys),
		CredibilityScore: scoreField(obj, articleScoreKeys, 0),
		URL:              stringField(obj, articleURLKeys),
		Category:         stringField(obj, articleCatKeys),
		PublishedAt:      stringField(obj, articlePublishedKeys),
		Source:           stringField(obj, articleSourceKeys),
	}
}
