package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
)

// canonicalBody is a direct-endpoint response with every canonical key present
const canonicalBody = `{
	"author_cred_score": 40,
	"source_reliablity_score": 55,
	"citations": ["WHO report, 2021. https://www.who.int/report", "CDC bulletin"],
	"Bias_sentiment_report": {
		"sentiment_distribution": ["Concern", "Neutral", "Concern"],
		"bias_classification": "Neutral"
	},
	"evidence_based_contradictions": "Large cohort studies find no link.",
	"manupulation_techniques": ["Anecdotal evidence"],
	"Model_score": {
		"Confidence_score": 91,
		"Key_features_influencing_decision": "Consistent scientific consensus."
	},
	"general_overview": "The claim is not supported.",
	"tools_used": ["Fact Verification"]
}`

func canonicalRecord() model.AnalysisRecord {
	return model.AnalysisRecord{
		AuthorCredibilityScore: 40,
		SourceReliabilityScore: 55,
		Citations:              []string{"WHO report, 2021. https://www.who.int/report", "CDC bulletin"},
		BiasReport: model.BiasReport{
			SentimentDistribution: []string{"Concern", "Neutral", "Concern"},
			BiasClassification:    "Neutral",
		},
		EvidenceContradictions: "Large cohort studies find no link.",
		ManipulationTechniques: []string{"Anecdotal evidence"},
		ModelScore: model.ModelScore{
			Confidence:  91,
			KeyFeatures: "Consistent scientific consensus.",
		},
		GeneralOverview: "The claim is not supported.",
		ToolsUsed:       []string{"Fact Verification"},
	}
}

// recordedRequest captures what the test server received
type recordedRequest struct {
	Method string
	Path   string
	Body   generateRequest
}

func newServer(t *testing.T, status int, body string, seen *recordedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.Method = r.Method
			seen.Path = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&seen.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateAnalysis_Scenario(t *testing.T) {
	var seen recordedRequest
	server := newServer(t, http.StatusOK, `{"author_cred_score": 40}`, &seen)

	client := NewClient(server.URL)
	rec, err := client.Fetch(context.Background(), model.ModeNormal, "vaccines cause autism")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if seen.Method != http.MethodPost || seen.Path != "/generate/" {
		t.Errorf("Expected POST /generate/, got %s %s", seen.Method, seen.Path)
	}
	if seen.Body.Query != "vaccines cause autism" || seen.Body.UserType != "normal" {
		t.Errorf("Unexpected request body: %+v", seen.Body)
	}
	if rec.AuthorCredibilityScore != 40 {
		t.Errorf("Expected author score 40, got %d", rec.AuthorCredibilityScore)
	}
	if rec.SourceReliabilityScore != 68 {
		t.Errorf("Expected default source score 68, got %d", rec.SourceReliabilityScore)
	}
}

func TestGenerateAnalysis_RoundTrip(t *testing.T) {
	server := newServer(t, http.StatusOK, canonicalBody, nil)

	rec, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	if err != nil {
		t.Fatalf("GenerateAnalysis failed: %v", err)
	}

	if want := canonicalRecord(); !reflect.DeepEqual(*rec, want) {
		t.Errorf("Normalization changed well-formed input:\n got: %+v\nwant: %+v", *rec, want)
	}
}

func TestGenerateAnalysis_MissingModelScore(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"author_cred_score": 12, "general_overview": "x"}`, nil)

	rec, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	if err != nil {
		t.Fatalf("GenerateAnalysis failed: %v", err)
	}

	if rec.ModelScore.Confidence != 80 {
		t.Errorf("Expected default confidence 80, got %d", rec.ModelScore.Confidence)
	}
	if rec.ModelScore.KeyFeatures != "" {
		t.Errorf("Expected empty key features, got %q", rec.ModelScore.KeyFeatures)
	}
}

func TestGenerateAnalysis_EmptyObjectIsFullyPopulated(t *testing.T) {
	server := newServer(t, http.StatusOK, `{}`, nil)

	rec, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	if err != nil {
		t.Fatalf("GenerateAnalysis failed: %v", err)
	}

	if rec.AuthorCredibilityScore != 75 || rec.SourceReliabilityScore != 68 {
		t.Errorf("Expected default scores 75/68, got %d/%d", rec.AuthorCredibilityScore, rec.SourceReliabilityScore)
	}
	if rec.Citations == nil || rec.ManipulationTechniques == nil || rec.ToolsUsed == nil || rec.BiasReport.SentimentDistribution == nil {
		t.Error("Expected every list to be non-nil")
	}
	if rec.Metadata != nil {
		t.Error("Expected no metadata from the direct endpoint")
	}

	// Nil slices would marshal as null
	data, _ := json.Marshal(rec)
	if strings.Contains(string(data), "null") {
		t.Errorf("Expected no null fields, got %s", data)
	}
}

func TestGenerateAnalysis_CamelCaseAliases(t *testing.T) {
	body := `{
		"authorCredScore": 33,
		"sourceReliabilityScore": "61.6",
		"citations": "Single citation",
		"biasSentimentReport": {"sentimentDistribution": ["Anger"], "biasClassification": "Right-leaning"},
		"evidenceContradictions": "None found",
		"manipulationTechniques": ["Loaded language"],
		"modelScore": {"confidenceScore": 140, "keyFeatures": "Tone"},
		"generalOverview": "Overview",
		"toolsUsed": ["Bias Detection"]
	}`
	server := newServer(t, http.StatusOK, body, nil)

	rec, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	if err != nil {
		t.Fatalf("GenerateAnalysis failed: %v", err)
	}

	want := model.AnalysisRecord{
		AuthorCredibilityScore: 33,
		SourceReliabilityScore: 62,
		Citations:              []string{"Single citation"},
		BiasReport: model.BiasReport{
			SentimentDistribution: []string{"Anger"},
			BiasClassification:    "Right-leaning",
		},
		EvidenceContradictions: "None found",
		ManipulationTechniques: []string{"Loaded language"},
		ModelScore: model.ModelScore{
			Confidence:  100,
			KeyFeatures: "Tone",
		},
		GeneralOverview: "Overview",
		ToolsUsed:       []string{"Bias Detection"},
	}
	if !reflect.DeepEqual(*rec, want) {
		t.Errorf("Unexpected record:\n got: %+v\nwant: %+v", *rec, want)
	}
}

func TestGenerateAnalysis_CanonicalWinsOverAlias(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"author_cred_score": 10, "authorCredScore": 90, "general_overview": null, "generalOverview": "alias"}`, nil)

	rec, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	if err != nil {
		t.Fatalf("GenerateAnalysis failed: %v", err)
	}
	if rec.AuthorCredibilityScore != 10 {
		t.Errorf("Expected canonical key to win, got %d", rec.AuthorCredibilityScore)
	}
	if rec.GeneralOverview != "alias" {
		t.Errorf("Expected null canonical value to fall through to alias, got %q", rec.GeneralOverview)
	}
}

func TestGenerateReport_Scenario(t *testing.T) {
	var seen recordedRequest
	body := `{
		"success": true,
		"data": {
			"report": {"author_cred_score": 58, "tools_used": ["Citation Analysis"]},
			"metadata": {"record_id": "abc123", "model": "analysis-v2"}
		}
	}`
	server := newServer(t, http.StatusOK, body, &seen)

	rec, err := NewClient(server.URL).Fetch(context.Background(), model.ModeJournalist, "election fraud claims")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if seen.Path != "/api/llm/generate-report/" {
		t.Errorf("Expected wrapped endpoint, got %s", seen.Path)
	}
	if seen.Body.Query != "election fraud claims" || seen.Body.UserType != "journalist" {
		t.Errorf("Unexpected request body: %+v", seen.Body)
	}
	if rec.AuthorCredibilityScore != 58 {
		t.Errorf("Expected author score 58, got %d", rec.AuthorCredibilityScore)
	}
	if rec.ModelScore.Confidence != 82 {
		t.Errorf("Expected wrapped default confidence 82, got %d", rec.ModelScore.Confidence)
	}
	if rec.Metadata == nil || rec.Metadata.RecordID != "abc123" {
		t.Fatalf("Expected record_id abc123, got %+v", rec.Metadata)
	}
	if rec.Metadata.Fields["model"] != "analysis-v2" {
		t.Errorf("Expected raw metadata to be kept, got %v", rec.Metadata.Fields)
	}
}

func TestGenerateReport_EnvelopeFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"success false with message", `{"success": false, "message": "Quota exceeded"}`, "Quota exceeded"},
		{"success false without message", `{"success": false}`, "The analysis service reported a failure."},
		{"success missing", `{"data": {"report": {}}}`, "The analysis service reported a failure."},
		{"report missing", `{"success": true, "data": {}}`, "The analysis service returned no report."},
		{"report missing with message", `{"success": true, "message": "No report today", "data": {"metadata": {}}}`, "No report today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, http.StatusOK, tt.body, nil)

			_, err := NewClient(server.URL).GenerateReport(context.Background(), "q", model.ModeJournalist)
			var appErr *ApplicationError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected ApplicationError, got %T: %v", err, err)
			}
			if appErr.Error() != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, appErr.Error())
			}
		})
	}
}

func TestGenerate_HTTPStatusError(t *testing.T) {
	server := newServer(t, http.StatusInternalServerError, `internal failure`, nil)

	_, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != 500 {
		t.Errorf("Expected status 500, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "internal failure") {
		t.Errorf("Expected status and body in message, got %q", err.Error())
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"truncated", `{"author_cred_score": 4`},
		{"array", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, http.StatusOK, tt.body, nil)

			_, err := NewClient(server.URL).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedResponseError, got %T: %v", err, err)
			}
		})
	}
}

func TestGenerate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %T: %v", err, err)
	}
	if err.Error() != transportErr.Err.Error() {
		t.Errorf("Expected transport message surfaced as-is, got %q", err.Error())
	}
}

func TestGenerate_TimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := client.GenerateAnalysis(context.Background(), "q", model.ModeNormal)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError on timeout, got %T: %v", err, err)
	}
}

func TestGenerate_EmptyQuery(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Fetch(context.Background(), model.ModeNormal, "   ")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if called {
		t.Error("Expected no request for an empty query")
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.API.BaseURL = "http://analysis.local:9000/"

	client := NewClientFromConfig(cfg, nil)
	if client.BaseURL() != "http://analysis.local:9000" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.BaseURL())
	}
	if client.httpClient.Timeout != cfg.HTTP.Timeout {
		t.Errorf("Expected timeout %v, got %v", cfg.HTTP.Timeout, client.httpClient.Timeout)
	}
}
