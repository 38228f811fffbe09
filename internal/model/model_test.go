package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewRequestKey(t *testing.T) {
	tests := []struct {
		name  string
		mode  UserMode
		query string
		want  RequestKey
	}{
		{"plain", ModeNormal, "vaccines cause autism", "normal:vaccines cause autism"},
		{"trimmed", ModeJournalist, "  election fraud claims \n", "journalist:election fraud claims"},
		{"empty", ModeNormal, "", ""},
		{"whitespace only", ModeJournalist, " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRequestKey(tt.mode, tt.query)
			if got != tt.want {
				t.Errorf("NewRequestKey(%q, %q) = %q, want %q", tt.mode, tt.query, got, tt.want)
			}
			if got.IsZero() != (tt.want == "") {
				t.Errorf("IsZero() = %v for %q", got.IsZero(), got)
			}
		})
	}
}

func TestNewRequestKey_ModeDistinguishes(t *testing.T) {
	if NewRequestKey(ModeNormal, "x") == NewRequestKey(ModeJournalist, "x") {
		t.Error("expected different keys for different modes")
	}
}

func TestParseUserMode(t *testing.T) {
	tests := []struct {
		in      string
		want    UserMode
		wantErr bool
	}{
		{"normal", ModeNormal, false},
		{"reader", ModeNormal, false},
		{"", ModeNormal, false},
		{"Journalist", ModeJournalist, false},
		{" journalist ", ModeJournalist, false},
		{"editor", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUserMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUserMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseUserMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseUserMode_ValidationError(t *testing.T) {
	_, err := ParseUserMode("editor")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "mode" {
		t.Errorf("expected field mode, got %q", ve.Field)
	}
}

func TestOverallScore(t *testing.T) {
	rec := AnalysisRecord{AuthorCredibilityScore: 75, SourceReliabilityScore: 68}
	if got := rec.OverallScore(); got != 72 {
		t.Errorf("expected 72 (rounded 71.5), got %d", got)
	}

	rec = AnalysisRecord{AuthorCredibilityScore: 40, SourceReliabilityScore: 41}
	if got := rec.OverallScore(); got != 41 {
		t.Errorf("expected 41, got %d", got)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreBand
	}{
		{100, BandHigh},
		{70, BandHigh},
		{69, BandMedium},
		{40, BandMedium},
		{39, BandLow},
		{0, BandLow},
	}

	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestLeanOf(t *testing.T) {
	tests := []struct {
		in   string
		want BiasLean
	}{
		{"Moderate Left-leaning", LeanLeft},
		{"Strong RIGHT bias", LeanRight},
		{"Neutral", LeanNeutral},
		{"", LeanUnknown},
		{"Mixed", LeanUnknown},
	}

	for _, tt := range tests {
		if got := LeanOf(tt.in); got != tt.want {
			t.Errorf("LeanOf(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if ClampScore(-5) != 0 || ClampScore(140) != 100 || ClampScore(55) != 55 {
		t.Error("ClampScore did not clamp to 0-100")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL %s, got %s", DefaultBaseURL, cfg.API.BaseURL)
	}
	if cfg.HTTP.Timeout != 5*time.Minute {
		t.Errorf("expected 5m timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.API.ArticleLimit != MaxArticles {
		t.Errorf("expected article limit %d, got %d", MaxArticles, cfg.API.ArticleLimit)
	}
	if _, err := ParseUserMode(cfg.API.Mode); err != nil {
		t.Errorf("default mode should parse: %v", err)
	}
}
