package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := decodeConfig(newTestViper(), nil)
	if err != nil {
		t.Fatalf("decodeConfig() error = %v", err)
	}

	if cfg.API.BaseURL != model.DefaultBaseURL {
		t.Errorf("expected base URL %s, got %s", model.DefaultBaseURL, cfg.API.BaseURL)
	}
	if cfg.HTTP.Timeout != 5*time.Minute {
		t.Errorf("expected 5m timeout, got %v", cfg.HTTP.Timeout)
	}
	if userMode(cfg) != model.ModeNormal {
		t.Errorf("expected normal mode, got %s", userMode(cfg))
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
}

func TestDecodeConfig_Overrides(t *testing.T) {
	v := newTestViper()
	v.Set("api.mode", "Journalist")
	v.Set("api.article_limit", 12)
	v.Set("http.timeout", "0s")
	v.Set("verbose", true)

	cfg, err := decodeConfig(v, nil)
	if err != nil {
		t.Fatalf("decodeConfig() error = %v", err)
	}

	if userMode(cfg) != model.ModeJournalist {
		t.Errorf("expected journalist mode, got %s", userMode(cfg))
	}
	if cfg.API.ArticleLimit != model.MaxArticles {
		t.Errorf("expected article limit capped at %d, got %d", model.MaxArticles, cfg.API.ArticleLimit)
	}
	if cfg.HTTP.Timeout != 5*time.Minute {
		t.Errorf("expected non-positive timeout to fall back to 5m, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Logging.Level != "debug" || !cfg.Output.Verbose {
		t.Errorf("expected verbose to force debug logging, got level %q", cfg.Logging.Level)
	}
}

func TestDecodeConfig_EnvOverride(t *testing.T) {
	t.Setenv("ALETHEIA_API_BASE_URL", "https://api.example.com")

	v := newTestViper()
	v.SetEnvPrefix("ALETHEIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decodeConfig(v, nil)
	if err != nil {
		t.Fatalf("decodeConfig() error = %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("expected env base URL, got %s", cfg.API.BaseURL)
	}
}

func TestDecodeConfig_InvalidMode(t *testing.T) {
	v := newTestViper()
	v.Set("api.mode", "editor")

	if _, err := decodeConfig(v, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestEncodeDefaultConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeDefaultConfig(&buf); err != nil {
		t.Fatalf("encodeDefaultConfig() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# Aletheia Configuration File") {
		t.Error("expected header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(buf.Bytes(), &cfg); err != nil {
		t.Fatalf("expected valid YAML: %v", err)
	}
	if cfg.API.BaseURL != model.DefaultBaseURL {
		t.Errorf("expected base URL %s, got %s", model.DefaultBaseURL, cfg.API.BaseURL)
	}
}

func TestWriteDefaultConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestReportFileStem(t *testing.T) {
	tests := []struct {
		index int
		query string
		want  string
	}{
		{0, "Vaccines cause autism", "001-vaccines-cause-autism"},
		{9, "Vaccines cause autism!", "010-vaccines-cause-autism"},
		{41, "???", "042-report"},
	}

	for _, tt := range tests {
		if got := reportFileStem(tt.index, tt.query); got != tt.want {
			t.Errorf("reportFileStem(%d, %q) = %q, want %q", tt.index, tt.query, got, tt.want)
		}
	}
}

func TestPrintArticles(t *testing.T) {
	var buf bytes.Buffer
	printArticles(&buf, []model.Article{
		{Title: "Climate policy debate", CredibilityScore: 82, Category: "Politics", Source: "Example News", URL: "https://example.com/a"},
		{Title: "Market outlook", CredibilityScore: 30},
	})

	out := buf.String()
	for _, want := range []string{"1. Climate policy debate", "82/100 (high)", "Politics · Example News", "https://example.com/a", "30/100 (low)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintArticles_Empty(t *testing.T) {
	var buf bytes.Buffer
	printArticles(&buf, nil)

	if !strings.Contains(buf.String(), "No trending articles") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}
