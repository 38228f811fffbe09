// Package render writes analysis records as JSON, Markdown and terminal text
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
)

// Report is a record together with the request that produced it
type Report struct {
	Query       string               `json:"query"`
	Mode        model.UserMode       `json:"mode"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Record      model.AnalysisRecord `json:"report"`
}

// Renderer writes reports to files
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Slug turns a query into a safe file name stem
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 80 {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "report"
	}
	return slug
}

// Bar draws a fixed-width bar for a 0-100 score
func Bar(score, width int) string {
	if width <= 0 {
		return ""
	}
	filled := model.ClampScore(score) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
