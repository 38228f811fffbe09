package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/render"
	"github.com/ppiankov/aletheia/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate reports for many queries from a file in parallel",
	Long: `Batch generates a credibility report for every query in a file:
- Read queries from the input file (one per line, # starts a comment)
- Skip blank lines and repeated queries
- Process queries in parallel with a configurable worker count
- Throttle requests to the analysis service with a token-bucket rate limiter
- Write a JSON and a Markdown report for each query

Example:
  aletheia batch queries.txt
  aletheia batch queries.txt --concurrency 8 --output-dir ./reports
  aletheia batch queries.txt --mode journalist --batch-timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./aletheia-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 60*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	client := api.NewClientFromConfig(cfg, newLogger(cfg))
	mode := userMode(cfg)
	processor := worker.NewBatchProcessor(client, client.BaseURL(), cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Aletheia Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Service:      %s\n", client.BaseURL())
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", mode)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", processor.Workers())
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.1f req/s (burst %d)\n", cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Processing queries with %d workers...\n\n", processor.Workers())

	results, err := processor.ProcessFile(ctx, mode, file, func(done, total int, r *worker.ReportResult) {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "  [%d/%d] ✗ %s: %v\n", done, total, r.Query, r.Error)
			return
		}
		fmt.Fprintf(os.Stderr, "  [%d/%d] ✓ %s (%v)\n", done, total, r.Query, r.Elapsed.Round(time.Millisecond))
	})
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	fmt.Fprintf(os.Stderr, "\n")
	for i, result := range results {
		if result.Error != nil {
			failureCount++
			continue
		}

		report := render.Report{
			Query:       result.Query,
			Mode:        result.Mode,
			GeneratedAt: time.Now().UTC(),
			Record:      *result.Record,
		}

		stem := reportFileStem(i, result.Query)
		jsonPath := filepath.Join(outputDir, stem+".json")
		mdPath := filepath.Join(outputDir, stem+".md")

		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Query, err)
			continue
		}
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Query, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (overall: %d/100)\n", result.Query, report.Record.OverallScore())
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportFileStem numbers the slug so distinct queries with equal slugs do not collide
func reportFileStem(index int, query string) string {
	return fmt.Sprintf("%03d-%s", index+1, render.Slug(query))
}
