package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/orchestrator"
	"github.com/ppiankov/aletheia/internal/render"
	"github.com/spf13/cobra"
)

var (
	outJSON  string
	outMD    string
	sample   bool
	quiet    bool
	noFooter bool
)

// errEmptyQuery is returned when the report command gets a blank query
var errEmptyQuery = errors.New("please enter a claim, article or topic to analyze")

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <query>",
	Short: "Generate a credibility report for a claim, article or topic",
	Long: `Report sends a query to the analysis service and prints the normalized
credibility report:
- Author credibility and source reliability scores
- Bias classification and sentiment distribution
- Evidence-based contradictions and manipulation techniques
- Citations and the tools the analysis used

Reader (normal) mode uses the direct endpoint; journalist mode uses the
detailed endpoint, which also returns report metadata.

Example:
  aletheia report "vaccines cause autism"
  aletheia report "election fraud claims" --mode journalist --json report.json --md report.md
  aletheia report "climate change economy" --sample`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	reportCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	reportCmd.Flags().BoolVar(&sample, "sample", false, "show the built-in sample report instead of calling the service")
	reportCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the report to the terminal")
	reportCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	logger := newLogger(cfg)
	client := api.NewClientFromConfig(cfg, logger)
	mode := userMode(cfg)
	query := strings.Join(args, " ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query:    %s\n", strings.TrimSpace(query))
		fmt.Fprintf(os.Stderr, "Mode:     %s\n", mode)
		fmt.Fprintf(os.Stderr, "Service:  %s\n", client.BaseURL())
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", cfg.HTTP.Timeout)
		fmt.Fprintln(os.Stderr)
	}

	snap, err := awaitReport(ctx, client, cfg, mode, query)
	if err != nil {
		return err
	}

	if !snap.Terminal() {
		return errEmptyQuery
	}
	if snap.State == orchestrator.StateError {
		return fmt.Errorf("report failed: %s", snap.Err)
	}

	report := render.Report{
		Query:       snap.Query,
		Mode:        snap.Mode,
		GeneratedAt: time.Now().UTC(),
		Record:      *snap.Record,
	}

	if !quiet {
		render.Summary(os.Stdout, report)
	}

	return writeReportFiles(render.NewRenderer(cfg.Output.IncludeFooter), report, outJSON, outMD)
}

// awaitReport drives one orchestrator request to its first terminal state
func awaitReport(ctx context.Context, client *api.Client, cfg *model.Config, mode model.UserMode, query string) (orchestrator.Snapshot, error) {
	ready := make(chan orchestrator.Snapshot, 1)

	orch := orchestrator.New(client,
		orchestrator.WithTimeout(cfg.HTTP.Timeout),
		orchestrator.WithLogger(newLogger(cfg)),
		orchestrator.WithOnChange(func(s orchestrator.Snapshot) {
			if s.State == orchestrator.StateLoading && !quiet {
				fmt.Fprintf(os.Stderr, "⚙️  Generating report (this can take a few minutes)...\n")
			}
		}),
		orchestrator.WithOnReady(func(s orchestrator.Snapshot) {
			select {
			case ready <- s:
			default:
			}
		}),
	)
	defer orch.Close()

	if sample {
		rec := client.Defaults().SampleRecord(mode)
		if strings.TrimSpace(query) == "" {
			query = "sample"
		}
		orch.Accept(mode, query, &rec)
	} else {
		orch.Request(mode, query)
	}

	select {
	case snap := <-ready:
		return snap, nil
	case <-ctx.Done():
		return orchestrator.Snapshot{}, fmt.Errorf("report cancelled: %w", ctx.Err())
	}
}

func writeReportFiles(r *render.Renderer, report render.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
	}

	return nil
}
