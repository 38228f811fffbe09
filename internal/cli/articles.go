package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/spf13/cobra"
)

var (
	articleLimit int
	articlesJSON bool
)

// articlesCmd represents the articles command
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List trending articles with their credibility scores",
	Long: `Articles fetches at most five trending articles from the analysis service.
If the service is unreachable a built-in list is shown instead.

Example:
  aletheia articles
  aletheia articles --limit 3 --json`,
	Args: cobra.NoArgs,
	RunE: runArticles,
}

func init() {
	rootCmd.AddCommand(articlesCmd)

	articlesCmd.Flags().IntVar(&articleLimit, "limit", 0, "number of articles, at most 5 (default from config)")
	articlesCmd.Flags().BoolVar(&articlesJSON, "json", false, "print articles as JSON")
}

func runArticles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit := cfg.API.ArticleLimit
	if articleLimit > 0 {
		limit = articleLimit
	}

	client := api.NewClientFromConfig(cfg, newLogger(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
	defer cancel()

	articles := client.TrendingArticles(ctx, limit)

	if articlesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	}

	printArticles(os.Stdout, articles)
	return nil
}

func printArticles(w io.Writer, articles []model.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No trending articles right now.")
		return
	}

	fmt.Fprintln(w, "Trending articles")
	fmt.Fprintln(w)
	for i, a := range articles {
		title := runewidth.Truncate(a.Title, 60, "…")
		fmt.Fprintf(w, "  %d. %s  %3d/100 (%s)\n", i+1, runewidth.FillRight(title, 60),
			a.CredibilityScore, model.BandFor(a.CredibilityScore))

		meta := a.Category
		if a.Source != "" {
			if meta != "" {
				meta += " · "
			}
			meta += a.Source
		}
		if meta != "" {
			fmt.Fprintf(w, "     %s\n", meta)
		}
		if a.Description != "" {
			fmt.Fprintf(w, "     %s\n", runewidth.Truncate(a.Description, 76, "…"))
		}
		if a.URL != "" {
			fmt.Fprintf(w, "     %s\n", a.URL)
		}
	}
	fmt.Fprintln(w)
}
