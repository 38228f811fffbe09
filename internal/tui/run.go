package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/orchestrator"
)

// ArticleSource lists trending articles. It never fails; it falls back instead.
type ArticleSource interface {
	TrendingArticles(ctx context.Context, limit int) []model.Article
}

// Options configures Run
type Options struct {
	Mode         model.UserMode
	Timeout      time.Duration
	ArticleLimit int
	Logger       *slog.Logger
}

// Run starts the interactive interface and blocks until the user quits.
func Run(ctx context.Context, fetcher orchestrator.Fetcher, articles ArticleSource, opts Options) error {
	// Signals coalesce: one pending value is enough for the view to catch up.
	changed := make(chan struct{}, 1)
	notify := func(orchestrator.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	orch := orchestrator.New(fetcher,
		orchestrator.WithTimeout(opts.Timeout),
		orchestrator.WithLogger(opts.Logger),
		orchestrator.WithOnChange(notify),
	)
	defer orch.Close()

	loadArticles := func() tea.Cmd {
		return func() tea.Msg {
			return ArticlesLoaded{Articles: articles.TrendingArticles(ctx, opts.ArticleLimit)}
		}
	}

	app := NewApp(orch, changed, opts.Mode, loadArticles)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
