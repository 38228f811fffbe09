package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/orchestrator"
)

// Screen is the page currently shown
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenReport
)

// loadingMessages rotate while a report is being prepared
var loadingMessages = []string{
	"Reports can take up to five minutes. Careful verification is worth the wait.",
	"Great reporting takes time; we're double-checking every claim.",
	"Cross-referencing sources and scoring credibility... almost there.",
}

const emptyQueryNotice = "Please enter a claim, article or topic to analyze."

// App is the main application model.
type App struct {
	screen Screen
	input  textinput.Model
	spin   spinner.Model
	mode   model.UserMode

	articles        []model.Article
	articlesLoading bool
	cursor          int
	notice          string

	orch    *orchestrator.Orchestrator
	changed <-chan struct{}
	snap    orchestrator.Snapshot

	loadingSeq uint64 // Seq of the snapshot that entered loading
	loadingIdx int
	scroll     int

	width  int
	height int
	ready  bool

	// Commands injected from main
	loadArticles func() tea.Cmd
}

// NewApp creates the application model. changed receives a value after every
// orchestrator state change; it should be buffered so the hook never blocks.
func NewApp(orch *orchestrator.Orchestrator, changed <-chan struct{}, mode model.UserMode, loadArticles func() tea.Cmd) App {
	ti := textinput.New()
	ti.Placeholder = "Enter a claim, article URL or topic..."
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SectionHeader.MarginTop(0)

	if mode == "" {
		mode = model.ModeNormal
	}

	return App{
		screen:          ScreenLanding,
		input:           ti,
		spin:            s,
		mode:            mode,
		articlesLoading: loadArticles != nil,
		orch:            orch,
		changed:         changed,
		snap:            orch.Snapshot(),
		loadArticles:    loadArticles,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.spin.Tick, waitForSnapshot(a.changed, a.orch)}
	if a.loadArticles != nil {
		cmds = append(cmds, a.loadArticles())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		if w := msg.Width - 8; w > 20 {
			a.input.Width = min(w, 80)
		}
		return a, nil

	case ArticlesLoaded:
		a.articles = msg.Articles
		a.articlesLoading = false
		if a.cursor >= len(a.articles) {
			a.cursor = 0
		}
		return a, nil

	case SnapshotUpdated:
		cmd := a.applySnapshot(msg.Snapshot)
		return a, tea.Batch(cmd, waitForSnapshot(a.changed, a.orch))

	case loadingTick:
		if a.snap.State != orchestrator.StateLoading || msg.seq != a.loadingSeq {
			return a, nil
		}
		a.loadingIdx = (a.loadingIdx + 1) % len(loadingMessages)
		return a, tickLoading(msg.seq)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	if a.screen == ScreenLanding {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applySnapshot installs a newer orchestrator state. Older snapshots are
// dropped since hooks may deliver them out of order.
func (a *App) applySnapshot(s orchestrator.Snapshot) tea.Cmd {
	if s.Seq < a.snap.Seq {
		return nil
	}
	prev := a.snap
	a.snap = s

	switch s.State {
	case orchestrator.StateLoading:
		if prev.State == orchestrator.StateLoading && prev.Key == s.Key {
			return nil
		}
		a.loadingSeq = s.Seq
		a.loadingIdx = 0
		return tickLoading(s.Seq)
	case orchestrator.StateResolved:
		if prev.Key != s.Key || prev.State != orchestrator.StateResolved {
			a.scroll = 0
		}
	}
	return nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.orch.Close()
		return a, tea.Quit
	}

	if a.screen == ScreenReport {
		return a.handleReportKey(msg)
	}
	return a.handleLandingKey(msg)
}

func (a App) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	switch msg.String() {
	case "tab":
		a.mode = toggleMode(a.mode)
		return a, nil

	case "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "down":
		if a.cursor < len(a.articles)-1 {
			a.cursor++
		}
		return a, nil

	case "esc":
		if a.input.Value() == "" {
			a.orch.Close()
			return a, tea.Quit
		}
		a.input.SetValue("")
		return a, nil

	case "enter":
		query := strings.TrimSpace(a.input.Value())
		if query == "" && a.cursor < len(a.articles) {
			query = a.articles[a.cursor].Title
		}
		if query == "" {
			a.notice = emptyQueryNotice
			return a, nil
		}
		return a, a.submit(query)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.orch.Close()
		return a, tea.Quit

	case "esc", "backspace":
		// Going back abandons the request; a late result is discarded.
		a.orch.Request(a.mode, "")
		cmd := a.applySnapshot(a.orch.Snapshot())
		a.screen = ScreenLanding
		a.input.Focus()
		return a, cmd

	case "r":
		if a.snap.State != orchestrator.StateError {
			return a, nil
		}
		a.orch.Retry()
		return a, a.applySnapshot(a.orch.Snapshot())

	case "m", "tab":
		// Switching persona asks for the same query under the other mode.
		a.mode = toggleMode(a.mode)
		if a.snap.Query == "" {
			return a, nil
		}
		a.orch.Request(a.mode, a.snap.Query)
		return a, a.applySnapshot(a.orch.Snapshot())

	case "j", "down":
		if a.scroll < a.maxScroll() {
			a.scroll++
		}
		return a, nil

	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
		return a, nil

	case "g", "home":
		a.scroll = 0
		return a, nil

	case "G", "end":
		a.scroll = a.maxScroll()
		return a, nil
	}

	return a, nil
}

// submit moves to the report screen and asks the orchestrator for the report.
// A repeated query is a no-op there, and the last report stays on screen.
func (a *App) submit(query string) tea.Cmd {
	a.screen = ScreenReport
	a.input.Blur()
	a.orch.Request(a.mode, query)
	return a.applySnapshot(a.orch.Snapshot())
}

func toggleMode(m model.UserMode) model.UserMode {
	if m == model.ModeJournalist {
		return model.ModeNormal
	}
	return model.ModeJournalist
}

// contentHeight is the number of report lines that fit on screen
func (a App) contentHeight() int {
	h := a.height - reportChromeHeight
	if h < 5 {
		h = 5
	}
	return h
}

func (a App) maxScroll() int {
	if a.snap.State != orchestrator.StateResolved || a.snap.Record == nil {
		return 0
	}
	n := len(reportLines(*a.snap.Record, a.contentWidth())) - a.contentHeight()
	if n < 0 {
		return 0
	}
	return n
}

func (a App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return a.width - 4
}

// Screen returns the current screen (for testing).
func (a App) Screen() Screen {
	return a.screen
}

// Mode returns the selected user mode (for testing).
func (a App) Mode() model.UserMode {
	return a.mode
}

// Cursor returns the trending-article cursor (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// State returns the orchestrator snapshot the view renders (for testing).
func (a App) State() orchestrator.Snapshot {
	return a.snap
}

// Scroll returns the report scroll offset (for testing).
func (a App) Scroll() int {
	return a.scroll
}
