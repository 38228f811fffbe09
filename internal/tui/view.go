package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/orchestrator"
	"github.com/ppiankov/aletheia/internal/render"
)

// reportChromeHeight is the header plus status bar around the report body
const reportChromeHeight = 5

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.screen == ScreenReport {
		return a.reportView()
	}
	return a.landingView()
}

func (a App) landingView() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + TitleStyle.Render("ALETHEIA") + "\n")
	b.WriteString("  " + TaglineStyle.Render("Credibility reports for claims, articles and topics") + "\n\n")

	b.WriteString("  " + renderModeToggle(a.mode) + "\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(InputBox.Render(a.input.View())) + "\n")

	if a.notice != "" {
		b.WriteString("  " + ErrorStyle.Render(a.notice) + "\n")
	}

	b.WriteString("  " + SectionHeader.Render("Trending") + "\n")
	switch {
	case a.articlesLoading:
		b.WriteString("  " + a.spin.View() + MutedText.Render(" Loading trending articles...") + "\n")
	case len(a.articles) == 0:
		b.WriteString("  " + MutedText.Render("No trending articles right now.") + "\n")
	default:
		for i, art := range a.articles {
			b.WriteString(renderArticle(art, i == a.cursor, a.contentWidth()) + "\n")
		}
	}

	keys := []string{
		StatusBarKey.Render("Enter") + StatusBarText.Render(":analyze"),
		StatusBarKey.Render("Tab") + StatusBarText.Render(":mode"),
		StatusBarKey.Render("↑/↓") + StatusBarText.Render(":trending"),
		StatusBarKey.Render("Esc") + StatusBarText.Render(":clear/quit"),
	}

	return padToBottom(b.String(), a.height-1) + renderStatusBar(" "+string(a.mode)+" ", keys, a.width)
}

func renderModeToggle(mode model.UserMode) string {
	reader, journalist := ModeInactive, ModeInactive
	if mode == model.ModeJournalist {
		journalist = ModeActive
	} else {
		reader = ModeActive
	}
	return reader.Render("Reader") + " " + journalist.Render("Journalist")
}

func renderArticle(art model.Article, selected bool, width int) string {
	score := scoreStyle(art.CredibilityScore).Render(fmt.Sprintf("%3d", art.CredibilityScore))

	titleWidth := width - 12
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := runewidth.FillRight(runewidth.Truncate(art.Title, titleWidth, "…"), titleWidth)

	prefix := "  "
	if selected {
		prefix = "▸ "
		title = SelectedItem.Render(title)
	}

	line := "  " + prefix + score + " " + title
	if meta := articleMeta(art); meta != "" {
		line += "\n        " + MutedText.Render(runewidth.Truncate(meta, titleWidth, "…"))
	}
	return line
}

func articleMeta(art model.Article) string {
	parts := make([]string, 0, 2)
	if art.Category != "" {
		parts = append(parts, art.Category)
	}
	if art.Source != "" {
		parts = append(parts, art.Source)
	}
	return strings.Join(parts, " · ")
}

func (a App) reportView() string {
	var b strings.Builder
	width := a.contentWidth()

	query := a.snap.Query
	if query == "" {
		query = "No query"
	}
	// The header names the mode the shown state belongs to
	mode := a.snap.Mode
	if mode == "" {
		mode = a.mode
	}
	b.WriteString("\n")
	b.WriteString("  " + TitleStyle.Render("ALETHEIA") + " " + MutedText.Render(string(mode)) + "\n")
	b.WriteString("  " + BodyText.Bold(true).Render(runewidth.Truncate(query, width, "…")) + "\n\n")

	var keys []string
	switch a.snap.State {
	case orchestrator.StateLoading:
		b.WriteString("  " + a.spin.View() + " " + LoadingTitle.Render("Preparing report") + "\n\n")
		b.WriteString("  " + MutedText.Render(loadingMessages[a.loadingIdx]) + "\n")
		keys = []string{
			StatusBarKey.Render("Esc") + StatusBarText.Render(":back"),
			StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
		}

	case orchestrator.StateError:
		b.WriteString("  " + ErrorStyle.Render(a.snap.Err) + "\n\n")
		b.WriteString("  " + MutedText.Render("r retry · esc back") + "\n")
		keys = []string{
			StatusBarKey.Render("r") + StatusBarText.Render(":retry"),
			StatusBarKey.Render("Esc") + StatusBarText.Render(":back"),
			StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
		}

	case orchestrator.StateResolved:
		if a.snap.Record != nil {
			lines := reportLines(*a.snap.Record, width)
			end := min(a.scroll+a.contentHeight(), len(lines))
			start := min(a.scroll, end)
			for _, l := range lines[start:end] {
				b.WriteString("  " + l + "\n")
			}
		}
		keys = []string{
			StatusBarKey.Render("j/k") + StatusBarText.Render(":scroll"),
			StatusBarKey.Render("m") + StatusBarText.Render(":mode"),
			StatusBarKey.Render("Esc") + StatusBarText.Render(":back"),
			StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
		}

	default:
		b.WriteString("  " + MutedText.Render(emptyQueryNotice) + "\n")
		keys = []string{
			StatusBarKey.Render("Esc") + StatusBarText.Render(":back"),
			StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
		}
	}

	return padToBottom(b.String(), a.height-1) + renderStatusBar(" "+string(a.snap.State)+" ", keys, a.width)
}

// reportLines lays out a resolved record as display lines
func reportLines(rec model.AnalysisRecord, width int) []string {
	var lines []string
	add := func(s string) {
		lines = append(lines, strings.Split(s, "\n")...)
	}
	wrap := lipgloss.NewStyle().Width(width)

	add(SectionHeader.MarginTop(0).Render("Scores"))
	add(scoreLine("Overall credibility", rec.OverallScore()))
	add(scoreLine("Author credibility", rec.AuthorCredibilityScore))
	add(scoreLine("Source reliability", rec.SourceReliabilityScore))
	add(scoreLine("Model confidence", rec.ModelScore.Confidence))

	section := func(title, body string) {
		add("")
		add(SectionHeader.MarginTop(0).Render(title))
		if strings.TrimSpace(body) == "" {
			add(MutedText.Render("Not provided."))
			return
		}
		add(wrap.Inherit(BodyText).Render(body))
	}
	list := func(title string, items []string, style lipgloss.Style, empty string) {
		add("")
		add(SectionHeader.MarginTop(0).Render(title))
		if len(items) == 0 {
			add(MutedText.Render(empty))
			return
		}
		for _, item := range items {
			add(style.Width(width).Render("• " + item))
		}
	}

	section("Overview", rec.GeneralOverview)

	add("")
	add(SectionHeader.MarginTop(0).Render("Bias"))
	classification := rec.BiasReport.BiasClassification
	if classification == "" {
		classification = "Not provided"
	}
	add(BodyText.Render(classification) + MutedText.Render(fmt.Sprintf(" (lean: %s)", model.LeanOf(rec.BiasReport.BiasClassification))))
	for _, s := range rec.BiasReport.SentimentDistribution {
		add(BodyText.Render("  " + s))
	}

	section("Evidence contradictions", rec.EvidenceContradictions)
	list("Manipulation techniques", rec.ManipulationTechniques, WarningText, "None detected.")
	section("Model key features", rec.ModelScore.KeyFeatures)

	add("")
	add(SectionHeader.MarginTop(0).Render("Citations"))
	citations := render.ParseCitations(rec.Citations)
	if len(citations) == 0 {
		add(MutedText.Render("No citations."))
	}
	for i, c := range citations {
		line := fmt.Sprintf("%d. %s", i+1, c.Text)
		if c.Host != "" {
			line += MutedText.Render(" (" + c.Host + ")")
		}
		add(wrap.Render(line))
		if c.URL != "" {
			add(MutedText.Render("   " + runewidth.Truncate(c.URL, width-3, "…")))
		}
	}

	list("Tools used", rec.ToolsUsed, BodyText, "None listed.")

	if rec.Metadata != nil && rec.Metadata.RecordID != "" {
		add("")
		add(MutedText.Render("Record " + rec.Metadata.RecordID))
	}

	return lines
}

func scoreLine(label string, score int) string {
	value := scoreStyle(score).Render(fmt.Sprintf("%3d/100 %s", score, model.BandFor(score)))
	return fmt.Sprintf("%-20s %s %s", label, render.Bar(score, 20), value)
}

// renderStatusBar renders the bottom status bar with key hints.
func renderStatusBar(left string, keys []string, width int) string {
	keyHints := strings.Join(keys, " ")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(keyHints)
	padding := width - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := left + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}

// padToBottom pushes the status bar to the last line
func padToBottom(s string, height int) string {
	n := strings.Count(s, "\n")
	if n < height {
		s += strings.Repeat("\n", height-n)
	}
	return s
}
