// Package tui provides the Bubble Tea interface for Aletheia: a landing screen
// that collects a query and a report screen driven by the request orchestrator.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/orchestrator"
)

// ArticlesLoaded is sent when the trending list is available.
type ArticlesLoaded struct {
	Articles []model.Article
}

// SnapshotUpdated carries the orchestrator state after a change.
type SnapshotUpdated struct {
	Snapshot orchestrator.Snapshot
}

// loadingTick rotates the loading message.
type loadingTick struct {
	seq uint64 // Snapshot sequence that started the rotation
}

// loadingInterval is how long each loading message stays on screen.
const loadingInterval = 3500 * time.Millisecond

func tickLoading(seq uint64) tea.Cmd {
	return tea.Tick(loadingInterval, func(time.Time) tea.Msg {
		return loadingTick{seq: seq}
	})
}

// waitForSnapshot blocks until the orchestrator signals a change and then
// reads its current state. Signals coalesce, so only the latest state is read.
func waitForSnapshot(changed <-chan struct{}, orch *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		<-changed
		return SnapshotUpdated{Snapshot: orch.Snapshot()}
	}
}
