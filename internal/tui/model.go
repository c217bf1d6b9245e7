// Package tui renders the live monitoring dashboard. It is the interactive
// face of the status-reconciliation loop: one tick per second, badge states
// for the server and capture, and a per-camera grid.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/poll"
)

type tickMsg time.Time

type snapshotMsg poll.Snapshot

// Model is the dashboard state. Everything shown is re-derived from the
// last snapshot; the server stays authoritative.
type Model struct {
	client *client.IActionClient
	poller *poll.Poller
	logger *zap.Logger

	width  int
	height int

	snapshot    poll.Snapshot
	haveSnap    bool
	isCapturing bool

	// showStream mirrors the stream-toggle control: only offered while a
	// capture is running, cleared on the on-to-off edge.
	streamAvailable bool
	showStream      bool

	started time.Time
}

func NewModel(c *client.IActionClient, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		client:  c,
		poller:  poll.New(c, logger, poll.Events{}),
		logger:  logger,
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(poll.DefaultInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd runs one reconciliation pass off the UI goroutine.
func (m Model) fetchCmd() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		return snapshotMsg(p.Tick(nil))
	}
}
