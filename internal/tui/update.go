package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LucasSch1/IAction/internal/poll"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tickCmd())

	case snapshotMsg:
		m.snapshot = poll.Snapshot(msg)
		m.haveSnap = true

		// Edge detection: act only when the reported boolean flips, so the
		// view is not rebuilt on every tick.
		if m.snapshot.StatusKnown {
			capturing := m.snapshot.IsCapturing
			if capturing != m.isCapturing {
				m.isCapturing = capturing
				if capturing {
					m.streamAvailable = true
				} else {
					// Tearing down the stream on the on-to-off edge mirrors
					// clearing the video element's source.
					m.streamAvailable = false
					m.showStream = false
				}
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.streamAvailable {
				m.showStream = !m.showStream
			}
		case "r":
			return m, m.fetchCmd()
		}
	}

	return m, nil
}
