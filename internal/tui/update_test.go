package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/poll"
)

func snapshot(capturing bool) snapshotMsg {
	return snapshotMsg(poll.Snapshot{
		Reachable:   true,
		StatusKnown: true,
		IsCapturing: capturing,
		At:          time.Now(),
	})
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func newTestModel() Model {
	return NewModel(client.New(client.ClientConfig{BaseURL: "http://localhost:5000"}), nil)
}

func TestSnapshotEdgeOffersStream(t *testing.T) {
	m := newTestModel()
	assert.False(t, m.streamAvailable)

	m = apply(t, m, snapshot(true))
	assert.True(t, m.streamAvailable)
	assert.False(t, m.showStream)
}

func TestStopEdgeTearsDownStream(t *testing.T) {
	m := newTestModel()
	m = apply(t, m, snapshot(true))

	// Viewer opted into the stream.
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.True(t, m.showStream)

	m = apply(t, m, snapshot(false))
	assert.False(t, m.streamAvailable)
	assert.False(t, m.showStream)
}

func TestStreamToggleIgnoredWhileIdle(t *testing.T) {
	m := newTestModel()
	m = apply(t, m, snapshot(false))

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.False(t, m.showStream)
}

func TestUnknownStatusKeepsStreamState(t *testing.T) {
	m := newTestModel()
	m = apply(t, m, snapshot(true))
	require.True(t, m.streamAvailable)

	// A tick whose status fetch failed must not fabricate a stop edge.
	m = apply(t, m, snapshotMsg(poll.Snapshot{At: time.Now()}))
	assert.True(t, m.streamAvailable)
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel()
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel()
	m = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
