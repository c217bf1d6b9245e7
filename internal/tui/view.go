package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LucasSch1/IAction/internal/poll"
	"github.com/LucasSch1/IAction/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	badgeOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badgeError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	badgeInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	badgeLoading = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func renderBadge(state models.BadgeState, text string) string {
	switch state {
	case models.BadgeOK:
		return badgeOK.Render("● " + text)
	case models.BadgeError:
		return badgeError.Render("● " + text)
	case models.BadgeInfo:
		return badgeInfo.Render("● " + text)
	case models.BadgeLoading:
		return badgeLoading.Render("◌ " + text)
	default:
		return labelStyle.Render("○ " + text)
	}
}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IAction Monitor"))
	b.WriteString(labelStyle.Render("  " + m.client.Config.BaseURL))
	b.WriteString("\n\n")

	if !m.haveSnap {
		b.WriteString(renderBadge(models.BadgeLoading, "connecting..."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\nq: quit"))
		return b.String()
	}

	// Server badge
	if m.snapshot.Reachable {
		b.WriteString(renderBadge(models.BadgeOK, "server up"))
	} else {
		b.WriteString(renderBadge(models.BadgeError, "server unreachable"))
	}
	b.WriteString("   ")

	// Capture badge
	switch {
	case !m.snapshot.StatusKnown:
		b.WriteString(renderBadge(models.BadgeIdle, "capture state unknown"))
	case m.isCapturing:
		b.WriteString(renderBadge(models.BadgeOK, "capturing"))
	default:
		b.WriteString(renderBadge(models.BadgeIdle, "no capture running"))
	}
	b.WriteString("\n\n")

	// Metrics
	metrics := m.snapshot.Metrics
	b.WriteString(labelStyle.Render("analysis fps   "))
	b.WriteString(poll.FormatFPS(metrics.LastAnalysisDuration))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("total fps      "))
	b.WriteString(fmt.Sprintf("%.2f", poll.SafeFloat(metrics.AnalysisTotalFPS)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("total interval "))
	b.WriteString(fmt.Sprintf("%.2fs", poll.SafeFloat(metrics.AnalysisTotalInterval)))
	b.WriteString("\n")

	// Camera grid
	if len(m.snapshot.Cameras) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Cameras"))
		b.WriteString("\n")

		ids := make([]string, 0, len(m.snapshot.Cameras))
		for id := range m.snapshot.Cameras {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			st := m.snapshot.Cameras[id]
			name := id
			if id == models.MainCameraID {
				name = "main camera"
			}
			if st.IsCapturing {
				b.WriteString(renderBadge(models.BadgeOK, name))
			} else {
				b.WriteString(renderBadge(models.BadgeIdle, name+" (stopped)"))
			}
			b.WriteString("\n")
		}
	}

	// Stream section, only while a capture is live and toggled on
	if m.showStream {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("stream  "))
		b.WriteString(m.client.StreamURL(models.MainCameraID))
		b.WriteString("\n")
	}

	help := "q: quit   r: refresh"
	if m.streamAvailable {
		if m.showStream {
			help += "   s: hide stream"
		} else {
			help += "   s: show stream"
		}
	}
	b.WriteString(helpStyle.Render("\n" + help))

	return b.String()
}
