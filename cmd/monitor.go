package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/poll"
	"github.com/LucasSch1/IAction/internal/tui"
)

var monitorPlain bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard of capture state and metrics",
	Long: `Polls the server once a second and reconciles the display with its
reported capture state. Transient fetch failures never stop the loop.

The default view is an interactive dashboard; --plain logs state changes to
stdout instead, for terminals without TTY support.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		logger := newLogger()
		defer logger.Sync()

		if monitorPlain {
			runPlainMonitor(api, logger)
			return
		}

		p := tea.NewProgram(tui.NewModel(api, logger), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running dashboard: %v\n", err)
			os.Exit(1)
		}
	},
}

// runPlainMonitor drives the poller headless, printing edges and a line per
// tick, until interrupted.
func runPlainMonitor(api *client.IActionClient, logger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := poll.New(api, logger, poll.Events{
		OnStarted: func() { fmt.Println("capture started") },
		OnStopped: func() { fmt.Println("capture stopped") },
		OnTick: func(s poll.Snapshot) {
			if !s.Reachable {
				return
			}
			fmt.Printf("analysis fps %s, total fps %.2f, active cameras %d\n",
				poll.FormatFPS(s.Metrics.LastAnalysisDuration),
				poll.SafeFloat(s.Metrics.AnalysisTotalFPS),
				len(s.Cameras))
		},
	})

	fmt.Println("Monitoring (Ctrl+C to stop)...")
	poller.Run(ctx)
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().BoolVar(&monitorPlain, "plain", false, "Log to stdout instead of the interactive dashboard")
}
