package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/poll"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and per-camera analysis state",
	Long: `One-shot overview: server reachability, analysis metrics and the
per-camera analysis state. For a continuously updating view use 'monitor'.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		if !api.Healthy(ctx) {
			fmt.Printf("Server %s is not responding\n", api.Config.BaseURL)
			os.Exit(1)
		}

		status, err := api.GetStatus(ctx)
		if err != nil {
			fmt.Printf("Error fetching status: %v\n", err)
			os.Exit(1)
		}
		metrics, merr := api.GetMetrics(ctx)

		// --- JSON OUTPUT ---
		if jsonOutput {
			out := map[string]any{"status": status}
			if merr == nil {
				out["metrics"] = metrics
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		fmt.Printf("Server: %s (online)\n", api.Config.BaseURL)
		fmt.Printf("Active cameras: %d\n", status.ActiveCameras)

		if merr == nil {
			fmt.Printf("Analysis FPS: %s  Total FPS: %.2f  Last duration: %.2fs\n",
				poll.FormatFPS(metrics.LastAnalysisDuration),
				poll.SafeFloat(metrics.AnalysisTotalFPS),
				poll.SafeFloat(metrics.LastAnalysisDuration))
		}

		if len(status.Cameras) == 0 {
			fmt.Println("\nNo cameras reporting.")
			return
		}

		ids := make([]string, 0, len(status.Cameras))
		for id := range status.Cameras {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CAMERA\tCAPTURING\tANALYZING\tLAST ANALYSIS")
		fmt.Fprintln(w, "------\t---------\t---------\t-------------")
		for _, id := range ids {
			cam := status.Cameras[id]
			last := "never"
			if cam.LastAnalysisTime > 0 {
				last = time.Unix(int64(cam.LastAnalysisTime), 0).Format("15:04:05")
			}
			fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", id, cam.IsCapturing, cam.AnalysisInProgress, last)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
