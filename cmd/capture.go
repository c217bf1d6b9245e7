package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/poll"
)

// Variables to hold flag values
var (
	captureRTSPURL  string
	captureCameraID string
)

// Parent Command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Control the capture lifecycle",
	Long:  `Start or stop the main capture and inspect the current capture state.`,
}

// Start Command
var captureStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start capturing on the main camera",
	Long: `Reads the server's capture mode first. In rtsp mode a start without any
known RTSP URL is refused before touching the server.`,
	Example: `  iaction-cli capture start
  iaction-cli capture start --rtsp-url rtsp://cam.local:554/live`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		result, err := api.StartCapture(context.Background(), captureRTSPURL)
		if err != nil {
			if errors.Is(err, client.ErrNoRTSPURL) {
				fmt.Println("Warning: capture mode is rtsp but no RTSP URL is configured.")
				fmt.Println("Set DEFAULT_RTSP_URL via 'iaction-cli config set' or pass --rtsp-url.")
			} else {
				fmt.Printf("Error starting capture: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Println(result.Message)
	},
}

// Stop Command
var captureStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop capturing",
	Long:  `Stops one camera with --camera, or every running capture without it.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		result, err := api.StopCapture(context.Background(), captureCameraID)
		if err != nil {
			fmt.Printf("Error stopping capture: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(result.Message)
	},
}

// Status Command
var captureStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current capture state and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		status, err := api.GetCaptureStatus(ctx)
		if err != nil {
			fmt.Printf("Error fetching capture status: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(status); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		if status.MainCapturing() {
			fmt.Println("Main camera: capturing")
		} else {
			fmt.Println("Main camera: not capturing")
		}
		fmt.Printf("Active cameras: %d\n", status.ActiveCameras)

		if len(status.Cameras) > 0 {
			ids := make([]string, 0, len(status.Cameras))
			for id := range status.Cameras {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CAMERA\tCAPTURING\tACTIVE")
			fmt.Fprintln(w, "------\t---------\t------")
			for _, id := range ids {
				st := status.Cameras[id]
				fmt.Fprintf(w, "%s\t%t\t%t\n", id, st.IsCapturing, st.CameraActive)
			}
			w.Flush()
		}

		// Metrics are best-effort; the capture state above is the point.
		if m, err := api.GetMetrics(ctx); err == nil {
			fmt.Printf("\nAnalysis FPS: %s  Total FPS: %.2f  Interval: %.2fs\n",
				poll.FormatFPS(m.LastAnalysisDuration),
				poll.SafeFloat(m.AnalysisTotalFPS),
				poll.SafeFloat(m.AnalysisTotalInterval))
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.AddCommand(captureStartCmd)
	captureCmd.AddCommand(captureStopCmd)
	captureCmd.AddCommand(captureStatusCmd)

	captureStartCmd.Flags().StringVar(&captureRTSPURL, "rtsp-url", "", "RTSP URL override for this start")
	captureStopCmd.Flags().StringVar(&captureCameraID, "camera", "", "Stop only this camera id")
}
