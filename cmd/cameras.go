package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/config"
	"github.com/LucasSch1/IAction/internal/store"
	"github.com/LucasSch1/IAction/internal/validate"
	"github.com/LucasSch1/IAction/pkg/models"
)

// Variables to hold flag values
var (
	camID         string
	camName       string
	camMode       string
	camRTSPURL    string
	camRTSPUser   string
	camRTSPPass   string
	camHAEntity   string
	camHAAttr     string
	camHAInterval string
	camInterval   string
)

// cameraList opens the local camera list on the configured file store.
func cameraList() *store.List {
	return store.NewList(store.NewFileStore(config.CamerasFile()))
}

// allCameras builds the full start/test list: the implicit main descriptor
// first, then the stored additional cameras in order.
func allCameras(ctx context.Context) ([]models.CameraDescriptor, error) {
	api := setupClient()
	stored, err := cameraList().All()
	if err != nil {
		return nil, err
	}

	main := models.CameraDescriptor{
		ID:   models.MainCameraID,
		Name: "Main camera",
		Mode: models.ModeRTSP,
	}
	if cfg, err := api.GetPublicConfig(ctx); err == nil {
		main.Mode = models.CameraMode(cfg.CaptureMode)
		main.RTSPURL = cfg.RTSPURL
		main.HAEntity = cfg.HAEntityID
		main.HAAttr = cfg.HAImageAttr
		main.HAInterval = cfg.HAPollInterval
	}

	return append([]models.CameraDescriptor{main}, stored...), nil
}

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage the additional camera list",
	Long: `Maintain the locally stored additional cameras and orchestrate them on
the server. The main camera is implicit; it is always posted first under the
reserved id "main".`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally configured additional cameras",
	Run: func(cmd *cobra.Command, args []string) {
		cameras, err := cameraList().All()
		if err != nil {
			fmt.Printf("Error loading cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cameras); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		if len(cameras) == 0 {
			fmt.Println("No additional cameras configured.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODE\tSOURCE\tINTERVAL")
		fmt.Fprintln(w, "--\t----\t----\t------\t--------")
		for _, c := range cameras {
			source := c.RTSPURL
			if c.Mode == models.ModeHAPolling {
				source = c.HAEntity
			}
			interval := "-"
			if c.AnalysisInterval > 0 {
				interval = fmt.Sprintf("%gs", c.AnalysisInterval)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Mode, source, interval)
		}
		w.Flush()
	},
}

// Add Command
var camerasAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an additional camera",
	Example: `  iaction-cli cameras add --name "Garage" --mode rtsp --rtsp-url rtsp://garage.local:554/live
  iaction-cli cameras add --name "Porch" --mode ha_polling --ha-entity camera.porch`,
	Run: func(cmd *cobra.Command, args []string) {
		d := models.CameraDescriptor{
			ID:           camID,
			Name:         camName,
			Mode:         models.CameraMode(camMode),
			RTSPURL:      camRTSPURL,
			RTSPUsername: camRTSPUser,
			RTSPPassword: camRTSPPass,
			HAEntity:     camHAEntity,
			HAAttr:       camHAAttr,
		}
		if camHAInterval != "" {
			v, err := validate.ParseNumber(camHAInterval)
			if err != nil {
				fmt.Printf("Error: --ha-interval: %v\n", err)
				os.Exit(1)
			}
			d.HAInterval = v
		}
		if camInterval != "" {
			v, err := validate.Interval(camInterval)
			if err != nil {
				fmt.Printf("Error: --interval: %v\n", err)
				os.Exit(1)
			}
			d.AnalysisInterval = v
		}

		added, err := cameraList().Add(d)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				// Collision is a warning and a no-op, never a duplicate entry.
				fmt.Printf("Warning: %v; nothing added.\n", err)
				return
			}
			fmt.Printf("Error adding camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Added camera %s (%s).\n", added.ID, added.Name)
	},
}

// Remove Command
var camerasRemoveCmd = &cobra.Command{
	Use:   "remove <camera-id>",
	Short: "Remove an additional camera",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cameraList().Remove(args[0]); err != nil {
			fmt.Printf("Error removing camera: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed camera %s.\n", args[0])
	},
}

// Start Command
var camerasStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the main camera plus every additional camera",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		cameras, err := allCameras(ctx)
		if err != nil {
			fmt.Printf("Error building camera list: %v\n", err)
			os.Exit(1)
		}

		result, err := api.StartMultiple(ctx, cameras)
		if err != nil {
			fmt.Printf("Error starting cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Results); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CAMERA\tRESULT\tMESSAGE")
		fmt.Fprintln(w, "------\t------\t-------")
		for _, r := range result.Results {
			mark := "FAIL"
			if r.Success {
				mark = "OK"
			}
			name := r.CameraID
			if r.CameraID == models.MainCameraID {
				name = "main"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, mark, r.Message)
		}
		w.Flush()

		started := lo.CountBy(result.Results, func(r models.CameraResult) bool { return r.Success })
		fmt.Printf("\n%d/%d cameras started.\n", started, len(result.Results))
	},
}

// Test Command
var camerasTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the main camera plus every additional camera",
	Long:  `Posts the full camera list to the server's multi-camera test without starting anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		cameras, err := allCameras(ctx)
		if err != nil {
			fmt.Printf("Error building camera list: %v\n", err)
			os.Exit(1)
		}

		results, err := api.TestMultiple(ctx, cameras)
		if err != nil {
			fmt.Printf("Error testing cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CAMERA\tSTATUS\tMESSAGE")
		fmt.Fprintln(w, "------\t------\t-------")
		for _, r := range results {
			status := r.Status
			if status == "" {
				if r.Success {
					status = "ok"
				} else {
					status = "failed"
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.CameraID, status, r.Message)
		}
		w.Flush()

		passed := lo.CountBy(results, func(r models.CameraResult) bool { return r.Success })
		fmt.Printf("\n%d/%d cameras passed.\n", passed, len(results))
	},
}

// Stop Command
var camerasStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop every running capture",
	Long:  `Issues one blanket stop; the server has no per-camera granularity here.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		result, err := api.StopCapture(context.Background(), "")
		if err != nil {
			fmt.Printf("Error stopping cameras: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result.Message)
	},
}

// Interval Command
var camerasIntervalCmd = &cobra.Command{
	Use:   "set-interval <camera-id> <seconds>",
	Short: "Apply one camera's analysis interval",
	Long: `Posts a per-camera analysis-interval override, independent of the main
configuration save flow. Accepts a comma as decimal separator.`,
	Example: `  iaction-cli cameras set-interval camera_1 1,5`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		interval, err := validate.Interval(args[1])
		if err != nil {
			fmt.Printf("Error: interval must be %g-%g seconds: %v\n", validate.IntervalMin, validate.IntervalMax, err)
			os.Exit(1)
		}

		api := setupClient()
		result, err := api.ApplyInterval(context.Background(), args[0], interval)
		if err != nil {
			fmt.Printf("Error applying interval: %v\n", err)
			os.Exit(1)
		}

		// Keep the stored descriptor in sync so the next save carries it.
		if stored, gerr := cameraList().Get(args[0]); gerr == nil {
			stored.AnalysisInterval = interval
			_ = cameraList().Update(stored)
		}

		if result.Message != "" {
			fmt.Println(result.Message)
		} else {
			fmt.Printf("Interval for %s set to %gs.\n", args[0], interval)
		}
	},
}

// Available Command
var camerasAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "List the RTSP sources the server knows about",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		cameras, err := api.ListCameras(context.Background())
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cameras); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS")
		fmt.Fprintln(w, "--\t----\t----\t------")
		for _, c := range cameras {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.TestStatus)
		}
		w.Flush()
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(camerasCmd)

	// Register Subcommands
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasAddCmd)
	camerasCmd.AddCommand(camerasRemoveCmd)
	camerasCmd.AddCommand(camerasTestCmd)
	camerasCmd.AddCommand(camerasStartCmd)
	camerasCmd.AddCommand(camerasStopCmd)
	camerasCmd.AddCommand(camerasIntervalCmd)
	camerasCmd.AddCommand(camerasAvailableCmd)

	// Flags for Add
	camerasAddCmd.Flags().StringVar(&camID, "id", "", "Camera id (default: next generated camera_N)")
	camerasAddCmd.Flags().StringVar(&camName, "name", "", "Display name")
	camerasAddCmd.Flags().StringVar(&camMode, "mode", "rtsp", "Capture mode: rtsp or ha_polling")
	camerasAddCmd.Flags().StringVar(&camRTSPURL, "rtsp-url", "", "RTSP URL (rtsp mode)")
	camerasAddCmd.Flags().StringVar(&camRTSPUser, "rtsp-username", "", "RTSP username")
	camerasAddCmd.Flags().StringVar(&camRTSPPass, "rtsp-password", "", "RTSP password")
	camerasAddCmd.Flags().StringVar(&camHAEntity, "ha-entity", "", "Home Assistant entity id (ha_polling mode)")
	camerasAddCmd.Flags().StringVar(&camHAAttr, "ha-attr", "", "Home Assistant picture attribute")
	camerasAddCmd.Flags().StringVar(&camHAInterval, "ha-interval", "", "Home Assistant poll interval in seconds")
	camerasAddCmd.Flags().StringVar(&camInterval, "interval", "", "Analysis interval in seconds (0.1-60)")
	_ = camerasAddCmd.MarkFlagRequired("name")
}
