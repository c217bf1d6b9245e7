package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/config"
	"github.com/LucasSch1/IAction/internal/probe"
	"github.com/LucasSch1/IAction/internal/store"
	"github.com/LucasSch1/IAction/pkg/models"
)

// Variables to hold flag values
var (
	testRTSPURL string
	testDirect  bool
)

// badgeMark renders a badge state as a terminal marker.
func badgeMark(state models.BadgeState) string {
	switch state {
	case models.BadgeOK:
		return "[ OK ]"
	case models.BadgeError:
		return "[FAIL]"
	case models.BadgeInfo:
		return "[INFO]"
	default:
		return "[ -- ]"
	}
}

func printBadge(label string, state models.BadgeState, title string) {
	fmt.Printf("%s %s: %s\n", badgeMark(state), label, title)
	if state == models.BadgeError {
		os.Exit(1)
	}
}

// Parent Command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run connectivity tests",
	Long:  `Test the AI backend, MQTT broker, RTSP source or the full camera list, via the server or directly.`,
}

// AI Test
var testAICmd = &cobra.Command{
	Use:   "ai",
	Short: "Test the AI backend connection",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		result, err := api.TestAI(context.Background())
		if err != nil {
			printBadge("ai", models.BadgeError, err.Error())
			return
		}
		state, title := result.Badge()
		printBadge("ai", state, title)
	},
}

// MQTT Test
var testMQTTCmd = &cobra.Command{
	Use:   "mqtt",
	Short: "Test the MQTT broker connection",
	Long: `Asks the server to verify its broker connection. With --direct the CLI
connects to the broker itself, using the broker settings from the server's
configuration, to tell a broker problem apart from a server problem.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		if testDirect {
			cfg, err := api.GetAdminConfig(ctx)
			if err != nil {
				printBadge("mqtt", models.BadgeError, fmt.Sprintf("cannot read broker settings: %v", err))
				return
			}
			port, err := strconv.Atoi(cfg[models.KeyMQTTPort])
			if err != nil || port <= 0 {
				port = 1883
			}
			res := probe.MQTT(cfg[models.KeyMQTTBroker], port, cfg["MQTT_USERNAME"], cfg["MQTT_PASSWORD"], client.MQTTTestTimeout)
			if res.Connected {
				printBadge("mqtt (direct)", models.BadgeOK, res.Detail)
			} else {
				printBadge("mqtt (direct)", models.BadgeError, res.Detail)
			}
			return
		}

		result, err := api.TestMQTT(ctx)
		if err != nil {
			printBadge("mqtt", models.BadgeError, err.Error())
			return
		}
		state, title := result.Badge()
		printBadge("mqtt", state, title)
	},
}

// RTSP Test
var testRTSPCmd = &cobra.Command{
	Use:   "rtsp",
	Short: "Test an RTSP source",
	Long: `Asks the server to probe an RTSP URL (or its configured default when no
--url is given). With --direct the CLI issues the DESCRIBE itself.`,
	Example: `  iaction-cli test rtsp
  iaction-cli test rtsp --url rtsp://cam.local:554/live --direct`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		if testDirect {
			url := testRTSPURL
			if url == "" {
				cfg, err := api.GetPublicConfig(ctx)
				if err != nil || cfg.RTSPURL == "" {
					printBadge("rtsp (direct)", models.BadgeInfo, "no RTSP URL given and none configured")
					return
				}
				url = cfg.RTSPURL
			}
			res := probe.RTSP(url, "", "", client.RTSPTestTimeout)
			if res.Online {
				printBadge("rtsp (direct)", models.BadgeOK, res.Detail)
			} else {
				printBadge("rtsp (direct)", models.BadgeError, res.Detail)
			}
			return
		}

		result, err := api.TestRTSP(ctx, testRTSPURL)
		if err != nil {
			printBadge("rtsp", models.BadgeError, err.Error())
			return
		}
		state, title := result.Badge()
		printBadge("rtsp", state, title)
	},
}

// Cameras Test
var testCamerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Test every locally configured camera",
	Long:  `Posts the stored additional cameras to the server's multi-camera test and prints per-camera results.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		cameras, err := store.NewFileStore(config.CamerasFile()).Load()
		if err != nil {
			fmt.Printf("Error loading local cameras: %v\n", err)
			os.Exit(1)
		}
		if len(cameras) == 0 {
			fmt.Println("No additional cameras configured. Add one with 'iaction-cli cameras add'.")
			return
		}

		results, err := api.TestMultiple(context.Background(), cameras)
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
		fmt.Fprintln(w, "CAMERA\tNAME\tSTATUS\tMESSAGE")
		fmt.Fprintln(w, "------\t----\t------\t-------")
		for _, r := range results {
			mark := "FAIL"
			if r.Success {
				mark = "OK"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CameraID, r.CameraName, mark, r.Message)
		}
		w.Flush()

		passed := lo.CountBy(results, func(r models.CameraResult) bool { return r.Success })
		fmt.Printf("\n%d/%d cameras passed.\n", passed, len(results))
		if passed < len(results) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.AddCommand(testAICmd)
	testCmd.AddCommand(testMQTTCmd)
	testCmd.AddCommand(testRTSPCmd)
	testCmd.AddCommand(testCamerasCmd)

	testCmd.PersistentFlags().BoolVar(&testDirect, "direct", false, "Probe the target directly instead of via the server")
	testRTSPCmd.Flags().StringVar(&testRTSPURL, "url", "", "RTSP URL to test (default: the server's configured URL)")
}
