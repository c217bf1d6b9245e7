package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/config"
	"github.com/LucasSch1/IAction/internal/store"
	"github.com/LucasSch1/IAction/internal/validate"
	"github.com/LucasSch1/IAction/pkg/models"
)

var configSkipCameras bool

// Parent Command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage server configuration",
	Long:  `Read and update the server's admin configuration, hot-reload it, or restart the server.`,
}

// Get Command
var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current server configuration",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		cfg, err := api.GetAdminConfig(context.Background())
		if err != nil {
			fmt.Printf("Error fetching configuration: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		fmt.Fprintln(w, "---\t-----")
		for _, k := range keys {
			value := cfg[k]
			// Never echo secrets in the table view.
			if strings.Contains(k, "PASSWORD") || strings.Contains(k, "TOKEN") || strings.Contains(k, "API_KEY") {
				if value != "" {
					value = "********"
				}
			}
			fmt.Fprintf(w, "%s\t%s\n", k, value)
		}
		w.Flush()
	},
}

// Set Command
var configSetCmd = &cobra.Command{
	Use:   "set KEY=VALUE [KEY=VALUE...]",
	Short: "Update configuration values and save",
	Long: `Fetches the current configuration, applies the given KEY=VALUE updates,
validates the result and posts it back. Locally stored additional cameras
ride along in the save unless --skip-cameras is set.`,
	Example: `  iaction-cli config set CAPTURE_MODE=rtsp DEFAULT_RTSP_URL=rtsp://cam.local:554/live
  iaction-cli config set MIN_ANALYSIS_INTERVAL=1,5`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		cfg, err := api.GetAdminConfig(ctx)
		if err != nil {
			fmt.Printf("Error fetching configuration: %v\n", err)
			os.Exit(1)
		}

		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				fmt.Printf("Error: %q is not KEY=VALUE\n", arg)
				os.Exit(1)
			}
			cfg[strings.TrimSpace(key)] = value
		}

		// Advisory warnings do not block; malformed values do.
		warnings, err := validate.AdminConfig(cfg)
		for _, warning := range warnings {
			fmt.Printf("Warning: %s\n", warning)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var cameras []models.CameraDescriptor
		if !configSkipCameras {
			cameras, err = store.NewFileStore(config.CamerasFile()).Load()
			if err != nil {
				fmt.Printf("Error loading local cameras: %v\n", err)
				os.Exit(1)
			}
		}

		if err := api.SaveAdminConfig(ctx, cfg, cameras); err != nil {
			fmt.Printf("Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Configuration saved.")
	},
}

// Reload Command
var configReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Hot-reload the server configuration",
	Long:  `Asks the server to re-read its configuration without restarting, then shows the fresh state.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		result, err := api.HotReload(ctx)
		if err != nil {
			fmt.Printf("Reload failed: %v\n", err)
			fmt.Println("Warning: the server may need a manual restart to pick up changes.")
			os.Exit(1)
		}

		fmt.Println("Configuration reloaded.")
		if len(result.Status) > 0 {
			keys := make([]string, 0, len(result.Status))
			for k := range result.Status {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s: %v\n", k, result.Status[k])
			}
		}

		// Re-fetch so the user sees the authoritative post-reload state.
		if cfg, err := api.GetAdminConfig(ctx); err == nil {
			fmt.Printf("Server now holds %d configuration keys.\n", len(cfg))
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configReloadCmd)

	configSetCmd.Flags().BoolVar(&configSkipCameras, "skip-cameras", false, "Do not attach locally stored additional cameras to the save")
}
