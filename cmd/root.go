package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/config"
	"github.com/LucasSch1/IAction/internal/logging"
	"go.uber.org/zap"
)

var cfgFile string
var jsonOutput bool
var serverFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iaction-cli",
	Short: "A CLI for the IAction camera monitoring server",
	Long: `Manage configuration, captures, cameras and detections on an IAction
camera-monitoring server via its HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.iaction-cli.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "server base URL (overrides the saved one)")

	// Add the persistent flag here
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}

// serverURL resolves the backend base URL from the flag or the saved config.
func serverURL() string {
	if serverFlag != "" {
		return serverFlag
	}
	return viper.GetString(config.KeyServerURL)
}

// setupClient builds the API client from the resolved server URL. Commands
// bail out early when no server is known.
func setupClient() *client.IActionClient {
	base := serverURL()
	if base == "" {
		fmt.Println("Error: no server configured. Run 'iaction-cli connect --server <url>' first.")
		os.Exit(1)
	}
	return client.New(client.ClientConfig{BaseURL: base})
}

// newLogger builds the structured logger from the configured level.
func newLogger() *zap.Logger {
	return logging.New(viper.GetString(config.KeyLogLevel))
}
