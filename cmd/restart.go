package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// How long to wait for the server to come back after a restart. One probe
// attempt per second, each bounded at 2s.
const restartBudget = 60 * time.Second

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the server and wait for it to come back",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		ctx := context.Background()

		fmt.Println("Requesting restart...")
		if err := api.Restart(ctx); err != nil {
			fmt.Printf("Error requesting restart: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Restart accepted. Waiting up to %s for the server...\n", restartBudget)
		if err := api.WaitHealthy(ctx, restartBudget); err != nil {
			fmt.Printf("Warning: %v\n", err)
			fmt.Println("Check the server manually; it may still be starting.")
			os.Exit(1)
		}

		fmt.Println("Server is back up.")
	},
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Stop the server process",
	Long:  `Stops the server. The endpoint only accepts requests from the machine the server runs on.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		if err := api.Shutdown(context.Background()); err != nil {
			fmt.Printf("Error requesting shutdown: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Shutdown requested.")
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(shutdownCmd)
}
