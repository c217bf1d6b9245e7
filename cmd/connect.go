package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/internal/config"
)

// connectCmd saves the server URL for every subsequent command. The API is
// unauthenticated, so "connecting" is just a reachability check plus
// persisting the URL.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Point the CLI at an IAction server",
	Long: `Probes the given server's metrics endpoint and, when reachable, saves
its URL locally so subsequent commands know where to connect.

Example:
  iaction-cli connect --server "http://192.168.1.50:5002"`,
	Run: func(cmd *cobra.Command, args []string) {
		if serverFlag == "" {
			fmt.Println("Error: --server is required for connect.")
			os.Exit(1)
		}
		host := strings.TrimRight(serverFlag, "/")

		fmt.Printf("Probing %s ...\n", host)

		api := client.New(client.ClientConfig{BaseURL: host})
		if !api.Healthy(context.Background()) {
			log.Fatalf("Fatal: server at %s did not answer the health probe", host)
		}

		fmt.Println("Server reachable. Saving configuration...")

		if err := config.SaveServer(host); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Println("Saved. You can now run commands like './iaction-cli capture status'.")
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
