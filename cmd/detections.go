package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/pkg/models"
)

// Variables to hold flag values
var (
	detName    string
	detPhrase  string
	detWebhook string
)

// refreshDetections reprints the authoritative list after a mutation; the
// local view is only a cache.
func refreshDetections(api *client.IActionClient) {
	detections, err := api.GetDetections(context.Background())
	if err != nil {
		fmt.Printf("Warning: could not refresh detections: %v\n", err)
		return
	}
	fmt.Printf("%d detection(s) configured.\n", len(detections))
}

// Parent Command
var detectionsCmd = &cobra.Command{
	Use:   "detections",
	Short: "Manage detection rules",
	Long:  `List, add, update and delete the phrase/webhook rules the server matches against analysis results.`,
}

// List Command
var detectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured detections",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		detections, err := api.GetDetections(context.Background())
		if err != nil {
			fmt.Printf("Error fetching detections: %v\n", err)
			os.Exit(1)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(detections); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		if len(detections) == 0 {
			fmt.Println("No detections configured.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPHRASE\tWEBHOOK")
		fmt.Fprintln(w, "--\t----\t------\t-------")
		for _, d := range detections {
			webhook := d.WebhookURL
			if webhook == "" {
				webhook = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Phrase, webhook)
		}
		w.Flush()
	},
}

// Add Command
var detectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a detection rule",
	Example: `  iaction-cli detections add --name "Person" --phrase "a person is visible"
  iaction-cli detections add --name "Cat" --phrase "a cat" --webhook "https://hooks.local/cat"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		result, err := api.CreateDetection(context.Background(), models.DetectionPayload{
			Name:       detName,
			Phrase:     detPhrase,
			WebhookURL: detWebhook,
		})
		if err != nil {
			if errors.Is(err, client.ErrDetectionFields) {
				fmt.Println("Error: both --name and --phrase are required.")
			} else {
				fmt.Printf("Error adding detection: %v\n", err)
			}
			os.Exit(1)
		}

		if result.ID != "" {
			fmt.Printf("Detection added with id %s.\n", result.ID)
		} else {
			fmt.Println("Detection added.")
		}
		refreshDetections(api)
	},
}

// Update Command
var detectionsUpdateCmd = &cobra.Command{
	Use:   "update <detection-id>",
	Short: "Update a detection rule",
	Long:  `Patches the given fields; anything left unset keeps its current value.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		_, err := api.UpdateDetection(context.Background(), args[0], models.DetectionPayload{
			Name:       detName,
			Phrase:     detPhrase,
			WebhookURL: detWebhook,
		})
		if err != nil {
			fmt.Printf("Error updating detection: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Detection %s updated.\n", args[0])
		refreshDetections(api)
	},
}

// Delete Command
var detectionsDeleteCmd = &cobra.Command{
	Use:   "delete <detection-id>",
	Short: "Delete a detection rule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		if err := api.DeleteDetection(context.Background(), args[0]); err != nil {
			fmt.Printf("Error deleting detection: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Detection %s deleted.\n", args[0])
		refreshDetections(api)
	},
}

func init() {
	// Register parent
	rootCmd.AddCommand(detectionsCmd)

	detectionsCmd.AddCommand(detectionsListCmd)
	detectionsCmd.AddCommand(detectionsAddCmd)
	detectionsCmd.AddCommand(detectionsUpdateCmd)
	detectionsCmd.AddCommand(detectionsDeleteCmd)

	for _, c := range []*cobra.Command{detectionsAddCmd, detectionsUpdateCmd} {
		c.Flags().StringVar(&detName, "name", "", "Detection name")
		c.Flags().StringVar(&detPhrase, "phrase", "", "Phrase to match against analysis results")
		c.Flags().StringVar(&detWebhook, "webhook", "", "Webhook URL to call on a match (optional)")
	}
}
