package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LucasSch1/IAction/pkg/models"
)

var (
	streamCameraID string
	snapshotOutput string
	saveDir        string
	saveCount      int
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Work with the live MJPEG feed",
}

var streamURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the MJPEG feed URL for a camera",
	Long: `Prints the video feed URL for the given camera. The URL carries a
cache-buster query, so each invocation yields a fresh one.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()
		fmt.Println(api.StreamURL(streamCameraID))
	},
}

var streamSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Grab a single frame from a camera",
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		frame, err := api.Snapshot(context.Background(), streamCameraID)
		if err != nil {
			fmt.Printf("Error grabbing frame: %v\n", err)
			os.Exit(1)
		}

		if snapshotOutput == "" || snapshotOutput == "-" {
			if _, err := os.Stdout.Write(frame); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing frame: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := os.WriteFile(snapshotOutput, frame, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", snapshotOutput, err)
			os.Exit(1)
		}
		fmt.Printf("✓ Wrote %d bytes to %s\n", len(frame), snapshotOutput)
	},
}

var streamSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a run of frames from a camera",
	Long: `Reads the live feed and writes consecutive frames as numbered JPEG
files. Stops after --count frames, or on Ctrl-C when --count is 0.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := setupClient()

		if err := os.MkdirAll(saveDir, 0o755); err != nil {
			fmt.Printf("Error creating %s: %v\n", saveDir, err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		written := 0
		err := api.ReadStream(ctx, streamCameraID, func(frame []byte) bool {
			name := filepath.Join(saveDir, fmt.Sprintf("frame_%06d.jpg", written))
			if err := os.WriteFile(name, frame, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
				return false
			}
			written++
			return saveCount == 0 || written < saveCount
		})
		if err != nil && ctx.Err() == nil {
			fmt.Printf("Error reading stream: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✓ Saved %d frame(s) to %s\n", written, saveDir)
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.AddCommand(streamURLCmd)
	streamCmd.AddCommand(streamSnapshotCmd)
	streamCmd.AddCommand(streamSaveCmd)

	streamCmd.PersistentFlags().StringVar(&streamCameraID, "camera", models.MainCameraID, "Camera ID to stream")
	streamSnapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "Output file (default: stdout)")
	streamSaveCmd.Flags().StringVar(&saveDir, "dir", ".", "Directory to write frames into")
	streamSaveCmd.Flags().IntVar(&saveCount, "count", 10, "Number of frames to save (0 = until interrupted)")
}
