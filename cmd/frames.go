package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

var framesCmd = &cobra.Command{
	Use:     "frames",
	Aliases: []string{"frame"},
	Short:   "Manage captured frames",
}

var framesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List frames, optionally of one timelapse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timelapseID, _ := cmd.Flags().GetInt64("timelapse")
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		var frames []apiclient.Frame
		if timelapseID != 0 {
			frames, err = client.ListFramesForTimelapse(cmd.Context(), timelapseID)
		} else {
			frames, err = client.ListFrames(cmd.Context(), 0)
		}
		if err != nil {
			return fmt.Errorf("fail to list frames: %w", err)
		}
		return render(cmd, frames, func(w io.Writer) {
			frameTable(w, frames...)
		})
	},
}

var framesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		frame, err := client.GetFrame(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fail to get frame: %w", err)
		}
		return render(cmd, frame, func(w io.Writer) {
			frameTable(w, *frame)
		})
	},
}

var framesImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Download a frame's image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		img, err := client.GetFrameImage(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fail to get frame image: %w", err)
		}
		out, _ := cmd.Flags().GetString("out")
		return writeBlob(cmd, img, out, fmt.Sprintf("frame_%d", id))
	},
}

var framesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a frame file with a timelapse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := apiclient.FrameCreateRequest{}
		data.TimelapseID, _ = cmd.Flags().GetInt64("timelapse")
		data.FilePath, _ = cmd.Flags().GetString("path")
		var err error
		if data.CapturedAt, err = timestampFlag(cmd, "captured-at"); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		frame, err := client.CreateFrame(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("fail to create frame: %w", err)
		}
		return render(cmd, frame, func(w io.Writer) {
			frameTable(w, *frame)
		})
	},
}

var framesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a frame's file path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		frame, err := client.UpdateFrame(cmd.Context(), id, apiclient.FrameUpdateRequest{
			FilePath: optString(cmd, "path"),
		})
		if err != nil {
			return fmt.Errorf("fail to update frame: %w", err)
		}
		return render(cmd, frame, func(w io.Writer) {
			frameTable(w, *frame)
		})
	},
}

var framesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := client.DeleteFrame(cmd.Context(), id); err != nil {
			return fmt.Errorf("fail to delete frame: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted frame %d\n", id)
		return nil
	},
}

func frameTable(w io.Writer, frames ...apiclient.Frame) {
	fmt.Fprintln(w, "ID\tTIMELAPSE\tCAPTURED\tPATH")
	for _, f := range frames {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", f.ID, f.TimelapseID, timestamp(&f.CapturedAt), f.FilePath)
	}
}

func init() {
	framesListCmd.Flags().Int64("timelapse", 0, "Only frames of this timelapse")

	framesImageCmd.Flags().StringP("out", "O", "", "Output file, - for stdout")

	framesCreateCmd.Flags().Int64("timelapse", 0, "Timelapse id (required)")
	framesCreateCmd.MarkFlagRequired("timelapse")
	framesCreateCmd.Flags().String("path", "", "Image file path on the service host (required)")
	framesCreateCmd.MarkFlagRequired("path")
	framesCreateCmd.Flags().String("captured-at", "", "Capture time, RFC 3339 (default now)")

	framesUpdateCmd.Flags().String("path", "", "New image file path")
	framesUpdateCmd.MarkFlagRequired("path")

	framesCmd.AddCommand(framesListCmd, framesGetCmd, framesImageCmd,
		framesCreateCmd, framesUpdateCmd, framesDeleteCmd)
	rootCmd.AddCommand(framesCmd)
}
