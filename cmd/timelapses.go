package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
	"github.com/ImPhantom/chronicle/format"
)

var timelapsesCmd = &cobra.Command{
	Use:     "timelapses",
	Aliases: []string{"timelapse", "tl"},
	Short:   "Manage timelapses",
}

var timelapsesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timelapses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var timelapses []apiclient.Timelapse
		if cmd.Flags().Changed("camera") {
			cameraID, _ := cmd.Flags().GetInt64("camera")
			timelapses, err = client.ListTimelapsesForCamera(cmd.Context(), cameraID)
		} else {
			timelapses, err = client.ListTimelapses(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("fail to list timelapses: %w", err)
		}
		return render(cmd, timelapses, func(w io.Writer) {
			timelapseTable(w, timelapses...)
		})
	},
}

var timelapsesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a timelapse",
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
		tl, err := client.GetTimelapse(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fail to get timelapse: %w", err)
		}
		return render(cmd, tl, func(w io.Writer) {
			timelapseTable(w, *tl)
		})
	},
}

var timelapsesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a timelapse for a camera",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := apiclient.TimelapseCreateRequest{}
		data.CameraID, _ = cmd.Flags().GetInt64("camera")
		data.Name, _ = cmd.Flags().GetString("name")
		data.IntervalSeconds, _ = cmd.Flags().GetInt("interval")
		status, _ := cmd.Flags().GetString("status")
		data.Status = apiclient.TimelapseStatus(status)

		var err error
		if data.StartedAt, err = timestampFlag(cmd, "start"); err != nil {
			return err
		}
		if data.EndedAt, err = timestampFlag(cmd, "end"); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		tl, err := client.CreateTimelapse(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("fail to create timelapse: %w", err)
		}
		return render(cmd, tl, func(w io.Writer) {
			timelapseTable(w, *tl)
		})
	},
}

var timelapsesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change timelapse fields, only the flags given are sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data := apiclient.TimelapseUpdateRequest{
			Name:            optString(cmd, "name"),
			IntervalSeconds: optInt(cmd, "interval"),
			Status:          optEnum[apiclient.TimelapseStatus](cmd, "status"),
		}
		if data.StartedAt, err = optTimestamp(cmd, "start"); err != nil {
			return err
		}
		if data.EndedAt, err = optTimestamp(cmd, "end"); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		tl, err := client.UpdateTimelapse(cmd.Context(), id, data)
		if err != nil {
			return fmt.Errorf("fail to update timelapse: %w", err)
		}
		return render(cmd, tl, func(w io.Writer) {
			timelapseTable(w, *tl)
		})
	},
}

var timelapsesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a timelapse and its frames",
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
		if err := client.DeleteTimelapse(cmd.Context(), id); err != nil {
			return fmt.Errorf("fail to delete timelapse: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted timelapse %d\n", id)
		return nil
	},
}

// statusCmd asks the service to move a timelapse to status and prints the
// status the service answers with.
func statusCmd(use, short string, status apiclient.TimelapseStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
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
			tl, err := client.SetTimelapseStatus(cmd.Context(), id, status)
			if err != nil {
				return fmt.Errorf("fail to %s timelapse: %w", use, err)
			}
			return render(cmd, tl, func(w io.Writer) {
				fmt.Fprintf(w, "Timelapse %d is %s\n", tl.ID, tl.Status)
			})
		},
	}
}

func timelapseTable(w io.Writer, timelapses ...apiclient.Timelapse) {
	fmt.Fprintln(w, "ID\tCAMERA\tNAME\tINTERVAL\tSTATUS\tFRAMES\tSIZE\tSTARTED\tENDED")
	for _, t := range timelapses {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			t.ID, t.CameraID, t.Name, format.Interval(t.IntervalSeconds, true), t.Status,
			t.FrameCount, format.Bytes(t.SizeBytes), format.Since(t.StartedAt), format.Since(t.EndedAt))
	}
}

func init() {
	timelapsesListCmd.Flags().Int64("camera", 0, "Only timelapses of this camera")

	timelapsesCreateCmd.Flags().Int64("camera", 0, "Camera id (required)")
	timelapsesCreateCmd.MarkFlagRequired("camera")
	timelapsesCreateCmd.Flags().String("name", "", "Timelapse name (required)")
	timelapsesCreateCmd.MarkFlagRequired("name")
	timelapsesCreateCmd.Flags().Int("interval", 60, "Capture interval in seconds")
	timelapsesCreateCmd.Flags().String("status", "", "Initial status (server default pending)")
	timelapsesCreateCmd.Flags().String("start", "", "Scheduled start, RFC 3339")
	timelapsesCreateCmd.Flags().String("end", "", "Scheduled end, RFC 3339")

	timelapsesUpdateCmd.Flags().String("name", "", "Timelapse name")
	timelapsesUpdateCmd.Flags().Int("interval", 0, "Capture interval in seconds")
	timelapsesUpdateCmd.Flags().String("status", "", "pending, running, paused or completed")
	timelapsesUpdateCmd.Flags().String("start", "", "Scheduled start, RFC 3339")
	timelapsesUpdateCmd.Flags().String("end", "", "Scheduled end, RFC 3339")
	addClearFlag(timelapsesUpdateCmd, "start")
	addClearFlag(timelapsesUpdateCmd, "end")

	timelapsesCmd.AddCommand(timelapsesListCmd, timelapsesGetCmd, timelapsesCreateCmd,
		timelapsesUpdateCmd, timelapsesDeleteCmd,
		statusCmd("start", "Start capturing", apiclient.TimelapseRunning),
		statusCmd("pause", "Pause capturing", apiclient.TimelapsePaused),
		statusCmd("resume", "Resume a paused timelapse", apiclient.TimelapseRunning),
		statusCmd("complete", "Finish a timelapse", apiclient.TimelapseCompleted),
	)
	rootCmd.AddCommand(timelapsesCmd)
}
