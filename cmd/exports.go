package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
	"github.com/ImPhantom/chronicle/format"
	"github.com/ImPhantom/chronicle/service"
)

var exportsCmd = &cobra.Command{
	Use:     "exports",
	Aliases: []string{"export"},
	Short:   "Render timelapses into videos",
}

var exportsStartCmd = &cobra.Command{
	Use:   "start <timelapse-id>",
	Short: "Queue a video export of a timelapse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timelapseID, err := parseID(args[0])
		if err != nil {
			return err
		}

		data := apiclient.DefaultExportRequest()
		outFormat, _ := cmd.Flags().GetString("format")
		data.OutputFormat = apiclient.OutputFormat(outFormat)
		data.OutputFPS, _ = cmd.Flags().GetInt("fps")
		data.CRF, _ = cmd.Flags().GetInt("crf")
		resolution, _ := cmd.Flags().GetString("resolution")
		data.Resolution = apiclient.ExportResolution(resolution)
		if custom, _ := cmd.Flags().GetString("custom-resolution"); custom != "" {
			data.Resolution = apiclient.ResolutionCustom
			data.CustomResolution = &custom
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		job, err := client.StartExport(cmd.Context(), timelapseID, data)
		if err != nil {
			return fmt.Errorf("fail to start export: %w", err)
		}

		if wait, _ := cmd.Flags().GetBool("wait"); wait {
			return watchExport(cmd, client, job.ID)
		}
		return render(cmd, job, func(w io.Writer) {
			exportTable(w, *job)
		})
	},
}

var exportsListCmd = &cobra.Command{
	Use:   "list <timelapse-id>",
	Short: "List the export jobs of a timelapse, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timelapseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		jobs, err := client.ListExports(cmd.Context(), timelapseID)
		if err != nil {
			return fmt.Errorf("fail to list exports: %w", err)
		}
		return render(cmd, jobs, func(w io.Writer) {
			exportTable(w, jobs...)
		})
	},
}

var exportsStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show an export job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		job, err := client.GetExportStatus(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("fail to get export status: %w", err)
		}
		return render(cmd, job, func(w io.Writer) {
			exportTable(w, *job)
		})
	},
}

var exportsDownloadCmd = &cobra.Command{
	Use:   "download <job-id>",
	Short: "Download a completed export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		video, err := client.DownloadExport(cmd.Context(), jobID)
		if err != nil {
			if apiclient.IsConflict(err) {
				return fmt.Errorf("export %d is not completed yet: %w", jobID, err)
			}
			return fmt.Errorf("fail to download export: %w", err)
		}
		out, _ := cmd.Flags().GetString("out")
		return writeBlob(cmd, video, out, fmt.Sprintf("export_%d", jobID))
	},
}

var exportsWatchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Follow an export until it completes or fails",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		return watchExport(cmd, client, jobID)
	},
}

func watchExport(cmd *cobra.Command, client *apiclient.Client, jobID int64) error {
	svc, err := service.NewService(newLogger(cmd), client)
	if err != nil {
		return err
	}

	out := cmd.ErrOrStderr()
	job, err := svc.WaitExport(cmd.Context(), jobID, pollInterval(cmd), func(u service.ExportUpdate) {
		fmt.Fprintf(out, "%s %s\n", u.Job.Status, format.Progress(u.Job))
	})
	if err != nil {
		return fmt.Errorf("fail to watch export %d: %w", jobID, err)
	}

	if err := render(cmd, job, func(w io.Writer) {
		exportTable(w, *job)
	}); err != nil {
		return err
	}
	if job.Status == apiclient.ExportError {
		msg := "unknown error"
		if job.ErrorMessage != nil {
			msg = *job.ErrorMessage
		}
		return errors.New("export failed: " + msg)
	}
	return nil
}

func exportTable(w io.Writer, jobs ...apiclient.ExportJob) {
	fmt.Fprintln(w, "ID\tTIMELAPSE\tSTATUS\tFORMAT\tRESOLUTION\tPROGRESS\tSIZE\tCREATED")
	for _, j := range jobs {
		size := "-"
		if j.FileSizeBytes != nil {
			size = format.Bytes(*j.FileSizeBytes)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s@%dfps\t%s\t%s\t%s\t%s\n",
			j.ID, j.TimelapseID, j.Status, j.OutputFormat, j.OutputFPS, j.Resolution,
			format.Progress(&j), size, format.Since(&j.CreatedAt))
	}
}

func init() {
	defaults := apiclient.DefaultExportRequest()
	exportsStartCmd.Flags().String("format", string(defaults.OutputFormat), "webm or mp4")
	exportsStartCmd.Flags().Int("fps", defaults.OutputFPS, "Output frame rate")
	exportsStartCmd.Flags().Int("crf", defaults.CRF, "Constant rate factor, lower is better quality")
	exportsStartCmd.Flags().String("resolution", string(defaults.Resolution), "original, 1920x1080, 1280x720 or 640x360")
	exportsStartCmd.Flags().String("custom-resolution", "", "Custom WxH, implies --resolution custom")
	exportsStartCmd.Flags().Bool("wait", false, "Wait for the export to finish")

	exportsDownloadCmd.Flags().StringP("out", "O", "", "Output file, - for stdout")

	exportsCmd.PersistentFlags().Duration("interval", 0, "Poll interval for --wait and watch (default 2s)")

	exportsCmd.AddCommand(exportsStartCmd, exportsListCmd, exportsStatusCmd,
		exportsDownloadCmd, exportsWatchCmd)
	rootCmd.AddCommand(exportsCmd)
}
