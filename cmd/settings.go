package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
	"github.com/ImPhantom/chronicle/format"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change service settings",
}

func newSettingsCache(cmd *cobra.Command) (*apiclient.SettingsCache, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}
	return apiclient.NewSettingsCache(newLogger(cmd), client, 0), nil
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := newSettingsCache(cmd)
		if err != nil {
			return err
		}
		st, err := settings.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to get settings: %w", err)
		}
		return render(cmd, st, func(w io.Writer) {
			settingsTable(w, st)
		})
	},
}

var settingsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change settings, only the flags given are sent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := apiclient.AppSettingsUpdateRequest{
			Timezone:                      optString(cmd, "timezone"),
			StoragePath:                   optString(cmd, "storage-path"),
			MaxStorageGB:                  optFloat(cmd, "max-storage-gb"),
			FFmpegTimeoutSeconds:          optInt(cmd, "ffmpeg-timeout"),
			FFmpegRTSPTransport:           optEnum[apiclient.RTSPTransport](cmd, "rtsp-transport"),
			CaptureImageFormat:            optEnum[apiclient.CaptureImageFormat](cmd, "image-format"),
			CaptureImageQuality:           optInt(cmd, "image-quality"),
			DefaultCaptureIntervalSeconds: optInt(cmd, "default-interval"),
			MaxFramesPerTimelapse:         optInt(cmd, "max-frames"),
			RetentionDays:                 optInt(cmd, "retention-days"),
		}

		settings, err := newSettingsCache(cmd)
		if err != nil {
			return err
		}
		st, err := settings.Update(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("fail to update settings: %w", err)
		}
		// served from the entry Update just stored
		st, err = settings.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to get settings: %w", err)
		}
		return render(cmd, st, func(w io.Writer) {
			settingsTable(w, st)
		})
	},
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show disk usage of the storage volume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		stats, err := client.GetStorageStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to get storage stats: %w", err)
		}
		return render(cmd, stats, func(w io.Writer) {
			fmt.Fprintln(w, "TOTAL\tUSED\tFREE")
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				format.Bytes(stats.TotalBytes), format.Bytes(stats.UsedBytes), format.Bytes(stats.FreeBytes))
		})
	},
}

func settingsTable(w io.Writer, st *apiclient.AppSettings) {
	rows := []struct {
		key, value string
	}{
		{"timezone", st.Timezone},
		{"storage_path", st.StoragePath},
		{"max_storage_gb", orDash(st.MaxStorageGB)},
		{"ffmpeg_timeout_seconds", fmt.Sprint(st.FFmpegTimeoutSeconds)},
		{"ffmpeg_rtsp_transport", string(st.FFmpegRTSPTransport)},
		{"capture_image_format", string(st.CaptureImageFormat)},
		{"capture_image_quality", fmt.Sprint(st.CaptureImageQuality)},
		{"default_capture_interval", format.Interval(st.DefaultCaptureIntervalSeconds, false)},
		{"max_frames_per_timelapse", orDash(st.MaxFramesPerTimelapse)},
		{"retention_days", orDash(st.RetentionDays)},
	}
	fmt.Fprintln(w, "SETTING\tVALUE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.key, r.value)
	}
}

func init() {
	f := settingsUpdateCmd.Flags()
	f.String("timezone", "", "IANA timezone, e.g. Europe/Berlin")
	f.String("storage-path", "", "Directory frames and exports are written to")
	f.Float64("max-storage-gb", 0, "Storage cap in GB")
	f.Int("ffmpeg-timeout", 0, "ffmpeg capture timeout in seconds")
	f.String("rtsp-transport", "", "tcp, udp or http")
	f.String("image-format", "", "webp, jpeg or png")
	f.Int("image-quality", 0, "Capture quality 1-100")
	f.Int("default-interval", 0, "Default capture interval in seconds")
	f.Int("max-frames", 0, "Frame cap per timelapse")
	f.Int("retention-days", 0, "Days to keep completed timelapses")
	addClearFlag(settingsUpdateCmd, "max-storage-gb")
	addClearFlag(settingsUpdateCmd, "max-frames")
	addClearFlag(settingsUpdateCmd, "retention-days")

	settingsCmd.AddCommand(settingsGetCmd, settingsUpdateCmd, settingsStorageCmd)
	rootCmd.AddCommand(settingsCmd)
}
