package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

var camerasCmd = &cobra.Command{
	Use:     "cameras",
	Aliases: []string{"camera"},
	Short:   "Manage cameras",
}

var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured cameras",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		cameras, err := client.ListCameras(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to list cameras: %w", err)
		}
		return render(cmd, cameras, func(w io.Writer) {
			cameraTable(w, cameras...)
		})
	},
}

var camerasGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a camera",
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
		camera, err := client.GetCamera(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fail to get camera: %w", err)
		}
		return render(cmd, camera, func(w io.Writer) {
			cameraTable(w, *camera)
		})
	},
}

var camerasCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a network (--rtsp-url) or hardware (--device-index) camera",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		data, err := cameraSource(cmd, name)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("enabled") {
			enabled, _ := cmd.Flags().GetBool("enabled")
			data.Enabled = &enabled
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		camera, err := client.CreateCamera(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("fail to create camera: %w", err)
		}
		return render(cmd, camera, func(w io.Writer) {
			cameraTable(w, *camera)
		})
	},
}

var camerasUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change camera fields, only the flags given are sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data := apiclient.CameraUpdateRequest{
			Name:           optString(cmd, "name"),
			ConnectionType: optEnum[apiclient.ConnectionType](cmd, "connection-type"),
			RTSPURL:        optString(cmd, "rtsp-url"),
			DeviceIndex:    optInt(cmd, "device-index"),
			Enabled:        optBool(cmd, "enabled"),
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		camera, err := client.UpdateCamera(cmd.Context(), id, data)
		if err != nil {
			return fmt.Errorf("fail to update camera: %w", err)
		}
		return render(cmd, camera, func(w io.Writer) {
			cameraTable(w, *camera)
		})
	},
}

var camerasDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a camera",
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
		if err := client.DeleteCamera(cmd.Context(), id); err != nil {
			return fmt.Errorf("fail to delete camera: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted camera %d\n", id)
		return nil
	},
}

var camerasHardwareCmd = &cobra.Command{
	Use:   "hardware",
	Short: "List capture devices visible to the service host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		devices, err := client.GetHardwareCameras(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to list hardware cameras: %w", err)
		}
		return render(cmd, devices, func(w io.Writer) {
			fmt.Fprintln(w, "INDEX\tNAME")
			for _, d := range devices {
				fmt.Fprintf(w, "%d\t%s\n", d.Index, d.Name)
			}
		})
	},
}

var camerasTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Capture one image from an unsaved camera configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := cameraSource(cmd, "")
		if err != nil {
			return err
		}
		data := apiclient.TestCaptureRequest{
			ConnectionType: src.ConnectionType,
			RTSPURL:        src.RTSPURL,
			DeviceIndex:    src.DeviceIndex,
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		img, err := client.TestCamera(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("fail to test camera: %w", err)
		}
		out, _ := cmd.Flags().GetString("out")
		return writeBlob(cmd, img, out, "test_capture")
	},
}

// cameraSource builds a create request from exactly one of --rtsp-url and
// --device-index.
func cameraSource(cmd *cobra.Command, name string) (apiclient.CameraCreateRequest, error) {
	rtspURL, _ := cmd.Flags().GetString("rtsp-url")
	switch {
	case rtspURL != "":
		return apiclient.NewNetworkCamera(name, rtspURL), nil
	case cmd.Flags().Changed("device-index"):
		index, _ := cmd.Flags().GetInt("device-index")
		return apiclient.NewHardwareCamera(name, index), nil
	}
	return apiclient.CameraCreateRequest{}, errors.New("one of --rtsp-url or --device-index is required")
}

func cameraTable(w io.Writer, cameras ...apiclient.Camera) {
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSOURCE\tENABLED\tCREATED")
	for _, c := range cameras {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n",
			c.ID, c.Name, c.ConnectionType, c.Source(), c.Enabled, timestamp(&c.CreatedAt))
	}
}

func init() {
	camerasCreateCmd.Flags().String("name", "", "Camera name (required)")
	camerasCreateCmd.MarkFlagRequired("name")
	camerasCreateCmd.Flags().String("rtsp-url", "", "RTSP stream URL of a network camera")
	camerasCreateCmd.Flags().Int("device-index", 0, "Device index of a hardware camera")
	camerasCreateCmd.MarkFlagsMutuallyExclusive("rtsp-url", "device-index")
	camerasCreateCmd.Flags().Bool("enabled", true, "Enable capture")

	camerasUpdateCmd.Flags().String("name", "", "Camera name")
	camerasUpdateCmd.Flags().String("connection-type", "", "network or hardware")
	camerasUpdateCmd.Flags().String("rtsp-url", "", "RTSP stream URL")
	camerasUpdateCmd.Flags().Int("device-index", 0, "Hardware device index")
	addClearFlag(camerasUpdateCmd, "rtsp-url")
	addClearFlag(camerasUpdateCmd, "device-index")
	camerasUpdateCmd.Flags().Bool("enabled", true, "Enable capture")

	camerasTestCmd.Flags().String("rtsp-url", "", "RTSP stream URL of a network camera")
	camerasTestCmd.Flags().Int("device-index", 0, "Device index of a hardware camera")
	camerasTestCmd.MarkFlagsMutuallyExclusive("rtsp-url", "device-index")
	camerasTestCmd.Flags().StringP("out", "O", "", "Output file, - for stdout")

	camerasCmd.AddCommand(camerasListCmd, camerasGetCmd, camerasCreateCmd,
		camerasUpdateCmd, camerasDeleteCmd, camerasHardwareCmd, camerasTestCmd)
	rootCmd.AddCommand(camerasCmd)
}
