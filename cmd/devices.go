package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ImPhantom/chronicle/camera"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List V4L2 capture devices on this machine",
	Long: `List the video capture devices attached to this machine, the same view
"cameras hardware" gives of the service host. Useful when the service runs
locally and a hardware camera needs a device index.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prober := camera.NewProber(newLogger(cmd))
		devices, err := prober.ListDevices()
		if err != nil {
			return fmt.Errorf("fail to list devices: %w", err)
		}
		return render(cmd, devices, func(w io.Writer) {
			fmt.Fprintln(w, "INDEX\tPATH\tNAME\tMAX RESOLUTION\tFORMATS")
			for _, d := range devices {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					d.Index, d.Path, d.Name, d.Resolution(), strings.Join(d.Formats, ", "))
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
