package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and service versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		v, err := client.GetVersion(cmd.Context())
		if err != nil {
			return fmt.Errorf("fail to get version: %w", err)
		}
		return render(cmd, v, func(w io.Writer) {
			fmt.Fprintf(w, "client\t%s\n", Version)
			fmt.Fprintf(w, "service\t%s\n", v.GitHash)
		})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the service is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		h, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("service at %s is unreachable: %w", client.BaseURL(), err)
		}
		return render(cmd, h, func(w io.Writer) {
			fmt.Fprintf(w, "%s\t%s\n", client.BaseURL(), h.Status)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, healthCmd)
}
