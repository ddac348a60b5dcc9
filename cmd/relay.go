package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ImPhantom/chronicle/server"
	"github.com/ImPhantom/chronicle/service"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve latest frames and exports over local HTTP",
	Long: `Serve a small HTTP relay in front of the service:

  /snapshot?timelapse=<id>   latest frame image
  /stream?timelapse=<id>     MJPEG-style multipart stream of new frames
  /exports/<job-id>          completed export video`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		svc, err := service.NewService(log, client)
		if err != nil {
			return fmt.Errorf("fail to create service: %w", err)
		}

		cfg := &server.Config{
			Addr:           viper.GetString("relay.addr"),
			StreamInterval: pollInterval(cmd),
		}
		srv, err := server.NewServer(log, cfg, svc)
		if err != nil {
			return fmt.Errorf("fail to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.Info("Starting relay", "addr", cfg.Addr, "upstream", client.BaseURL().String())
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("fail to listen: %w", err)
		}
		return nil
	},
}

func init() {
	relayCmd.Flags().StringP("listen", "l", "", "Listen address (default :8080)")
	viper.BindPFlag("relay.addr", relayCmd.Flags().Lookup("listen"))
	relayCmd.Flags().Duration("interval", 0, "Stream poll interval (default 2s)")
	rootCmd.AddCommand(relayCmd)
}
