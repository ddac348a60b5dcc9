package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

var Version = "dev"

var loglevel = new(slog.LevelVar)

// transport replaces the client's base round tripper in tests.
var transport http.RoundTripper

var rootCmd = &cobra.Command{
	Use:     "chronicle",
	Short:   "Chronicle timelapse service client",
	Version: Version,
	Long: `chronicle manages cameras, timelapses, frames, settings and video
exports of a Chronicle timelapse service over its REST API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(viper.GetString("loglevel"))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("server.address", "http://localhost:8000")
	viper.SetDefault("server.timeout", 30*time.Second)
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("output", "table")
	viper.SetDefault("relay.addr", ":8080")
	viper.SetDefault("poll.interval", 2*time.Second)

	// .env never overrides variables already set
	godotenv.Load()
	viper.SetEnvPrefix("chronicle")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.chronicle")
	viper.ReadInConfig()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("address", "a", "", "Chronicle service address (default http://localhost:8000)")
	viper.BindPFlag("server.address", flags.Lookup("address"))
	flags.StringP("username", "u", "", "Digest auth username")
	viper.BindPFlag("server.username", flags.Lookup("username"))
	flags.String("apikey", "", "Digest auth password")
	viper.BindPFlag("server.apikey", flags.Lookup("apikey"))
	flags.Duration("timeout", 0, "Request timeout (default 30s)")
	viper.BindPFlag("server.timeout", flags.Lookup("timeout"))
	flags.String("loglevel", "", "Log level: debug, info, warn, error")
	viper.BindPFlag("loglevel", flags.Lookup("loglevel"))
	flags.StringP("output", "o", "", "Output format: table, json, yaml")
	viper.BindPFlag("output", flags.Lookup("output"))
}

func setLogLevel(level string) {
	level = strings.ToLower(level)
	switch level {
	case "debug":
		loglevel.Set(slog.LevelDebug)
	case "info", "":
		loglevel.Set(slog.LevelInfo)
	case "warn":
		loglevel.Set(slog.LevelWarn)
	case "error":
		loglevel.Set(slog.LevelError)
	default:
		slog.Warn("setLogLevel", "msg", "unknown log level, using INFO instead", "level", level)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: loglevel,
	}))
}

func clientConfig() *apiclient.Config {
	return &apiclient.Config{
		Address:   viper.GetString("server.address"),
		Username:  viper.GetString("server.username"),
		ApiKey:    viper.GetString("server.apikey"),
		Timeout:   viper.GetDuration("server.timeout"),
		Transport: transport,
	}
}

func newClient(cmd *cobra.Command) (*apiclient.Client, error) {
	log := newLogger(cmd)
	cfg := clientConfig()
	log.Debug("config", "address", cfg.Address, "timeout", cfg.Timeout)

	client, err := apiclient.NewClient(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("fail to create client: %w", err)
	}
	return client, nil
}

// render prints v as json or yaml, or calls table with a tab-aligned writer.
func render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	switch output := strings.ToLower(viper.GetString("output")); output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(toYAML(v))
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

// toYAML round-trips v through JSON so yaml keys follow the json tags.
func toYAML(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return v
	}
	return generic
}

// pollInterval prefers the command's --interval flag over poll.interval.
func pollInterval(cmd *cobra.Command) time.Duration {
	if cmd.Flags().Changed("interval") {
		d, _ := cmd.Flags().GetDuration("interval")
		return d
	}
	return viper.GetDuration("poll.interval")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// writeBlob saves a binary payload to path, "-" writes it to stdout. An empty
// path falls back to the server's filename, then to name plus the extension
// of the content type.
func writeBlob(cmd *cobra.Command, blob apiclient.Blob, path, name string) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(blob.Data)
		return err
	}
	if path == "" {
		path = blob.Filename
	}
	if path == "" {
		path = name + blob.Extension()
	}
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return fmt.Errorf("fail to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%s, %d bytes)\n", path, blob.ContentType, len(blob.Data))
	return nil
}

func orDash[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func timestamp(ts *apiclient.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.Local().Format(time.DateTime)
}
