package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "explorer",
		Short:        "Hyli contract action decoder and event normalizer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode transaction blobs into contract actions",
		RunE:  runDecode,
	}
	addPipelineFlags(decodeCmd, "./data/decoded_blobs.jsonl", "./data/decode_checkpoint.json")
	decodeCmd.Flags().String("contract-map", "", "extra contract routes (comma-separated name=domain[@version])")
	decodeCmd.Flags().Bool("version-fallback", false, "retry older schema versions when the routed version fails")
	decodeCmd.Flags().Bool("include-raw", false, "keep the raw blob hex in decoded records")
	root.AddCommand(decodeCmd)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Normalize indexer event entries",
		RunE:  runEvents,
	}
	addPipelineFlags(eventsCmd, "./data/processed_events.jsonl", "./data/events_checkpoint.json")
	root.AddCommand(eventsCmd)

	schemasCmd := &cobra.Command{
		Use:   "schemas",
		Short: "List registered contract action schemas",
		RunE:  runSchemas,
	}
	schemasCmd.Flags().String("domain", "", "only list one domain")
	root.AddCommand(schemasCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	})

	return root
}

func addPipelineFlags(cmd *cobra.Command, out, checkpoint string) {
	cmd.Flags().String("in", "", "input JSONL (- for stdin)")
	cmd.Flags().String("out", out, "output JSONL path, empty to disable")
	cmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for an additional sink")
	cmd.Flags().String("checkpoint", checkpoint, "checkpoint file path, empty to keep state in Postgres")
	cmd.Flags().String("state-name", "", "checkpoint name in indexer_state")
	cmd.Flags().Bool("resume", true, "skip blocks at or below the checkpoint")
	cmd.Flags().Int("batch-size", 500, "records buffered before a flush")
	cmd.Flags().Int("max-retries", 5, "maximum retries of a failed sink write")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("metrics", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
