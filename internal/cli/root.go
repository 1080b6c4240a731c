// Package cli wires the cobra commands: per-resource discovery listings and
// the failed-execution retry command.
package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "awstools",
	Short: "Discover and remediate AWS resources",
	Long: `awstools lists AWS resources (S3 objects, Glue jobs, catalog tables,
SageMaker jobs, Kinesis streams, CloudFormation stacks, Step Functions state
machines) through their paginated APIs with composable filters, and retries
failed Step Functions executions with their original input.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		setupLogger()
	},
}

// Execute runs the root command. Aborting errors (transport, configuration)
// exit non-zero; per-record warnings never change the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code := cloud.ErrorCode(err); code != "" {
			slog.Error("command failed", "code", code, "error", err)
		} else {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "aws-tools.yaml", "config file with default profile/region/format")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// setupLogger installs a tint handler on stderr. Stdout is reserved for
// formatted records; warnings and errors go to the side channel.
func setupLogger() {
	level := slog.LevelInfo
	if isDebug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}
