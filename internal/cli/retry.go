package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	sfnsrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/sfn"
	"github.com/mfilipelino/aws-tools/internal/output"
	"github.com/mfilipelino/aws-tools/internal/remedy"
)

var retryOpts struct {
	common  commonOpts
	prefix  string
	days    int
	dryRun  bool
	execute bool
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Resubmit failed Step Functions executions with their original input",
	Long: `Finds FAILED executions of every state machine whose name starts with the
given prefix, within the lookback window, and resubmits each one as a new
execution carrying the original input.

Runs in dry-run mode by default. Pass --execute to actually start executions.`,
	Example: `  # Show what would be retried for the last 7 days
  awstools retry --prefix order-

  # Actually resubmit failures from the last 2 days
  awstools retry --prefix order- --days 2 --execute`,
	RunE: runRetry,
}

func init() {
	addCommonFlags(retryCmd, &retryOpts.common)
	retryCmd.Flags().StringVarP(&retryOpts.prefix, "prefix", "p", "", "state machine name prefix (required)")
	retryCmd.Flags().IntVarP(&retryOpts.days, "days", "d", 7, "lookback window in days")
	retryCmd.Flags().BoolVar(&retryOpts.dryRun, "dry-run", true, "report what would be retried without starting anything")
	retryCmd.Flags().BoolVar(&retryOpts.execute, "execute", false, "start executions (overrides --dry-run)")
	_ = retryCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(retryCmd)
}

func runRetry(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &retryOpts.common)
	if err != nil {
		return err
	}
	if retryOpts.days < 1 {
		return domain.NewConfigError("days", "must be at least 1, got %d", retryOpts.days)
	}

	mode := remedy.ModeDryRun
	if retryOpts.execute || !retryOpts.dryRun {
		mode = remedy.ModeExecute
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := sfnsrc.NewSource(sfnsrc.NewClient(awsCfg))

	machines, err := listStateMachines(ctx, source, retryOpts.prefix)
	if err != nil {
		return err
	}
	if len(machines) == 0 {
		fmt.Fprintf(os.Stderr, "No state machines match prefix %q.\n", retryOpts.prefix)
		return nil
	}

	logger := slog.Default()
	finder := remedy.NewFinder(source, logger)
	workflow := remedy.NewWorkflow(source, logger)

	var outcomes []domain.RetryOutcome
	for _, machine := range machines {
		execs, err := finder.FindFailed(ctx, machine.arn, retryOpts.days)
		if err != nil {
			return fmt.Errorf("list failed executions of %s: %w", machine.name, err)
		}
		if len(execs) == 0 {
			continue
		}
		results := workflow.Run(ctx, execs, mode)
		printOutcomes(machine.name, results)
		outcomes = append(outcomes, results...)
	}

	printSummary(mode, len(machines), outcomes)

	records := make([]domain.Record, len(outcomes))
	for i, outcome := range outcomes {
		records[i] = outcome.Record()
	}
	return writeRecords(ctx, o, output.NewSliceSource(records))
}

type stateMachine struct {
	name string
	arn  string
}

// listStateMachines collects the state machines matching the prefix. The
// retry workflow needs the full set up front, so this drains the listing
// instead of streaming it.
func listStateMachines(ctx context.Context, source *sfnsrc.Source, prefix string) ([]stateMachine, error) {
	pages := source.Pages()
	var machines []stateMachine
	cursor := ""
	for {
		records, next, err := pages(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("list state machines: %w", err)
		}
		for _, rec := range records {
			name := rec.GetString("name")
			if strings.HasPrefix(name, prefix) {
				machines = append(machines, stateMachine{name: name, arn: rec.GetString("arn")})
			}
		}
		if next == "" {
			return machines, nil
		}
		cursor = next
	}
}

// printOutcomes writes the human progress report to stderr, keeping stdout
// for the formatted outcome records.
func printOutcomes(machineName string, outcomes []domain.RetryOutcome) {
	fmt.Fprintf(os.Stderr, "%s: %d failed execution(s)\n", color.CyanString(machineName), len(outcomes))
	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.OutcomeWouldRetry:
			fmt.Fprintf(os.Stderr, "  %s %s\n", color.YellowString("[DRY RUN]"), outcome.Execution)
		case domain.OutcomeRetried:
			fmt.Fprintf(os.Stderr, "  %s %s -> %s\n", color.GreenString("✓"), outcome.Execution, outcome.NewExecution)
		case domain.OutcomeFailed:
			fmt.Fprintf(os.Stderr, "  %s %s: %s\n", color.RedString("✗"), outcome.Execution, outcome.Error)
		}
	}
}

func printSummary(mode remedy.Mode, machineCount int, outcomes []domain.RetryOutcome) {
	var retried, failed, planned int
	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.OutcomeWouldRetry:
			planned++
		case domain.OutcomeRetried:
			retried++
		case domain.OutcomeFailed:
			failed++
		}
	}

	if mode == remedy.ModeDryRun {
		fmt.Fprintf(os.Stderr, "\nDry run: %d execution(s) across %d state machine(s) would be retried. Pass --execute to run.\n",
			planned, machineCount)
		return
	}
	line := fmt.Sprintf("\nRetried %d execution(s) across %d state machine(s)", retried, machineCount)
	if failed > 0 {
		line += fmt.Sprintf(", %s", color.RedString("%d failed", failed))
	}
	fmt.Fprintln(os.Stderr, line+".")
}
