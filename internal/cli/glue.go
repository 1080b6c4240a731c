package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	gluesrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/glue"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var glueOpts struct {
	common commonOpts
	prefix string
	status string
}

var glueCmd = &cobra.Command{
	Use:   "glue",
	Short: "List Glue jobs with prefix filtering and last-run status",
	Example: `  # List all Glue jobs
  awstools glue

  # Show failed jobs under a prefix, as a table
  awstools glue --prefix etl- --status FAILED --format table`,
	RunE: runGlue,
}

func init() {
	addCommonFlags(glueCmd, &glueOpts.common)
	glueCmd.Flags().StringVarP(&glueOpts.prefix, "prefix", "p", "", "job name prefix filter")
	glueCmd.Flags().StringVarP(&glueOpts.status, "status", "s", "", "filter by last run status (e.g. SUCCEEDED, FAILED, RUNNING)")
	rootCmd.AddCommand(glueCmd)
}

func runGlue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &glueOpts.common)
	if err != nil {
		return err
	}

	opts := []scan.FilterOption{scan.WithPrefix("name", glueOpts.prefix)}
	if glueOpts.status != "" {
		status := glueOpts.status
		opts = append(opts, scan.WithPost(func(rec domain.Record) bool {
			return rec.GetString("last_run_status") == status
		}))
	}
	filter, err := scan.NewFilter(opts...)
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := gluesrc.NewJobSource(gluesrc.NewClient(awsCfg), o.verbose)

	// The last-run lookup is only worth its cost when a status filter or
	// verbose output needs it.
	var enrich scan.Enricher
	if glueOpts.status != "" || o.verbose {
		enrich = source.LastRun()
	}
	return runScan(ctx, o, source.Pages(), filter, nil, enrich)
}
