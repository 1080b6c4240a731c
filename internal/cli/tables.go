package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	gluesrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/glue"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var tablesOpts struct {
	common   commonOpts
	database string
	prefix   string
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List data catalog tables for a database",
	Example: `  # List all tables in a database
  awstools tables --database analytics

  # Filter by prefix with column details
  awstools tables --database analytics --prefix fact_ --verbose`,
	RunE: runTables,
}

func init() {
	addCommonFlags(tablesCmd, &tablesOpts.common)
	tablesCmd.Flags().StringVarP(&tablesOpts.database, "database", "d", "", "catalog database name")
	tablesCmd.Flags().StringVarP(&tablesOpts.prefix, "prefix", "p", "", "table name prefix filter")
	_ = tablesCmd.MarkFlagRequired("database")
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &tablesOpts.common)
	if err != nil {
		return err
	}

	filter, err := scan.NewFilter(scan.WithPrefix("table", tablesOpts.prefix))
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := gluesrc.NewTableSource(gluesrc.NewClient(awsCfg), tablesOpts.database, o.verbose)
	return runScan(ctx, o, source.Pages(), filter, nil, nil)
}
