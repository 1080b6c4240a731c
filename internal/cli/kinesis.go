package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	kinsrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/kinesis"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var kinesisOpts struct {
	common commonOpts
	prefix string
}

var kinesisCmd = &cobra.Command{
	Use:   "kinesis",
	Short: "List Kinesis data streams",
	Example: `  # List all streams
  awstools kinesis

  # Streams under a prefix, with shard counts and retention
  awstools kinesis --prefix clickstream- --verbose`,
	RunE: runKinesis,
}

func init() {
	addCommonFlags(kinesisCmd, &kinesisOpts.common)
	kinesisCmd.Flags().StringVarP(&kinesisOpts.prefix, "prefix", "p", "", "stream name prefix filter")
	rootCmd.AddCommand(kinesisCmd)
}

func runKinesis(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &kinesisOpts.common)
	if err != nil {
		return err
	}

	filter, err := scan.NewFilter(scan.WithPrefix("name", kinesisOpts.prefix))
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := kinsrc.NewSource(kinsrc.NewClient(awsCfg))

	var enrich scan.Enricher
	if o.verbose {
		enrich = source.Describe()
	}
	return runScan(ctx, o, source.Pages(), filter, nil, enrich)
}
