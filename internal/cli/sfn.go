package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	sfnsrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/sfn"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var sfnOpts struct {
	common commonOpts
	prefix string
	regex  string
	tags   []string
}

var sfnCmd = &cobra.Command{
	Use:   "sfn",
	Short: "List Step Functions state machines",
	Example: `  # List all state machines
  awstools sfn

  # State machines under a prefix, with status and role
  awstools sfn --prefix order- --verbose

  # State machines owned by a team, matched by tag
  awstools sfn --tag Team=payments`,
	RunE: runSFN,
}

func init() {
	addCommonFlags(sfnCmd, &sfnOpts.common)
	sfnCmd.Flags().StringVarP(&sfnOpts.prefix, "prefix", "p", "", "state machine name prefix filter")
	sfnCmd.Flags().StringVarP(&sfnOpts.regex, "regex", "r", "", "state machine name regex filter")
	sfnCmd.Flags().StringArrayVar(&sfnOpts.tags, "tag", nil, "tag filter as Key=Value, repeatable")
	rootCmd.AddCommand(sfnCmd)
}

func runSFN(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &sfnOpts.common)
	if err != nil {
		return err
	}

	tags, err := parseTagArgs(sfnOpts.tags)
	if err != nil {
		return err
	}
	filter, err := scan.NewFilter(
		scan.WithPrefix("name", sfnOpts.prefix),
		scan.WithRegex("name", sfnOpts.regex),
		scan.WithTags(tags),
	)
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := sfnsrc.NewSource(sfnsrc.NewClient(awsCfg))

	var tagFetcher scan.TagFetcher
	if filter.NeedsTags() {
		tagFetcher = source.Tags()
	}
	var enrich scan.Enricher
	if o.verbose {
		enrich = source.Describe()
	}
	return runScan(ctx, o, source.Pages(), filter, tagFetcher, enrich)
}
