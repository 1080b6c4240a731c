package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	cfnsrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/cfn"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var stacksOpts struct {
	common commonOpts
	prefix string
	regex  string
	tags   []string
	status string
}

var stacksCmd = &cobra.Command{
	Use:   "stacks",
	Short: "List CloudFormation stacks",
	Example: `  # List all stacks
  awstools stacks

  # Stacks under a prefix in a given status
  awstools stacks --prefix data-platform- --status CREATE_COMPLETE,UPDATE_COMPLETE

  # Stacks owned by a team, matched by tag
  awstools stacks --tag Team=ingestion --tag Env=prod`,
	RunE: runStacks,
}

func init() {
	addCommonFlags(stacksCmd, &stacksOpts.common)
	stacksCmd.Flags().StringVarP(&stacksOpts.prefix, "prefix", "p", "", "stack name prefix filter")
	stacksCmd.Flags().StringVarP(&stacksOpts.regex, "regex", "r", "", "stack name regex filter")
	stacksCmd.Flags().StringArrayVar(&stacksOpts.tags, "tag", nil, "tag filter as Key=Value, repeatable")
	stacksCmd.Flags().StringVarP(&stacksOpts.status, "status", "s", "", "comma-separated stack status filter (e.g. CREATE_COMPLETE)")
	rootCmd.AddCommand(stacksCmd)
}

func runStacks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &stacksOpts.common)
	if err != nil {
		return err
	}

	tags, err := parseTagArgs(stacksOpts.tags)
	if err != nil {
		return err
	}
	filter, err := scan.NewFilter(
		scan.WithPrefix("stack_name", stacksOpts.prefix),
		scan.WithRegex("stack_name", stacksOpts.regex),
		scan.WithTags(tags),
	)
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	source := cfnsrc.NewSource(cfnsrc.NewClient(awsCfg), parseStatusList(stacksOpts.status), o.verbose)

	var tagFetcher scan.TagFetcher
	if filter.NeedsTags() {
		tagFetcher = source.Tags()
	}
	return runScan(ctx, o, source.Pages(), filter, tagFetcher, nil)
}
