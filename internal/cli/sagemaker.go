package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	smsrc "github.com/mfilipelino/aws-tools/internal/infra/cloud/sagemaker"
	"github.com/mfilipelino/aws-tools/internal/output"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var sagemakerOpts struct {
	common  commonOpts
	prefix  string
	jobType string
	status  string
}

var sagemakerCmd = &cobra.Command{
	Use:   "sagemaker",
	Short: "List SageMaker training, processing and transform jobs",
	Example: `  # List all SageMaker jobs
  awstools sagemaker

  # Training jobs under a prefix
  awstools sagemaker --type training --prefix model-v2-

  # Only failed jobs
  awstools sagemaker --status Failed`,
	RunE: runSagemaker,
}

func init() {
	addCommonFlags(sagemakerCmd, &sagemakerOpts.common)
	sagemakerCmd.Flags().StringVarP(&sagemakerOpts.prefix, "prefix", "p", "", "job name prefix filter")
	sagemakerCmd.Flags().StringVarP(&sagemakerOpts.jobType, "type", "t", "all", "job type: training, processing, transform or all")
	sagemakerCmd.Flags().StringVarP(&sagemakerOpts.status, "status", "s", "", "filter by job status (e.g. InProgress, Completed, Failed)")
	rootCmd.AddCommand(sagemakerCmd)
}

func runSagemaker(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &sagemakerOpts.common)
	if err != nil {
		return err
	}

	var jobTypes []smsrc.JobType
	switch sagemakerOpts.jobType {
	case "training":
		jobTypes = []smsrc.JobType{smsrc.JobTypeTraining}
	case "processing":
		jobTypes = []smsrc.JobType{smsrc.JobTypeProcessing}
	case "transform":
		jobTypes = []smsrc.JobType{smsrc.JobTypeTransform}
	case "all":
		jobTypes = []smsrc.JobType{smsrc.JobTypeTraining, smsrc.JobTypeProcessing, smsrc.JobTypeTransform}
	default:
		return domain.NewConfigError("type", "unknown job type %q", sagemakerOpts.jobType)
	}

	// NameContains matches substrings server-side; the prefix predicate
	// keeps the exact prefix semantics client-side.
	filter, err := scan.NewFilter(scan.WithPrefix("name", sagemakerOpts.prefix))
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}
	client := smsrc.NewClient(awsCfg)

	// One scanner per job type, chained so headers and --limit apply to the
	// combined listing rather than per type.
	sources := make([]output.Source, 0, len(jobTypes))
	for _, jobType := range jobTypes {
		source := smsrc.NewSource(client, jobType, sagemakerOpts.prefix, sagemakerOpts.status)
		var enrich scan.Enricher
		if o.verbose {
			enrich = source.Describe()
		}
		sources = append(sources, newScanner(o, source.Pages(), filter, nil, enrich))
	}
	return writeRecords(ctx, o, newChainSource(o.limit, sources...))
}
