package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mfilipelino/aws-tools/internal/infra/cloud"
	s3src "github.com/mfilipelino/aws-tools/internal/infra/cloud/s3"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

var s3Opts struct {
	common    commonOpts
	bucket    string
	prefix    string
	minSize   string
	maxSize   string
	newerThan string
	olderThan string
}

var s3Cmd = &cobra.Command{
	Use:   "s3",
	Short: "List S3 objects with prefix and size filtering",
	Example: `  # List all objects in a bucket
  awstools s3 --bucket my-bucket

  # Filter by prefix and size
  awstools s3 --bucket my-bucket --prefix logs/2024/ --min-size 1MB

  # Find large files older than 30 days, as CSV
  awstools s3 --bucket backups --min-size 1GB --older-than "30 days ago" --format csv`,
	RunE: runS3,
}

func init() {
	addCommonFlags(s3Cmd, &s3Opts.common)
	s3Cmd.Flags().StringVarP(&s3Opts.bucket, "bucket", "b", "", "S3 bucket name")
	s3Cmd.Flags().StringVarP(&s3Opts.prefix, "prefix", "p", "", "object key prefix filter")
	s3Cmd.Flags().StringVar(&s3Opts.minSize, "min-size", "", "minimum object size (e.g. 1MB, 500KB)")
	s3Cmd.Flags().StringVar(&s3Opts.maxSize, "max-size", "", "maximum object size (e.g. 1GB, 100MB)")
	s3Cmd.Flags().StringVar(&s3Opts.newerThan, "newer-than", "", `objects newer than (e.g. "2 days ago", 2024-01-01)`)
	s3Cmd.Flags().StringVar(&s3Opts.olderThan, "older-than", "", `objects older than (e.g. "1 hour ago", 2024-12-01)`)
	_ = s3Cmd.MarkFlagRequired("bucket")
	rootCmd.AddCommand(s3Cmd)
}

func runS3(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	o, err := loadOpts(cmd, &s3Opts.common)
	if err != nil {
		return err
	}

	var minSize, maxSize *int64
	if s3Opts.minSize != "" {
		n, err := parseSize(s3Opts.minSize)
		if err != nil {
			return err
		}
		minSize = &n
	}
	if s3Opts.maxSize != "" {
		n, err := parseSize(s3Opts.maxSize)
		if err != nil {
			return err
		}
		maxSize = &n
	}

	var newerThan, olderThan *time.Time
	if s3Opts.newerThan != "" {
		t, err := parseTimePoint(s3Opts.newerThan, time.Now)
		if err != nil {
			return err
		}
		newerThan = &t
	}
	if s3Opts.olderThan != "" {
		t, err := parseTimePoint(s3Opts.olderThan, time.Now)
		if err != nil {
			return err
		}
		olderThan = &t
	}

	filter, err := scan.NewFilter(
		scan.WithIntRange("size", minSize, maxSize),
		scan.WithTimeRange("last_modified", newerThan, olderThan),
	)
	if err != nil {
		return err
	}

	awsCfg, err := cloud.LoadConfig(ctx, o.profile, o.region)
	if err != nil {
		return err
	}

	// The key prefix is pushed down to the list call.
	source := s3src.NewSource(s3src.NewClient(awsCfg), s3Opts.bucket, s3Opts.prefix, o.verbose)
	return runScan(ctx, o, source.Pages(), filter, nil, nil)
}
