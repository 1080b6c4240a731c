// Package cfn lists CloudFormation stacks as discovery records.
package cfn

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfn "github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// API is the slice of the CloudFormation client the source needs.
type API interface {
	ListStacks(ctx context.Context, in *awscfn.ListStacksInput, optFns ...func(*awscfn.Options)) (*awscfn.ListStacksOutput, error)
	DescribeStacks(ctx context.Context, in *awscfn.DescribeStacksInput, optFns ...func(*awscfn.Options)) (*awscfn.DescribeStacksOutput, error)
}

// NewClient builds the concrete CloudFormation client.
func NewClient(cfg aws.Config) API {
	return awscfn.NewFromConfig(cfg)
}

// Source pages through stacks. Status filters are pushed down to the
// service; tag filters need the DescribeStacks tag fetcher.
type Source struct {
	api      API
	statuses []cfntypes.StackStatus
	verbose  bool
}

// NewSource builds a stack source. statuses may be empty for no server-side
// status filtering.
func NewSource(api API, statuses []string, verbose bool) *Source {
	filter := make([]cfntypes.StackStatus, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, cfntypes.StackStatus(s))
	}
	return &Source{api: api, statuses: filter, verbose: verbose}
}

// Pages returns the page function for the discovery pipeline.
func (s *Source) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awscfn.ListStacksInput{}
		if len(s.statuses) > 0 {
			in.StackStatusFilter = s.statuses
		}
		if cursor != "" {
			in.NextToken = aws.String(cursor)
		}

		out, err := s.api.ListStacks(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.StackSummaries))
		for _, stack := range out.StackSummaries {
			records = append(records, s.shape(stack))
		}
		return records, aws.ToString(out.NextToken), nil
	}
}

// Tags fetches a stack's tag map via DescribeStacks.
func (s *Source) Tags() scan.TagFetcher {
	return func(ctx context.Context, rec domain.Record) (map[string]string, error) {
		out, err := s.api.DescribeStacks(ctx, &awscfn.DescribeStacksInput{
			StackName: aws.String(rec.GetString("stack_name")),
		})
		if err != nil {
			return nil, err
		}
		if len(out.Stacks) == 0 {
			return map[string]string{}, nil
		}
		tags := make(map[string]string, len(out.Stacks[0].Tags))
		for _, tag := range out.Stacks[0].Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		return tags, nil
	}
}

func (s *Source) shape(stack cfntypes.StackSummary) domain.Record {
	rec := domain.NewRecord(
		domain.Field{Name: "stack_name", Value: aws.ToString(stack.StackName)},
		domain.Field{Name: "stack_id", Value: aws.ToString(stack.StackId)},
		domain.Field{Name: "creation_time", Value: aws.ToTime(stack.CreationTime).UTC()},
		domain.Field{Name: "stack_status", Value: string(stack.StackStatus)},
		domain.Field{Name: "template_description", Value: aws.ToString(stack.TemplateDescription)},
	)
	if stack.LastUpdatedTime != nil {
		rec.Set("last_updated_time", stack.LastUpdatedTime.UTC())
	}
	if s.verbose {
		if stack.DeletionTime != nil {
			rec.Set("deletion_time", stack.DeletionTime.UTC())
		}
		rec.Set("stack_status_reason", aws.ToString(stack.StackStatusReason))
		if stack.DriftInformation != nil {
			rec.Set("drift_status", string(stack.DriftInformation.StackDriftStatus))
		}
	}
	return rec
}
