// Package sfn adapts the Step Functions API: state machine discovery, failed
// execution listing with the status filter pushed down, and execution start
// for the retry workflow.
package sfn

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssfn "github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// API is the slice of the Step Functions client the source needs.
type API interface {
	ListStateMachines(ctx context.Context, in *awssfn.ListStateMachinesInput, optFns ...func(*awssfn.Options)) (*awssfn.ListStateMachinesOutput, error)
	DescribeStateMachine(ctx context.Context, in *awssfn.DescribeStateMachineInput, optFns ...func(*awssfn.Options)) (*awssfn.DescribeStateMachineOutput, error)
	ListTagsForResource(ctx context.Context, in *awssfn.ListTagsForResourceInput, optFns ...func(*awssfn.Options)) (*awssfn.ListTagsForResourceOutput, error)
	ListExecutions(ctx context.Context, in *awssfn.ListExecutionsInput, optFns ...func(*awssfn.Options)) (*awssfn.ListExecutionsOutput, error)
	DescribeExecution(ctx context.Context, in *awssfn.DescribeExecutionInput, optFns ...func(*awssfn.Options)) (*awssfn.DescribeExecutionOutput, error)
	StartExecution(ctx context.Context, in *awssfn.StartExecutionInput, optFns ...func(*awssfn.Options)) (*awssfn.StartExecutionOutput, error)
}

// NewClient builds the concrete Step Functions client.
func NewClient(cfg aws.Config) API {
	return awssfn.NewFromConfig(cfg)
}

// Source adapts the Step Functions API to the discovery pipeline and the
// remedy package. It implements remedy.ExecutionAPI and remedy.Starter.
type Source struct {
	api API
}

// NewSource builds a Step Functions source.
func NewSource(api API) *Source {
	return &Source{api: api}
}

// Pages lists state machines.
func (s *Source) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awssfn.ListStateMachinesInput{}
		if cursor != "" {
			in.NextToken = aws.String(cursor)
		}

		out, err := s.api.ListStateMachines(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.StateMachines))
		for _, sm := range out.StateMachines {
			records = append(records, domain.NewRecord(
				domain.Field{Name: "name", Value: aws.ToString(sm.Name)},
				domain.Field{Name: "arn", Value: aws.ToString(sm.StateMachineArn)},
				domain.Field{Name: "type", Value: string(sm.Type)},
				domain.Field{Name: "creation_date", Value: aws.ToTime(sm.CreationDate).UTC()},
			))
		}
		return records, aws.ToString(out.NextToken), nil
	}
}

// Tags fetches a state machine's tag map for tag-equality filtering.
func (s *Source) Tags() scan.TagFetcher {
	return func(ctx context.Context, rec domain.Record) (map[string]string, error) {
		out, err := s.api.ListTagsForResource(ctx, &awssfn.ListTagsForResourceInput{
			ResourceArn: aws.String(rec.GetString("arn")),
		})
		if err != nil {
			return nil, err
		}
		tags := make(map[string]string, len(out.Tags))
		for _, tag := range out.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		return tags, nil
	}
}

// Describe enriches a state machine record with its status and role for
// verbose output.
func (s *Source) Describe() scan.Enricher {
	return func(ctx context.Context, rec domain.Record) (domain.Record, error) {
		arn := rec.GetString("arn")
		out, err := s.api.DescribeStateMachine(ctx, &awssfn.DescribeStateMachineInput{
			StateMachineArn: aws.String(arn),
		})
		if err != nil {
			return domain.Record{}, &domain.EnrichmentError{Resource: arn, Err: err}
		}
		enriched := rec.Clone()
		enriched.Set("status", string(out.Status))
		enriched.Set("role_arn", aws.ToString(out.RoleArn))
		return enriched, nil
	}
}

// ListFailedExecutions lists one page of FAILED executions. The status
// filter is applied server-side to keep data transfer down.
func (s *Source) ListFailedExecutions(ctx context.Context, stateMachineARN, cursor string) ([]domain.Execution, string, error) {
	in := &awssfn.ListExecutionsInput{
		StateMachineArn: aws.String(stateMachineARN),
		StatusFilter:    sfntypes.ExecutionStatusFailed,
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := s.api.ListExecutions(ctx, in)
	if err != nil {
		return nil, "", err
	}

	execs := make([]domain.Execution, 0, len(out.Executions))
	for _, item := range out.Executions {
		execs = append(execs, domain.Execution{
			StateMachineARN: stateMachineARN,
			ARN:             aws.ToString(item.ExecutionArn),
			Name:            aws.ToString(item.Name),
			StartTime:       aws.ToTime(item.StartDate).UTC(),
			Status:          domain.ExecutionStatus(item.Status),
		})
	}
	return execs, aws.ToString(out.NextToken), nil
}

// ExecutionInput fetches an execution's original input payload.
func (s *Source) ExecutionInput(ctx context.Context, executionARN string) (string, error) {
	out, err := s.api.DescribeExecution(ctx, &awssfn.DescribeExecutionInput{
		ExecutionArn: aws.String(executionARN),
	})
	if err != nil {
		return "", err
	}
	input := aws.ToString(out.Input)
	if input == "" {
		input = "{}"
	}
	return input, nil
}

// StartExecution starts a new execution carrying a retried input.
func (s *Source) StartExecution(ctx context.Context, stateMachineARN, name, input string) (string, error) {
	out, err := s.api.StartExecution(ctx, &awssfn.StartExecutionInput{
		StateMachineArn: aws.String(stateMachineARN),
		Name:            aws.String(name),
		Input:           aws.String(input),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.ExecutionArn), nil
}
