// Package sagemaker lists training, processing and transform jobs as
// discovery records. Name and status filters are pushed down to the service.
package sagemaker

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssm "github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// JobType selects which kind of job a source lists.
type JobType string

const (
	JobTypeTraining   JobType = "training"
	JobTypeProcessing JobType = "processing"
	JobTypeTransform  JobType = "transform"
)

// API is the slice of the SageMaker client the sources need.
type API interface {
	ListTrainingJobs(ctx context.Context, in *awssm.ListTrainingJobsInput, optFns ...func(*awssm.Options)) (*awssm.ListTrainingJobsOutput, error)
	DescribeTrainingJob(ctx context.Context, in *awssm.DescribeTrainingJobInput, optFns ...func(*awssm.Options)) (*awssm.DescribeTrainingJobOutput, error)
	ListProcessingJobs(ctx context.Context, in *awssm.ListProcessingJobsInput, optFns ...func(*awssm.Options)) (*awssm.ListProcessingJobsOutput, error)
	DescribeProcessingJob(ctx context.Context, in *awssm.DescribeProcessingJobInput, optFns ...func(*awssm.Options)) (*awssm.DescribeProcessingJobOutput, error)
	ListTransformJobs(ctx context.Context, in *awssm.ListTransformJobsInput, optFns ...func(*awssm.Options)) (*awssm.ListTransformJobsOutput, error)
	DescribeTransformJob(ctx context.Context, in *awssm.DescribeTransformJobInput, optFns ...func(*awssm.Options)) (*awssm.DescribeTransformJobOutput, error)
}

// NewClient builds the concrete SageMaker client.
func NewClient(cfg aws.Config) API {
	return awssm.NewFromConfig(cfg)
}

// Source pages through jobs of one type.
type Source struct {
	api     API
	jobType JobType
	prefix  string
	status  string
}

// NewSource builds a job source for one job type. prefix and status may be
// empty; both are applied server-side when set.
func NewSource(api API, jobType JobType, prefix, status string) *Source {
	return &Source{api: api, jobType: jobType, prefix: prefix, status: status}
}

// Pages returns the page function for the discovery pipeline.
func (s *Source) Pages() scan.PageFunc {
	switch s.jobType {
	case JobTypeProcessing:
		return s.processingPages
	case JobTypeTransform:
		return s.transformPages
	default:
		return s.trainingPages
	}
}

func (s *Source) trainingPages(ctx context.Context, cursor string) ([]domain.Record, string, error) {
	in := &awssm.ListTrainingJobsInput{}
	if s.prefix != "" {
		in.NameContains = aws.String(s.prefix)
	}
	if s.status != "" {
		in.StatusEquals = smtypes.TrainingJobStatus(s.status)
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := s.api.ListTrainingJobs(ctx, in)
	if err != nil {
		return nil, "", err
	}

	records := make([]domain.Record, 0, len(out.TrainingJobSummaries))
	for _, job := range out.TrainingJobSummaries {
		rec := shapeJob(
			aws.ToString(job.TrainingJobName),
			string(job.TrainingJobStatus),
			aws.ToTime(job.CreationTime),
			job.TrainingEndTime,
			JobTypeTraining,
		)
		records = append(records, rec)
	}
	return records, aws.ToString(out.NextToken), nil
}

func (s *Source) processingPages(ctx context.Context, cursor string) ([]domain.Record, string, error) {
	in := &awssm.ListProcessingJobsInput{}
	if s.prefix != "" {
		in.NameContains = aws.String(s.prefix)
	}
	if s.status != "" {
		in.StatusEquals = smtypes.ProcessingJobStatus(s.status)
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := s.api.ListProcessingJobs(ctx, in)
	if err != nil {
		return nil, "", err
	}

	records := make([]domain.Record, 0, len(out.ProcessingJobSummaries))
	for _, job := range out.ProcessingJobSummaries {
		rec := shapeJob(
			aws.ToString(job.ProcessingJobName),
			string(job.ProcessingJobStatus),
			aws.ToTime(job.CreationTime),
			job.ProcessingEndTime,
			JobTypeProcessing,
		)
		records = append(records, rec)
	}
	return records, aws.ToString(out.NextToken), nil
}

func (s *Source) transformPages(ctx context.Context, cursor string) ([]domain.Record, string, error) {
	in := &awssm.ListTransformJobsInput{}
	if s.prefix != "" {
		in.NameContains = aws.String(s.prefix)
	}
	if s.status != "" {
		in.StatusEquals = smtypes.TransformJobStatus(s.status)
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := s.api.ListTransformJobs(ctx, in)
	if err != nil {
		return nil, "", err
	}

	records := make([]domain.Record, 0, len(out.TransformJobSummaries))
	for _, job := range out.TransformJobSummaries {
		rec := shapeJob(
			aws.ToString(job.TransformJobName),
			string(job.TransformJobStatus),
			aws.ToTime(job.CreationTime),
			job.TransformEndTime,
			JobTypeTransform,
		)
		records = append(records, rec)
	}
	return records, aws.ToString(out.NextToken), nil
}

// Describe returns an enricher that attaches instance details for verbose
// output.
func (s *Source) Describe() scan.Enricher {
	return func(ctx context.Context, rec domain.Record) (domain.Record, error) {
		name := rec.GetString("name")
		enriched := rec.Clone()

		switch JobType(rec.GetString("type")) {
		case JobTypeProcessing:
			out, err := s.api.DescribeProcessingJob(ctx, &awssm.DescribeProcessingJobInput{
				ProcessingJobName: aws.String(name),
			})
			if err != nil {
				return domain.Record{}, &domain.EnrichmentError{Resource: name, Err: err}
			}
			if out.ProcessingResources != nil && out.ProcessingResources.ClusterConfig != nil {
				cc := out.ProcessingResources.ClusterConfig
				enriched.Set("instance_type", string(cc.InstanceType))
				enriched.Set("instance_count", int64(aws.ToInt32(cc.InstanceCount)))
			}
			enriched.Set("role_arn", aws.ToString(out.RoleArn))
		case JobTypeTransform:
			out, err := s.api.DescribeTransformJob(ctx, &awssm.DescribeTransformJobInput{
				TransformJobName: aws.String(name),
			})
			if err != nil {
				return domain.Record{}, &domain.EnrichmentError{Resource: name, Err: err}
			}
			if out.TransformResources != nil {
				enriched.Set("instance_type", string(out.TransformResources.InstanceType))
				enriched.Set("instance_count", int64(aws.ToInt32(out.TransformResources.InstanceCount)))
			}
			enriched.Set("model_name", aws.ToString(out.ModelName))
		default:
			out, err := s.api.DescribeTrainingJob(ctx, &awssm.DescribeTrainingJobInput{
				TrainingJobName: aws.String(name),
			})
			if err != nil {
				return domain.Record{}, &domain.EnrichmentError{Resource: name, Err: err}
			}
			if out.ResourceConfig != nil {
				enriched.Set("instance_type", string(out.ResourceConfig.InstanceType))
				enriched.Set("instance_count", int64(aws.ToInt32(out.ResourceConfig.InstanceCount)))
			}
			enriched.Set("role_arn", aws.ToString(out.RoleArn))
		}
		return enriched, nil
	}
}

func shapeJob(name, status string, created time.Time, ended *time.Time, jobType JobType) domain.Record {
	rec := domain.NewRecord(
		domain.Field{Name: "name", Value: name},
		domain.Field{Name: "status", Value: status},
		domain.Field{Name: "created_time", Value: created.UTC()},
		domain.Field{Name: "type", Value: string(jobType)},
	)
	if ended != nil {
		rec.Set("end_time", ended.UTC())
		rec.Set("duration_seconds", int64(ended.Sub(created)/time.Second))
	}
	return rec
}
