// Package kinesis lists streams as discovery records. The list API paginates
// by exclusive start name rather than an opaque token, so the cursor is the
// last stream name seen.
package kinesis

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// API is the slice of the Kinesis client the source needs.
type API interface {
	ListStreams(ctx context.Context, in *awskinesis.ListStreamsInput, optFns ...func(*awskinesis.Options)) (*awskinesis.ListStreamsOutput, error)
	DescribeStream(ctx context.Context, in *awskinesis.DescribeStreamInput, optFns ...func(*awskinesis.Options)) (*awskinesis.DescribeStreamOutput, error)
}

// NewClient builds the concrete Kinesis client.
func NewClient(cfg aws.Config) API {
	return awskinesis.NewFromConfig(cfg)
}

// Source pages through stream names.
type Source struct {
	api API
}

// NewSource builds a stream source.
func NewSource(api API) *Source {
	return &Source{api: api}
}

// Pages returns the page function for the discovery pipeline.
func (s *Source) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awskinesis.ListStreamsInput{}
		if cursor != "" {
			in.ExclusiveStartStreamName = aws.String(cursor)
		}

		out, err := s.api.ListStreams(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.StreamNames))
		for _, name := range out.StreamNames {
			records = append(records, domain.NewRecord(
				domain.Field{Name: "name", Value: name},
			))
		}

		next := ""
		if aws.ToBool(out.HasMoreStreams) && len(out.StreamNames) > 0 {
			next = out.StreamNames[len(out.StreamNames)-1]
		}
		return records, next, nil
	}
}

// Describe enriches a stream record with its description for verbose output.
func (s *Source) Describe() scan.Enricher {
	return func(ctx context.Context, rec domain.Record) (domain.Record, error) {
		name := rec.GetString("name")
		out, err := s.api.DescribeStream(ctx, &awskinesis.DescribeStreamInput{
			StreamName: aws.String(name),
		})
		if err != nil {
			return domain.Record{}, &domain.EnrichmentError{Resource: name, Err: err}
		}

		desc := out.StreamDescription
		enriched := rec.Clone()
		if desc == nil {
			return enriched, nil
		}
		enriched.Set("status", string(desc.StreamStatus))
		mode := "PROVISIONED"
		if desc.StreamModeDetails != nil {
			mode = string(desc.StreamModeDetails.StreamMode)
		}
		enriched.Set("mode", mode)
		enriched.Set("retention_hours", int64(aws.ToInt32(desc.RetentionPeriodHours)))
		enriched.Set("shard_count", int64(len(desc.Shards)))
		enriched.Set("created_at", aws.ToTime(desc.StreamCreationTimestamp).UTC())
		enriched.Set("arn", aws.ToString(desc.StreamARN))
		return enriched, nil
	}
}
