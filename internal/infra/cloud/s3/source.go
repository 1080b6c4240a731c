// Package s3 lists bucket objects as discovery records.
package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
	"github.com/mfilipelino/aws-tools/internal/scan"
)

// API is the slice of the S3 client the source needs.
type API interface {
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// NewClient builds the concrete S3 client.
func NewClient(cfg aws.Config) API {
	return awss3.NewFromConfig(cfg)
}

// Source pages through one bucket's objects. The key prefix is pushed down
// to the service so non-matching objects never cross the wire.
type Source struct {
	api     API
	bucket  string
	prefix  string
	verbose bool
}

// NewSource builds an object source.
func NewSource(api API, bucket, prefix string, verbose bool) *Source {
	return &Source{api: api, bucket: bucket, prefix: prefix, verbose: verbose}
}

// Pages returns the page function for the discovery pipeline.
func (s *Source) Pages() scan.PageFunc {
	return func(ctx context.Context, cursor string) ([]domain.Record, string, error) {
		in := &awss3.ListObjectsV2Input{
			Bucket:     aws.String(s.bucket),
			FetchOwner: aws.Bool(s.verbose),
		}
		if s.prefix != "" {
			in.Prefix = aws.String(s.prefix)
		}
		if cursor != "" {
			in.ContinuationToken = aws.String(cursor)
		}

		out, err := s.api.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, "", err
		}

		records := make([]domain.Record, 0, len(out.Contents))
		for _, obj := range out.Contents {
			records = append(records, s.shape(obj))
		}

		next := ""
		if aws.ToBool(out.IsTruncated) {
			next = aws.ToString(out.NextContinuationToken)
		}
		return records, next, nil
	}
}

func (s *Source) shape(obj s3types.Object) domain.Record {
	storageClass := string(obj.StorageClass)
	if storageClass == "" {
		storageClass = "STANDARD"
	}
	rec := domain.NewRecord(
		domain.Field{Name: "key", Value: aws.ToString(obj.Key)},
		domain.Field{Name: "size", Value: aws.ToInt64(obj.Size)},
		domain.Field{Name: "last_modified", Value: aws.ToTime(obj.LastModified).UTC()},
		domain.Field{Name: "storage_class", Value: storageClass},
	)
	if s.verbose {
		rec.Set("etag", strings.Trim(aws.ToString(obj.ETag), `"`))
		owner := ""
		if obj.Owner != nil {
			owner = aws.ToString(obj.Owner.DisplayName)
		}
		rec.Set("owner", owner)
	}
	return rec
}
