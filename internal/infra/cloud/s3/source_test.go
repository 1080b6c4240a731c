package s3

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*awss3.ListObjectsV2Input
	pages  []*awss3.ListObjectsV2Output
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)
	return f.pages[len(f.inputs)-1], nil
}

func TestSourcePushesPrefixDown(t *testing.T) {
	modified := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	fake := &fakeS3{pages: []*awss3.ListObjectsV2Output{
		{
			Contents: []s3types.Object{{
				Key:          aws.String("logs/2024/app.log"),
				Size:         aws.Int64(4096),
				LastModified: aws.Time(modified),
			}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("token-1"),
		},
		{
			Contents: []s3types.Object{{
				Key:          aws.String("logs/2024/db.log"),
				Size:         aws.Int64(8192),
				LastModified: aws.Time(modified),
				StorageClass: s3types.ObjectStorageClassGlacier,
			}},
			IsTruncated: aws.Bool(false),
		},
	}}

	src := NewSource(fake, "my-bucket", "logs/", false)
	pages := src.Pages()
	ctx := context.Background()

	recs, next, err := pages(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "token-1", next)
	assert.Equal(t, "logs/2024/app.log", recs[0].GetString("key"))
	assert.Equal(t, int64(4096), recs[0].GetInt("size"))
	assert.Equal(t, "STANDARD", recs[0].GetString("storage_class"))
	assert.Equal(t, []string{"key", "size", "last_modified", "storage_class"}, recs[0].Names())

	recs, next, err = pages(ctx, "token-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, next)
	assert.Equal(t, "GLACIER", recs[0].GetString("storage_class"))

	require.Len(t, fake.inputs, 2)
	assert.Equal(t, "logs/", aws.ToString(fake.inputs[0].Prefix))
	assert.Nil(t, fake.inputs[0].ContinuationToken)
	assert.Equal(t, "token-1", aws.ToString(fake.inputs[1].ContinuationToken))
}

func TestSourceVerboseFields(t *testing.T) {
	fake := &fakeS3{pages: []*awss3.ListObjectsV2Output{{
		Contents: []s3types.Object{{
			Key:          aws.String("data.parquet"),
			Size:         aws.Int64(1),
			LastModified: aws.Time(time.Now()),
			ETag:         aws.String(`"abc123"`),
			Owner:        &s3types.Owner{DisplayName: aws.String("data-team")},
		}},
	}}}

	src := NewSource(fake, "b", "", true)
	recs, _, err := src.Pages()(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "abc123", recs[0].GetString("etag"))
	assert.Equal(t, "data-team", recs[0].GetString("owner"))
	assert.True(t, aws.ToBool(fake.inputs[0].FetchOwner))
}
