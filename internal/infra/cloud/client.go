// Package cloud resolves AWS client configuration. Each service subpackage
// adapts one service's list/describe/start APIs to the scan and remedy
// interfaces, keeping the SDK out of the core pipeline.
package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go"
)

// LoadConfig resolves an AWS client configuration for the given profile and
// region. Empty values fall back to the SDK's shared-config and environment
// resolution. Clients are constructed once per command invocation and passed
// into the pipeline; there is no process-wide client state.
func LoadConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("resolve aws config: %w", err)
	}
	return cfg, nil
}

// ErrorCode extracts the service error code (AccessDeniedException,
// NoSuchBucket, ThrottlingException) from an API failure anywhere in the
// chain. It returns "" for non-service errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
