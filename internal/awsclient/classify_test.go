package awsclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	lftypes "github.com/aws/aws-sdk-go-v2/service/lakeformation/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "glue entity not found", err: apiError("EntityNotFoundException", "database not found"), expected: true},
		{name: "firehose not found", err: apiError("ResourceNotFoundException", "stream not found"), expected: true},
		{name: "iam no such entity", err: apiError("NoSuchEntity", "role not found"), expected: true},
		{name: "s3 typed not found", err: &s3types.NotFound{}, expected: true},
		{name: "s3 no such bucket", err: &s3types.NoSuchBucket{}, expected: true},
		{name: "head bucket 404", err: apiError("404", "not found"), expected: true},
		{name: "wrapped", err: fmt.Errorf("describe: %w", apiError("EntityNotFoundException", "")), expected: true},
		{name: "access denied", err: apiError("AccessDenied", "no"), expected: false},
		{name: "plain error", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestIsBucketRedirect(t *testing.T) {
	assert.True(t, IsBucketRedirect(apiError("301", "moved")))
	assert.True(t, IsBucketRedirect(apiError("PermanentRedirect", "moved")))
	assert.False(t, IsBucketRedirect(apiError("404", "not found")))
	assert.False(t, IsBucketRedirect(errors.New("boom")))
}

func TestIsThrottle(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{code: "ThrottlingException", expected: true},
		{code: "TooManyRequestsException", expected: true},
		{code: "RequestLimitExceeded", expected: true},
		{code: "Throttling", expected: true},
		{code: "ProvisionedThroughputExceededException", expected: true},
		{code: "SlowDown", expected: true},
		{code: "AccessDenied", expected: false},
		{code: "EntityNotFoundException", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsThrottle(apiError(tt.code, "")))
		})
	}
}

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, IsAlreadyExists(&lftypes.AlreadyExistsException{Message: aws.String("grant exists")}))
	assert.True(t, IsAlreadyExists(apiError("AlreadyExistsException", "exists")))
	assert.False(t, IsAlreadyExists(apiError("InvalidInputException", "bad")))
}

func TestIsWorkGroupMissing(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "typed invalid request with not found message",
			err:      &athenatypes.InvalidRequestException{Message: aws.String("WorkGroup primary is not found")},
			expected: true,
		},
		{
			name:     "generic invalid request with not found message",
			err:      apiError("InvalidRequestException", "WorkGroup wg is NOT FOUND"),
			expected: true,
		},
		{
			name:     "invalid request for another reason",
			err:      apiError("InvalidRequestException", "query string is malformed"),
			expected: false,
		},
		{
			name:     "different error code with not found message",
			err:      apiError("AccessDenied", "workgroup not found"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWorkGroupMissing(tt.err))
		})
	}
}
