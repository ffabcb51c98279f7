package awsclient

import (
	"errors"
	"strings"

	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	lftypes "github.com/aws/aws-sdk-go-v2/service/lakeformation/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Remote error discrimination lives here and nowhere else. Reconcilers ask
// semantic questions (not found? throttled? already exists?) and never look
// at AWS error codes themselves.

var notFoundCodes = map[string]struct{}{
	"EntityNotFoundException":   {}, // Glue
	"ResourceNotFoundException": {}, // Firehose
	"NoSuchEntity":              {}, // IAM
	"NoSuchBucket":              {},
	"NotFound":                  {},
	"404":                       {},
}

var throttleCodes = map[string]struct{}{
	"ThrottlingException":                    {},
	"TooManyRequestsException":               {},
	"RequestLimitExceeded":                   {},
	"Throttling":                             {},
	"ProvisionedThroughputExceededException": {},
	"SlowDown":                               {},
}

// IsNotFound reports whether err means the requested resource does not
// exist. Used by reconcilers to choose create over update.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nb *s3types.NoSuchBucket
	if errors.As(err, &nb) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := notFoundCodes[apiErr.ErrorCode()]
		return ok
	}
	return false
}

// IsBucketRedirect reports whether err is S3 telling us the bucket exists
// in another region. For existence checks that still counts as existing.
func IsBucketRedirect(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "301" || code == "PermanentRedirect"
	}
	return false
}

// IsThrottle reports whether err is a rate-limiting error worth retrying.
func IsThrottle(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := throttleCodes[apiErr.ErrorCode()]
		return ok
	}
	return false
}

// IsAlreadyExists reports whether err means the resource (or grant) is
// already in place. Idempotent reconcilers treat this as success.
func IsAlreadyExists(err error) bool {
	var ae *lftypes.AlreadyExistsException
	if errors.As(err, &ae) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "AlreadyExistsException"
	}
	return false
}

// IsWorkGroupMissing reports whether err is Athena's way of saying a
// workgroup does not exist. Athena has no dedicated not-found error for
// workgroups; it returns InvalidRequestException with "not found" in the
// message, so the message text has to be inspected. Any other
// InvalidRequestException is not treated as missing.
func IsWorkGroupMissing(err error) bool {
	var ire *athenatypes.InvalidRequestException
	if errors.As(err, &ire) {
		return containsNotFound(ire.ErrorMessage())
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidRequestException" {
		return containsNotFound(apiErr.ErrorMessage())
	}
	return false
}

func containsNotFound(message string) bool {
	return strings.Contains(strings.ToLower(message), "not found")
}
