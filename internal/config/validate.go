package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	bucketNamePattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)
	ipLikePattern       = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
	regionPattern       = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d$`)
	databaseNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	prefixPattern       = regexp.MustCompile(`^[a-zA-Z0-9/_-]+$`)
	arnPattern          = regexp.MustCompile(`^arn:aws[a-z-]*:[a-z0-9-]+:[a-z0-9-]*:\d{12}:.+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags, which are all literals here.
	_ = v.RegisterValidation("s3_bucket_name", validBucketName)
	_ = v.RegisterValidation("aws_region", validRegion)
	_ = v.RegisterValidation("glue_database_name", validDatabaseName)
	_ = v.RegisterValidation("s3_prefix", validPrefix)
	_ = v.RegisterValidation("aws_arn", validARN)
	_ = v.RegisterValidation("aws_tags", validTags)
	return v
}

// Validate checks every syntactic rule the deployer relies on. Cross-field
// dependencies owned by individual reconcilers (for example a crawler
// needing a role) are deliberately not enforced here.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.ErrConfig(describeValidationError(err), err)
	}
	return nil
}

// ValidBucketName reports whether name satisfies the S3 bucket naming rules:
// 3-63 characters, lowercase letters, digits, dots and hyphens, starting and
// ending with a letter or digit, no consecutive dots, no dots adjacent to
// hyphens, and not shaped like an IP address.
func ValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if !bucketNamePattern.MatchString(name) {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, ".-") || strings.Contains(name, "-.") {
		return false
	}
	return !ipLikePattern.MatchString(name)
}

// ValidRegion reports whether region looks like an AWS region identifier
// such as us-east-1 or eu-west-2.
func ValidRegion(region string) bool {
	return regionPattern.MatchString(region)
}

// ValidDatabaseName reports whether name is a legal Glue database name:
// 1-255 characters of letters, digits, and underscores.
func ValidDatabaseName(name string) bool {
	return len(name) >= 1 && len(name) <= 255 && databaseNamePattern.MatchString(name)
}

// ValidPrefix reports whether prefix is a legal S3 key prefix ending in "/".
func ValidPrefix(prefix string) bool {
	return prefix != "" && strings.HasSuffix(prefix, "/") && prefixPattern.MatchString(prefix)
}

// ValidARN reports whether arn matches the
// arn:partition:service:region:account-id:resource shape.
func ValidARN(arn string) bool {
	return arnPattern.MatchString(arn)
}

// ValidTags reports whether the tag set honors the AWS limits on count and
// key/value lengths.
func ValidTags(tags map[string]string) bool {
	if len(tags) > constants.MaxTagCount {
		return false
	}
	for key, value := range tags {
		if key == "" || len(key) > constants.MaxTagKeyLength {
			return false
		}
		if len(value) > constants.MaxTagValueLength {
			return false
		}
	}
	return true
}

func validBucketName(fl validator.FieldLevel) bool { return ValidBucketName(fl.Field().String()) }
func validRegion(fl validator.FieldLevel) bool     { return ValidRegion(fl.Field().String()) }
func validDatabaseName(fl validator.FieldLevel) bool {
	return ValidDatabaseName(fl.Field().String())
}
func validPrefix(fl validator.FieldLevel) bool { return ValidPrefix(fl.Field().String()) }
func validARN(fl validator.FieldLevel) bool    { return ValidARN(fl.Field().String()) }
func validTags(fl validator.FieldLevel) bool {
	tags, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}
	return ValidTags(tags)
}

// describeValidationError turns the first validator failure into a message
// an operator can act on without reading struct tags.
func describeValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "configuration validation failed"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "s3_bucket_name":
		return fmt.Sprintf("invalid S3 bucket name %q", fe.Value())
	case "aws_region":
		return fmt.Sprintf("invalid region %q, expected format like us-east-1", fe.Value())
	case "glue_database_name":
		return fmt.Sprintf("invalid Glue database name %q, only letters, numbers, and underscores are allowed", fe.Value())
	case "s3_prefix":
		return fmt.Sprintf("invalid S3 prefix %q, must end with / and contain only letters, numbers, slashes, hyphens, and underscores", fe.Value())
	case "aws_arn":
		return fmt.Sprintf("invalid ARN %q", fe.Value())
	case "aws_tags":
		return "invalid tags: keys must be 1-128 characters, values at most 256, at most 50 tags"
	case "oneof":
		return fmt.Sprintf("invalid value %q for %s, must be one of: %s", fe.Value(), fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("invalid value for %s", fe.Field())
	}
}
