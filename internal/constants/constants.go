// Package constants centralizes project-wide names, defaults, and limits.
package constants

import "time"

// ProjectName is the canonical name used for the binary, log output, and
// resource descriptions.
const ProjectName = "lakedeploy"

// ManagedByDescription is attached to resources the deployer creates so
// operators can tell them apart from hand-made ones.
const ManagedByDescription = "Managed by " + ProjectName

// Environment selects the logging format.
type Environment string

const (
	// CLI is the interactive terminal environment.
	CLI Environment = "cli"
	// Production emits JSON logs for machine consumption.
	Production Environment = "production"
)

// EnvironmentVariable holds the name of the variable that switches log output
// to JSON when set to "production".
const EnvironmentVariable = "LAKEDEPLOY_ENV"

const (
	// DefaultStateFileName is where deployment state lives unless overridden.
	DefaultStateFileName = ".lakedeploy-state.json"

	// MaxDeploymentHistory bounds the deployment records kept in state.
	MaxDeploymentHistory = 10

	// StateVersion identifies the persisted state document format.
	StateVersion = "1.0"
)

const (
	// DefaultRawPrefix, DefaultProcessedPrefix, and DefaultAnalyticsPrefix
	// are the bucket sub-paths provisioned when the config does not name
	// its own.
	DefaultRawPrefix       = "raw/"
	DefaultProcessedPrefix = "processed/"
	DefaultAnalyticsPrefix = "analytics/"

	// DefaultTableFormat is used when no transactional table format is set.
	DefaultTableFormat = "iceberg"
)

// DefaultRegion is the region for which S3 rejects an explicit location
// constraint on bucket creation.
const DefaultRegion = "us-east-1"

const (
	// DefaultRetryAttempts bounds retries of throttled AWS calls.
	DefaultRetryAttempts = 3
	// DefaultRetryBaseDelay is the initial backoff delay, doubled per attempt.
	DefaultRetryBaseDelay = time.Second
)

const (
	// MaxTagKeyLength and MaxTagValueLength mirror the AWS tagging limits.
	MaxTagKeyLength   = 128
	MaxTagValueLength = 256
	// MaxTagCount is the AWS limit on tags per resource.
	MaxTagCount = 50
)

// Version is set at build time via -ldflags.
var Version = "dev"
