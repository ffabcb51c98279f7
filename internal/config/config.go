// Package config defines the declarative data lake configuration and loads
// it from a TOML document. The deployer treats a loaded Config as immutable
// and trusts that validation already happened here.
package config

import (
	"encoding/json"
	"strings"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"

	"github.com/spf13/viper"
)

// Credentials are static AWS credentials supplied on the command line.
// When nil, the default AWS credential chain is used.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// PolicyDocument is an IAM policy document expressed as a nested map,
// exactly as written in the TOML configuration.
type PolicyDocument map[string]any

// JSON renders the document as the JSON string the IAM API expects.
func (d PolicyDocument) JSON() (string, error) {
	data, err := json.Marshal(map[string]any(d))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CrawlerConfig describes the optional Glue crawler.
type CrawlerConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	RoleARN      string `mapstructure:"role_arn" validate:"omitempty,aws_arn"`
	Schedule     string `mapstructure:"schedule"`
	S3TargetPath string `mapstructure:"s3_target_path"`
}

// FirehoseConfig describes the optional Kinesis Data Firehose delivery stream.
type FirehoseConfig struct {
	StreamName        string `mapstructure:"stream_name" validate:"required"`
	RoleName          string `mapstructure:"role_name" validate:"required"`
	BufferingInterval int32  `mapstructure:"buffering_interval"`
	BufferingSizeMiB  int32  `mapstructure:"buffering_size_mib"`
	CompressionFormat string `mapstructure:"compression_format" validate:"omitempty,oneof=UNCOMPRESSED GZIP ZIP Snappy HADOOP_SNAPPY"`
	Prefix            string `mapstructure:"prefix"`
}

// RoleConfig describes an IAM role to reconcile.
type RoleConfig struct {
	Name              string                    `mapstructure:"name" validate:"required"`
	AssumeRolePolicy  PolicyDocument            `mapstructure:"assume_role_policy" validate:"required"`
	ManagedPolicyARNs []string                  `mapstructure:"managed_policy_arns" validate:"dive,aws_arn"`
	InlinePolicies    map[string]PolicyDocument `mapstructure:"inline_policies"`
}

// VPCEndpointConfig describes the optional VPC endpoints for private access
// to S3, Glue, and Athena.
type VPCEndpointConfig struct {
	VPCID            string   `mapstructure:"vpc_id" validate:"required"`
	SubnetIDs        []string `mapstructure:"subnet_ids"`
	SecurityGroupIDs []string `mapstructure:"security_group_ids"`
	RouteTableIDs    []string `mapstructure:"route_table_ids"`
	EnableS3         bool     `mapstructure:"enable_s3"`
	EnableGlue       bool     `mapstructure:"enable_glue"`
	EnableAthena     bool     `mapstructure:"enable_athena"`
}

// GrantResourceKind enumerates the Lake Formation resource kinds a grant
// can target.
const (
	GrantKindDatabase     = "DATABASE"
	GrantKindTable        = "TABLE"
	GrantKindDataLocation = "DATA_LOCATION"
)

// LakeFormationGrant names one principal, one resource, and the permissions
// to grant on it.
type LakeFormationGrant struct {
	Principal   string   `mapstructure:"principal" validate:"required"`
	Kind        string   `mapstructure:"kind" validate:"required,oneof=DATABASE TABLE DATA_LOCATION"`
	Database    string   `mapstructure:"database"`
	Name        string   `mapstructure:"name"`
	Location    string   `mapstructure:"location"`
	Permissions []string `mapstructure:"permissions" validate:"required,min=1"`
}

// LakeFormationConfig describes the optional access-grant configuration.
type LakeFormationConfig struct {
	Enabled bool                 `mapstructure:"enabled"`
	Admins  []string             `mapstructure:"admins" validate:"dive,aws_arn"`
	Grants  []LakeFormationGrant `mapstructure:"grants" validate:"dive"`
}

// Config is the validated description of the desired data lake end state.
type Config struct {
	Region       string `mapstructure:"region" validate:"required,aws_region"`
	BucketName   string `mapstructure:"bucket_name" validate:"required,s3_bucket_name"`
	GlueDatabase string `mapstructure:"glue_database" validate:"required,glue_database_name"`

	RawPrefix       string `mapstructure:"raw_prefix" validate:"required,s3_prefix"`
	ProcessedPrefix string `mapstructure:"processed_prefix" validate:"required,s3_prefix"`
	AnalyticsPrefix string `mapstructure:"analytics_prefix" validate:"required,s3_prefix"`

	KMSKeyID string `mapstructure:"kms_key_id" validate:"omitempty,aws_arn"`

	TableFormat        string `mapstructure:"table_format" validate:"required,oneof=iceberg delta"`
	TransactionalTable string `mapstructure:"transactional_table"`

	AthenaWorkgroup string `mapstructure:"athena_workgroup"`

	Tags map[string]string `mapstructure:"tags" validate:"aws_tags"`

	Crawler        *CrawlerConfig       `mapstructure:"crawler"`
	Firehose       *FirehoseConfig      `mapstructure:"firehose"`
	ProcessingRole *RoleConfig          `mapstructure:"processing_role"`
	VPCEndpoints   *VPCEndpointConfig   `mapstructure:"vpc_endpoints"`
	LakeFormation  *LakeFormationConfig `mapstructure:"lake_formation"`

	// DryRun is set from the command line, never from the document.
	DryRun bool `mapstructure:"-"`
}

// document is the top-level shape of the TOML file.
type document struct {
	Datalake *Config `mapstructure:"datalake"`
}

// Load reads and validates a TOML configuration file. The [datalake] table
// is required; its absence is a hard load-time error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.ErrConfig("failed to read configuration file "+path, err)
	}

	if !v.IsSet("datalake") {
		return nil, apperrors.ErrConfig("expected [datalake] table in configuration file", nil)
	}

	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, apperrors.ErrConfig("failed to parse configuration", err)
	}

	cfg := doc.Datalake
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in the standard prefix layout and table format.
// Optional resource sections never default to present: their absence is
// what gates the corresponding deployment stage.
func (c *Config) applyDefaults() {
	if c.RawPrefix == "" {
		c.RawPrefix = constants.DefaultRawPrefix
	}
	if c.ProcessedPrefix == "" {
		c.ProcessedPrefix = constants.DefaultProcessedPrefix
	}
	if c.AnalyticsPrefix == "" {
		c.AnalyticsPrefix = constants.DefaultAnalyticsPrefix
	}
	if c.TableFormat == "" {
		c.TableFormat = constants.DefaultTableFormat
	}
	// Prefixes are normalized to end with a slash before validation.
	for _, p := range []*string{&c.RawPrefix, &c.ProcessedPrefix, &c.AnalyticsPrefix} {
		if *p != "" && !strings.HasSuffix(*p, "/") {
			*p += "/"
		}
	}
	if c.Firehose != nil {
		if c.Firehose.BufferingInterval == 0 {
			c.Firehose.BufferingInterval = 300
		}
		if c.Firehose.BufferingSizeMiB == 0 {
			c.Firehose.BufferingSizeMiB = 5
		}
		if c.Firehose.CompressionFormat == "" {
			c.Firehose.CompressionFormat = "GZIP"
		}
	}
}
