// Package awsclient builds region-scoped AWS service clients and provides
// the error classification and retry policy shared by all remote calls.
package awsclient

import (
	"context"

	appconfig "github.com/lakedeploy/lakedeploy/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lakeformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Factory hands out service clients bound to one region and credential set.
// The engine never manages connection lifecycle; clients are cheap wrappers
// over a shared aws.Config.
type Factory struct {
	cfg aws.Config
}

// NewFactory loads AWS configuration for the given region. When creds is
// non-nil the static credentials override the default credential chain.
func NewFactory(ctx context.Context, region string, creds *appconfig.Credentials) (*Factory, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if creds != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg}, nil
}

// Region returns the region the factory is bound to.
func (f *Factory) Region() string {
	return f.cfg.Region
}

// S3 returns an S3 client.
func (f *Factory) S3() *s3.Client {
	return s3.NewFromConfig(f.cfg)
}

// Glue returns a Glue client.
func (f *Factory) Glue() *glue.Client {
	return glue.NewFromConfig(f.cfg)
}

// Athena returns an Athena client.
func (f *Factory) Athena() *athena.Client {
	return athena.NewFromConfig(f.cfg)
}

// IAM returns an IAM client.
func (f *Factory) IAM() *iam.Client {
	return iam.NewFromConfig(f.cfg)
}

// Firehose returns a Kinesis Data Firehose client.
func (f *Factory) Firehose() *firehose.Client {
	return firehose.NewFromConfig(f.cfg)
}

// EC2 returns an EC2 client, used for VPC endpoint management.
func (f *Factory) EC2() *ec2.Client {
	return ec2.NewFromConfig(f.cfg)
}

// LakeFormation returns a Lake Formation client.
func (f *Factory) LakeFormation() *lakeformation.Client {
	return lakeformation.NewFromConfig(f.cfg)
}

// STS returns an STS client, used for the pre-flight identity check.
func (f *Factory) STS() *sts.Client {
	return sts.NewFromConfig(f.cfg)
}

// DynamoDB returns a DynamoDB client, used by the optional state backend.
func (f *Factory) DynamoDB() *dynamodb.Client {
	return dynamodb.NewFromConfig(f.cfg)
}
