package deployer

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	fhtypes "github.com/aws/aws-sdk-go-v2/service/firehose/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// ensureFirehoseStream reconciles the direct-put delivery stream landing
// data into the raw zone, along with the IAM role it writes with. Updating
// an existing stream requires the current version and destination IDs from
// DescribeDeliveryStream; Firehose rejects stale versions.
func (d *Deployer) ensureFirehoseStream(ctx context.Context, cfg *config.Config) (string, error) {
	fh := cfg.Firehose

	desc, exists, err := d.describeStream(ctx, fh.StreamName)
	if err != nil {
		return "", err
	}
	if cfg.DryRun {
		return outcomeFor(exists), nil
	}

	if _, err := d.ensureRole(ctx, firehoseRoleConfig(cfg), false); err != nil {
		return "", err
	}
	roleARN, err := d.roleARN(ctx, fh.RoleName)
	if err != nil {
		return "", err
	}

	prefix := fh.Prefix
	if prefix == "" {
		prefix = cfg.RawPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	bucketARN := "arn:aws:s3:::" + cfg.BucketName
	hints := &fhtypes.BufferingHints{
		IntervalInSeconds: aws.Int32(fh.BufferingInterval),
		SizeInMBs:         aws.Int32(fh.BufferingSizeMiB),
	}
	compression := fhtypes.CompressionFormat(fh.CompressionFormat)

	if exists {
		version, destID, err := streamVersionAndDestination(desc)
		if err != nil {
			return "", err
		}
		err = d.do(ctx, "update delivery stream "+fh.StreamName, func(ctx context.Context) error {
			_, err := d.clients.Firehose.UpdateDestination(ctx, &firehose.UpdateDestinationInput{
				DeliveryStreamName:             aws.String(fh.StreamName),
				CurrentDeliveryStreamVersionId: aws.String(version),
				DestinationId:                  aws.String(destID),
				ExtendedS3DestinationUpdate: &fhtypes.ExtendedS3DestinationUpdate{
					RoleARN:           aws.String(roleARN),
					BucketARN:         aws.String(bucketARN),
					Prefix:            aws.String(prefix),
					BufferingHints:    hints,
					CompressionFormat: compression,
				},
			})
			return err
		})
		if err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}

	d.logger.Info("creating delivery stream", "stream", fh.StreamName, "prefix", prefix)
	err = d.do(ctx, "create delivery stream "+fh.StreamName, func(ctx context.Context) error {
		_, err := d.clients.Firehose.CreateDeliveryStream(ctx, &firehose.CreateDeliveryStreamInput{
			DeliveryStreamName: aws.String(fh.StreamName),
			DeliveryStreamType: fhtypes.DeliveryStreamTypeDirectPut,
			ExtendedS3DestinationConfiguration: &fhtypes.ExtendedS3DestinationConfiguration{
				RoleARN:           aws.String(roleARN),
				BucketARN:         aws.String(bucketARN),
				Prefix:            aws.String(prefix),
				BufferingHints:    hints,
				CompressionFormat: compression,
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

func (d *Deployer) describeStream(ctx context.Context, name string) (*firehose.DescribeDeliveryStreamOutput, bool, error) {
	var out *firehose.DescribeDeliveryStreamOutput
	err := d.call(ctx, "describe delivery stream "+name, func(ctx context.Context) error {
		var err error
		out, err = d.clients.Firehose.DescribeDeliveryStream(ctx, &firehose.DescribeDeliveryStreamInput{
			DeliveryStreamName: aws.String(name),
		})
		return err
	})
	switch {
	case err == nil:
		return out, true, nil
	case awsclient.IsNotFound(err):
		return nil, false, nil
	default:
		return nil, false, d.wrap("describe delivery stream "+name, err)
	}
}

func streamVersionAndDestination(out *firehose.DescribeDeliveryStreamOutput) (string, string, error) {
	desc := out.DeliveryStreamDescription
	if desc == nil || len(desc.Destinations) == 0 {
		return "", "", apperrors.ErrDeployment("delivery stream has no destinations to update", nil)
	}
	return aws.ToString(desc.VersionId), aws.ToString(desc.Destinations[0].DestinationId), nil
}

// firehoseRoleConfig synthesizes the delivery role: trusted by the Firehose
// service, allowed to write objects under the bucket, and to use the KMS
// key when bucket encryption uses one.
func firehoseRoleConfig(cfg *config.Config) *config.RoleConfig {
	bucketARN := "arn:aws:s3:::" + cfg.BucketName

	statements := []any{
		map[string]any{
			"Effect": "Allow",
			"Action": []any{
				"s3:AbortMultipartUpload",
				"s3:GetBucketLocation",
				"s3:GetObject",
				"s3:ListBucket",
				"s3:ListBucketMultipartUploads",
				"s3:PutObject",
			},
			"Resource": []any{bucketARN, bucketARN + "/*"},
		},
	}
	if cfg.KMSKeyID != "" {
		statements = append(statements, map[string]any{
			"Effect":   "Allow",
			"Action":   []any{"kms:GenerateDataKey", "kms:Decrypt"},
			"Resource": []any{cfg.KMSKeyID},
		})
	}

	return &config.RoleConfig{
		Name: cfg.Firehose.RoleName,
		AssumeRolePolicy: config.PolicyDocument{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "firehose.amazonaws.com"},
					"Action":    "sts:AssumeRole",
				},
			},
		},
		InlinePolicies: map[string]config.PolicyDocument{
			"firehose-access": {
				"Version":   "2012-10-17",
				"Statement": statements,
			},
		},
	}
}
