package deployer

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
)

// ensureBucket converges the data lake bucket: existence, public access
// block, versioning, encryption, tags, and the zone prefix markers.
func (d *Deployer) ensureBucket(ctx context.Context, cfg *config.Config) (string, error) {
	bucket := cfg.BucketName

	exists, err := d.bucketExists(ctx, bucket)
	if err != nil {
		return "", err
	}
	if cfg.DryRun {
		return outcomeFor(exists), nil
	}

	if !exists {
		d.logger.Info("creating S3 bucket", "bucket", bucket, "region", cfg.Region)
		input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
		// us-east-1 rejects an explicit location constraint.
		if cfg.Region != constants.DefaultRegion {
			input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
				LocationConstraint: s3types.BucketLocationConstraint(cfg.Region),
			}
		}
		err := d.do(ctx, "create S3 bucket "+bucket, func(ctx context.Context) error {
			_, err := d.clients.S3.CreateBucket(ctx, input)
			return err
		})
		if err != nil {
			return "", err
		}
	}

	err = d.do(ctx, "block public access on "+bucket, func(ctx context.Context) error {
		_, err := d.clients.S3.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
			Bucket: aws.String(bucket),
			PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       aws.Bool(true),
				BlockPublicPolicy:     aws.Bool(true),
				IgnorePublicAcls:      aws.Bool(true),
				RestrictPublicBuckets: aws.Bool(true),
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}

	err = d.do(ctx, "enable versioning on "+bucket, func(ctx context.Context) error {
		_, err := d.clients.S3.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
			Bucket: aws.String(bucket),
			VersioningConfiguration: &s3types.VersioningConfiguration{
				Status: s3types.BucketVersioningStatusEnabled,
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}

	if err := d.ensureBucketEncryption(ctx, cfg); err != nil {
		return "", err
	}

	d.applyBucketTags(ctx, cfg)
	d.ensurePrefixMarkers(ctx, cfg)

	return outcomeFor(exists), nil
}

// bucketExists probes with HeadBucket. A redirect means the bucket exists
// in another region, which still counts as existing.
func (d *Deployer) bucketExists(ctx context.Context, bucket string) (bool, error) {
	err := d.call(ctx, "head S3 bucket "+bucket, func(ctx context.Context) error {
		_, err := d.clients.S3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case awsclient.IsNotFound(err):
		return false, nil
	case awsclient.IsBucketRedirect(err):
		d.logger.Warn("bucket exists in a different region", "bucket", bucket)
		return true, nil
	default:
		return false, d.wrap("head S3 bucket "+bucket, err)
	}
}

// ensureBucketEncryption applies SSE-KMS when a key is configured, SSE-S3
// otherwise.
func (d *Deployer) ensureBucketEncryption(ctx context.Context, cfg *config.Config) error {
	rule := s3types.ServerSideEncryptionRule{
		ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
			SSEAlgorithm: s3types.ServerSideEncryptionAes256,
		},
	}
	if cfg.KMSKeyID != "" {
		rule.ApplyServerSideEncryptionByDefault = &s3types.ServerSideEncryptionByDefault{
			SSEAlgorithm:   s3types.ServerSideEncryptionAwsKms,
			KMSMasterKeyID: aws.String(cfg.KMSKeyID),
		}
		rule.BucketKeyEnabled = aws.Bool(true)
	}

	return d.do(ctx, "configure encryption on "+cfg.BucketName, func(ctx context.Context) error {
		_, err := d.clients.S3.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
			Bucket: aws.String(cfg.BucketName),
			ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
				Rules: []s3types.ServerSideEncryptionRule{rule},
			},
		})
		return err
	})
}

// applyBucketTags is best effort. A tagging failure is logged and never
// fails the deployment.
func (d *Deployer) applyBucketTags(ctx context.Context, cfg *config.Config) {
	if len(cfg.Tags) == 0 {
		return
	}

	keys := make([]string, 0, len(cfg.Tags))
	for k := range cfg.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]s3types.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, s3types.Tag{Key: aws.String(k), Value: aws.String(cfg.Tags[k])})
	}

	err := d.call(ctx, "tag S3 bucket "+cfg.BucketName, func(ctx context.Context) error {
		_, err := d.clients.S3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  aws.String(cfg.BucketName),
			Tagging: &s3types.Tagging{TagSet: tags},
		})
		return err
	})
	if err != nil {
		d.logger.Warn("failed to tag bucket, continuing", "bucket", cfg.BucketName, "error", err)
	}
}

// ensurePrefixMarkers writes zero-byte objects for the raw, processed, and
// analytics zones so the layout is visible in the console. Best effort.
func (d *Deployer) ensurePrefixMarkers(ctx context.Context, cfg *config.Config) {
	for _, prefix := range []string{cfg.RawPrefix, cfg.ProcessedPrefix, cfg.AnalyticsPrefix} {
		key := prefix
		err := d.call(ctx, "create prefix marker "+key, func(ctx context.Context) error {
			_, err := d.clients.S3.PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(cfg.BucketName),
				Key:    aws.String(key),
			})
			return err
		})
		if err != nil {
			d.logger.Warn("failed to create prefix marker, continuing", "key", key, "error", err)
		}
	}
}
