package deployer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// ensureGlueCrawler reconciles the crawler that populates the catalog from
// the raw zone. The crawler role cannot be synthesized safely, so a missing
// role_arn is a configuration error raised before any remote call.
func (d *Deployer) ensureGlueCrawler(ctx context.Context, cfg *config.Config) (string, error) {
	cr := cfg.Crawler
	if cr.RoleARN == "" {
		return "", apperrors.ErrConfig("crawler.role_arn is required when a crawler is configured", nil)
	}

	exists, err := d.crawlerExists(ctx, cr.Name)
	if err != nil {
		return "", err
	}
	if cfg.DryRun {
		return outcomeFor(exists), nil
	}

	targetPath := cr.S3TargetPath
	if targetPath == "" {
		targetPath = "s3://" + cfg.BucketName + "/" + cfg.RawPrefix
	}
	targets := &gluetypes.CrawlerTargets{
		S3Targets: []gluetypes.S3Target{{Path: aws.String(targetPath)}},
	}

	var schedule *string
	if cr.Schedule != "" {
		schedule = aws.String(cr.Schedule)
	}

	if exists {
		err = d.do(ctx, "update Glue crawler "+cr.Name, func(ctx context.Context) error {
			_, err := d.clients.Glue.UpdateCrawler(ctx, &glue.UpdateCrawlerInput{
				Name:         aws.String(cr.Name),
				Role:         aws.String(cr.RoleARN),
				DatabaseName: aws.String(cfg.GlueDatabase),
				Targets:      targets,
				Schedule:     schedule,
			})
			return err
		})
		if err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}

	d.logger.Info("creating Glue crawler", "crawler", cr.Name, "target", targetPath)
	err = d.do(ctx, "create Glue crawler "+cr.Name, func(ctx context.Context) error {
		_, err := d.clients.Glue.CreateCrawler(ctx, &glue.CreateCrawlerInput{
			Name:         aws.String(cr.Name),
			Role:         aws.String(cr.RoleARN),
			DatabaseName: aws.String(cfg.GlueDatabase),
			Targets:      targets,
			Schedule:     schedule,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

func (d *Deployer) crawlerExists(ctx context.Context, name string) (bool, error) {
	err := d.call(ctx, "get Glue crawler "+name, func(ctx context.Context) error {
		_, err := d.clients.Glue.GetCrawler(ctx, &glue.GetCrawlerInput{Name: aws.String(name)})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case awsclient.IsNotFound(err):
		return false, nil
	default:
		return false, d.wrap("get Glue crawler "+name, err)
	}
}
