package deployer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
)

// ensureGlueDatabase makes sure the catalog database exists. Glue databases
// have nothing to update here, so an existing one is left alone.
func (d *Deployer) ensureGlueDatabase(ctx context.Context, cfg *config.Config) (string, error) {
	name := cfg.GlueDatabase

	err := d.call(ctx, "get Glue database "+name, func(ctx context.Context) error {
		_, err := d.clients.Glue.GetDatabase(ctx, &glue.GetDatabaseInput{Name: aws.String(name)})
		return err
	})
	switch {
	case err == nil:
		return OutcomeUpdated, nil
	case awsclient.IsNotFound(err):
	default:
		return "", d.wrap("get Glue database "+name, err)
	}

	if cfg.DryRun {
		return OutcomeCreated, nil
	}

	d.logger.Info("creating Glue database", "database", name)
	err = d.do(ctx, "create Glue database "+name, func(ctx context.Context) error {
		_, err := d.clients.Glue.CreateDatabase(ctx, &glue.CreateDatabaseInput{
			DatabaseInput: &gluetypes.DatabaseInput{
				Name:        aws.String(name),
				Description: aws.String(constants.ManagedByDescription),
				LocationUri: aws.String("s3://" + cfg.BucketName + "/" + cfg.AnalyticsPrefix),
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}
