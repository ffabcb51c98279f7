package deployer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
)

// ensureAthenaWorkgroup reconciles the query workgroup. Query results land
// under the analytics zone; the workgroup configuration is enforced so
// clients cannot override the result location.
func (d *Deployer) ensureAthenaWorkgroup(ctx context.Context, cfg *config.Config) (string, error) {
	name := cfg.AthenaWorkgroup
	outputLocation := "s3://" + cfg.BucketName + "/" + cfg.AnalyticsPrefix + "athena-results/"

	exists, err := d.workGroupExists(ctx, name)
	if err != nil {
		return "", err
	}
	if cfg.DryRun {
		return outcomeFor(exists), nil
	}

	encryption := &athenatypes.EncryptionConfiguration{
		EncryptionOption: athenatypes.EncryptionOptionSseS3,
	}
	if cfg.KMSKeyID != "" {
		encryption = &athenatypes.EncryptionConfiguration{
			EncryptionOption: athenatypes.EncryptionOptionSseKms,
			KmsKey:           aws.String(cfg.KMSKeyID),
		}
	}

	if exists {
		err = d.do(ctx, "update Athena workgroup "+name, func(ctx context.Context) error {
			_, err := d.clients.Athena.UpdateWorkGroup(ctx, &athena.UpdateWorkGroupInput{
				WorkGroup:   aws.String(name),
				Description: aws.String(constants.ManagedByDescription),
				ConfigurationUpdates: &athenatypes.WorkGroupConfigurationUpdates{
					EnforceWorkGroupConfiguration: aws.Bool(true),
					ResultConfigurationUpdates: &athenatypes.ResultConfigurationUpdates{
						OutputLocation:          aws.String(outputLocation),
						EncryptionConfiguration: encryption,
					},
				},
			})
			return err
		})
		if err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}

	d.logger.Info("creating Athena workgroup", "workgroup", name, "output", outputLocation)
	err = d.do(ctx, "create Athena workgroup "+name, func(ctx context.Context) error {
		_, err := d.clients.Athena.CreateWorkGroup(ctx, &athena.CreateWorkGroupInput{
			Name:        aws.String(name),
			Description: aws.String(constants.ManagedByDescription),
			Configuration: &athenatypes.WorkGroupConfiguration{
				EnforceWorkGroupConfiguration: aws.Bool(true),
				ResultConfiguration: &athenatypes.ResultConfiguration{
					OutputLocation:          aws.String(outputLocation),
					EncryptionConfiguration: encryption,
				},
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

func (d *Deployer) workGroupExists(ctx context.Context, name string) (bool, error) {
	err := d.call(ctx, "get Athena workgroup "+name, func(ctx context.Context) error {
		_, err := d.clients.Athena.GetWorkGroup(ctx, &athena.GetWorkGroupInput{WorkGroup: aws.String(name)})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case awsclient.IsWorkGroupMissing(err):
		return false, nil
	default:
		return false, d.wrap("get Athena workgroup "+name, err)
	}
}
