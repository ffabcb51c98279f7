package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lakeformation"
	lftypes "github.com/aws/aws-sdk-go-v2/service/lakeformation/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// ensureLakeFormation registers the configured admins and applies the
// declared access grants. Each grant is best effort: one failing grant is
// logged and skipped so the rest still apply. A grant that already exists
// counts as applied.
func (d *Deployer) ensureLakeFormation(ctx context.Context, cfg *config.Config) (string, error) {
	lf := cfg.LakeFormation

	if cfg.DryRun {
		return fmt.Sprintf("configured: %d grants pending", len(lf.Grants)), nil
	}

	if err := d.ensureLakeFormationAdmins(ctx, lf.Admins); err != nil {
		return "", err
	}

	applied := 0
	for _, grant := range lf.Grants {
		resource, err := grantResource(grant)
		if err != nil {
			return "", err
		}

		permissions := make([]lftypes.Permission, 0, len(grant.Permissions))
		for _, p := range grant.Permissions {
			permissions = append(permissions, lftypes.Permission(p))
		}

		err = d.call(ctx, "grant permissions to "+grant.Principal, func(ctx context.Context) error {
			_, err := d.clients.LakeFormation.GrantPermissions(ctx, &lakeformation.GrantPermissionsInput{
				Principal: &lftypes.DataLakePrincipal{
					DataLakePrincipalIdentifier: aws.String(grant.Principal),
				},
				Resource:    resource,
				Permissions: permissions,
			})
			return err
		})
		switch {
		case err == nil, awsclient.IsAlreadyExists(err):
			applied++
		default:
			d.logger.Warn("failed to apply grant, skipping",
				"principal", grant.Principal,
				"kind", grant.Kind,
				"error", err,
			)
		}
	}

	return fmt.Sprintf("configured: %d grants applied", applied), nil
}

// ensureLakeFormationAdmins merges the configured admins into the data lake
// settings, preserving admins registered by other tooling.
func (d *Deployer) ensureLakeFormationAdmins(ctx context.Context, admins []string) error {
	if len(admins) == 0 {
		return nil
	}

	var settings *lftypes.DataLakeSettings
	err := d.do(ctx, "get Lake Formation settings", func(ctx context.Context) error {
		out, err := d.clients.LakeFormation.GetDataLakeSettings(ctx, &lakeformation.GetDataLakeSettingsInput{})
		if err != nil {
			return err
		}
		settings = out.DataLakeSettings
		return nil
	})
	if err != nil {
		return err
	}
	if settings == nil {
		settings = &lftypes.DataLakeSettings{}
	}

	existing := make(map[string]struct{}, len(settings.DataLakeAdmins))
	for _, admin := range settings.DataLakeAdmins {
		existing[aws.ToString(admin.DataLakePrincipalIdentifier)] = struct{}{}
	}

	changed := false
	for _, arn := range admins {
		if _, ok := existing[arn]; ok {
			continue
		}
		settings.DataLakeAdmins = append(settings.DataLakeAdmins, lftypes.DataLakePrincipal{
			DataLakePrincipalIdentifier: aws.String(arn),
		})
		changed = true
	}
	if !changed {
		return nil
	}

	d.logger.Info("registering Lake Formation admins", "count", len(admins))
	return d.do(ctx, "put Lake Formation settings", func(ctx context.Context) error {
		_, err := d.clients.LakeFormation.PutDataLakeSettings(ctx, &lakeformation.PutDataLakeSettingsInput{
			DataLakeSettings: settings,
		})
		return err
	})
}

// grantResource maps a configured grant onto the Lake Formation resource
// it targets.
func grantResource(grant config.LakeFormationGrant) (*lftypes.Resource, error) {
	switch grant.Kind {
	case config.GrantKindDatabase:
		if grant.Name == "" {
			return nil, apperrors.ErrConfig("database grant requires a name", nil)
		}
		return &lftypes.Resource{
			Database: &lftypes.DatabaseResource{Name: aws.String(grant.Name)},
		}, nil
	case config.GrantKindTable:
		if grant.Database == "" || grant.Name == "" {
			return nil, apperrors.ErrConfig("table grant requires database and name", nil)
		}
		return &lftypes.Resource{
			Table: &lftypes.TableResource{
				DatabaseName: aws.String(grant.Database),
				Name:         aws.String(grant.Name),
			},
		}, nil
	case config.GrantKindDataLocation:
		if grant.Location == "" {
			return nil, apperrors.ErrConfig("data location grant requires a location", nil)
		}
		return &lftypes.Resource{
			DataLocation: &lftypes.DataLocationResource{
				ResourceArn: aws.String(dataLocationARN(grant.Location)),
			},
		}, nil
	default:
		return nil, apperrors.ErrConfig("unknown grant kind "+grant.Kind, nil)
	}
}

// dataLocationARN accepts either a full ARN or an s3:// URI.
func dataLocationARN(location string) string {
	if strings.HasPrefix(location, "arn:") {
		return location
	}
	return "arn:aws:s3:::" + strings.TrimPrefix(location, "s3://")
}
