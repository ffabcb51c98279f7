package deployer

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
)

// ensureTransactionalAssets reconciles the transactional table registration
// in the catalog. Only the table metadata is managed here; the table format
// engine (Iceberg or Delta) owns the data files under the analytics zone.
func (d *Deployer) ensureTransactionalAssets(ctx context.Context, cfg *config.Config) (string, error) {
	name := cfg.TransactionalTable

	exists, err := d.tableExists(ctx, cfg.GlueDatabase, name)
	if err != nil {
		return "", err
	}
	if cfg.DryRun {
		return outcomeFor(exists), nil
	}

	input := transactionalTableInput(cfg)
	if exists {
		err = d.do(ctx, "update Glue table "+name, func(ctx context.Context) error {
			_, err := d.clients.Glue.UpdateTable(ctx, &glue.UpdateTableInput{
				DatabaseName: aws.String(cfg.GlueDatabase),
				TableInput:   input,
			})
			return err
		})
		if err != nil {
			return "", err
		}
		return OutcomeUpdated, nil
	}

	d.logger.Info("registering transactional table", "table", name, "format", cfg.TableFormat)
	err = d.do(ctx, "create Glue table "+name, func(ctx context.Context) error {
		_, err := d.clients.Glue.CreateTable(ctx, &glue.CreateTableInput{
			DatabaseName: aws.String(cfg.GlueDatabase),
			TableInput:   input,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

func (d *Deployer) tableExists(ctx context.Context, database, name string) (bool, error) {
	err := d.call(ctx, "get Glue table "+name, func(ctx context.Context) error {
		_, err := d.clients.Glue.GetTable(ctx, &glue.GetTableInput{
			DatabaseName: aws.String(database),
			Name:         aws.String(name),
		})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case awsclient.IsNotFound(err):
		return false, nil
	default:
		return false, d.wrap("get Glue table "+name, err)
	}
}

// transactionalTableInput builds the catalog entry: a parquet-backed
// external table under the analytics zone, with the table format recorded
// in the parameters where query engines look for it.
func transactionalTableInput(cfg *config.Config) *gluetypes.TableInput {
	location := "s3://" + cfg.BucketName + "/" + cfg.AnalyticsPrefix + cfg.TransactionalTable + "/"
	format := strings.ToLower(cfg.TableFormat)

	return &gluetypes.TableInput{
		Name:      aws.String(cfg.TransactionalTable),
		TableType: aws.String("EXTERNAL_TABLE"),
		Parameters: map[string]string{
			"table_type":     strings.ToUpper(format),
			"classification": format,
			"EXTERNAL":       "TRUE",
		},
		StorageDescriptor: &gluetypes.StorageDescriptor{
			Columns:      []gluetypes.Column{},
			Location:     aws.String(location),
			InputFormat:  aws.String("org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat"),
			OutputFormat: aws.String("org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat"),
			SerdeInfo: &gluetypes.SerDeInfo{
				SerializationLibrary: aws.String("org.apache.hadoop.hive.ql.io.parquet.serde.ParquetHiveSerDe"),
				Parameters:           map[string]string{"serialization.format": "1"},
			},
			Parameters: map[string]string{"table_type": strings.ToUpper(format)},
		},
	}
}
