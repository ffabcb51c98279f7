package cmd

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/deployer"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var dryRun bool

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Provision or converge the data lake resources",
	Long: `Reconciles every resource in the configuration against AWS, creating
what is missing and updating what drifted. Safe to run repeatedly.

With --dry-run, resources are only probed and the planned outcomes are
reported without touching anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.DryRun = dryRun

		factory, err := awsclient.NewFactory(ctx, cfg.Region, credentials())
		if err != nil {
			return err
		}

		identity, err := factory.STS().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return apperrors.ErrConfig("unable to validate AWS credentials", err)
		}
		output.Info("Deploying as %s", aws.ToString(identity.Arn))
		if dryRun {
			output.Warning("Dry run: no changes will be made")
		}

		d := deployer.New(deployer.Clients{
			S3:            factory.S3(),
			Glue:          factory.Glue(),
			Athena:        factory.Athena(),
			IAM:           factory.IAM(),
			Firehose:      factory.Firehose(),
			EC2:           factory.EC2(),
			LakeFormation: factory.LakeFormation(),
		}, deployer.WithLogger(slog.Default()))

		summary, deployErr := d.Deploy(ctx, cfg)
		printSummary(summary)

		// Every run lands in history; only a successful non-dry run
		// becomes the drift baseline.
		recordErr := recordDeployment(ctx, cfg, summary, deployErr == nil)

		if deployErr != nil {
			output.Error("Deployment failed; resources listed above were applied before the failure")
			if recordErr != nil {
				output.Warning("Recording the failed run to state also failed: %v", recordErr)
			}
			return deployErr
		}

		if dryRun {
			output.Success("Dry run complete")
		} else {
			output.Success("Deployment complete")
		}
		if recordErr != nil {
			output.Warning("Deployment succeeded but recording state failed")
			return recordErr
		}
		return nil
	},
}

func recordDeployment(ctx context.Context, cfg *config.Config, summary map[string]string, success bool) error {
	mgr, err := newStateManager(ctx, cfg.Region)
	if err != nil {
		return err
	}
	return mgr.Record(ctx, cfg, summary, success)
}

func printSummary(summary map[string]string) {
	if len(summary) == 0 {
		return
	}
	output.Header("Resources")
	for _, key := range deployer.StageOrder {
		outcome, ok := summary[key]
		if !ok {
			continue
		}
		if outcome == deployer.OutcomeSkipped {
			output.KeyValue(key, outcome)
			continue
		}
		output.Success("%s: %s", key, outcome)
	}
	output.Blank()
}

func init() {
	addConfigFlag(deployCmd)
	addStateFlags(deployCmd)
	deployCmd.Flags().StringVar(&regionOverride, "region", "", "override the region in the configuration")
	deployCmd.Flags().BoolVar(&dryRun, "dry-run", false, "probe resources without making changes")
	rootCmd.AddCommand(deployCmd)
}
