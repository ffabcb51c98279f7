package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/output"
	"github.com/lakedeploy/lakedeploy/internal/state"
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare the configuration against the last deployed state",
	Long: `Reports which configuration fields changed since the last recorded
deployment. Detects configuration drift only; it does not inspect the
live AWS resources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mgr, err := newStateManager(ctx, cfg.Region)
		if err != nil {
			return err
		}

		drift, err := mgr.DetectDrift(ctx, cfg)
		if err != nil {
			return err
		}
		switch {
		case len(drift) == 0:
			output.Success("No drift detected")
		case len(drift) == 1 && drift[0] == state.NoPreviousDeployment:
			output.Info(state.NoPreviousDeployment)
		default:
			output.Warning("Configuration drift detected:")
			for _, line := range drift {
				output.KeyValue("drift", line)
			}
		}
		return nil
	},
}

func init() {
	addConfigFlag(driftCmd)
	addStateFlags(driftCmd)
	rootCmd.AddCommand(driftCmd)
}
