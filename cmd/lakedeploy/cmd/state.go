package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var stateRegion string

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage persisted deployment state",
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset deployment history and the applied-config snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := newStateManager(ctx, stateRegion)
		if err != nil {
			return err
		}
		if err := mgr.Clear(ctx); err != nil {
			return err
		}
		output.Success("Deployment state cleared")
		return nil
	},
}

func init() {
	addStateFlags(stateClearCmd)
	stateClearCmd.Flags().StringVar(&stateRegion, "region", constants.DefaultRegion, "region for the DynamoDB state table")
	stateCmd.AddCommand(stateClearCmd)
	rootCmd.AddCommand(stateCmd)
}
