package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	"github.com/lakedeploy/lakedeploy/internal/deployer"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var (
	historyLimit  int
	historyRegion string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded deployments, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := newStateManager(ctx, historyRegion)
		if err != nil {
			return err
		}
		history, err := mgr.History(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			output.Info("No deployments recorded yet")
			return nil
		}

		// History arrives oldest first; show the newest at the top.
		for i := len(history) - 1; i >= 0; i-- {
			d := history[i]
			title := d.Timestamp.Format(time.RFC3339) + "  " + d.Config.BucketName + " (" + d.Config.Region + ")"
			switch {
			case d.DryRun:
				title += "  [dry-run]"
			case !d.Success:
				title += "  [failed]"
			}
			output.Header(title)
			for _, key := range deployer.StageOrder {
				if outcome, ok := d.Results[key]; ok {
					output.KeyValue(key, outcome)
				}
			}
		}

		last, err := mgr.LastSuccessful(ctx)
		if err != nil {
			return err
		}
		if last != nil {
			output.Info("Last successful deployment: %s", last.Timestamp.Format(time.RFC3339))
		}
		output.Blank()
		return nil
	},
}

func init() {
	addStateFlags(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", constants.MaxDeploymentHistory, "maximum deployments to show")
	historyCmd.Flags().StringVar(&historyRegion, "region", constants.DefaultRegion, "region for the DynamoDB state table")
	rootCmd.AddCommand(historyCmd)
}
