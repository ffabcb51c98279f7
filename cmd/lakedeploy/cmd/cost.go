package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/cost"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var (
	costScenarios  bool
	costStorageGB  float64
	costQueries    int
	costScanGB     float64
	costFirehoseGB float64
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the monthly cost of the configured resources",
	Long: `Estimates monthly AWS costs for the resources the configuration would
provision, using us-east-1 list prices. Only configured resources
contribute to the estimate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if costScenarios {
			for _, scenario := range cost.Scenarios(cfg) {
				output.Header(scenario.Name)
				fmt.Fprint(output.Stdout, scenario.Estimate.FormatSummary())
			}
			return nil
		}

		usage := cost.Usage{
			StorageGB:        costStorageGB,
			MonthlyQueries:   costQueries,
			AvgQueryScanGB:   costScanGB,
			FirehoseGBPerDay: costFirehoseGB,
		}
		fmt.Fprint(output.Stdout, cost.ForConfig(cfg, usage).FormatSummary())
		return nil
	},
}

func init() {
	addConfigFlag(costCmd)
	defaults := cost.DefaultUsage()
	costCmd.Flags().BoolVar(&costScenarios, "scenarios", false, "show light, medium, and heavy usage scenarios")
	costCmd.Flags().Float64Var(&costStorageGB, "storage-gb", defaults.StorageGB, "estimated S3 storage in GB")
	costCmd.Flags().IntVar(&costQueries, "queries", defaults.MonthlyQueries, "Athena queries per month")
	costCmd.Flags().Float64Var(&costScanGB, "scan-gb", defaults.AvgQueryScanGB, "average GB scanned per query")
	costCmd.Flags().Float64Var(&costFirehoseGB, "firehose-gb-day", defaults.FirehoseGBPerDay, "Firehose ingestion in GB per day")
	rootCmd.AddCommand(costCmd)
}
