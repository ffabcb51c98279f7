// Package cmd implements the lakedeploy command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	"github.com/lakedeploy/lakedeploy/internal/logger"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var (
	verbose      bool
	accessKey    string
	secretKey    string
	sessionToken string
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: "Provision and reconcile AWS data lake infrastructure",
	Long: `lakedeploy provisions the AWS building blocks of a data lake from a
declarative TOML configuration: the S3 bucket and its zone layout, the
Glue catalog and crawler, an Athena workgroup, IAM roles, a Kinesis
Firehose delivery stream, VPC endpoints, and Lake Formation grants.

Runs are idempotent: existing resources are converged toward the
configuration instead of recreated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger.Initialize(logger.FromEnv(), level)
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&accessKey, "access-key", "", "AWS access key ID (default: credential chain)")
	rootCmd.PersistentFlags().StringVar(&secretKey, "secret-key", "", "AWS secret access key")
	rootCmd.PersistentFlags().StringVar(&sessionToken, "session-token", "", "AWS session token")
}
