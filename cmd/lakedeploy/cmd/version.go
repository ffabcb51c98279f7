package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	"github.com/lakedeploy/lakedeploy/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lakedeploy version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(output.Stdout, "%s %s\n", constants.ProjectName, constants.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
