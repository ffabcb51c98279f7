package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
	"github.com/lakedeploy/lakedeploy/internal/state"
)

var (
	cfgPath        string
	regionOverride string
	stateFile      string
	stateTable     string
)

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to the TOML configuration file")
	cmd.MarkFlagRequired("config")
}

func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&stateFile, "state-file", constants.DefaultStateFileName, "path to the local state file")
	cmd.Flags().StringVar(&stateTable, "state-dynamodb-table", "", "DynamoDB table for shared state (overrides --state-file)")
}

// credentials returns static credentials when all required flags are set,
// nil otherwise so the default chain applies.
func credentials() *config.Credentials {
	if accessKey == "" || secretKey == "" {
		return nil
	}
	return &config.Credentials{
		AccessKeyID:     accessKey,
		SecretAccessKey: secretKey,
		SessionToken:    sessionToken,
	}
}

// loadConfig reads and validates the configuration, applying the --region
// override before validation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if regionOverride != "" {
		cfg.Region = regionOverride
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newStateManager picks the DynamoDB backend when a table is named,
// otherwise the local state file.
func newStateManager(ctx context.Context, region string) (*state.Manager, error) {
	if stateTable != "" {
		factory, err := awsclient.NewFactory(ctx, region, credentials())
		if err != nil {
			return nil, err
		}
		backend := state.NewDynamoBackend(factory.DynamoDB(), stateTable)
		return state.NewManager(backend, state.WithManagerLogger(slog.Default())), nil
	}
	backend := state.NewFileBackend(stateFile, slog.Default())
	return state.NewManager(backend, state.WithManagerLogger(slog.Default())), nil
}
