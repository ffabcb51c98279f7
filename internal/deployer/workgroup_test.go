package deployer

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

func TestEnsureAthenaWorkgroup_CreatesWhenReportedMissing(t *testing.T) {
	env := newTestEnv()
	env.athena.getWorkGroupFunc = func(*athena.GetWorkGroupInput) (*athena.GetWorkGroupOutput, error) {
		return nil, apiErr("InvalidRequestException", "WorkGroup lake-wg is not found")
	}
	cfg := minimalConfig()
	cfg.AthenaWorkgroup = "lake-wg"

	outcome, err := env.deployer.ensureAthenaWorkgroup(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	require.Len(t, env.athena.createWorkGroupInputs, 1)

	input := env.athena.createWorkGroupInputs[0]
	assert.Equal(t, "lake-wg", aws.ToString(input.Name))
	require.NotNil(t, input.Configuration)
	assert.True(t, aws.ToBool(input.Configuration.EnforceWorkGroupConfiguration))
	assert.Equal(t,
		"s3://acme-data-lake/analytics/athena-results/",
		aws.ToString(input.Configuration.ResultConfiguration.OutputLocation),
	)
	assert.Equal(t,
		athenatypes.EncryptionOptionSseS3,
		input.Configuration.ResultConfiguration.EncryptionConfiguration.EncryptionOption,
	)
}

func TestEnsureAthenaWorkgroup_UpdatesExisting(t *testing.T) {
	env := newTestEnv()
	cfg := minimalConfig()
	cfg.AthenaWorkgroup = "lake-wg"

	outcome, err := env.deployer.ensureAthenaWorkgroup(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Empty(t, env.athena.createWorkGroupInputs)
	require.Len(t, env.athena.updateWorkGroupInputs, 1)

	updates := env.athena.updateWorkGroupInputs[0].ConfigurationUpdates
	require.NotNil(t, updates)
	assert.True(t, aws.ToBool(updates.EnforceWorkGroupConfiguration))
	assert.Equal(t,
		"s3://acme-data-lake/analytics/athena-results/",
		aws.ToString(updates.ResultConfigurationUpdates.OutputLocation),
	)
}

func TestEnsureAthenaWorkgroup_OtherInvalidRequestIsFatal(t *testing.T) {
	env := newTestEnv()
	env.athena.getWorkGroupFunc = func(*athena.GetWorkGroupInput) (*athena.GetWorkGroupOutput, error) {
		return nil, apiErr("InvalidRequestException", "workgroup name is malformed")
	}
	cfg := minimalConfig()
	cfg.AthenaWorkgroup = "lake-wg"

	_, err := env.deployer.ensureAthenaWorkgroup(context.Background(), cfg)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeployment, apperrors.GetCode(err))
	assert.Empty(t, env.athena.createWorkGroupInputs)
	assert.Empty(t, env.athena.updateWorkGroupInputs)
}

func TestEnsureAthenaWorkgroup_KMSResultEncryption(t *testing.T) {
	env := newTestEnv()
	cfg := minimalConfig()
	cfg.AthenaWorkgroup = "lake-wg"
	cfg.KMSKeyID = "arn:aws:kms:us-east-1:123456789012:key/abc"

	_, err := env.deployer.ensureAthenaWorkgroup(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, env.athena.updateWorkGroupInputs, 1)
	enc := env.athena.updateWorkGroupInputs[0].ConfigurationUpdates.ResultConfigurationUpdates.EncryptionConfiguration
	assert.Equal(t, athenatypes.EncryptionOptionSseKms, enc.EncryptionOption)
	assert.Equal(t, cfg.KMSKeyID, aws.ToString(enc.KmsKey))
}
