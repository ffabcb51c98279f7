// Package state persists deployment history and the last applied
// configuration, and reports drift between that snapshot and a newly
// loaded configuration.
package state

import (
	"context"
	"time"

	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
)

// AppliedConfig is the subset of the configuration that gets snapshotted
// into state after a successful deployment. Drift detection compares two
// of these field by field.
type AppliedConfig struct {
	Region             string            `json:"region"`
	BucketName         string            `json:"bucket_name"`
	GlueDatabase       string            `json:"glue_database"`
	RawPrefix          string            `json:"raw_prefix"`
	ProcessedPrefix    string            `json:"processed_prefix"`
	AnalyticsPrefix    string            `json:"analytics_prefix"`
	TableFormat        string            `json:"table_format"`
	TransactionalTable string            `json:"transactional_table,omitempty"`
	AthenaWorkgroup    string            `json:"athena_workgroup,omitempty"`
	KMSKeyID           string            `json:"kms_key_id,omitempty"`
	Tags               map[string]string `json:"tags,omitempty"`
}

// Snapshot extracts the drift-relevant fields from a configuration.
func Snapshot(cfg *config.Config) AppliedConfig {
	snap := AppliedConfig{
		Region:             cfg.Region,
		BucketName:         cfg.BucketName,
		GlueDatabase:       cfg.GlueDatabase,
		RawPrefix:          cfg.RawPrefix,
		ProcessedPrefix:    cfg.ProcessedPrefix,
		AnalyticsPrefix:    cfg.AnalyticsPrefix,
		TableFormat:        cfg.TableFormat,
		TransactionalTable: cfg.TransactionalTable,
		AthenaWorkgroup:    cfg.AthenaWorkgroup,
		KMSKeyID:           cfg.KMSKeyID,
	}
	if len(cfg.Tags) > 0 {
		snap.Tags = make(map[string]string, len(cfg.Tags))
		for k, v := range cfg.Tags {
			snap.Tags[k] = v
		}
	}
	return snap
}

// Deployment is one recorded deployment run. Dry runs and failures are
// kept in history too; Success and DryRun tell them apart from the runs
// that actually converged remote state.
type Deployment struct {
	Timestamp time.Time         `json:"timestamp"`
	Success   bool              `json:"success"`
	DryRun    bool              `json:"dry_run"`
	Config    AppliedConfig     `json:"config"`
	Results   map[string]string `json:"results"`
}

// State is the persisted document. Deployments are ordered oldest first
// and capped at constants.MaxDeploymentHistory.
type State struct {
	Version       string            `json:"version"`
	Deployments   []Deployment      `json:"deployments"`
	CurrentConfig *AppliedConfig    `json:"current_config,omitempty"`
	Resources     map[string]string `json:"resources,omitempty"`
}

// NewState returns an empty state document at the current version.
func NewState() *State {
	return &State{Version: constants.StateVersion}
}

// Backend abstracts where the state document lives. Load returns an empty
// state when no document exists yet.
type Backend interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
}
