package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
)

// Manager implements the state operations on top of a Backend: recording
// deployments, listing history, drift detection, and clearing.
type Manager struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over the given backend.
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record appends a deployment to history, capped at the most recent
// MaxDeploymentHistory entries, oldest dropped first. The current config
// snapshot and resource map are replaced only for a successful non-dry
// run; dry runs and failures land in history without becoming the
// baseline that drift is measured against.
func (m *Manager) Record(ctx context.Context, cfg *config.Config, results map[string]string, success bool) error {
	st, err := m.backend.Load(ctx)
	if err != nil {
		return err
	}

	snap := Snapshot(cfg)
	st.Version = constants.StateVersion
	st.Deployments = append(st.Deployments, Deployment{
		Timestamp: m.now().UTC(),
		Success:   success,
		DryRun:    cfg.DryRun,
		Config:    snap,
		Results:   results,
	})
	if excess := len(st.Deployments) - constants.MaxDeploymentHistory; excess > 0 {
		st.Deployments = st.Deployments[excess:]
	}

	if success && !cfg.DryRun {
		st.CurrentConfig = &snap
		st.Resources = make(map[string]string, len(results))
		for key, outcome := range results {
			st.Resources[key] = outcome
		}
	}

	if err := m.backend.Save(ctx, st); err != nil {
		return err
	}
	m.logger.Debug("recorded deployment",
		"success", success, "dry_run", cfg.DryRun, "history", len(st.Deployments))
	return nil
}

// History returns retained deployments in arrival order, most recent
// last. A positive limit keeps only that many entries from the tail; zero
// or less returns everything retained.
func (m *Manager) History(ctx context.Context, limit int) ([]Deployment, error) {
	st, err := m.backend.Load(ctx)
	if err != nil {
		return nil, err
	}

	retained := st.Deployments
	if limit > 0 && len(retained) > limit {
		retained = retained[len(retained)-limit:]
	}
	history := make([]Deployment, len(retained))
	copy(history, retained)
	return history, nil
}

// LastApplied returns the configuration snapshot of the last successful
// deployment, or nil when nothing has been deployed yet.
func (m *Manager) LastApplied(ctx context.Context) (*AppliedConfig, error) {
	st, err := m.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return st.CurrentConfig, nil
}

// LastSuccessful returns the most recent deployment that succeeded and was
// not a dry run, or nil when there is none.
func (m *Manager) LastSuccessful(ctx context.Context) (*Deployment, error) {
	st, err := m.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(st.Deployments) - 1; i >= 0; i-- {
		d := st.Deployments[i]
		if d.Success && !d.DryRun {
			return &d, nil
		}
	}
	return nil, nil
}

// NoPreviousDeployment is the single line reported by DetectDrift when no
// deployment has been recorded yet.
const NoPreviousDeployment = "No previous deployment found"

// DetectDrift compares cfg against the last applied snapshot and returns
// one line per differing field. An empty slice means no drift.
func (m *Manager) DetectDrift(ctx context.Context, cfg *config.Config) ([]string, error) {
	previous, err := m.LastApplied(ctx)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return []string{NoPreviousDeployment}, nil
	}
	return diffConfigs(*previous, Snapshot(cfg)), nil
}

// Clear resets the persisted state to empty.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.backend.Save(ctx, NewState()); err != nil {
		return err
	}
	m.logger.Info("deployment state cleared")
	return nil
}
