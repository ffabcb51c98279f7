// Package deployer converges AWS data lake resources toward a declarative
// configuration. Each resource type has its own reconciler; Deploy runs
// them in dependency order and aggregates per-resource outcomes.
package deployer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// Outcome labels returned per resource. Callers must treat unknown labels
// of the form "configured: ..." as success with detail in the string.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
)

// Resource keys used in the outcome map.
const (
	ResourceVPCEndpoints   = "vpc_endpoints"
	ResourceBucket         = "s3_bucket"
	ResourceGlueDatabase   = "glue_database"
	ResourceProcessingRole = "processing_role"
	ResourceFirehoseStream = "firehose_stream"
	ResourceGlueCrawler    = "glue_crawler"
	ResourceWorkgroup      = "athena_workgroup"
	ResourceTransactional  = "transactional_assets"
	ResourceLakeFormation  = "lake_formation"
)

// StageOrder is the fixed dependency order resources are reconciled in.
// Callers use it to render outcomes in order of effect.
var StageOrder = []string{
	ResourceVPCEndpoints,
	ResourceBucket,
	ResourceGlueDatabase,
	ResourceProcessingRole,
	ResourceFirehoseStream,
	ResourceGlueCrawler,
	ResourceWorkgroup,
	ResourceTransactional,
	ResourceLakeFormation,
}

// Clients carries the AWS service clients the reconcilers need.
type Clients struct {
	S3            awsclient.S3API
	Glue          awsclient.GlueAPI
	Athena        awsclient.AthenaAPI
	IAM           awsclient.IAMAPI
	Firehose      awsclient.FirehoseAPI
	EC2           awsclient.EC2API
	LakeFormation awsclient.LakeFormationAPI
}

// Deployer coordinates provisioning of the AWS primitives backing a data
// lake. It is safe to call Deploy repeatedly with the same configuration;
// reconcilers converge remote state rather than recreate it.
type Deployer struct {
	clients Clients
	retry   awsclient.RetryPolicy
	logger  *slog.Logger
}

// Option customizes a Deployer.
type Option func(*Deployer)

// WithLogger sets the logger used for operation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deployer) { d.logger = logger }
}

// WithRetryPolicy overrides the throttle retry policy.
func WithRetryPolicy(policy awsclient.RetryPolicy) Option {
	return func(d *Deployer) { d.retry = policy }
}

// New creates a Deployer over the given service clients.
func New(clients Clients, opts ...Option) *Deployer {
	d := &Deployer{
		clients: clients,
		retry:   awsclient.DefaultRetryPolicy(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy ensures every configured resource exists and matches the declared
// state. The returned map holds one outcome per reconciled resource, keyed
// by the Resource* constants. Optional stages whose configuration section
// is absent are omitted from the map entirely.
//
// On error the map contains the outcomes of the stages that completed
// before the failure; the caller must treat a partial map plus an error as
// a partially applied deployment. Nothing is rolled back.
func (d *Deployer) Deploy(ctx context.Context, cfg *config.Config) (map[string]string, error) {
	summary := make(map[string]string)

	type stage struct {
		key     string
		enabled bool
		run     func(context.Context, *config.Config) (string, error)
	}

	stages := []stage{
		{ResourceVPCEndpoints, cfg.VPCEndpoints != nil, d.ensureVPCEndpoints},
		{ResourceBucket, true, d.ensureBucket},
		{ResourceGlueDatabase, true, d.ensureGlueDatabase},
		{ResourceProcessingRole, cfg.ProcessingRole != nil, d.ensureProcessingRole},
		{ResourceFirehoseStream, cfg.Firehose != nil, d.ensureFirehoseStream},
		{ResourceGlueCrawler, cfg.Crawler != nil, d.ensureGlueCrawler},
		{ResourceWorkgroup, cfg.AthenaWorkgroup != "", d.ensureAthenaWorkgroup},
		{ResourceTransactional, cfg.TransactionalTable != "", d.ensureTransactionalAssets},
		{ResourceLakeFormation, cfg.LakeFormation != nil && cfg.LakeFormation.Enabled, d.ensureLakeFormation},
	}

	for _, s := range stages {
		if !s.enabled {
			continue
		}
		outcome, err := s.run(ctx, cfg)
		if err != nil {
			return summary, err
		}
		summary[s.key] = outcome
	}

	return summary, nil
}

// call runs one remote operation under the retry policy. The raw error is
// returned so probes can still classify it.
func (d *Deployer) call(ctx context.Context, op string, fn func(context.Context) error) error {
	return d.retry.Do(ctx, d.logger, op, fn)
}

// do runs one mutating remote operation; any failure is logged with its
// operation context and wrapped as a deployment failure.
func (d *Deployer) do(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := d.call(ctx, op, fn); err != nil {
		return d.wrap(op, err)
	}
	return nil
}

// wrap converts a raw remote error into a deployment failure, unless it
// already is a DeployError.
func (d *Deployer) wrap(op string, err error) error {
	var derr *apperrors.DeployError
	if errors.As(err, &derr) {
		return err
	}
	d.logger.Error("aws operation failed", "op", op, "error", err)
	return apperrors.ErrDeployment("failed to "+op, err)
}

// outcomeFor maps an existence probe to the outcome a full reconciliation
// of that resource would report.
func outcomeFor(exists bool) string {
	if exists {
		return OutcomeUpdated
	}
	return OutcomeCreated
}
