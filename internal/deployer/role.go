package deployer

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/lakedeploy/lakedeploy/internal/awsclient"
	"github.com/lakedeploy/lakedeploy/internal/config"
	"github.com/lakedeploy/lakedeploy/internal/constants"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// ensureProcessingRole reconciles the configured data processing role.
func (d *Deployer) ensureProcessingRole(ctx context.Context, cfg *config.Config) (string, error) {
	return d.ensureRole(ctx, cfg.ProcessingRole, cfg.DryRun)
}

// ensureRole converges one IAM role: trust policy, managed policy
// attachments, and the exact declared set of inline policies. Inline
// policies present on the role but absent from the configuration are
// removed, so the declared set is authoritative.
func (d *Deployer) ensureRole(ctx context.Context, rc *config.RoleConfig, dryRun bool) (string, error) {
	trustJSON, err := rc.AssumeRolePolicy.JSON()
	if err != nil {
		return "", apperrors.ErrConfig("invalid assume role policy for role "+rc.Name, err)
	}

	exists, err := d.roleExists(ctx, rc.Name)
	if err != nil {
		return "", err
	}
	if dryRun {
		return outcomeFor(exists), nil
	}

	if !exists {
		d.logger.Info("creating IAM role", "role", rc.Name)
		err = d.do(ctx, "create IAM role "+rc.Name, func(ctx context.Context) error {
			_, err := d.clients.IAM.CreateRole(ctx, &iam.CreateRoleInput{
				RoleName:                 aws.String(rc.Name),
				AssumeRolePolicyDocument: aws.String(trustJSON),
				Description:              aws.String(constants.ManagedByDescription),
			})
			return err
		})
	} else {
		err = d.do(ctx, "update trust policy for role "+rc.Name, func(ctx context.Context) error {
			_, err := d.clients.IAM.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
				RoleName:       aws.String(rc.Name),
				PolicyDocument: aws.String(trustJSON),
			})
			return err
		})
	}
	if err != nil {
		return "", err
	}

	if err := d.attachManagedPolicies(ctx, rc); err != nil {
		return "", err
	}
	if err := d.syncInlinePolicies(ctx, rc); err != nil {
		return "", err
	}

	return outcomeFor(exists), nil
}

func (d *Deployer) roleExists(ctx context.Context, name string) (bool, error) {
	err := d.call(ctx, "get IAM role "+name, func(ctx context.Context) error {
		_, err := d.clients.IAM.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case awsclient.IsNotFound(err):
		return false, nil
	default:
		return false, d.wrap("get IAM role "+name, err)
	}
}

// roleARN resolves a role name to its ARN.
func (d *Deployer) roleARN(ctx context.Context, name string) (string, error) {
	var arn string
	err := d.do(ctx, "get IAM role "+name, func(ctx context.Context) error {
		out, err := d.clients.IAM.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		if err != nil {
			return err
		}
		arn = aws.ToString(out.Role.Arn)
		return nil
	})
	if err != nil {
		return "", err
	}
	return arn, nil
}

// attachManagedPolicies attaches any declared managed policies not already
// on the role. Existing attachments outside the declared set are left
// alone; managed policies may legitimately come from elsewhere.
func (d *Deployer) attachManagedPolicies(ctx context.Context, rc *config.RoleConfig) error {
	if len(rc.ManagedPolicyARNs) == 0 {
		return nil
	}

	attached := make(map[string]struct{})
	err := d.do(ctx, "list attached policies for role "+rc.Name, func(ctx context.Context) error {
		out, err := d.clients.IAM.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: aws.String(rc.Name),
		})
		if err != nil {
			return err
		}
		for _, p := range out.AttachedPolicies {
			attached[aws.ToString(p.PolicyArn)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, arn := range rc.ManagedPolicyARNs {
		if _, ok := attached[arn]; ok {
			continue
		}
		err := d.do(ctx, "attach policy "+arn+" to role "+rc.Name, func(ctx context.Context) error {
			_, err := d.clients.IAM.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
				RoleName:  aws.String(rc.Name),
				PolicyArn: aws.String(arn),
			})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// syncInlinePolicies replaces the role's inline policies with exactly the
// declared set.
func (d *Deployer) syncInlinePolicies(ctx context.Context, rc *config.RoleConfig) error {
	existing := make(map[string]struct{})
	err := d.do(ctx, "list inline policies for role "+rc.Name, func(ctx context.Context) error {
		out, err := d.clients.IAM.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
			RoleName: aws.String(rc.Name),
		})
		if err != nil {
			return err
		}
		for _, name := range out.PolicyNames {
			existing[name] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(rc.InlinePolicies))
	for name := range rc.InlinePolicies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doc, err := rc.InlinePolicies[name].JSON()
		if err != nil {
			return apperrors.ErrConfig("invalid inline policy "+name+" for role "+rc.Name, err)
		}
		err = d.do(ctx, "put inline policy "+name+" on role "+rc.Name, func(ctx context.Context) error {
			_, err := d.clients.IAM.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
				RoleName:       aws.String(rc.Name),
				PolicyName:     aws.String(name),
				PolicyDocument: aws.String(doc),
			})
			return err
		})
		if err != nil {
			return err
		}
		delete(existing, name)
	}

	for name := range existing {
		d.logger.Info("removing undeclared inline policy", "role", rc.Name, "policy", name)
		err := d.do(ctx, "delete inline policy "+name+" from role "+rc.Name, func(ctx context.Context) error {
			_, err := d.clients.IAM.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
				RoleName:   aws.String(rc.Name),
				PolicyName: aws.String(name),
			})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
