package deployer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/lakedeploy/lakedeploy/internal/config"
)

type endpointSpec struct {
	serviceName  string
	endpointType ec2types.VpcEndpointType
}

// ensureVPCEndpoints creates any missing VPC endpoints for the enabled
// services. S3 uses a gateway endpoint attached to route tables; Glue and
// Athena use interface endpoints in the configured subnets. Existing
// endpoints are never modified.
func (d *Deployer) ensureVPCEndpoints(ctx context.Context, cfg *config.Config) (string, error) {
	vpc := cfg.VPCEndpoints

	var specs []endpointSpec
	if vpc.EnableS3 {
		specs = append(specs, endpointSpec{
			serviceName:  fmt.Sprintf("com.amazonaws.%s.s3", cfg.Region),
			endpointType: ec2types.VpcEndpointTypeGateway,
		})
	}
	if vpc.EnableGlue {
		specs = append(specs, endpointSpec{
			serviceName:  fmt.Sprintf("com.amazonaws.%s.glue", cfg.Region),
			endpointType: ec2types.VpcEndpointTypeInterface,
		})
	}
	if vpc.EnableAthena {
		specs = append(specs, endpointSpec{
			serviceName:  fmt.Sprintf("com.amazonaws.%s.athena", cfg.Region),
			endpointType: ec2types.VpcEndpointTypeInterface,
		})
	}
	if len(specs) == 0 {
		return OutcomeSkipped, nil
	}

	createdAny := false
	for _, spec := range specs {
		exists, err := d.vpcEndpointExists(ctx, vpc.VPCID, spec)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		createdAny = true
		if cfg.DryRun {
			continue
		}

		input := &ec2.CreateVpcEndpointInput{
			VpcId:           aws.String(vpc.VPCID),
			ServiceName:     aws.String(spec.serviceName),
			VpcEndpointType: spec.endpointType,
		}
		if spec.endpointType == ec2types.VpcEndpointTypeGateway {
			input.RouteTableIds = vpc.RouteTableIDs
		} else {
			input.SubnetIds = vpc.SubnetIDs
			input.SecurityGroupIds = vpc.SecurityGroupIDs
			input.PrivateDnsEnabled = aws.Bool(true)
		}

		d.logger.Info("creating VPC endpoint", "service", spec.serviceName, "vpc", vpc.VPCID)
		err = d.do(ctx, "create VPC endpoint for "+spec.serviceName, func(ctx context.Context) error {
			_, err := d.clients.EC2.CreateVpcEndpoint(ctx, input)
			return err
		})
		if err != nil {
			return "", err
		}
	}

	return outcomeFor(!createdAny), nil
}

// vpcEndpointExists matches on VPC, service name, and endpoint type.
func (d *Deployer) vpcEndpointExists(ctx context.Context, vpcID string, spec endpointSpec) (bool, error) {
	var found bool
	err := d.do(ctx, "describe VPC endpoints for "+spec.serviceName, func(ctx context.Context) error {
		out, err := d.clients.EC2.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
			Filters: []ec2types.Filter{
				{Name: aws.String("vpc-id"), Values: []string{vpcID}},
				{Name: aws.String("service-name"), Values: []string{spec.serviceName}},
				{Name: aws.String("vpc-endpoint-type"), Values: []string{string(spec.endpointType)}},
			},
		})
		if err != nil {
			return err
		}
		found = len(out.VpcEndpoints) > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
