package awscloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/stressfleet/stressfleet/internal/netalloc"
)

// NetworkInventory reads the network's declared address blocks, its
// existing subnets, and the available zones into one snapshot. Read-only.
func (c *Client) NetworkInventory(ctx context.Context, vpcID string) (*netalloc.Inventory, error) {
	vpcs, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		VpcIds: []string{vpcID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPC %s: %w", vpcID, err)
	}
	if len(vpcs.Vpcs) == 0 {
		return nil, &NotFoundError{Resource: "VPC", Name: vpcID}
	}
	vpc := vpcs.Vpcs[0]

	// Primary block first, then secondary associations still in the
	// associated state. The association set repeats the primary block, so
	// skip duplicates.
	blocks := []string{aws.ToString(vpc.CidrBlock)}
	for _, assoc := range vpc.CidrBlockAssociationSet {
		if assoc.CidrBlockState == nil || assoc.CidrBlockState.State != ec2types.VpcCidrBlockStateCodeAssociated {
			continue
		}
		cidr := aws.ToString(assoc.CidrBlock)
		if cidr != "" && !containsString(blocks, cidr) {
			blocks = append(blocks, cidr)
		}
	}

	subnets, err := c.describeSubnets(ctx, vpcID)
	if err != nil {
		return nil, err
	}

	zones, err := c.availableZones(ctx)
	if err != nil {
		return nil, err
	}

	return &netalloc.Inventory{
		NetworkID: vpcID,
		Blocks:    blocks,
		Subnets:   subnets,
		Zones:     zones,
	}, nil
}

// CreateSubnet carves a new subnet out of the network. The zone may be
// empty to let the provider choose.
func (c *Client) CreateSubnet(ctx context.Context, vpcID, cidr, zone, name string) (string, error) {
	input := &ec2.CreateSubnetInput{
		VpcId:     aws.String(vpcID),
		CidrBlock: aws.String(cidr),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSubnet,
				Tags: []ec2types.Tag{
					{Key: aws.String("Name"), Value: aws.String(name)},
					{Key: aws.String("Project"), Value: aws.String(c.project)},
				},
			},
		},
	}
	if zone != "" {
		input.AvailabilityZone = aws.String(zone)
	}

	out, err := c.ec2.CreateSubnet(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create subnet %s in %s: %w", cidr, vpcID, err)
	}
	return aws.ToString(out.Subnet.SubnetId), nil
}

func (c *Client) describeSubnets(ctx context.Context, vpcID string) ([]netalloc.Subnet, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets of %s: %w", vpcID, err)
	}

	subnets := make([]netalloc.Subnet, 0, len(out.Subnets))
	for _, s := range out.Subnets {
		subnets = append(subnets, netalloc.Subnet{
			ID:            aws.ToString(s.SubnetId),
			CIDR:          aws.ToString(s.CidrBlock),
			Zone:          aws.ToString(s.AvailabilityZone),
			FreeAddresses: aws.ToInt32(s.AvailableIpAddressCount),
		})
	}
	return subnets, nil
}

func (c *Client) availableZones(ctx context.Context) ([]string, error) {
	out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe availability zones: %w", err)
	}

	zones := make([]string, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		zones = append(zones, aws.ToString(az.ZoneName))
	}
	return zones, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
