package stack

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// CloudFormation implements Engine against AWS CloudFormation.
type CloudFormation struct {
	client *cloudformation.Client
}

// NewCloudFormation creates a CloudFormation-backed engine.
func NewCloudFormation(client *cloudformation.Client) *CloudFormation {
	return &CloudFormation{client: client}
}

// StackResource returns the resource with the given logical ID, or an empty
// slice when the stack has no such resource.
func (e *CloudFormation) StackResource(ctx context.Context, stackName, logicalID string) ([]Resource, error) {
	out, err := e.client.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName:         aws.String(stackName),
		LogicalResourceId: aws.String(logicalID),
	})
	if err != nil {
		return nil, fmt.Errorf("describe resource %s in stack %s: %w", logicalID, stackName, err)
	}
	resources := make([]Resource, 0, len(out.StackResources))
	for _, r := range out.StackResources {
		resources = append(resources, Resource{
			LogicalID:  aws.ToString(r.LogicalResourceId),
			PhysicalID: aws.ToString(r.PhysicalResourceId),
			Type:       aws.ToString(r.ResourceType),
		})
	}
	return resources, nil
}

// StackResources returns every resource in the stack.
func (e *CloudFormation) StackResources(ctx context.Context, stackName string) ([]Resource, error) {
	out, err := e.client.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("describe resources of stack %s: %w", stackName, err)
	}
	resources := make([]Resource, 0, len(out.StackResources))
	for _, r := range out.StackResources {
		resources = append(resources, Resource{
			LogicalID:  aws.ToString(r.LogicalResourceId),
			PhysicalID: aws.ToString(r.PhysicalResourceId),
			Type:       aws.ToString(r.ResourceType),
		})
	}
	return resources, nil
}

// StackOutput returns the output with the given key, or an empty slice when
// the stack does not produce it.
func (e *CloudFormation) StackOutput(ctx context.Context, stackName, outputName string) ([]Output, error) {
	all, err := e.StackOutputs(ctx, stackName)
	if err != nil {
		return nil, err
	}
	var outputs []Output
	for _, o := range all {
		if o.Key == outputName {
			outputs = append(outputs, o)
		}
	}
	return outputs, nil
}

// StackOutputs returns every output the stack produces.
func (e *CloudFormation) StackOutputs(ctx context.Context, stackName string) ([]Output, error) {
	out, err := e.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("describe stack %s: %w", stackName, err)
	}
	var outputs []Output
	for _, s := range out.Stacks {
		for _, o := range s.Outputs {
			outputs = append(outputs, Output{
				Key:   aws.ToString(o.OutputKey),
				Value: aws.ToString(o.OutputValue),
			})
		}
	}
	return outputs, nil
}
