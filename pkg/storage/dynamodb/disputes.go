package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/agrimandi/dealflow/pkg/models"
)

const disputeDealIDIndex = "deal_id-created_at-index"

// CreateDispute persists a new dispute record.
func (s *Store) CreateDispute(ctx context.Context, dispute *models.Dispute) error {
	disputeAV, err := attributevalue.MarshalMap(dispute)
	if err != nil {
		return fmt.Errorf("failed to marshal dispute: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Disputes),
		Item:                disputeAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to create dispute in DynamoDB: %w", err)
	}

	return nil
}

// ListDisputesByDealID retrieves the disputes for a deal, most recent first.
func (s *Store) ListDisputesByDealID(ctx context.Context, dealID string) ([]models.Dispute, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Disputes),
		IndexName:              aws.String(disputeDealIDIndex),
		KeyConditionExpression: aws.String("deal_id = :dealID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":dealID": &types.AttributeValueMemberS{Value: dealID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query disputes by deal ID: %w", err)
	}

	var disputes []models.Dispute
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &disputes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal disputes: %w", err)
	}

	return disputes, nil
}

// CreateResolution persists a generated dispute resolution workflow.
func (s *Store) CreateResolution(ctx context.Context, workflow *models.ResolutionWorkflow) error {
	workflowAV, err := attributevalue.MarshalMap(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal resolution workflow: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Resolutions),
		Item:                workflowAV,
		ConditionExpression: aws.String("attribute_not_exists(resolution_id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to create resolution workflow in DynamoDB: %w", err)
	}

	return nil
}
