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

const transactionDealIDIndex = "deal_id-timestamp-index"

// RecordPayment appends a payment attempt to the transaction log.
func (s *Store) RecordPayment(ctx context.Context, record *models.PaymentRecord) error {
	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal payment record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Transactions),
		Item:                recordAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to record payment in DynamoDB: %w", err)
	}

	return nil
}

// ListPaymentsByDealID retrieves the payment attempts for a deal, ordered
// by timestamp descending.
func (s *Store) ListPaymentsByDealID(ctx context.Context, dealID string) ([]models.PaymentRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(transactionDealIDIndex),
		KeyConditionExpression: aws.String("deal_id = :dealID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":dealID": &types.AttributeValueMemberS{Value: dealID},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by deal ID: %w", err)
	}

	var records []models.PaymentRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment records: %w", err)
	}

	return records, nil
}
