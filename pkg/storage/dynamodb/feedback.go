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

const feedbackDealIDIndex = "deal_id-index"

// CreateFeedback persists a new feedback record.
func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	feedbackAV, err := attributevalue.MarshalMap(feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Feedback),
		Item:                feedbackAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to create feedback in DynamoDB: %w", err)
	}

	return nil
}

// GetFeedbackByDealAndRater retrieves the feedback a user left for a deal,
// or nil when the user has not rated the deal yet.
func (s *Store) GetFeedbackByDealAndRater(ctx context.Context, dealID, fromUserID string) (*models.Feedback, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Feedback),
		IndexName:              aws.String(feedbackDealIDIndex),
		KeyConditionExpression: aws.String("deal_id = :dealID"),
		FilterExpression:       aws.String("from_user_id = :fromUserID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":dealID":     &types.AttributeValueMemberS{Value: dealID},
			":fromUserID": &types.AttributeValueMemberS{Value: fromUserID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback by deal and rater: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}

	var feedback models.Feedback
	if err := attributevalue.UnmarshalMap(result.Items[0], &feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
	}

	return &feedback, nil
}

// CreatePrompt persists a rating or review prompt record.
func (s *Store) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	promptAV, err := attributevalue.MarshalMap(prompt)
	if err != nil {
		return fmt.Errorf("failed to marshal prompt: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Prompts),
		Item:                promptAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to create prompt in DynamoDB: %w", err)
	}

	return nil
}
