package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/storage"
)

const (
	buyerIDIndex  = "buyer_id-index"
	sellerIDIndex = "seller_id-index"
	stuckDealsGSI = "status-updated_at-index"
)

// statusTimestampAttr maps a status to the attribute recording when it was
// reached. Statuses without a timestamp attribute return "".
func statusTimestampAttr(status models.DealStatus) string {
	switch status {
	case models.StatusPaid:
		return "payment_completed_at"
	case models.StatusDelivered:
		return "delivered_at"
	case models.StatusCompleted:
		return "completed_at"
	case models.StatusCancelled:
		return "cancelled_at"
	case models.StatusDisputed:
		return "disputed_at"
	}
	return ""
}

// CreateDeal persists a new deal record.
func (s *Store) CreateDeal(ctx context.Context, deal *models.Deal) error {
	dealAV, err := attributevalue.MarshalMap(deal)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Deals),
		Item:                dealAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("deal %s: %w", deal.Id, storage.ErrDealExists)
		}
		return fmt.Errorf("failed to create deal in DynamoDB: %w", err)
	}

	return nil
}

// GetDeal retrieves a deal from DynamoDB by its ID.
func (s *Store) GetDeal(ctx context.Context, dealID string) (*models.Deal, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": dealID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deal ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Deals),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get deal from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrDealNotFound
	}

	var deal models.Deal
	if err := attributevalue.UnmarshalMap(result.Item, &deal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal: %w", err)
	}

	return &deal, nil
}

// UpdateDealStatus writes the new status, refreshed updated_at and the
// status-specific timestamp, conditional on the stored status still being
// expectedCurrent.
func (s *Store) UpdateDealStatus(ctx context.Context, dealID string, expectedCurrent, next models.DealStatus, at time.Time) error {
	atAV, err := attributevalue.Marshal(at)
	if err != nil {
		return fmt.Errorf("failed to marshal status timestamp: %w", err)
	}

	update := "SET #status = :next, updated_at = :now"
	names := map[string]string{"#status": "status"}
	values := map[string]types.AttributeValue{
		":next":    &types.AttributeValueMemberS{Value: string(next)},
		":current": &types.AttributeValueMemberS{Value: string(expectedCurrent)},
		":now":     atAV,
	}
	if attr := statusTimestampAttr(next); attr != "" {
		update += ", #ts = :now"
		names["#ts"] = attr
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.Tables.Deals),
		Key:                       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: dealID}},
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(id) AND #status = :current"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrStaleDeal
		}
		return fmt.Errorf("failed to update deal status: %w", err)
	}

	return nil
}

// UpdateDealConfirmation persists confirmation metadata. The deal status is
// untouched.
func (s *Store) UpdateDealConfirmation(ctx context.Context, dealID string, confirmation *models.DealConfirmation) error {
	confirmationAV, err := attributevalue.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}
	nowAV, err := attributevalue.Marshal(confirmation.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Deals),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: dealID}},
		UpdateExpression:    aws.String("SET confirmation = :confirmation, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":confirmation": confirmationAV,
			":now":          nowAV,
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrDealNotFound
		}
		return fmt.Errorf("failed to update deal confirmation: %w", err)
	}

	return nil
}

// UpdateDealCompletion persists completion metadata.
func (s *Store) UpdateDealCompletion(ctx context.Context, dealID string, completion *models.CompletionData) error {
	completionAV, err := attributevalue.Marshal(completion)
	if err != nil {
		return fmt.Errorf("failed to marshal completion data: %w", err)
	}
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal completion timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Deals),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: dealID}},
		UpdateExpression:    aws.String("SET completion = :completion, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completion": completionAV,
			":now":        nowAV,
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrDealNotFound
		}
		return fmt.Errorf("failed to update deal completion: %w", err)
	}

	return nil
}

// ListDealsByBuyerID retrieves all deals where the user is the buyer.
func (s *Store) ListDealsByBuyerID(ctx context.Context, userID string) ([]models.Deal, error) {
	return s.listDealsByParty(ctx, buyerIDIndex, "buyer_id", userID)
}

// ListDealsBySellerID retrieves all deals where the user is the seller.
func (s *Store) ListDealsBySellerID(ctx context.Context, userID string) ([]models.Deal, error) {
	return s.listDealsByParty(ctx, sellerIDIndex, "seller_id", userID)
}

func (s *Store) listDealsByParty(ctx context.Context, index, attr, userID string) ([]models.Deal, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Deals),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(attr + " = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals by %s: %w", attr, err)
	}

	var deals []models.Deal
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &deals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deals: %w", err)
	}

	return deals, nil
}

// GetStuckDeals retrieves deals that have been in the given status for
// longer than maxAge.
func (s *Store) GetStuckDeals(ctx context.Context, status models.DealStatus, maxAge time.Duration) ([]models.Deal, error) {
	cutoffTime := time.Now().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Deals),
		IndexName:              aws.String(stuckDealsGSI),
		KeyConditionExpression: aws.String("#status = :status AND updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stuck deals: %w", err)
	}

	var deals []models.Deal
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &deals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stuck deals: %w", err)
	}

	return deals, nil
}
