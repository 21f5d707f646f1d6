package storage

import (
	"context"

	"github.com/agrimandi/dealflow/pkg/models"
)

// FeedbackStore defines the interface for persisting post-completion
// ratings.
type FeedbackStore interface {
	// CreateFeedback persists a new feedback entry.
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error

	// GetFeedbackByDealAndRater retrieves the feedback a user already left
	// for a deal, or nil when none exists.
	GetFeedbackByDealAndRater(ctx context.Context, dealID, fromUserID string) (*models.Feedback, error)
}

// PromptStore defines the interface for persisting rating/review prompts.
type PromptStore interface {
	// CreatePrompt persists a rating or review prompt.
	CreatePrompt(ctx context.Context, prompt *models.Prompt) error
}
