package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
)

var (
	// ErrDuplicateRating is returned when a user rates the same deal twice.
	ErrDuplicateRating = errors.New("Rating already submitted for this deal")

	// ErrRaterNotParticipant is returned when the rater is not a party to
	// the deal.
	ErrRaterNotParticipant = errors.New("Only deal participants can submit ratings")
)

// RatingInput is a post-completion rating with per-category scores.
type RatingInput struct {
	Overall    int
	Comment    string
	Categories models.CategoryRatings
}

func validateRating(in RatingInput) error {
	if in.Overall < 1 || in.Overall > 5 {
		return errors.New("Overall rating must be between 1 and 5")
	}
	categories := []struct {
		name  string
		score int
	}{
		{"communication", in.Categories.Communication},
		{"reliability", in.Categories.Reliability},
		{"quality", in.Categories.Quality},
		{"timeliness", in.Categories.Timeliness},
	}
	for _, category := range categories {
		if category.score < 1 || category.score > 5 {
			return fmt.Errorf("%s rating must be between 1 and 5", category.name)
		}
	}
	return nil
}

// SubmitRating records the rating a participant gives their counterparty
// for a completed deal. A user rates a deal at most once.
func (m *Manager) SubmitRating(ctx context.Context, dealID string, in RatingInput, raterID string) (*models.Feedback, error) {
	if err := validateRating(in); err != nil {
		return nil, err
	}

	deal, err := m.lifecycle.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	counterparty, ok := deal.Counterparty(raterID)
	if !ok {
		return nil, ErrRaterNotParticipant
	}

	existing, err := m.feedback.GetFeedbackByDealAndRater(ctx, dealID, raterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRating
	}

	feedback := &models.Feedback{
		Id:         uuid.New().String(),
		DealId:     dealID,
		FromUserId: raterID,
		ToUserId:   counterparty,
		Rating:     in.Overall,
		Comment:    in.Comment,
		Categories: in.Categories,
		CreatedAt:  time.Now(),
	}

	if m.online(ctx) {
		if err := m.feedback.CreateFeedback(ctx, feedback); err != nil {
			return nil, err
		}
	} else {
		action, buildErr := newAction(queue.ActionSubmitRating, dealID, raterID, feedback)
		if buildErr != nil {
			return nil, buildErr
		}
		if m.queue != nil {
			if err := m.queue.Enqueue(ctx, action); err != nil {
				m.logger.ErrorContext(ctx, "failed to enqueue rating", "deal_id", dealID, "error", err)
			}
		}
	}

	m.emit(ctx, events.Event{
		Type:   events.TypeRatingSubmitted,
		DealID: dealID,
		Payload: map[string]any{
			"from_user_id": raterID,
			"to_user_id":   counterparty,
			"rating":       in.Overall,
		},
	})
	m.emit(ctx, events.Event{
		Type:    events.TypeTrustScoreUpdate,
		DealID:  dealID,
		Payload: map[string]any{"user_ids": []string{counterparty}},
	})

	return feedback, nil
}
