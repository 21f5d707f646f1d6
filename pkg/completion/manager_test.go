package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/queue"
	"github.com/agrimandi/dealflow/pkg/storage/mocks"
)

// fakeLifecycle serves a single deal and records requested transitions.
type fakeLifecycle struct {
	deal        *models.Deal
	getErr      error
	transitions []models.DealStatus
}

func (f *fakeLifecycle) GetDeal(ctx context.Context, dealID string) (*models.Deal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.deal
	return &copied, nil
}

func (f *fakeLifecycle) UpdateDealStatus(ctx context.Context, dealID string, next models.DealStatus) (*models.Deal, error) {
	if err := models.ValidateTransition(f.deal.Status, next); err != nil {
		return nil, err
	}
	f.transitions = append(f.transitions, next)
	f.deal.Status = next
	copied := *f.deal
	return &copied, nil
}

type managerFixture struct {
	lifecycle   *fakeLifecycle
	deals       *mocks.DealStore
	feedback    *mocks.FeedbackStore
	prompts     *mocks.PromptStore
	resolutions *mocks.ResolutionStore
	cache       *cache.Memory
	queue       *queue.MemoryQueue
	events      *events.Recorder
	mgr         *Manager
}

func newManagerFixture(deal *models.Deal) *managerFixture {
	f := &managerFixture{
		lifecycle:   &fakeLifecycle{deal: deal},
		deals:       new(mocks.DealStore),
		feedback:    new(mocks.FeedbackStore),
		prompts:     new(mocks.PromptStore),
		resolutions: new(mocks.ResolutionStore),
		cache:       cache.NewMemory(),
		queue:       queue.NewMemoryQueue(),
		events:      &events.Recorder{},
	}
	f.mgr = NewManager(Deps{
		Lifecycle:   f.lifecycle,
		Deals:       f.deals,
		Feedback:    f.feedback,
		Prompts:     f.prompts,
		Resolutions: f.resolutions,
		Cache:       f.cache,
		Queue:       f.queue,
		Events:      f.events,
	})
	return f
}

func deliveredDeal() *models.Deal {
	return &models.Deal{
		Id:          "deal1",
		BuyerId:     "buyer1",
		SellerId:    "seller1",
		Commodity:   "soybean",
		Quantity:    20,
		Unit:        "quintal",
		AgreedPrice: 4600,
		Status:      models.StatusDelivered,
	}
}

func allCriteria() models.CompletionData {
	return models.CompletionData{
		DeliveryConfirmed: true,
		QualityAccepted:   true,
		PaymentReceived:   true,
	}
}

func TestCompleteDeal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newManagerFixture(deliveredDeal())
		f.deals.On("UpdateDealCompletion", mock.Anything, "deal1", mock.Anything).Once().Return(nil)
		// Rating and review prompts for both participants, each pointing
		// at the user they are asked to rate.
		counterparties := map[string]string{}
		f.prompts.On("CreatePrompt", mock.Anything, mock.Anything).Times(4).Run(func(args mock.Arguments) {
			prompt := args.Get(1).(*models.Prompt)
			counterparties[prompt.UserId] = prompt.CounterpartyId
		}).Return(nil)

		deal, err := f.mgr.CompleteDeal(context.Background(), "deal1", allCriteria())

		assert.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, deal.Status)
		assert.NotNil(t, deal.Completion)
		assert.Equal(t, []models.DealStatus{models.StatusCompleted}, f.lifecycle.transitions)
		assert.Equal(t, map[string]string{"buyer1": "seller1", "seller1": "buyer1"}, counterparties)
		f.deals.AssertExpectations(t)
		f.prompts.AssertExpectations(t)

		var types []events.Type
		for _, event := range f.events.Events() {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, events.TypeDealCompleted)
		assert.Contains(t, types, events.TypeTrustScoreUpdate)
		assert.Contains(t, types, events.TypeDealStats)
	})

	t.Run("Criteria Not Met", func(t *testing.T) {
		f := newManagerFixture(deliveredDeal())

		data := allCriteria()
		data.QualityAccepted = false
		_, err := f.mgr.CompleteDeal(context.Background(), "deal1", data)

		assert.ErrorIs(t, err, ErrCriteriaNotMet)
		assert.EqualError(t, err, "All completion criteria must be met")
		f.deals.AssertNotCalled(t, "UpdateDealCompletion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong Status", func(t *testing.T) {
		deal := deliveredDeal()
		deal.Status = models.StatusPaid
		f := newManagerFixture(deal)

		_, err := f.mgr.CompleteDeal(context.Background(), "deal1", allCriteria())

		assert.EqualError(t, err, "Cannot complete deal with status: paid")
	})

	t.Run("Callbacks Run And Unsubscribe Prunes", func(t *testing.T) {
		f := newManagerFixture(deliveredDeal())
		f.deals.On("UpdateDealCompletion", mock.Anything, "deal1", mock.Anything).Return(nil)
		f.prompts.On("CreatePrompt", mock.Anything, mock.Anything).Return(nil)

		kept, dropped, other := 0, 0, 0
		f.mgr.OnDealCompletion("deal1", func(deal *models.Deal) { kept++ })
		unsubscribe := f.mgr.OnDealCompletion("deal1", func(deal *models.Deal) { dropped++ })
		f.mgr.OnDealCompletion("deal2", func(deal *models.Deal) { other++ })
		unsubscribe()
		unsubscribe()

		_, err := f.mgr.CompleteDeal(context.Background(), "deal1", allCriteria())

		assert.NoError(t, err)
		assert.Equal(t, 1, kept)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, 0, other)
	})
}

func TestPromptForRatingAndReview(t *testing.T) {
	t.Run("Completed Deal Gets Both Prompts", func(t *testing.T) {
		deal := deliveredDeal()
		deal.Status = models.StatusCompleted
		f := newManagerFixture(deal)

		var kinds []models.PromptKind
		f.prompts.On("CreatePrompt", mock.Anything, mock.Anything).Twice().Run(func(args mock.Arguments) {
			prompt := args.Get(1).(*models.Prompt)
			kinds = append(kinds, prompt.Kind)
			assert.Equal(t, "buyer1", prompt.UserId)
			assert.Equal(t, "seller1", prompt.CounterpartyId)
			assert.WithinDuration(t, time.Now().Add(promptValidity), prompt.ExpiresAt, time.Minute)
		}).Return(nil)

		rating, review, err := f.mgr.PromptForRatingAndReview(context.Background(), "deal1", "buyer1")

		assert.NoError(t, err)
		assert.True(t, rating)
		assert.True(t, review)
		assert.Equal(t, []models.PromptKind{models.PromptRating, models.PromptReview}, kinds)
		f.prompts.AssertExpectations(t)
	})

	t.Run("Not Completed Prompts Nothing", func(t *testing.T) {
		f := newManagerFixture(deliveredDeal())

		rating, review, err := f.mgr.PromptForRatingAndReview(context.Background(), "deal1", "buyer1")

		assert.NoError(t, err)
		assert.False(t, rating)
		assert.False(t, review)
		f.prompts.AssertNotCalled(t, "CreatePrompt", mock.Anything, mock.Anything)
	})

	t.Run("Non Participant Gets No Prompts", func(t *testing.T) {
		deal := deliveredDeal()
		deal.Status = models.StatusCompleted
		f := newManagerFixture(deal)

		rating, review, err := f.mgr.PromptForRatingAndReview(context.Background(), "deal1", "stranger")

		assert.ErrorIs(t, err, ErrPromptedNotParticipant)
		assert.False(t, rating)
		assert.False(t, review)
		f.prompts.AssertNotCalled(t, "CreatePrompt", mock.Anything, mock.Anything)
	})

	t.Run("Offline Queues The Prompts", func(t *testing.T) {
		deal := deliveredDeal()
		deal.Status = models.StatusCompleted
		f := newManagerFixture(deal)
		f.cache.SetOnline(false)

		rating, review, err := f.mgr.PromptForRatingAndReview(context.Background(), "deal1", "buyer1")

		assert.NoError(t, err)
		assert.True(t, rating)
		assert.True(t, review)
		f.prompts.AssertNotCalled(t, "CreatePrompt", mock.Anything, mock.Anything)

		actions := f.queue.Drain()
		assert.Len(t, actions, 2)
		for _, action := range actions {
			assert.Equal(t, queue.ActionCreatePrompt, action.Type)
		}
	})
}

func TestSubmitRating(t *testing.T) {
	goodRating := RatingInput{
		Overall: 4,
		Comment: "clean produce, slight delay",
		Categories: models.CategoryRatings{
			Communication: 5,
			Reliability:   4,
			Quality:       4,
			Timeliness:    3,
		},
	}

	completedDeal := func() *models.Deal {
		deal := deliveredDeal()
		deal.Status = models.StatusCompleted
		return deal
	}

	t.Run("Success", func(t *testing.T) {
		f := newManagerFixture(completedDeal())
		f.feedback.On("GetFeedbackByDealAndRater", mock.Anything, "deal1", "buyer1").Return(nil, nil)
		f.feedback.On("CreateFeedback", mock.Anything, mock.Anything).Once().Return(nil)

		feedback, err := f.mgr.SubmitRating(context.Background(), "deal1", goodRating, "buyer1")

		assert.NoError(t, err)
		assert.Equal(t, "buyer1", feedback.FromUserId)
		assert.Equal(t, "seller1", feedback.ToUserId)
		assert.Equal(t, 4, feedback.Rating)
		f.feedback.AssertExpectations(t)

		var types []events.Type
		for _, event := range f.events.Events() {
			types = append(types, event.Type)
		}
		assert.Contains(t, types, events.TypeRatingSubmitted)
		assert.Contains(t, types, events.TypeTrustScoreUpdate)
	})

	t.Run("Validation Order", func(t *testing.T) {
		cases := []struct {
			name    string
			mutate  func(*RatingInput)
			message string
		}{
			{"Overall Out Of Range", func(in *RatingInput) { in.Overall = 0 }, "Overall rating must be between 1 and 5"},
			{"Overall Checked First", func(in *RatingInput) { in.Overall = 6; in.Categories.Quality = 9 }, "Overall rating must be between 1 and 5"},
			{"Communication", func(in *RatingInput) { in.Categories.Communication = 0 }, "communication rating must be between 1 and 5"},
			{"Reliability", func(in *RatingInput) { in.Categories.Reliability = 6 }, "reliability rating must be between 1 and 5"},
			{"Quality", func(in *RatingInput) { in.Categories.Quality = -1 }, "quality rating must be between 1 and 5"},
			{"Timeliness", func(in *RatingInput) { in.Categories.Timeliness = 0 }, "timeliness rating must be between 1 and 5"},
			{"Communication Before Timeliness", func(in *RatingInput) {
				in.Categories.Communication = 0
				in.Categories.Timeliness = 0
			}, "communication rating must be between 1 and 5"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newManagerFixture(completedDeal())
				in := goodRating
				tc.mutate(&in)

				_, err := f.mgr.SubmitRating(context.Background(), "deal1", in, "buyer1")

				assert.EqualError(t, err, tc.message)
			})
		}
	})

	t.Run("Duplicate Rejected", func(t *testing.T) {
		f := newManagerFixture(completedDeal())
		f.feedback.On("GetFeedbackByDealAndRater", mock.Anything, "deal1", "buyer1").Return(&models.Feedback{Id: "fb1"}, nil)

		_, err := f.mgr.SubmitRating(context.Background(), "deal1", goodRating, "buyer1")

		assert.ErrorIs(t, err, ErrDuplicateRating)
		f.feedback.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything)
	})

	t.Run("Non Participant Rejected", func(t *testing.T) {
		f := newManagerFixture(completedDeal())

		_, err := f.mgr.SubmitRating(context.Background(), "deal1", goodRating, "stranger")

		assert.ErrorIs(t, err, ErrRaterNotParticipant)
	})

	t.Run("Offline Queues The Rating", func(t *testing.T) {
		f := newManagerFixture(completedDeal())
		f.feedback.On("GetFeedbackByDealAndRater", mock.Anything, "deal1", "buyer1").Return(nil, nil)
		f.cache.SetOnline(false)

		feedback, err := f.mgr.SubmitRating(context.Background(), "deal1", goodRating, "buyer1")

		assert.NoError(t, err)
		assert.NotEmpty(t, feedback.Id)
		f.feedback.AssertNotCalled(t, "CreateFeedback", mock.Anything, mock.Anything)

		actions := f.queue.Drain()
		assert.Len(t, actions, 1)
		assert.Equal(t, queue.ActionSubmitRating, actions[0].Type)
	})
}
