package deals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/models"
)

func paidDeal() *models.Deal {
	deal := agreedDeal()
	deal.Status = models.StatusPaid
	return deal
}

func TestTrackDelivery(t *testing.T) {
	t.Run("Wrong Status", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(agreedDeal(), nil)

		_, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.EqualError(t, err, "Cannot track delivery for deal with status: agreed")
		f.tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("Tracker Result Is Cached", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)
		f.tracker.On("Track", mock.Anything, "deal1").Once().Return(&models.DeliveryStatus{
			DealId:          "deal1",
			Status:          models.DeliveryInTransit,
			CurrentLocation: "Dewas bypass",
		}, nil)

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")
		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryInTransit, status.Status)

		// Fresh cache short-circuits the second call.
		status, err = f.svc.TrackDelivery(context.Background(), "deal1")
		assert.NoError(t, err)
		assert.Equal(t, "Dewas bypass", status.CurrentLocation)
		f.tracker.AssertNumberOfCalls(t, "Track", 1)
	})

	t.Run("Tracker Failure Synthesizes From The Deal", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)
		f.tracker.On("Track", mock.Anything, "deal1").Return(nil, errors.New("carrier API down"))

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryInTransit, status.Status)
		assert.NotNil(t, status.EstimatedDelivery)
	})

	t.Run("Past Expected Date Reports Delayed", func(t *testing.T) {
		f := newFixture()
		deal := paidDeal()
		deal.Delivery.ExpectedDate = time.Now().Add(-24 * time.Hour)
		f.store.On("GetDeal", mock.Anything, "deal1").Return(deal, nil)
		f.tracker.On("Track", mock.Anything, "deal1").Return(nil, errors.New("carrier API down"))

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryDelayed, status.Status)
	})

	t.Run("Delivered Deal Reports Delivered", func(t *testing.T) {
		f := newFixture()
		deal := paidDeal()
		deal.Status = models.StatusDelivered
		f.store.On("GetDeal", mock.Anything, "deal1").Return(deal, nil)
		f.tracker.On("Track", mock.Anything, "deal1").Return(nil, errors.New("carrier API down"))

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryDelivered, status.Status)
	})

	t.Run("Offline Serves Cache Without Tracker", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)

		_, err := f.svc.GetDeal(context.Background(), "deal1")
		assert.NoError(t, err)

		stale := &models.DeliveryStatus{DealId: "deal1", Status: models.DeliveryInTransit, CurrentLocation: "last known"}
		assert.NoError(t, f.cache.Put(context.Background(), cache.DeliveryKey("deal1"), stale, deliveryCacheTTL))
		f.cache.SetOnline(false)

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, "last known", status.CurrentLocation)
		f.tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("Stale Cache Refreshes From The Tracker", func(t *testing.T) {
		f := newBackdatedFixture(3 * time.Hour)
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)
		f.tracker.On("Track", mock.Anything, "deal1").Return(&models.DeliveryStatus{
			DealId: "deal1",
			Status: models.DeliveryInTransit,
		}, nil)

		_, err := f.svc.TrackDelivery(context.Background(), "deal1")
		assert.NoError(t, err)

		// The cached status is past the freshness window, so the second
		// online call goes back to the tracker.
		_, err = f.svc.TrackDelivery(context.Background(), "deal1")
		assert.NoError(t, err)
		f.tracker.AssertNumberOfCalls(t, "Track", 2)
	})

	t.Run("Stale Cache Served Offline", func(t *testing.T) {
		f := newBackdatedFixture(3 * time.Hour)
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)
		f.tracker.On("Track", mock.Anything, "deal1").Once().Return(&models.DeliveryStatus{
			DealId:          "deal1",
			Status:          models.DeliveryInTransit,
			CurrentLocation: "last known",
		}, nil)

		_, err := f.svc.TrackDelivery(context.Background(), "deal1")
		assert.NoError(t, err)

		f.cache.SetOnline(false)
		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, "last known", status.CurrentLocation)
		f.tracker.AssertNumberOfCalls(t, "Track", 1)
	})

	t.Run("Offline Without Cache Synthesizes", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetDeal", mock.Anything, "deal1").Return(paidDeal(), nil)

		_, err := f.svc.GetDeal(context.Background(), "deal1")
		assert.NoError(t, err)
		f.cache.SetOnline(false)

		status, err := f.svc.TrackDelivery(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryInTransit, status.Status)
		f.tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})
}
