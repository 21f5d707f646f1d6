package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrimandi/dealflow/pkg/models"
)

func TestHTTPTracker(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/deliveries/deal1", r.URL.Path)
			json.NewEncoder(w).Encode(models.DeliveryStatus{
				DealId: "deal1",
				Status: models.DeliveryInTransit,
			})
		}))
		defer server.Close()

		tracker := NewHTTPTracker(server.URL, nil)
		status, err := tracker.Track(context.Background(), "deal1")

		assert.NoError(t, err)
		assert.Equal(t, models.DeliveryInTransit, status.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no shipment", http.StatusNotFound)
		}))
		defer server.Close()

		tracker := NewHTTPTracker(server.URL, nil)
		status, err := tracker.Track(context.Background(), "deal1")

		assert.Error(t, err)
		assert.Nil(t, status)
		assert.Contains(t, err.Error(), "404")
	})
}
