package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agrimandi/dealflow/pkg/models"
)

// HTTPTracker queries a logistics provider's tracking API.
type HTTPTracker struct {
	baseURL string
	client  *http.Client
}

// Make sure we conform to the interface.
var _ DeliveryTracker = (*HTTPTracker)(nil)

func NewHTTPTracker(baseURL string, client *http.Client) *HTTPTracker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTracker{baseURL: baseURL, client: client}
}

func (t *HTTPTracker) Track(ctx context.Context, dealID string) (*models.DeliveryStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/deliveries/"+dealID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracking request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivery tracker unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("delivery tracker returned status %d", resp.StatusCode)
	}

	var status models.DeliveryStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode delivery status: %w", err)
	}
	return &status, nil
}
