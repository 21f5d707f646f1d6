package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agrimandi/dealflow/pkg/models"
)

// HTTPGateway talks to a remote payment processor over its JSON API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// Make sure we conform to the interface.
var _ PaymentGateway = (*HTTPGateway)(nil)

// NewHTTPGateway returns a gateway client pointed at the processor's base URL.
// Callers bound individual calls with a context deadline.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

func (g *HTTPGateway) ProcessPayment(ctx context.Context, req PaymentRequest) (*models.PaymentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var result models.PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode payment result: %w", err)
	}
	return &result, nil
}
