// Package factory calls the external pizza factory that fulfils orders.
package factory

import (
	"bytes"         // Request body
	"context"       // Request cancellation
	"encoding/json" // Wire format
	"fmt"           // Error wrapping
	"io"            // Bounded response reads
	"net/http"      // Factory transport
	"strings"       // URL and field trimming
	"time"          // Timeouts and latency

	"jwt_pizza_service/internal/domain"  // Domain models and errors
	"jwt_pizza_service/internal/metrics" // Factory latency histogram
)

// Diner identifies who placed the order
type Diner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Request is the body posted to the factory
type Request struct {
	Diner Diner        `json:"diner"`
	Order domain.Order `json:"order"`
}

// Receipt is the factory's answer for a fulfilled order
type Receipt struct {
	ReportURL string `json:"reportUrl"`
	JWT       string `json:"jwt"`
}

// Error reports a failed fulfillment. ReportURL is set when the factory sent
// one along with the failure.
type Error struct {
	StatusCode int
	ReportURL  string
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", domain.ErrUpstreamFailure, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", domain.ErrUpstreamFailure, e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool { return target == domain.ErrUpstreamFailure }

// Client is a thin HTTP caller for the factory
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client; a zero timeout leaves the request context as
// the only bound
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fulfill sends one order to the factory. It makes a single attempt; every
// failure is returned as *Error.
func (c *Client) Fulfill(ctx context.Context, req Request) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode factory request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.FactoryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "read factory response: " + err.Error()}
	}
	var receipt Receipt
	decodeErr := json.Unmarshal(raw, &receipt)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var failure struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &failure) == nil && failure.Message != "" {
			msg = failure.Message
		}
		return nil, &Error{StatusCode: resp.StatusCode, ReportURL: receipt.ReportURL, Message: msg}
	}
	if decodeErr != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: "decode factory response: " + decodeErr.Error()}
	}
	if strings.TrimSpace(receipt.JWT) == "" {
		return nil, &Error{StatusCode: resp.StatusCode, ReportURL: receipt.ReportURL, Message: "factory response missing jwt"}
	}
	return &receipt, nil
}
