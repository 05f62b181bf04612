package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/logger"
)

// HTTPClient performs outbound requests against RPC providers
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// PostJSON posts a JSON body and returns the response body.
	// Throttling, gateway errors and network failures are retried with backoff.
	PostJSON(ctx context.Context, url string, body []byte) ([]byte, error)
}

// RetryPolicy controls the exponential backoff applied to retryable failures
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy keeps a reconcile request inside a typical client timeout
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 250 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	MaxElapsedTime:  10 * time.Second,
}

type retryingHTTPClient struct {
	client *http.Client
	retry  RetryPolicy
}

// NewHTTPClient creates an HTTP client with the given per-attempt timeout
func NewHTTPClient(timeout time.Duration, retry RetryPolicy) HTTPClient {
	return &retryingHTTPClient{
		client: &http.Client{Timeout: timeout},
		retry:  retry,
	}
}

// retryableStatus reports whether a provider status is worth another attempt
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *retryingHTTPClient) PostJSON(ctx context.Context, url string, body []byte) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		// A request body can only be read once, so each attempt builds its own request
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
			}
		}()

		if retryableStatus(resp.StatusCode) {
			logger.Warn("provider throttled or unavailable, retrying with backoff",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
			)
			return fmt.Errorf("retryable status code %d", resp.StatusCode)
		}

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(b)))
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = c.retry.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}

	return respBody, nil
}
