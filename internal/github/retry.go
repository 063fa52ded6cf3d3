package github

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff.
// Only retryable failures are retried: rate limits, 5xx responses, and
// transport errors. Any other RequestError surfaces immediately.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt < c.maxRetries {
			backoff := c.backoffBase * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Only transport failures are transient. Request-construction and
	// response-decode failures surface immediately; retrying cannot fix them.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
