package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// Client provides access to the GitHub REST API for one repository.
type Client struct {
	token   string
	apiURL  string
	owner   string
	repo    string
	httpCli *http.Client

	maxRetries  int
	backoffBase time.Duration
}

// NewClient creates a client for owner/repo. Requires GITHUB_TOKEN; honors
// GITHUB_API_URL for GitHub Enterprise.
func NewClient(owner, repo string, maxRetries int) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("repository owner and name are required")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		token:       token,
		apiURL:      apiURL,
		owner:       owner,
		repo:        repo,
		httpCli:     &http.Client{Timeout: 60 * time.Second},
		maxRetries:  maxRetries,
		backoffBase: time.Second,
	}, nil
}

// RequestError is a non-2xx API response. Retryable reports whether the
// failure class is worth another attempt.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Body)
}

// Retryable returns true for rate limiting and 5xx-class failures.
// Validation-class 4xx responses must never be retried.
func (e *RequestError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// PostComment creates a comment on an issue or pull request. PR conversation
// comments go through the issues endpoint, so one call serves both targets.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, c.owner, c.repo, number)
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("encoding comment: %w", err)
	}
	return c.withRetry(ctx, func() error {
		return c.do(ctx, http.MethodPost, url, payload, nil)
	})
}

// Comment is one issue/PR comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ListComments fetches the comments of an issue or pull request, oldest
// first, following pagination.
func (c *Client) ListComments(ctx context.Context, number int) ([]Comment, error) {
	var all []Comment
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments?per_page=100&page=%d",
			c.apiURL, c.owner, c.repo, number, page)
		var batch []Comment
		err := c.withRetry(ctx, func() error {
			return c.do(ctx, http.MethodGet, url, nil, &batch)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < 100 {
			return all, nil
		}
	}
}

// do performs one request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, url string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
