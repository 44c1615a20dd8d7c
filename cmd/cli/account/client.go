package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/crucial707/idle-clicker/internal/models"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// isStale reports whether err is the conflict the server returns when a
// collect or upgrade raced another request for the same account.
func isStale(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// Client calls the game endpoints with a Basic credential.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cred    credential.Credential
	// Backoff is the wait before the first retry; it doubles on each attempt.
	Backoff time.Duration
}

// NewClient returns a Client with a bounded request timeout.
func NewClient(baseURL string, cred credential.Credential) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Cred:    cred,
		Backoff: 100 * time.Millisecond,
	}
}

// Call sends method to path and decodes the account view from a 2xx response.
func (c *Client) Call(ctx context.Context, method, path string) (*models.AccountView, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", credential.EncodeBasic(c.Cred.Username, c.Cred.Password))
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var view models.AccountView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &view, nil
}

// CallWithRetry is Call, repeated up to retries more times while the server
// answers with a stale-write conflict.
func (c *Client) CallWithRetry(ctx context.Context, method, path string, retries int) (*models.AccountView, error) {
	wait := c.Backoff
	for attempt := 0; ; attempt++ {
		view, err := c.Call(ctx, method, path)
		if err == nil || !isStale(err) || attempt >= retries {
			return view, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := string(body)
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
