// Package collector is the orchestrator's HTTP client for the entry collector.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"twitch-giveaway-backend/internal/common/logger"
)

var (
	// ErrUnavailable means the collector could not be reached or the breaker is open.
	ErrUnavailable = errors.New("collector unavailable")
	// ErrNotFound is the collector's answer to ending an unknown giveaway.
	ErrNotFound = errors.New("giveaway not found")
)

// APIError is an error answer from the collector.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("collector: status %d: %s", e.Status, e.Message)
}

// CreateRequest is the body of the collector's POST /create.
type CreateRequest struct {
	Channel       string `json:"channel"`
	Command       string `json:"command"`
	Duration      int    `json:"duration"`
	WebhookURL    string `json:"webhook_url"`
	BroadcasterID string `json:"broadcaster_id"`
	Prize         string `json:"prize"`
	IsLooping     bool   `json:"is_looping,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, httpClient *http.Client, failures uint32, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if failures == 0 {
		failures = 5
	}

	log := logger.Component("collector_client")
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "collector",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Only transport failures and 5xx trip the breaker.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: breaker,
	}
}

// Create opens a giveaway and returns its id.
func (c *Client) Create(ctx context.Context, req CreateRequest) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/create", req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "collector returned no giveaway id"}
	}
	return out.ID, nil
}

// End concludes giveaway id early.
func (c *Client) End(ctx context.Context, id string) error {
	err := c.call(ctx, http.MethodPost, "/end/"+url.PathEscape(id), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, method, path, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Status: http.StatusBadGateway, Message: "invalid collector response"}
	}
	return nil
}
