// Package stream is a minimal client for the Stream user-management API.
package stream

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

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Stream video/chat API root.
const DefaultBaseURL = "https://video.stream-io-api.com/api/v2"

// Config holds the service credential and retry policy.
type Config struct {
	BaseURL         string
	APIKey          string
	ServiceToken    string
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	RequestTimeout  time.Duration
}

// User is Stream's user object.
type User struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Image  string         `json:"image,omitempty"`
	Role   string         `json:"role"`
	Custom map[string]any `json:"custom"`
}

type upsertUsersRequest struct {
	Users map[string]User `json:"users"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stream responded with status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether another attempt may succeed.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to the Stream REST API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Client. Zero-valued retry settings get defaults.
func NewClient(config Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.MaxAttempts == 0 {
		config.MaxAttempts = 3
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 200 * time.Millisecond
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 2 * time.Second
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// UpsertUsers creates or updates users keyed by id. Transport errors, 429 and
// 5xx responses are retried with exponential backoff; other statuses fail
// immediately.
func (c *Client) UpsertUsers(ctx context.Context, users ...User) error {
	payload := upsertUsersRequest{Users: make(map[string]User, len(users))}
	for _, u := range users {
		payload.Users[u.ID] = u
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.Multiplier = 2

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.post(ctx, "/users", body)
		if err == nil {
			return struct{}{}, nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return struct{}{}, backoff.Permanent(err)
		}

		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Stream user upsert failed, retrying")
		return struct{}{}, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(c.config.MaxAttempts))

	return err
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	endpoint := c.config.BaseURL + path + "?api_key=" + url.QueryEscape(c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("stream-auth-type", "jwt")
	req.Header.Set("Authorization", c.config.ServiceToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Msg("Stream request succeeded")
	return nil
}
