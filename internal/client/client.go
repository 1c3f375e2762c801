// Package client talks to the todo procedure surface and keeps an
// optimistically updated local copy of the caller's todo list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minjae-ok/todo-sync/internal/model"
)

// Typed outcomes decoded from the server's error envelope.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
)

const defaultTimeout = 10 * time.Second

// Client is a typed wrapper over the HTTP procedure surface. Every
// call carries the session credential and a bounded timeout; an
// expired timeout surfaces as a plain error the same way any other
// failed mutation does.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	devUserID  string
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token attached to every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithDevUser sets the X-User-ID header accepted by servers running in
// auth dev mode.
func WithDevUser(userID string) Option {
	return func(c *Client) { c.devUserID = userID }
}

// WithTimeout bounds each procedure call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All lists every todo owned by the authenticated caller.
func (c *Client) All(ctx context.Context) ([]model.Todo, error) {
	var result model.TodoListResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/todos", nil, &result); err != nil {
		return nil, err
	}
	return result.Todos, nil
}

// Add creates a todo with the given label and returns the
// server-confirmed record, including its generated id.
func (c *Client) Add(ctx context.Context, label string) (model.Todo, error) {
	body := map[string]string{"label": label}
	var created model.Todo
	if err := c.do(ctx, http.MethodPost, "/api/v1/todos", body, &created); err != nil {
		return model.Todo{}, err
	}
	return created, nil
}

// Update applies a partial change to the todo with the given id.
func (c *Client) Update(ctx context.Context, id string, changes model.TodoChanges) (model.Todo, error) {
	var updated model.Todo
	if err := c.do(ctx, http.MethodPatch, "/api/v1/todos/"+id, changes, &updated); err != nil {
		return model.Todo{}, err
	}
	return updated, nil
}

// Delete removes the todo with the given id and returns the removed record.
func (c *Client) Delete(ctx context.Context, id string) (model.Todo, error) {
	var deleted model.Todo
	if err := c.do(ctx, http.MethodDelete, "/api/v1/todos/"+id, nil, &deleted); err != nil {
		return model.Todo{}, err
	}
	return deleted, nil
}

// DeleteCompleted removes every completed todo owned by the caller and
// returns how many were removed.
func (c *Client) DeleteCompleted(ctx context.Context) (int64, error) {
	var result model.DeleteCompletedResult
	if err := c.do(ctx, http.MethodDelete, "/api/v1/todos/completed", nil, &result); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.devUserID != "" {
		req.Header.Set("X-User-ID", c.devUserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	// A body that fails to decode still maps to a typed error by status.
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusBadRequest:
		sentinel = ErrInvalidInput
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusServiceUnavailable:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("server error %d: %s", resp.StatusCode, envelope.Error.Message)
	}

	if envelope.Error.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, envelope.Error.Message)
	}
	return sentinel
}
