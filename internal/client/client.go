package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/userdir/internal/domain"

	"github.com/google/uuid"
)

const (
	usersPath  = "/api/users"
	healthPath = "/user"

	requestIDHeader = "X-Request-Id"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return e.Message
}

// IsNotFound reports whether err carries a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Health struct {
	Op string `json:"op"`
}

type DeleteResult struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout on a copy, leaving a client passed to
// WithHTTPClient untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var res Health
	if err := c.do(ctx, http.MethodGet, healthPath, nil, &res); err != nil {
		return Health{}, fmt.Errorf("health check failed: %w", err)
	}
	return res, nil
}

func (c *Client) List(ctx context.Context) ([]domain.User, error) {
	var res []domain.User
	if err := c.do(ctx, http.MethodGet, usersPath, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return res, nil
}

func (c *Client) Create(ctx context.Context, name string) (domain.User, error) {
	var res domain.User
	if err := c.do(ctx, http.MethodPost, usersPath, map[string]string{"name": name}, &res); err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return res, nil
}

func (c *Client) Update(ctx context.Context, id int64, name string) (domain.User, error) {
	var res domain.User
	if err := c.do(ctx, http.MethodPut, userPath(id), map[string]string{"name": name}, &res); err != nil {
		return domain.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return res, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	var res DeleteResult
	if err := c.do(ctx, http.MethodDelete, userPath(id), nil, &res); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return res, nil
}

func userPath(id int64) string {
	return usersPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
