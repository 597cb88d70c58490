// Package client provides the HTTP API client and the view synchronization
// controller used by the bookctl command.
package client

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

	"bookshelf/internal/model"
)

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 10 * time.Second

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// NotFound reports whether the error is a 404 response.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// Client is a thin HTTP client for the books API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client for the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListBooks fetches the full book list.
func (c *Client) ListBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := c.do(ctx, http.MethodGet, "/api/v1/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches a single book by ID.
func (c *Client) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	var book model.Book
	path := fmt.Sprintf("/api/v1/books/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook sends a full-record update and returns the updated book.
func (c *Client) UpdateBook(ctx context.Context, id int64, input model.BookInput) (*model.Book, error) {
	var book model.Book
	path := fmt.Sprintf("/api/v1/books/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook deletes a book by ID.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/books/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do executes a single request. A non-2xx response is decoded into an
// APIError; the response body error message is preserved when present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}

	return nil
}

// decodeAPIError extracts the server's error message from the response body.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body model.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
