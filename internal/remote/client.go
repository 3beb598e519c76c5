package remote

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

	"github.com/meur/moviedeck/internal/collection"
	"github.com/meur/moviedeck/internal/models"
)

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx response from the movies API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("movies api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("movies api returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the movies HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ collection.Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a client rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("movies api base url required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse movies api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("movies api url must be http or https, got %q", baseURL)
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchAll lists every movie. The API may answer with a bare array or with
// an object carrying a "movies" array; anything else is a malformed response.
func (c *Client) FetchAll(ctx context.Context) ([]models.Movie, error) {
	body, err := c.do(ctx, http.MethodGet, "/movies", nil)
	if err != nil {
		return nil, err
	}
	return decodeMovieList(body)
}

// Create submits a draft and returns the stored movie.
func (c *Client) Create(ctx context.Context, draft models.MovieCreate) (models.Movie, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return models.Movie{}, fmt.Errorf("encode movie: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/movies", payload)
	if err != nil {
		return models.Movie{}, err
	}
	var movie models.Movie
	if err := json.Unmarshal(body, &movie); err != nil {
		return models.Movie{}, fmt.Errorf("%w: decode created movie: %v", collection.ErrMalformedResponse, err)
	}
	return movie, nil
}

// Delete removes a movie by id. The request is always sent; the API decides
// whether the id exists.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/movies/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s (latency=%v): %w", method, path, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return body, nil
}

// errorMessage pulls the "error" field out of an API error body, falling
// back to the trimmed body text.
func errorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func decodeMovieList(body []byte) ([]models.Movie, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", collection.ErrMalformedResponse)
	}

	switch trimmed[0] {
	case '[':
		var movies []models.Movie
		if err := json.Unmarshal(trimmed, &movies); err != nil {
			return nil, fmt.Errorf("%w: decode movie array: %v", collection.ErrMalformedResponse, err)
		}
		return movies, nil
	case '{':
		var list struct {
			Movies json.RawMessage `json:"movies"`
		}
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: decode movie list: %v", collection.ErrMalformedResponse, err)
		}
		if len(list.Movies) == 0 || string(list.Movies) == "null" {
			return nil, fmt.Errorf("%w: object has no movies field", collection.ErrMalformedResponse)
		}
		var movies []models.Movie
		if err := json.Unmarshal(list.Movies, &movies); err != nil {
			return nil, fmt.Errorf("%w: decode movies field: %v", collection.ErrMalformedResponse, err)
		}
		return movies, nil
	default:
		return nil, fmt.Errorf("%w: expected array or object", collection.ErrMalformedResponse)
	}
}
