// Package remote is the transport adapter for the marketplace resource API.
// It performs exactly one HTTP request per call and never retries; retries
// belong to the caller's workflow.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Hiltonrealtorsnm/frontend/internal/config"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// TokenSource supplies the credential attached to outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
}

// New creates a Client from configuration.
func New(cfg *config.Config, tokens TokenSource) *Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)
	return NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, limiter, tokens)
}

// NewClient creates a Client with explicit collaborators. A nil limiter
// disables pacing; a nil token source sends no credential.
func NewClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: limiter,
		tokens:  tokens,
	}
}

// Properties returns the property resource.
func (c *Client) Properties() *Properties {
	return &Properties{Resource: NewResource[models.Property](c, propertyPaths), c: c}
}

// Projects returns the project resource.
func (c *Client) Projects() *Projects {
	return &Projects{Resource: NewResource[models.Project](c, projectPaths), c: c}
}

// Enquiries returns the enquiry resource.
func (c *Client) Enquiries() *Enquiries {
	return &Enquiries{Resource: NewResource[models.Enquiry](c, enquiryPaths), c: c}
}

// Sellers returns the seller resource.
func (c *Client) Sellers() *Sellers {
	return &Sellers{c: c}
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// do sends one request and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	fail := func(status int, err error) error {
		return &TransportError{Method: r.method, Path: r.path, StatusCode: status, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(0, err)
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			// The request still goes out; the server decides whether it needs a credential.
			log.Printf("Could not read credential for %s %s: %v", r.method, r.path, err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(resp.StatusCode, errors.New(serverMessage(body, resp.Status)))
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(http.MethodGet, path, body, out)
}

// sendJSON encodes in as the request body (when non-nil) and decodes the
// answer into out (when non-nil and the server sent a JSON document).
func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	r := request{method: method, path: path, query: query}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		r.body = bytes.NewReader(payload)
		r.contentType = "application/json"
	}
	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	return decodeOptional(method, path, body, out)
}

func decode(method, path string, body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: http.StatusOK, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// decodeOptional tolerates the plain-text acknowledgements some write
// endpoints return instead of the written entity.
func decodeOptional(method, path string, body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if out == nil || len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil
	}
	return decode(method, path, trimmed, out)
}

// serverMessage extracts a human-readable reason from an error body.
func serverMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" || len(text) > 200 {
		return status
	}
	return text
}
