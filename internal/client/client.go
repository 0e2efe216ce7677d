// Package client talks to the CV builder REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/templates"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout is the request timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// ClientIDHeader carries the anonymous client id on every request.
const ClientIDHeader = "X-Client-ID"

// Client is a thin JSON client for the /api routes.
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientID sets the X-Client-ID header sent with each request.
func WithClientID(id string) Option {
	return func(c *Client) {
		c.clientID = id
	}
}

// New returns a client for the API rooted at baseURL (for example http://localhost:5000/api).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteCV is a stored CV as returned by GET /cvs/{cvId}.
type RemoteCV struct {
	CVID      string      `json:"cvId"`
	UserID    string      `json:"userId"`
	CVData    cv.Document `json:"cvData"`
	Template  string      `json:"template"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Created is the response to a successful create.
type Created struct {
	CVID      string    `json:"cvId"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Updated is the response to a successful update.
type Updated struct {
	CVID      string    `json:"cvId"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is one row of a user's CV list.
type Summary struct {
	CVID      string    `json:"cvId"`
	Template  string    `json:"template"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page is one page of a user's CVs.
type Page struct {
	CVs         []Summary `json:"cvs"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	TotalCVs    int       `json:"totalCVs"`
}

// Create stores doc under userID. An empty template lets the server pick its default.
func (c *Client) Create(ctx context.Context, userID, template string, doc cv.Document) (*Created, error) {
	body := map[string]any{
		"userId": userID,
		"cvData": doc,
	}
	if template != "" {
		body["template"] = template
	}
	var out Created
	if err := c.do(ctx, http.MethodPost, "/cvs", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a stored CV.
func (c *Client) Get(ctx context.Context, cvID string) (*RemoteCV, error) {
	var out RemoteCV
	if err := c.do(ctx, http.MethodGet, "/cvs/"+url.PathEscape(cvID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the stored sections with those of doc. An empty template keeps the stored one.
func (c *Client) Update(ctx context.Context, cvID, template string, doc cv.Document) (*Updated, error) {
	body := map[string]any{"cvData": doc}
	if template != "" {
		body["template"] = template
	}
	var out Updated
	if err := c.do(ctx, http.MethodPut, "/cvs/"+url.PathEscape(cvID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a stored CV.
func (c *Client) Delete(ctx context.Context, cvID string) error {
	return c.do(ctx, http.MethodDelete, "/cvs/"+url.PathEscape(cvID), nil, nil)
}

// ListByUser returns one page of the user's CVs, most recently updated first.
// Non-positive page or limit values leave the choice to the server.
func (c *Client) ListByUser(ctx context.Context, userID string, page, limit int) (*Page, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/users/" + url.PathEscape(userID) + "/cvs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out Page
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Templates lists the template catalog.
func (c *Client) Templates(ctx context.Context) ([]templates.Template, error) {
	var out []templates.Template
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set(ClientIDHeader, c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
