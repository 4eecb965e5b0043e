// Package nexus is a minimal client for the Sonatype Nexus 3 REST API,
// covering the endpoints the pipeline needs: status, repository
// listing, paginated asset/component search, and asset download.
package nexus

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMalformedResponse marks a page that decoded into garbage. Callers
// treat it as the end of pagination, keeping whatever accumulated.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError reports a non-success HTTP status from the source.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Config describes how to reach the source server.
type Config struct {
	// Endpoint is the server base URL, without the API prefix.
	Endpoint string
	Username string
	Password string
	// Timeout bounds every single request.
	Timeout time.Duration
	// Insecure skips TLS certificate verification.
	Insecure bool
}

// Client talks to one source server. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	base       string
	username   string
	password   string
}

// New constructs a client for the given source.
func New(cfg Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		base:     strings.TrimSuffix(cfg.Endpoint, "/"),
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string { return c.base }

// Status probes the health endpoint and returns the HTTP status code.
// A non-nil error means the server could not be reached at all.
func (c *Client) Status(ctx context.Context) (int, error) {
	req, err := c.newRequest(ctx, "/service/rest/v1/status", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Repositories retrieves all repositories visible to the credentials.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	var repositories []Repository
	if err := c.getJSON(ctx, "/service/rest/v1/repositories", nil, &repositories); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repositories, nil
}

// SearchAssets fetches one page of the flat asset search for the given
// repository. Pass the continuation token from the previous page, or
// empty for the first page.
func (c *Client) SearchAssets(ctx context.Context, repository, token string) (*AssetPage, error) {
	params := url.Values{}
	params.Set("repository", repository)
	if token != "" {
		params.Set("continuationToken", token)
	}

	var page AssetPage
	if err := c.getJSON(ctx, "/service/rest/v1/search/assets", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Components fetches one page of the component listing for the given
// repository.
func (c *Client) Components(ctx context.Context, repository, token string) (*ComponentPage, error) {
	params := url.Values{}
	params.Set("repository", repository)
	if token != "" {
		params.Set("continuationToken", token)
	}

	var page ComponentPage
	if err := c.getJSON(ctx, "/service/rest/v1/components", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchComponents fetches one page of the coordinate-filtered
// component search.
func (c *Client) SearchComponents(ctx context.Context, repository string, filter SearchFilter, token string) (*ComponentPage, error) {
	params := url.Values{}
	params.Set("repository", repository)
	if filter.Group != "" {
		params.Set("group", filter.Group)
	}
	if filter.Name != "" {
		params.Set("name", filter.Name)
	}
	if filter.Version != "" {
		params.Set("version", filter.Version)
	}
	if token != "" {
		params.Set("continuationToken", token)
	}

	var page ComponentPage
	if err := c.getJSON(ctx, "/service/rest/v1/search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Fetch streams the content behind an absolute download locator. The
// returned status is the HTTP status code; the body is non-nil only
// for 2xx responses and must be closed by the caller.
func (c *Client) Fetch(ctx context.Context, locator string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode}
	}

	return resp.Body, resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
