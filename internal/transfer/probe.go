package transfer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ProbeConfig describes the target repository probes run against.
type ProbeConfig struct {
	// Endpoint is the target base URL; paths resolve to
	// {endpoint}/{repository}/{path}.
	Endpoint   string
	Repository string
	Username   string
	Password   string
	Timeout    time.Duration
	Insecure   bool
}

// Prober issues HEAD requests against target artifact paths. A probe
// against a pull-through target makes it populate its cache from the
// upstream, which is all the cache-warm strategy needs.
type Prober struct {
	client     *http.Client
	base       string
	repository string
	username   string
	password   string
}

func NewProber(cfg ProbeConfig) *Prober {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Prober{
		client:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		base:       strings.TrimSuffix(cfg.Endpoint, "/"),
		repository: cfg.Repository,
		username:   cfg.Username,
		password:   cfg.Password,
	}
}

// URL resolves a repository-relative path to the probe target.
func (p *Prober) URL(path string) string {
	return fmt.Sprintf("%s/%s/%s", p.base, p.repository, strings.TrimPrefix(path, "/"))
}

// Probe issues one HEAD request and returns the response status code.
// The error is non-nil only for transport-level failures; any HTTP
// response, success or not, comes back as a code.
func (p *Prober) Probe(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL(path), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if p.username != "" {
		req.SetBasicAuth(p.username, p.password)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Classify maps a probe result onto an outcome status with a short
// human-readable detail.
func Classify(code int, err error) (Status, string) {
	if err != nil {
		return classifyTransport(err)
	}
	return classifyCode(code)
}

func classifyCode(code int) (Status, string) {
	switch {
	case code >= 200 && code < 300:
		return StatusSuccess, ""
	case code == http.StatusNotFound:
		return StatusNotFound, fmt.Sprintf("HTTP %d", code)
	case code == http.StatusUnauthorized:
		return StatusUnauthorized, fmt.Sprintf("HTTP %d", code)
	case code == http.StatusForbidden:
		return StatusForbidden, fmt.Sprintf("HTTP %d", code)
	default:
		return StatusOtherError, fmt.Sprintf("HTTP %d", code)
	}
}

func classifyTransport(err error) (Status, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout, "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout, "timed out"
	}
	return StatusOtherError, err.Error()
}
