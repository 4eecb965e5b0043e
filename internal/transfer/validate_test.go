package transfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotools/artsync/internal/clock"
)

func newValidator(endpoint string, clk clock.Clock) *Validator {
	return &Validator{
		Prober: NewProber(ProbeConfig{Endpoint: endpoint, Repository: "libs", Timeout: 5 * time.Second}),
		Clock:  clk,
		Logger: zerolog.Nop(),
	}
}

func TestValidatorClassifiesPresence(t *testing.T) {
	codes := map[string]int{
		"/libs/ok.jar":      200,
		"/libs/cached.jar":  304,
		"/libs/missing.jar": 404,
		"/libs/broken.jar":  500,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(codes[r.URL.Path])
	}))
	defer server.Close()

	report := newValidator(server.URL, clock.Real()).
		Run(context.Background(), []string{"ok.jar", "cached.jar", "missing.jar", "broken.jar"})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Present, "2xx and 304 both count as present")
	assert.Equal(t, []string{"missing.jar"}, report.Missing)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "broken.jar", report.Errors[0].Path)
	assert.False(t, report.Clean())
}

func TestValidatorIsIdempotent(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := newValidator(server.URL, clock.Real())
	paths := []string{"a.jar", "b.jar"}

	first := v.Run(context.Background(), paths)
	second := v.Run(context.Background(), paths)

	assert.True(t, first.Clean())
	assert.Equal(t, first.Present, second.Present)
	assert.Equal(t, int32(4), atomic.LoadInt32(&requests), "one probe per path per pass, no retries")
}

func TestValidatorStopsOnCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fake := clock.Fake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan *ValidationReport, 1)
	go func() {
		done <- newValidator(server.URL, fake).Run(ctx, []string{"a.jar", "b.jar", "c.jar"})
	}()

	fake.BlockUntil(1) // parked in the inter-probe delay after the first path
	cancel()

	report := <-done
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Present)
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Errors)
}
