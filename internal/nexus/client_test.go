package nexus

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(url string) *Client {
	return New(Config{
		Endpoint: url,
		Username: "admin",
		Password: "secret",
		Timeout:  5 * time.Second,
	})
}

func TestSearchAssetsSendsRepositoryAndAuth(t *testing.T) {
	var gotQuery, gotUser, gotPass string
	var gotAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUser, gotPass, gotAuth = r.BasicAuth()
		io.WriteString(w, `{"items":[{"path":"com/acme/lib/1.0/lib-1.0.jar","fileSize":42}],"continuationToken":"tok-2"}`)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).SearchAssets(context.Background(), "maven-releases", "")
	assert.NoError(t, err)
	assert.True(t, gotAuth)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "repository=maven-releases", gotQuery)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "com/acme/lib/1.0/lib-1.0.jar", page.Items[0].Path)
	assert.Equal(t, int64(42), page.Items[0].FileSize)
	assert.Equal(t, "tok-2", page.ContinuationToken)
}

func TestSearchAssetsForwardsContinuationToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("continuationToken")
		io.WriteString(w, `{"items":[]}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchAssets(context.Background(), "maven-releases", "tok-7")
	assert.NoError(t, err)
	assert.Equal(t, "tok-7", gotToken)
}

func TestSearchAssetsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchAssets(context.Background(), "maven-releases", "")
	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestSearchAssetsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>gateway timeout</html>`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchAssets(context.Background(), "maven-releases", "")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSearchComponentsFilterParams(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"repository": q.Get("repository"),
			"group":      q.Get("group"),
			"name":       q.Get("name"),
			"version":    q.Get("version"),
		}
		io.WriteString(w, `{"items":[]}`)
	}))
	defer server.Close()

	filter := SearchFilter{Group: "com.acme", Name: "widget-core", Version: "1.2.3"}
	_, err := newTestClient(server.URL).SearchComponents(context.Background(), "maven-releases", filter, "")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"repository": "maven-releases",
		"group":      "com.acme",
		"name":       "widget-core",
		"version":    "1.2.3",
	}, got)
}

func TestComponentsDecodesNestedAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"items": [{
				"group": "com.acme",
				"name": "widget-core",
				"version": "1.2.3",
				"assets": [
					{"path": "com/acme/widget-core/1.2.3/widget-core-1.2.3.jar"},
					{"path": "com/acme/widget-core/1.2.3/widget-core-1.2.3.pom"}
				]
			}],
			"continuationToken": ""
		}`)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).Components(context.Background(), "maven-releases", "")
	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Assets, 2)
	assert.Empty(t, page.ContinuationToken)
}

func TestStatusReturnsCodeWithoutError(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{name: "ok", code: http.StatusOK},
		{name: "unauthorized", code: http.StatusUnauthorized},
		{name: "teapot", code: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			code, err := newTestClient(server.URL).Status(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestStatusTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newTestClient(server.URL).Status(context.Background())
	assert.Error(t, err)
}

func TestFetchStreamsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "jar-bytes")
	}))
	defer server.Close()

	body, status, err := newTestClient(server.URL).Fetch(context.Background(), server.URL+"/repository/maven-releases/a.jar")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	defer body.Close()

	content, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Equal(t, "jar-bytes", string(content))
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	body, status, err := newTestClient(server.URL).Fetch(context.Background(), server.URL+"/missing.jar")
	assert.Nil(t, body)
	assert.Equal(t, http.StatusNotFound, status)

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
}
