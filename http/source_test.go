package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AustinOrphan/docview"
	docviewhttp "github.com/AustinOrphan/docview/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlDoc(url string) *docview.Document {
	return &docview.Document{ID: "doc", SourceType: docview.SourceURL, URL: url}
}

func TestSource_FetchRaw(t *testing.T) {
	t.Parallel()

	t.Run("returns markdown body and ETag", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("ETag", `"abc123"`)
			_, _ = w.Write([]byte("# Getting Started\n\nWelcome."))
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		res, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.NoError(t, err)
		assert.Equal(t, "# Getting Started\n\nWelcome.", res.Content)
		assert.Equal(t, `"abc123"`, res.ETag)
	})

	t.Run("forwards configured headers", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte("# Private"))
		}))
		defer server.Close()

		src := docviewhttp.NewSource(docviewhttp.WithHeaders(map[string]string{
			"Authorization": "Bearer token123",
		}))

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.NoError(t, err)
		assert.Equal(t, "Bearer token123", gotAuth)
	})

	t.Run("resolves relative locators against the base URL", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/docs/guide.md" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("# Guide"))
		}))
		defer server.Close()

		src := docviewhttp.NewSource(docviewhttp.WithBaseURL(server.URL + "/docs/"))

		res, err := src.FetchRaw(context.Background(), urlDoc("guide.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Guide", res.Content)
	})

	t.Run("maps 404 to ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.Error(t, err)
		assert.Equal(t, docview.ENOTFOUND, docview.ErrorCode(err))
	})

	t.Run("maps 403 to EFORBIDDEN", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.Error(t, err)
		assert.Equal(t, docview.EFORBIDDEN, docview.ErrorCode(err))
	})

	t.Run("maps 429 to ERATELIMIT with Retry-After hint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.Error(t, err)
		assert.Equal(t, docview.ERATELIMIT, docview.ErrorCode(err))
		assert.Equal(t, 30*time.Second, docview.RetryAfterHint(err))
	})

	t.Run("maps other failures to EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.Error(t, err)
		assert.Equal(t, docview.EUNAVAILABLE, docview.ErrorCode(err))
	})

	t.Run("timeout is EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		src := docviewhttp.NewSource(docviewhttp.WithTimeout(10 * time.Millisecond))

		_, err := src.FetchRaw(context.Background(), urlDoc(server.URL))
		require.Error(t, err)
		assert.Equal(t, docview.EUNAVAILABLE, docview.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		src := docviewhttp.NewSource()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.FetchRaw(ctx, urlDoc(server.URL))
		require.Error(t, err)
	})
}
