package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vinyl-scout/core/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewHTTPClient(Config{
		BaseURL:        srv.URL,
		Token:          "test-token",
		UserAgent:      "vinyl-scout-test",
		TimeoutSeconds: 5,
		MaxRetries:     2,
	}, ratelimit.New(1000, 1000), zap.NewNop())
	client.retryBaseDelay = 10 * time.Millisecond
	return client, srv
}

func TestSearch_DecodesResults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/database/search", r.URL.Path)
		assert.Equal(t, "Discogs token=test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "miles davis kind of blue", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":249504,"title":"Miles Davis - Kind Of Blue","year":"1959","label":["Columbia"],"catno":"CL 1355","genre":["Jazz"],"thumb":"https://img/249504.jpg"}
		]}`))
	}))

	results, err := client.Search(context.Background(), "miles davis kind of blue")
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	assert.Equal(t, int64(249504), results.Results[0].ID)
	assert.Equal(t, "1959", results.Results[0].Year)
	assert.Equal(t, "CL 1355", results.Results[0].CatalogNumber)
}

func TestSearch_EmptyResultsIsSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	results, err := client.Search(context.Background(), "nonexistent record")
	require.NoError(t, err)
	assert.Empty(t, results.Results)
}

func TestDo_RetriesOn429ThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"title":"Test","year":1970}`))
	}))

	release, err := client.GetRelease(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Test", release.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_RateLimitedAfterRetryBudget(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetRelease(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestDo_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.GetRelease(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDo_MissingTokenFailsWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewHTTPClient(Config{BaseURL: srv.URL}, ratelimit.New(1000, 10), zap.NewNop())

	_, err := client.GetRelease(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDo_MalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "definitely not`))
	}))

	_, err := client.GetRelease(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDo_NetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Connection refused from here on.

	client := NewHTTPClient(Config{
		BaseURL:        srv.URL,
		Token:          "test-token",
		TimeoutSeconds: 1,
	}, ratelimit.New(1000, 10), zap.NewNop())

	_, err := client.GetRelease(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
}

func TestGetCollectionStatus_InBoth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/crate/collection/releases/42":
			_, _ = w.Write([]byte(`{"releases":[{"instance_id":7001}]}`))
		case "/users/crate/wants/42":
			_, _ = w.Write([]byte(`{"id":42}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	status, err := client.GetCollectionStatus(context.Background(), "crate", 42)
	require.NoError(t, err)
	assert.True(t, status.IsInCollection)
	assert.True(t, status.IsInWantlist)
	assert.Equal(t, int64(7001), status.InstanceID)
}

func TestGetCollectionStatus_AbsentEverywhere(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	status, err := client.GetCollectionStatus(context.Background(), "crate", 42)
	require.NoError(t, err)
	assert.False(t, status.IsInCollection)
	assert.False(t, status.IsInWantlist)
	assert.Zero(t, status.InstanceID)
}

func TestGetCollectionPage_DecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/crate/collection/folders/0/releases", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))

		_, _ = w.Write([]byte(`{
			"pagination":{"page":2,"pages":3,"per_page":50,"items":130},
			"releases":[
				{"instance_id":9001,"basic_information":{
					"id":249504,"title":"Kind Of Blue","year":1959,"thumb":"https://img/kob.jpg",
					"artists":[{"name":"Miles Davis"}],
					"labels":[{"name":"Columbia","catno":"CL 1355"}]
				}}
			]
		}`))
	}))

	page, err := client.GetCollectionPage(context.Background(), "crate", 2, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Pages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(9001), page.Items[0].InstanceID)
	assert.Equal(t, "Miles Davis", page.Items[0].Artist)
	assert.Equal(t, "CL 1355", page.Items[0].CatalogNumber)
}

func TestAddToCollection_ReturnsInstanceID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/crate/collection/folders/1/releases/42", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"instance_id":7002}`))
	}))

	id, err := client.AddToCollection(context.Background(), "crate", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7002), id)
}

func TestRemoveFromWantlist_UsesDelete(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/crate/wants/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.RemoveFromWantlist(context.Background(), "crate", 42)
	assert.NoError(t, err)
}
