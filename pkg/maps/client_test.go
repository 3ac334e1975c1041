package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfanturkoz/google-maps-scraper/internal/resilience"
)

// newTestClient builds a client with retries enabled but near-zero backoff so
// retry paths stay fast under test.
func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()

	c := NewClient("test-key", WithBaseURL(baseURL)).(*httpClient)
	c.retry = resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
	return c
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Kadıköy, İstanbul, Turkey", r.URL.Query().Get("address"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{"geometry": {"location": {"lat": 40.9903, "lng": 29.0252}}, "formatted_address": "Kadıköy/İstanbul, Türkiye"}],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	loc, err := client.Geocode(context.Background(), "Kadıköy, İstanbul, Turkey")

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, 40.9903, loc.Lat, 0.0001)
	assert.InDelta(t, 29.0252, loc.Lng, 0.0001)
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [], "status": "ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	loc, err := client.Geocode(context.Background(), "Atlantis, Nowhere")

	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [], "status": "REQUEST_DENIED"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	loc, err := client.Geocode(context.Background(), "Ankara")

	require.Error(t, err)
	assert.Nil(t, loc)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGeocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithMaxAttempts(1))
	_, err := client.Geocode(context.Background(), "Ankara")

	require.Error(t, err)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{"geometry": {"location": {"lat": 39.92, "lng": 32.85}}}],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	loc, err := client.Geocode(context.Background(), "Ankara")

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 2, calls)
}

func TestClient_NoRetryOnBadRequest(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Geocode(context.Background(), "Ankara")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGeocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Geocode(context.Background(), "Ankara")

	require.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geocodeResponse{Status: "OK"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Geocode(ctx, "Ankara")

	require.Error(t, err)
}
