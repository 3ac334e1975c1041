// Package maps provides a client for the Google Maps Platform web services
// used by the scraper: Geocoding, Places Nearby Search, Places Text Search and
// Place Details.
package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/irfanturkoz/google-maps-scraper/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// API status codes shared by all Maps web services.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Client performs Google Maps API operations.
type Client interface {
	// Geocode resolves free-text location to a coordinate. A nil result with
	// a nil error means the location did not match anything.
	Geocode(ctx context.Context, address string) (*LatLng, error)

	// NearbySearch searches for places around a coordinate, by canonical
	// place type or by raw keyword.
	NearbySearch(ctx context.Context, req NearbySearchRequest) (*SearchResponse, error)

	// TextSearch runs a free-text Places query.
	TextSearch(ctx context.Context, query string) (*SearchResponse, error)

	// PlaceDetails fetches the requested fields for one place.
	PlaceDetails(ctx context.Context, placeID string, fields []string) (*PlaceDetails, error)
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NearbySearchRequest holds the parameters for a Nearby Search call.
// Exactly one of PlaceType or Keyword should be set; PageToken continues a
// previous search.
type NearbySearchRequest struct {
	Location     LatLng
	RadiusMeters int
	PlaceType    string
	Keyword      string
	PageToken    string
}

// SearchResponse is the common shape of Nearby Search and Text Search results.
type SearchResponse struct {
	Results       []PlaceSummary `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
}

// PlaceSummary is the per-place payload of a search response. Only the place
// identifier is load-bearing; everything else comes from Place Details.
type PlaceSummary struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
}

// PlaceDetails holds the detail fields requested for a place.
type PlaceDetails struct {
	Name                 string `json:"name"`
	FormattedAddress     string `json:"formatted_address"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	BusinessStatus       string `json:"business_status"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxAttempts sets the total attempts per request, including the first
// try. 1 disables retries.
func WithMaxAttempts(n int) Option {
	return func(c *httpClient) {
		c.retry.MaxAttempts = n
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Google Maps API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs a rate-limited GET against path with the API key appended and
// decodes the JSON body into out. Transport failures and retryable HTTP
// statuses are retried with backoff.
func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "maps: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return eris.Wrap(err, "maps: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "maps: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "maps: read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("maps: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(err, resp.StatusCode)
			}
			return err
		}

		if err := json.Unmarshal(body, out); err != nil {
			return eris.Wrap(err, "maps: unmarshal response")
		}

		return nil
	})
}
