package maps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// NearbySearch searches for places around a coordinate within a radius, by
// canonical place type or raw keyword. ZERO_RESULTS yields an empty response,
// not an error.
func (c *httpClient) NearbySearch(ctx context.Context, req NearbySearchRequest) (*SearchResponse, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", req.Location.Lat, req.Location.Lng)},
		"radius":   {strconv.Itoa(req.RadiusMeters)},
	}
	if req.PlaceType != "" {
		params.Set("type", req.PlaceType)
	}
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	}

	var resp SearchResponse
	if err := c.get(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK && resp.Status != statusZeroResults {
		return nil, eris.Errorf("maps: nearby search returned status %s", resp.Status)
	}

	return &resp, nil
}

// TextSearch runs a free-text Places query.
func (c *httpClient) TextSearch(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{
		"query": {query},
	}

	var resp SearchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK && resp.Status != statusZeroResults {
		return nil, eris.Errorf("maps: text search returned status %s", resp.Status)
	}

	return &resp, nil
}

// placeDetailsResponse is the JSON envelope of a Place Details response.
type placeDetailsResponse struct {
	Result PlaceDetails `json:"result"`
	Status string       `json:"status"`
}

// PlaceDetails fetches the requested fields for one place.
func (c *httpClient) PlaceDetails(ctx context.Context, placeID string, fields []string) (*PlaceDetails, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {strings.Join(fields, ",")},
	}

	var resp placeDetailsResponse
	if err := c.get(ctx, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK {
		return nil, eris.Errorf("maps: place details returned status %s", resp.Status)
	}

	return &resp.Result, nil
}
