package maps

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
)

// geocodeResponse is the JSON response from the Geocoding API.
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode resolves a free-text location to a coordinate. A location the API
// does not recognize returns (nil, nil), not an error.
func (c *httpClient) Geocode(ctx context.Context, address string) (*LatLng, error) {
	params := url.Values{
		"address": {address},
	}

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status == statusZeroResults || len(resp.Results) == 0 {
		return nil, nil
	}
	if resp.Status != statusOK {
		return nil, eris.Errorf("maps: geocode returned status %s", resp.Status)
	}

	loc := resp.Results[0].Geometry.Location
	return &loc, nil
}
