package scraper

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/irfanturkoz/google-maps-scraper/pkg/maps"
)

// mockMapsClient implements maps.Client for testing. Responses are keyed by
// the query shape that produced them; calls are recorded for assertions.
type mockMapsClient struct {
	geocodeResult *maps.LatLng
	geocodeErr    error
	geocodeCalls  int

	// typeResponses keys nearby searches by place type, keywordResponses by
	// keyword, pageResponses by page token.
	typeResponses    map[string]*maps.SearchResponse
	keywordResponses map[string]*maps.SearchResponse
	pageResponses    map[string]*maps.SearchResponse
	nearbyErr        error
	nearbyCalls      []maps.NearbySearchRequest

	textResponses map[string]*maps.SearchResponse
	textErr       error
	textCalls     []string

	details     map[string]*maps.PlaceDetails
	detailCalls []string
}

func (m *mockMapsClient) Geocode(_ context.Context, _ string) (*maps.LatLng, error) {
	m.geocodeCalls++
	return m.geocodeResult, m.geocodeErr
}

func (m *mockMapsClient) NearbySearch(_ context.Context, req maps.NearbySearchRequest) (*maps.SearchResponse, error) {
	m.nearbyCalls = append(m.nearbyCalls, req)
	if m.nearbyErr != nil {
		return nil, m.nearbyErr
	}
	if req.PageToken != "" {
		if resp, ok := m.pageResponses[req.PageToken]; ok {
			return resp, nil
		}
		return &maps.SearchResponse{Status: "OK"}, nil
	}
	if req.PlaceType != "" {
		if resp, ok := m.typeResponses[req.PlaceType]; ok {
			return resp, nil
		}
	}
	if req.Keyword != "" {
		if resp, ok := m.keywordResponses[req.Keyword]; ok {
			return resp, nil
		}
	}
	return &maps.SearchResponse{Status: "OK"}, nil
}

func (m *mockMapsClient) TextSearch(_ context.Context, query string) (*maps.SearchResponse, error) {
	m.textCalls = append(m.textCalls, query)
	if m.textErr != nil {
		return nil, m.textErr
	}
	if resp, ok := m.textResponses[query]; ok {
		return resp, nil
	}
	return &maps.SearchResponse{Status: "OK"}, nil
}

func (m *mockMapsClient) PlaceDetails(_ context.Context, placeID string, _ []string) (*maps.PlaceDetails, error) {
	m.detailCalls = append(m.detailCalls, placeID)
	if d, ok := m.details[placeID]; ok {
		return d, nil
	}
	return nil, eris.Errorf("no details for %s", placeID)
}

func summaries(ids ...string) []maps.PlaceSummary {
	out := make([]maps.PlaceSummary, len(ids))
	for i, id := range ids {
		out[i] = maps.PlaceSummary{PlaceID: id}
	}
	return out
}
