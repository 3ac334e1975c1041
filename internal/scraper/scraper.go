// Package scraper implements the multi-strategy business search: it fans a
// request out over several Google Places query shapes, deduplicates hits by
// place identifier, and admits only businesses that pass normalization and
// the location relevance filter.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/irfanturkoz/google-maps-scraper/internal/config"
	"github.com/irfanturkoz/google-maps-scraper/pkg/maps"
)

// BusinessRecord is one admitted business. Immutable once constructed; the
// external place identifier is used only during aggregation and not stored.
type BusinessRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Status  string `json:"status"`
}

// SearchRequest describes one business search.
type SearchRequest struct {
	Location     string  `json:"location"`
	BusinessType string  `json:"business_type"`
	RadiusKM     float64 `json:"radius_km"`
}

// Validate checks the request before any external call is made.
func (r SearchRequest) Validate() error {
	if r.Location == "" {
		return eris.New("scraper: location is required")
	}
	if r.BusinessType == "" {
		return eris.New("scraper: business type is required")
	}
	if r.RadiusKM <= 0 {
		return eris.Errorf("scraper: radius must be positive, got %g", r.RadiusKM)
	}
	return nil
}

// Aggregator orchestrates the query strategies against the Maps API. It
// implements the broad high-recall merge policy: category nearby-search,
// keyword nearby-search, several text-search word orders, and a single
// best-effort pagination continuation.
type Aggregator struct {
	client     maps.Client
	normalizer *Normalizer
	mode       FilterMode
	textCap    int
	altTextCap int
	minForMore int
	pageDelay  time.Duration
}

// NewAggregator creates an Aggregator with the given dependencies.
func NewAggregator(client maps.Client, cfg *config.SearchConfig) *Aggregator {
	mode := FilterMode(cfg.FilterMode)
	if !mode.Valid() {
		mode = ModePermissive
	}
	textCap := cfg.TextResultCap
	if textCap <= 0 {
		textCap = 20
	}
	altTextCap := cfg.AltTextResultCap
	if altTextCap <= 0 {
		altTextCap = 15
	}
	minForMore := cfg.MinResultsForContinuation
	if minForMore <= 0 {
		minForMore = 10
	}
	pageDelay := time.Duration(cfg.PageTokenDelaySecs) * time.Second
	if pageDelay <= 0 {
		pageDelay = 2 * time.Second
	}
	return &Aggregator{
		client:     client,
		normalizer: NewNormalizer(client),
		mode:       mode,
		textCap:    textCap,
		altTextCap: altTextCap,
		minForMore: minForMore,
		pageDelay:  pageDelay,
	}
}

// Search runs every strategy in order and returns the deduplicated, filtered
// business list. Individual strategy failures are logged and skipped; the
// only hard failures are request validation and an unresolvable location.
func (a *Aggregator) Search(ctx context.Context, req SearchRequest) ([]BusinessRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("location", req.Location),
		zap.String("business_type", req.BusinessType),
	)

	center, err := a.client.Geocode(ctx, req.Location)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: geocode")
	}
	if center == nil {
		log.Warn("location not found")
		return nil, ErrLocationNotFound
	}

	run := &searchRun{
		agg:     a,
		req:     req,
		center:  *center,
		radiusM: int(req.RadiusKM * 1000),
		seen:    make(map[string]struct{}),
		log:     log,
		filter:  req.Location,
	}

	run.categorySearch(ctx)
	run.keywordSearch(ctx)
	run.textSearch(ctx)
	run.continuation(ctx)

	log.Info("search complete",
		zap.Int("candidates_seen", len(run.seen)),
		zap.Int("admitted", len(run.records)),
	)

	return run.records, nil
}

// searchRun carries the per-search dedup set and accumulated records shared
// by all strategies.
type searchRun struct {
	agg     *Aggregator
	req     SearchRequest
	center  maps.LatLng
	radiusM int
	seen    map[string]struct{}
	records []BusinessRecord

	// pageToken is the continuation token from the category search, consumed
	// at most once by the continuation strategy.
	pageToken string

	filter string
	log    *zap.Logger
}

// admit normalizes and filters every unseen place in results, appending the
// survivors. limit <= 0 means no bound on inspected results.
func (r *searchRun) admit(ctx context.Context, results []maps.PlaceSummary, limit int) {
	for i, place := range results {
		if limit > 0 && i >= limit {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if place.PlaceID == "" {
			continue
		}
		if _, ok := r.seen[place.PlaceID]; ok {
			continue
		}
		r.seen[place.PlaceID] = struct{}{}

		rec := r.agg.normalizer.Normalize(ctx, place.PlaceID)
		if rec == nil {
			continue
		}
		if !inTargetLocation(rec.Address, r.filter, r.agg.mode) {
			continue
		}
		r.records = append(r.records, *rec)
	}
}

// categorySearch runs the nearby search keyed by the classified place type.
func (r *searchRun) categorySearch(ctx context.Context) {
	placeType := ClassifyPlaceType(r.req.BusinessType)
	resp, err := r.agg.client.NearbySearch(ctx, maps.NearbySearchRequest{
		Location:     r.center,
		RadiusMeters: r.radiusM,
		PlaceType:    placeType,
	})
	if err != nil {
		r.log.Warn("category search failed", zap.String("place_type", placeType), zap.Error(err))
		return
	}
	r.pageToken = resp.NextPageToken
	r.admit(ctx, resp.Results, 0)
}

// keywordSearch runs the nearby search keyed by the raw business-type phrase.
func (r *searchRun) keywordSearch(ctx context.Context) {
	resp, err := r.agg.client.NearbySearch(ctx, maps.NearbySearchRequest{
		Location:     r.center,
		RadiusMeters: r.radiusM,
		Keyword:      r.req.BusinessType,
	})
	if err != nil {
		r.log.Warn("keyword search failed", zap.Error(err))
		return
	}
	r.admit(ctx, resp.Results, 0)
}

// textSearch runs the free-text queries in different word orders, inspecting
// a bounded prefix of each result set to cap detail-call volume.
func (r *searchRun) textSearch(ctx context.Context) {
	queries := []struct {
		query string
		limit int
	}{
		{fmt.Sprintf("%s near %s", r.req.BusinessType, r.req.Location), r.agg.textCap},
		{fmt.Sprintf("%s %s", r.req.BusinessType, r.req.Location), r.agg.altTextCap},
		{fmt.Sprintf("%s %s", r.req.Location, r.req.BusinessType), r.agg.altTextCap},
		{fmt.Sprintf("%s in %s", r.req.BusinessType, r.req.Location), r.agg.altTextCap},
	}

	for _, q := range queries {
		if ctx.Err() != nil {
			return
		}
		resp, err := r.agg.client.TextSearch(ctx, q.query)
		if err != nil {
			r.log.Warn("text search failed", zap.String("query", q.query), zap.Error(err))
			continue
		}
		r.admit(ctx, resp.Results, q.limit)
	}
}

// continuation fetches one extra nearby-search page when the first pass
// accepted few results and the API offered a next page. Page tokens take a
// moment to activate server-side, so the fetch waits first.
func (r *searchRun) continuation(ctx context.Context) {
	if r.pageToken == "" || len(r.records) >= r.agg.minForMore {
		return
	}

	select {
	case <-time.After(r.agg.pageDelay):
	case <-ctx.Done():
		return
	}

	resp, err := r.agg.client.NearbySearch(ctx, maps.NearbySearchRequest{
		Location:     r.center,
		RadiusMeters: r.radiusM,
		PlaceType:    ClassifyPlaceType(r.req.BusinessType),
		PageToken:    r.pageToken,
	})
	if err != nil {
		r.log.Warn("continuation page failed", zap.Error(err))
		return
	}
	r.admit(ctx, resp.Results, 0)
}
