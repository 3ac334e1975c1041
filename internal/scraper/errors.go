package scraper

import "github.com/rotisserie/eris"

// Sentinel errors surfaced past the aggregator. Per-strategy upstream faults
// are absorbed and never reach callers.
var (
	// ErrLocationNotFound means geocoding matched nothing for the requested
	// location; no strategy calls are made after it.
	ErrLocationNotFound = eris.New("scraper: location not found")

	// ErrNoResults means every strategy completed but zero businesses were
	// admitted.
	ErrNoResults = eris.New("scraper: no businesses found")
)
