package job

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
)

// Searcher runs one aggregated business search.
type Searcher interface {
	Search(ctx context.Context, req scraper.SearchRequest) ([]scraper.BusinessRecord, error)
}

// ExportFunc writes records to a spreadsheet at path.
type ExportFunc func(records []scraper.BusinessRecord, path string) error

// Runner owns the bounded worker pool that executes submitted jobs. The pool
// size and queue capacity are fixed at construction; submissions beyond the
// queue capacity are rejected rather than accepted unbounded.
type Runner struct {
	registry  *Registry
	searcher  Searcher
	export    ExportFunc
	apiKey    string
	exportDir string
	workers   int
	queue     chan string
}

// NewRunner creates a Runner. workers and queueSize fall back to sane
// minimums when non-positive.
func NewRunner(registry *Registry, searcher Searcher, export ExportFunc, apiKey, exportDir string, workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Runner{
		registry:  registry,
		searcher:  searcher,
		export:    export,
		apiKey:    apiKey,
		exportDir: exportDir,
		workers:   workers,
		queue:     make(chan string, queueSize),
	}
}

// Submit validates req, registers a pending job and enqueues it. It returns
// ErrQueueFull when the queue is at capacity; the caller resumes immediately
// with the job snapshot otherwise.
func (r *Runner) Submit(req scraper.SearchRequest) (Job, error) {
	if err := req.Validate(); err != nil {
		return Job{}, err
	}

	j := r.registry.Create(req)

	select {
	case r.queue <- j.ID:
	default:
		r.registry.fail(j.ID, "worker queue is full")
		return Job{}, ErrQueueFull
	}

	return j, nil
}

// Run starts the worker pool and blocks until ctx is cancelled and all
// workers have drained.
func (r *Runner) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case id := <-r.queue:
					r.process(gctx, id)
				}
			}
		})
	}

	return g.Wait()
}

// process executes one job to its terminal state.
func (r *Runner) process(ctx context.Context, id string) {
	j, ok := r.registry.Get(id)
	if !ok {
		return
	}
	log := zap.L().With(
		zap.String("job_id", id),
		zap.String("location", j.Location),
		zap.String("business_type", j.BusinessType),
	)

	r.registry.start(id)

	if r.apiKey == "" {
		log.Error("job rejected", zap.Error(ErrMissingCredential))
		r.registry.fail(id, ErrMissingCredential.Error())
		return
	}
	r.registry.setProgress(id, progressClientReady)

	records, err := r.searcher.Search(ctx, scraper.SearchRequest{
		Location:     j.Location,
		BusinessType: j.BusinessType,
		RadiusKM:     j.RadiusKM,
	})
	if err != nil {
		if eris.Is(err, scraper.ErrLocationNotFound) || eris.Is(err, scraper.ErrNoResults) {
			log.Warn("search found nothing", zap.Error(err))
			r.registry.fail(id, "no businesses found")
			return
		}
		log.Error("search failed", zap.Error(err))
		r.registry.fail(id, err.Error())
		return
	}
	r.registry.setProgress(id, progressSearched)

	if len(records) == 0 {
		log.Warn("search found nothing")
		r.registry.fail(id, "no businesses found")
		return
	}

	// Record the count before exporting so it survives an export failure.
	r.registry.setResultCount(id, len(records))

	filename := artifactName(j)
	if err := r.export(records, filepath.Join(r.exportDir, filename)); err != nil {
		log.Error("export failed", zap.Error(err))
		r.registry.fail(id, fmt.Sprintf("export failed: %s", err.Error()))
		return
	}

	r.registry.complete(id, len(records), filename)
	log.Info("job complete", zap.Int("result_count", len(records)), zap.String("filename", filename))
}

// artifactName builds the exported file name from the job parameters, e.g.
// "Kadıköy_İstanbul_Turkey_eczane_3km_1a2b3c4d.xlsx".
func artifactName(j Job) string {
	clean := strings.NewReplacer(" ", "_", ",", "")
	shortID := j.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("%s_%s_%gkm_%s.xlsx",
		clean.Replace(j.Location),
		clean.Replace(j.BusinessType),
		j.RadiusKM,
		shortID,
	)
}
