package job

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
)

// Registry is the process-scoped job store: entries are added on submission,
// mutated by exactly one worker each, read concurrently by pollers, and kept
// for the process lifetime.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new pending job for req and returns its snapshot.
func (r *Registry) Create(req scraper.SearchRequest) Job {
	j := &Job{
		ID:           uuid.New().String(),
		Location:     req.Location,
		BusinessType: req.BusinessType,
		RadiusKM:     req.RadiusKM,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()

	return *j
}

// Get returns a snapshot of the job with the given id.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns snapshots of all jobs, newest first.
func (r *Registry) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

// mutate applies fn to the job with the given id under the write lock,
// skipping jobs already in a terminal state.
func (r *Registry) mutate(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.Status.Terminal() {
		return
	}
	fn(j)
}

// start transitions pending → running.
func (r *Registry) start(id string) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusRunning
		j.advance(progressClaimed)
	})
}

// setProgress advances the progress checkpoint; it never moves backwards.
func (r *Registry) setProgress(id string, progress int) {
	r.mutate(id, func(j *Job) {
		j.advance(progress)
	})
}

// setResultCount records the computed result count. It is set before export
// so the count survives as a diagnostic even when export fails.
func (r *Registry) setResultCount(id string, count int) {
	r.mutate(id, func(j *Job) {
		j.ResultCount = count
	})
}

// complete transitions running → completed and forces progress to 100.
func (r *Registry) complete(id string, count int, filename string) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusCompleted
		j.ResultCount = count
		j.Filename = filename
		j.advance(progressDone)
	})
}

// fail transitions the job → error with a human-readable cause.
func (r *Registry) fail(id string, cause string) {
	r.mutate(id, func(j *Job) {
		j.Status = StatusError
		j.Error = cause
	})
}

func (j *Job) advance(progress int) {
	if progress > j.Progress {
		j.Progress = progress
	}
}
