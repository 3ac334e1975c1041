// Package job tracks asynchronous search executions: a registry of job
// snapshots polled by clients and a bounded worker pool that runs the
// searches.
package job

import (
	"time"

	"github.com/rotisserie/eris"
)

// Status is the lifecycle state of a search job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether s is a final state. Terminal jobs are immutable.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Progress checkpoints. Progress only moves forward and reaches 100 exactly
// when the job completes.
const (
	progressClaimed     = 10
	progressClientReady = 30
	progressSearched    = 80
	progressDone        = 100
)

// Job is one tracked search execution. Exactly one worker mutates a job;
// polling clients read snapshots through the registry.
type Job struct {
	ID           string    `json:"job_id"`
	Location     string    `json:"location"`
	BusinessType string    `json:"business_type"`
	RadiusKM     float64   `json:"radius_km"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"`
	ResultCount  int       `json:"result_count,omitempty"`
	Filename     string    `json:"filename,omitempty"`
	Error        string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// ErrMissingCredential is reported when no Google Maps API credential is
	// configured; the job fails before any external call.
	ErrMissingCredential = eris.New("job: missing Google Maps API credential")

	// ErrQueueFull is returned by Submit when the pending queue is at
	// capacity.
	ErrQueueFull = eris.New("job: queue is full, try again later")

	// ErrNotFound is returned when a job identifier is unknown.
	ErrNotFound = eris.New("job: not found")
)
