package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stage names the step of the pipeline a document was in when it failed.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StagePersist   Stage = "persist"
)

// DocumentError is one document's terminal failure. It never aborts the run.
type DocumentError struct {
	RegisterNumber string
	Stage          Stage
	Err            error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s failed in %s: %v", e.RegisterNumber, e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Report summarizes one ingestion run.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Listed   int

	mu        sync.Mutex
	succeeded int
	failures  []*DocumentError
}

func newReport(listed int) *Report {
	return &Report{RunID: uuid.New(), Started: time.Now(), Listed: listed}
}

func (r *Report) success() {
	r.mu.Lock()
	r.succeeded++
	r.mu.Unlock()
}

func (r *Report) failure(e *DocumentError) {
	r.mu.Lock()
	r.failures = append(r.failures, e)
	r.mu.Unlock()
}

// Succeeded counts documents committed during the run.
func (r *Report) Succeeded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.succeeded
}

// Failed counts documents that ended in a terminal failure.
func (r *Report) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

// Failures returns the recorded per-document failures.
func (r *Report) Failures() []*DocumentError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*DocumentError, len(r.failures))
	copy(out, r.failures)
	return out
}
