package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/hansard/internal/common"
	"github.com/ternarybob/hansard/internal/models"
)

// ErrJobNotFound is returned by Poll for ids the registry has never seen
// or has already evicted. Callers must be able to tell this apart from a
// pending job, which polls successfully with state "pending".
var ErrJobNotFound = errors.New("job not found")

// Work produces the job's result. It runs in exactly one goroutine per
// submission.
type Work func(ctx context.Context) (*models.SummaryArtifact, error)

// Registry tracks asynchronous summarization jobs in memory. Jobs move
// pending -> completed | failed exactly once; terminal state and result
// never change afterwards. Terminal jobs stay pollable until the
// retention window expires and the sweeper evicts them.
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]*models.Job
	retention time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	logger    arbor.ILogger
}

// NewRegistry creates an empty job registry. retention controls how long
// terminal jobs remain pollable before Sweep evicts them.
func NewRegistry(retention time.Duration, logger arbor.ILogger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		jobs:      make(map[string]*models.Job),
		retention: retention,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
}

// Submit registers a new pending job and starts its work in the
// background. It returns the job id immediately; a panic in work marks
// the job failed rather than crashing the process. Re-submitting the
// same logical request always starts a fresh job with a new id.
func (r *Registry) Submit(work Work) string {
	id := common.NewJobID()
	job := models.NewJob(id)

	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()

	r.logger.Info().Str("job_id", id).Msg("Job submitted")

	go r.run(id, work)

	return id
}

// run executes the work and records the terminal state
func (r *Registry) run(id string, work Work) {
	defer func() {
		if rec := recover(); rec != nil {
			r.finish(id, nil, fmt.Errorf("job panicked: %v", rec))
		}
	}()

	result, err := work(r.ctx)
	r.finish(id, result, err)
}

// finish applies the single pending -> terminal transition. A job that
// is already terminal is left untouched.
func (r *Registry) finish(id string, result *models.SummaryArtifact, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists || job.IsTerminal() {
		return
	}

	if err != nil {
		job.MarkFailed(err.Error())
		r.logger.Warn().Str("job_id", id).Str("error", err.Error()).Msg("Job failed")
		return
	}

	job.MarkCompleted(result)
	r.logger.Info().Str("job_id", id).Msg("Job completed")
}

// Poll returns the current snapshot of a job without blocking. A pending
// job polls successfully; an unknown or evicted id returns ErrJobNotFound.
func (r *Registry) Poll(id string) (models.JobSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return models.JobSnapshot{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job.Snapshot(), nil
}

// Sweep evicts terminal jobs whose retention window has expired and
// returns how many were removed. Pending jobs are never evicted.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, job := range r.jobs {
		if job.IsTerminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(r.jobs, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked jobs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Close cancels the context passed to in-flight work
func (r *Registry) Close() error {
	r.cancel()
	return nil
}
