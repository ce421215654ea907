package models

import "time"

// JobState represents the lifecycle state of a registry job.
// A job is created pending and transitions exactly once to a terminal
// state; there is no transition out of completed or failed.
type JobState string

const (
	JobStatePending   JobState = "pending"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// Job is an asynchronous unit of work tracked by the registry. The
// registry exclusively owns the mutable state; polling callers only ever
// observe a JobSnapshot.
type Job struct {
	ID          string           `json:"id"`
	State       JobState         `json:"state"`
	Result      *SummaryArtifact `json:"result,omitempty"` // Present only when State == completed
	Error       string           `json:"error,omitempty"`  // Present only when State == failed
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// NewJob creates a pending job with the given id
func NewJob(id string) *Job {
	return &Job{
		ID:        id,
		State:     JobStatePending,
		CreatedAt: time.Now(),
	}
}

// MarkCompleted moves the job to its completed terminal state
func (j *Job) MarkCompleted(result *SummaryArtifact) {
	j.State = JobStateCompleted
	j.Result = result
	now := time.Now()
	j.CompletedAt = &now
}

// MarkFailed moves the job to its failed terminal state
func (j *Job) MarkFailed(errMsg string) {
	j.State = JobStateFailed
	j.Error = errMsg
	now := time.Now()
	j.CompletedAt = &now
}

// IsTerminal returns true if the job has reached completed or failed
func (j *Job) IsTerminal() bool {
	return j.State == JobStateCompleted || j.State == JobStateFailed
}

// Snapshot returns an independent copy for polling callers. The result
// artifact is copied too, so mutating a snapshot never touches
// registry-owned state.
func (j *Job) Snapshot() JobSnapshot {
	snapshot := JobSnapshot{
		ID:    j.ID,
		State: j.State,
		Error: j.Error,
	}
	if j.Result != nil {
		result := *j.Result
		snapshot.Result = &result
	}
	return snapshot
}

// JobSnapshot is the immutable view of a job returned by Poll
type JobSnapshot struct {
	ID     string           `json:"id"`
	State  JobState         `json:"state"`
	Result *SummaryArtifact `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}
