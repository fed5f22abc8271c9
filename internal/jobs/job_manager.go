package jobs

import (
	"fmt"
)

// Job is a background task with a start/stop lifecycle.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager creates a job manager for the abandoned order sweep.
func NewJobManager(sweep *AbandonedOrderSweepJob) *JobManager {
	jm := &JobManager{}
	jm.Register("abandoned order sweep", sweep)
	return jm
}

// Register adds a job to be started by StartAll.
func (jm *JobManager) Register(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts all scheduled jobs in registration order.
// If one fails to start, the jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started = append(jm.started, nj)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
