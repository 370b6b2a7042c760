// Package jobmgr provides delayed and recurring job execution with
// cancellation, status callbacks, and in-memory tracking of pending jobs.
//
// Typical usage:
//
//	jm := jobmgr.New(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	h := jm.RunOnce("cleanup", 2*time.Minute, func(ctx context.Context) {
//	    // fires once after two minutes
//	})
//
//	// later...
//	jm.Cancel(h)
//
// One-shot jobs remove themselves after firing. Repeating jobs keep phase:
// the n-th fire is scheduled at first + n*interval regardless of how long
// earlier runs took, so drift does not accumulate. Cancel is idempotent and
// safe to race with a concurrent fire: a job transitions to fired-or-cancelled
// exactly once. A panicking callback is recovered and logged; for repeating
// jobs it does not cancel future occurrences.
package jobmgr

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	fired:cleanup
//	panic:prayer-notify:runtime error
//	cancelled:cleanup
type StatusReporter func(string)

type jobState int

const (
	statePending jobState = iota
	stateFired            // one-shot that ran, or repeating job between ticks
	stateCancelled
)

// Job is a handle to scheduled work. Owned by the Manager.
type Job struct {
	ID   string
	name string

	mu        sync.Mutex
	state     jobState
	repeating bool
	timer     *time.Timer
	cancel    context.CancelFunc
}

// Manager orchestrates scheduling, firing and cancelling jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// New creates a new Manager. The reporter callback may be nil.
func New(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// RunOnce schedules fn to run once after delay. The returned handle can be
// cancelled until the job fires.
func (m *Manager) RunOnce(name string, delay time.Duration, fn func(ctx context.Context)) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{ID: uuid.NewString(), name: name, cancel: cancel}

	job.timer = time.AfterFunc(delay, func() {
		job.mu.Lock()
		if job.state != statePending {
			job.mu.Unlock()
			return
		}
		job.state = stateFired
		job.mu.Unlock()

		m.runProtected(ctx, name, fn)
		m.report("fired:" + name)
		m.remove(job)
	})

	m.track(job)
	return job
}

// RunRepeating schedules fn to run every interval, first firing after first.
func (m *Manager) RunRepeating(name string, interval, first time.Duration, fn func(ctx context.Context)) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{ID: uuid.NewString(), name: name, cancel: cancel, repeating: true}
	m.track(job)

	go func() {
		next := time.Now().Add(first)
		for {
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			job.mu.Lock()
			if job.state == stateCancelled {
				job.mu.Unlock()
				return
			}
			job.mu.Unlock()

			m.runProtected(ctx, name, fn)
			next = next.Add(interval)
		}
	}()

	return job
}

// Cancel stops a job. Idempotent; safe on already-fired handles and safe to
// race with a concurrent fire.
func (m *Manager) Cancel(job *Job) {
	if job == nil {
		return
	}

	job.mu.Lock()
	alreadyDone := job.state == stateCancelled || (job.state == stateFired && !job.repeating)
	if !alreadyDone {
		job.state = stateCancelled
	}
	job.mu.Unlock()

	if alreadyDone {
		return
	}

	if job.timer != nil {
		job.timer.Stop()
	}
	job.cancel()
	m.report("cancelled:" + job.name)
	m.remove(job)
}

// Active returns the names of pending jobs.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, job.name)
	}
	return out
}

// Status returns a human-readable summary of pending jobs.
func (m *Manager) Status() string {
	active := m.Active()
	if len(active) == 0 {
		return "No jobs are pending."
	}
	return fmt.Sprintf("Pending jobs: %s", strings.Join(active, ", "))
}

// Shutdown cancels every pending job.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mu.Unlock()

	for _, job := range jobs {
		m.Cancel(job)
	}
}

// runProtected isolates callback panics so one bad job cannot take down the
// manager or its siblings.
func (m *Manager) runProtected(ctx context.Context, name string, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] job %s panicked: %v", name, r)
			m.report(fmt.Sprintf("panic:%s:%v", name, r))
		}
	}()
	fn(ctx)
}

func (m *Manager) track(job *Job) {
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
}

func (m *Manager) remove(job *Job) {
	m.mu.Lock()
	delete(m.jobs, job.ID)
	m.mu.Unlock()
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
