// Package jobs tracks pattern conversions started by the HTTP layer.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	cs "github.com/setanarut/crossstitch"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one conversion and its message log. A Job is the cs.Sink of its own
// conversion.
type Job struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	status     Status
	log        []string
	result     *cs.Result
	err        error
	finishedAt time.Time
	done       chan struct{}
}

func (j *Job) Message(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log = append(j.log, msg)
}

func (j *Job) Progress(ev cs.ProgressEvent) {
	j.Message(ev.String())
}

// Drain returns the messages logged since the previous Drain and clears them.
func (j *Job) Drain() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.log
	j.log = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// Status reports the job state and, for failed jobs, the error.
func (j *Job) Status() (Status, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.err
}

// Result is nil until the job completes.
func (j *Job) Result() *cs.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) finish(res *cs.Result, err error, at time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finishedAt = at
	if err != nil {
		j.status = StatusFailed
		j.err = err
		j.log = append(j.log, "ERROR: "+err.Error())
	} else {
		j.status = StatusCompleted
		j.result = res
		j.log = append(j.log, "COMPLETED "+j.ID)
	}
	close(j.done)
}

func (j *Job) finishedBefore(cutoff time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status != StatusRunning && j.finishedAt.Before(cutoff)
}

type Store struct {
	jobs map[string]*Job
	mu   sync.RWMutex
	now  func() time.Time
}

func New() *Store {
	return &Store{
		jobs: make(map[string]*Job),
		now:  time.Now,
	}
}

// Start registers a job and runs the conversion in the background. The job
// receives every message and progress event; opt.Sink, if set, gets a copy.
func (s *Store) Start(ctx context.Context, req cs.Request, opt cs.Options) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		status:    StatusRunning,
		done:      make(chan struct{}),
	}
	s.Set(job)

	opt.Sink = cs.MultiSink(job, opt.Sink)
	task := cs.Start(ctx, req, opt)
	go func() {
		res, err := task.Wait()
		job.finish(res, err, s.now())
		if err != nil {
			slog.Error("Conversion failed", "job_id", job.ID, "err", err)
			return
		}
		slog.Info("Conversion finished", "job_id", job.ID, "legend_colors", len(res.Legend))
	}()
	return job
}

func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[id]
	return job, exists
}

func (s *Store) Set(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Store) GetAll() map[string]*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Job, len(s.jobs))
	for k, v := range s.jobs {
		result[k] = v
	}
	return result
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Sweep drops finished jobs older than maxAge and returns how many it removed.
// Running jobs are never swept.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if job.finishedBefore(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("Swept finished jobs", "removed", removed, "max_age", maxAge.String())
	}
	return removed
}

// SweepEvery runs Sweep on an interval until ctx is done.
func (s *Store) SweepEvery(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxAge)
		}
	}
}
