//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/vm"
)

// JobState defines computation job states.
type JobState int

// Job states.
const (
	JobPending JobState = iota
	JobRunning
	JobDone
	JobFailed
)

var jobStates = map[JobState]string{
	JobPending: "pending",
	JobRunning: "running",
	JobDone:    "done",
	JobFailed:  "failed",
}

func (s JobState) String() string {
	name, ok := jobStates[s]
	if ok {
		return name
	}
	return fmt.Sprintf("{JobState %d}", int(s))
}

// Terminal tests if the state is a terminal state.
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// Result holds this node's share of a program output.
type Result struct {
	Name  string
	Party string
	Share vm.Share
}

// Job defines a computation job and its results.
type Job struct {
	ID             vm.ComputeID
	Program        vm.ProgramID
	Invoker        vm.UserID
	InputBindings  map[string]vm.UserID
	OutputBindings map[string][]vm.UserID
	InputShares    [][]byte
	Created        time.Time
	State          JobState
	Err            string
	Results        []Result

	done chan struct{}
}

// ResultsFor returns the results whose output party is bound to the
// user.
func (j *Job) ResultsFor(user vm.UserID) []Result {
	var result []Result
	for _, r := range j.Results {
		for _, u := range j.OutputBindings[r.Party] {
			if u == user {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// ResultStore stores computation jobs and their results.
type ResultStore struct {
	m    sync.Mutex
	jobs map[vm.ComputeID]*Job
}

// NewResultStore creates a new result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		jobs: make(map[vm.ComputeID]*Job),
	}
}

// Add adds a new pending job.
func (s *ResultStore) Add(job *Job) error {
	s.m.Lock()
	defer s.m.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return errors.Wrapf(ErrExists, "job %s", job.ID)
	}
	job.State = JobPending
	job.done = make(chan struct{})
	s.jobs[job.ID] = job
	return nil
}

// Get returns a snapshot of the job.
func (s *ResultStore) Get(id vm.ComputeID) (Job, error) {
	s.m.Lock()
	defer s.m.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, errors.Wrapf(ErrNotFound, "job %s", id)
	}
	return *job, nil
}

// SetRunning moves the pending job to the running state.
func (s *ResultStore) SetRunning(id vm.ComputeID) error {
	s.m.Lock()
	defer s.m.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "job %s", id)
	}
	if job.State != JobPending {
		return errors.Newf("job %s: invalid state %s", id, job.State)
	}
	job.State = JobRunning
	return nil
}

// Finish stores the job results and completes the job.
func (s *ResultStore) Finish(id vm.ComputeID, results []Result) error {
	return s.complete(id, JobDone, results, "")
}

// Fail completes the job with an error.
func (s *ResultStore) Fail(id vm.ComputeID, err error) error {
	return s.complete(id, JobFailed, nil, err.Error())
}

func (s *ResultStore) complete(id vm.ComputeID, state JobState,
	results []Result, msg string) error {

	s.m.Lock()
	defer s.m.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "job %s", id)
	}
	if job.State.Terminal() {
		return errors.Newf("job %s already %s", id, job.State)
	}
	job.State = state
	job.Results = results
	job.Err = msg
	job.InputShares = nil
	close(job.done)
	return nil
}

// Wait waits until the job reaches a terminal state or the context
// is done.
func (s *ResultStore) Wait(ctx context.Context, id vm.ComputeID) (
	Job, error) {

	s.m.Lock()
	job, ok := s.jobs[id]
	s.m.Unlock()
	if !ok {
		return Job{}, errors.Wrapf(ErrNotFound, "job %s", id)
	}

	select {
	case <-job.done:
		return s.Get(id)
	case <-ctx.Done():
		return Job{}, errors.Wrapf(ctx.Err(), "job %s", id)
	}
}
