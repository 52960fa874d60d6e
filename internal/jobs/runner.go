package jobs

import (
	"context"
	"errors"
	"log"
	"sync"

	"webready/internal/analyzer"
	"webready/internal/cache"
	"webready/internal/engine"
	"webready/internal/hub"
)

// Runner executes analysis jobs in the background, keeping the store,
// the websocket hub and the result cache in sync with each run.
type Runner struct {
	store   *Store
	eng     *engine.Engine
	hub     *hub.Hub
	results *cache.ResultCache

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunner wires a Runner. hub and results may be nil (headless use).
func NewRunner(store *Store, eng *engine.Engine, h *hub.Hub, results *cache.ResultCache) *Runner {
	return &Runner{
		store:   store,
		eng:     eng,
		hub:     h,
		results: results,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start persists a pending job and launches its analysis in a
// goroutine. The returned job reflects the stored pending record.
func (r *Runner) Start(ctx context.Context, job Job, files []engine.SourceFile) (*Job, error) {
	job.FileCount = len(files)
	created, err := r.store.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[created.ID] = cancel
	r.mu.Unlock()

	go r.run(runCtx, created.ID, created.ProjectName, files)
	return created, nil
}

// Cancel asks a running job to stop before its next file. Safe to call
// for unknown or finished jobs.
func (r *Runner) Cancel(jobID string) {
	r.mu.Lock()
	cancel, ok := r.cancels[jobID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// Result returns a job's result document, serving repeated reads from
// the LRU cache.
func (r *Runner) Result(ctx context.Context, jobID string) (*analyzer.ProjectResult, error) {
	if r.results != nil {
		if res, ok := r.results.Get(jobID); ok {
			return res, nil
		}
	}
	res, err := r.store.Result(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if r.results != nil {
		r.results.Add(jobID, res)
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, jobID, projectName string, files []engine.SourceFile) {
	defer func() {
		r.mu.Lock()
		delete(r.cancels, jobID)
		r.mu.Unlock()
	}()

	sink := func(ev engine.Event) {
		if err := r.store.SetProgress(context.Background(), jobID, ev.Status, ev.Percent); err != nil {
			log.Printf("jobs: record progress for %s: %v", jobID, err)
		}
		if r.hub != nil {
			r.hub.Broadcast(jobID, ev)
		}
	}

	result, err := r.eng.Run(ctx, projectName, files, sink)
	if err != nil {
		// A cancelled or timed-out run is Failed, never a partial
		// Completed.
		msg := err.Error()
		if errors.Is(err, context.Canceled) {
			msg = "analysis cancelled"
		}
		if failErr := r.store.Fail(context.Background(), jobID, msg); failErr != nil {
			log.Printf("jobs: mark %s failed: %v", jobID, failErr)
		}
		return
	}

	if err := r.store.Complete(context.Background(), jobID, result); err != nil {
		log.Printf("jobs: store result for %s: %v", jobID, err)
		return
	}
	if r.results != nil {
		r.results.Add(jobID, result)
	}
}
