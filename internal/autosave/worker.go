// internal/autosave/worker.go
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/metrics"
	"survey-workers/internal/content/record"
	"survey-workers/internal/routing"
)

// Router is the routing entry point the worker needs.
type Router interface {
	RouteAndSave(ctx context.Context, rec record.Record, hint string) (*routing.Result, error)
}

// Recorder receives job outcome measurements. *observability.Observability implements it.
type Recorder interface {
	RecordJobProcessed(ctx context.Context, status string)
	RecordJobDuration(ctx context.Context, duration time.Duration, status string)
}

const (
	StatusPersisted     = "persisted"
	StatusNoDestination = "no_destination"
	StatusAllFailed     = "all_failed"
	StatusError         = "error"
)

type Config struct {
	Workers    int
	JobTimeout time.Duration
	// RetryDelay is the pause after a queue read error.
	RetryDelay time.Duration
}

// Worker consumes auto-save jobs and owns all error reporting for them.
type Worker struct {
	config   *Config
	queue    Queue
	router   Router
	alerter  Alerter
	recorder Recorder
	logger   logger.Logger
}

type WorkerOption func(*Worker)

func WithAlerter(a Alerter) WorkerOption {
	return func(w *Worker) { w.alerter = a }
}

func WithRecorder(r Recorder) WorkerOption {
	return func(w *Worker) { w.recorder = r }
}

func NewWorker(config *Config, queue Queue, router Router, log logger.Logger, opts ...WorkerOption) *Worker {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Second
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	w := &Worker{
		config: config,
		queue:  queue,
		router: router,
		logger: log.WithFields(map[string]interface{}{"component": "autosave"}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the consumer goroutines and blocks until ctx is done or the
// queue is closed and drained.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.config.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.consume(ctx, id)
		}(i)
	}
	wg.Wait()
	w.logger.Info("Auto-save worker stopped", nil)
}

func (w *Worker) consume(ctx context.Context, id int) {
	log := w.logger.WithFields(map[string]interface{}{"consumer": id})
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				return
			}
			log.Error("Failed to read auto-save queue", map[string]interface{}{"error": err.Error()})
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.config.RetryDelay):
			}
			continue
		}
		w.Process(ctx, job)
	}
}

// Process routes one job and reports its outcome. It returns the final
// status label; errors are logged, never propagated.
func (w *Worker) Process(ctx context.Context, job Job) string {
	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	log := w.logger.WithFields(map[string]interface{}{"jobId": job.ID})
	result, err := w.router.RouteAndSave(jobCtx, job.Record, job.Context)

	status := StatusPersisted
	var failed *routing.AllDestinationsFailedError
	switch {
	case err == nil:
		log.Info("Auto-save persisted record", map[string]interface{}{
			"destination":    result.Destination,
			"confidenceTier": result.ConfidenceTier,
			"queuedFor":      time.Since(job.EnqueuedAt).String(),
		})
	case errors.Is(err, routing.ErrNoDestination):
		status = StatusNoDestination
		log.Warn("Auto-save skipped, no destination matched", map[string]interface{}{
			"fields": job.Record.Keys(),
		})
	case errors.As(err, &failed):
		status = StatusAllFailed
		log.Error("Auto-save failed for every destination", map[string]interface{}{
			"destinations": failed.Destinations(),
			"error":        err.Error(),
		})
		w.alert(ctx, log, job, failed)
	default:
		status = StatusError
		log.Error("Auto-save failed", map[string]interface{}{"error": err.Error()})
	}

	metrics.AutoSaveJobs.WithLabelValues(status).Inc()
	if w.recorder != nil {
		w.recorder.RecordJobProcessed(ctx, status)
		w.recorder.RecordJobDuration(ctx, time.Since(start), status)
	}
	return status
}

func (w *Worker) alert(ctx context.Context, log logger.Logger, job Job, failed *routing.AllDestinationsFailedError) {
	if w.alerter == nil {
		return
	}
	if err := w.alerter.Alert(ctx, job, failed); err != nil {
		log.Error("Failed to publish auto-save alert", map[string]interface{}{"error": err.Error()})
	}
}

// Submit enqueues rec for auto-save and returns at once. Failures are logged
// and returned for callers that want them; the primary flow may ignore them.
func Submit(ctx context.Context, q Queue, rec record.Record, hint string, log logger.Logger) (Job, error) {
	job := NewJob(rec, hint)
	if err := q.Enqueue(ctx, job); err != nil {
		log.Warn("Failed to enqueue auto-save job", map[string]interface{}{
			"jobId": job.ID,
			"error": err.Error(),
		})
		return job, err
	}
	return job, nil
}
