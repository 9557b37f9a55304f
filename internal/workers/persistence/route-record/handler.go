// internal/workers/persistence/route-record/handler.go
package routerecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"survey-workers/internal/autosave"
	apperrors "survey-workers/internal/common/errors"
	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/metrics"
	"survey-workers/internal/common/validation"
	"survey-workers/internal/content/record"
	"survey-workers/internal/routing"
)

const TaskType = "route-record"

var (
	ErrEmptyRecord           = errors.New("EMPTY_RECORD")
	ErrAutoSaveEnqueueFailed = errors.New("AUTOSAVE_ENQUEUE_FAILED")
)

// Router is what the handler needs from routing.Router.
type Router interface {
	Classify(rec record.Record, hint string) []routing.Match
	RouteAndSave(ctx context.Context, rec record.Record, hint string) (*routing.Result, error)
}

type Handler struct {
	config       *Config
	router       Router
	queue        autosave.Queue
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler builds the handler. queue may be nil, in which case async
// requests are routed inline.
func NewHandler(config *Config, router Router, queue autosave.Queue, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		router:       router,
		queue:        queue,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := ParseInput([]byte(job.Variables))
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, ToStandardError(err))
		return
	}

	h.completeJob(ctx, client, job, output)
}

// ParseInput validates job variables against the route-record schema and
// decodes them, keeping record field order.
func ParseInput(raw []byte) (*Input, error) {
	if result := validation.ValidateRouteRecordInput(raw); !result.Valid {
		if len(result.Errors) > 0 && result.Errors[0].Code == "INVALID_DOCUMENT" {
			return nil, apperrors.NewParseError(result)
		}
		return nil, apperrors.NewInvalidInputError(result.Error())
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	return &input, nil
}

// ToStandardError maps routing and queue failures to worker error codes.
func ToStandardError(err error) error {
	var failed *routing.AllDestinationsFailedError
	switch {
	case errors.As(err, &failed):
		dests := make([]string, 0, len(failed.Attempts))
		for _, d := range failed.Destinations() {
			dests = append(dests, string(d))
		}
		return apperrors.NewAllDestinationsFailedError(err, dests)
	case errors.Is(err, routing.ErrNoDestination):
		return apperrors.NewNoDestinationError(err)
	case errors.Is(err, ErrAutoSaveEnqueueFailed):
		return apperrors.NewAutoSaveEnqueueFailedError(err)
	case errors.Is(err, ErrEmptyRecord):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(TaskType, err)
	default:
		return err
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Record.Len() == 0 {
		return nil, fmt.Errorf("%w: record has no fields", ErrEmptyRecord)
	}

	switch {
	case input.DryRun:
		return h.classify(input), nil
	case input.Async && h.queue != nil:
		return h.enqueue(ctx, input)
	case input.Async:
		h.logger.Warn("auto-save queue not configured, routing inline", nil)
	}

	result, err := h.router.RouteAndSave(ctx, input.Record, input.Context)
	if err != nil {
		h.logger.Warn("record routing failed", map[string]interface{}{
			"error":  err.Error(),
			"fields": input.Record.Keys(),
		})
		return nil, err
	}

	output := &Output{
		Destination:    result.Destination,
		Table:          result.Table,
		ConfidenceTier: result.ConfidenceTier,
		Score:          result.Score,
		Reasoning:      result.Reasoning,
		Alternates:     result.Alternates,
		Persisted:      result.Persisted,
		Fallback:       len(result.Failed) > 0,
	}
	if id, ok := result.StoredRecord.GetString("id"); ok {
		output.RecordID = id
	}
	return output, nil
}

func (h *Handler) classify(input *Input) *Output {
	matches := h.router.Classify(input.Record, input.Context)
	output := &Output{Alternates: []routing.Destination{}, Matches: matches}
	if len(matches) == 0 {
		return output
	}

	best := matches[0]
	output.Destination = best.Destination
	output.ConfidenceTier = routing.TierForScore(best.Score)
	output.Score = best.Score
	output.Reasoning = best.Reasoning
	for _, m := range matches[1:min(len(matches), 3)] {
		output.Alternates = append(output.Alternates, m.Destination)
	}

	h.logger.Info("record classified (dry run)", map[string]interface{}{
		"destination": best.Destination,
		"score":       best.Score,
		"candidates":  len(matches),
	})
	return output
}

func (h *Handler) enqueue(ctx context.Context, input *Input) (*Output, error) {
	job, err := autosave.Submit(ctx, h.queue, input.Record, input.Context, h.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAutoSaveEnqueueFailed, err)
	}
	return &Output{
		Alternates:    []routing.Destination{},
		Queued:        true,
		AutoSaveJobID: job.ID,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey":      job.Key,
		"destination": output.Destination,
		"persisted":   output.Persisted,
		"queued":      output.Queued,
	})
}
