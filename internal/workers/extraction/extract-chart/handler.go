// internal/workers/extraction/extract-chart/handler.go
package extractchart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "survey-workers/internal/common/errors"
	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/metrics"
	"survey-workers/internal/content/chart"
	"survey-workers/internal/content/record"
)

const TaskType = "extract-chart"

var ErrMissingContent = errors.New("MISSING_CONTENT")

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		if errors.Is(err, ErrMissingContent) {
			err = apperrors.NewInvalidInputError(err.Error())
		}
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute never fails on unrecognised content; it reports chartFound=false.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	raw := bytes.TrimSpace(input.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: content variable is required", ErrMissingContent)
	}

	var spec *chart.Spec
	strategy := ""

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, apperrors.NewParseError(err)
		}
		spec, strategy = chart.ExtractWithStrategy(text)
	} else if v, err := record.Parse(raw); err == nil {
		if spec = chart.FromValue(v); spec != nil {
			strategy = chart.StrategyStructured
		}
	}

	output := &Output{ChartFound: spec != nil, Chart: spec, Strategy: strategy}
	if spec == nil {
		metrics.ChartExtractions.WithLabelValues("none").Inc()
		h.logger.Debug("no chart found in content", map[string]interface{}{"contentBytes": len(raw)})
		return output, nil
	}

	metrics.ChartExtractions.WithLabelValues(strategy).Inc()
	h.logger.Info("chart extracted", map[string]interface{}{
		"strategy":  strategy,
		"chartType": string(spec.Type),
		"rows":      len(spec.Data),
	})
	return output, nil
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
		"jobKey":     job.Key,
		"chartFound": output.ChartFound,
	})
}
