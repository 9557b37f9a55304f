// internal/workers/extraction/extract-survey/handler.go
package extractsurvey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "survey-workers/internal/common/errors"
	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/metrics"
	"survey-workers/internal/content/survey"
)

const TaskType = "extract-survey"

var (
	ErrMissingContent       = errors.New("MISSING_CONTENT")
	ErrNoQuestionsExtracted = errors.New("NO_QUESTIONS_EXTRACTED")
)

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
		h.errorHandler.HandleJobError(ctx, client, job, toStandardError(err))
		return
	}

	h.completeJob(ctx, client, job, output)
}

func toStandardError(err error) error {
	switch {
	case errors.Is(err, ErrMissingContent):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrNoQuestionsExtracted):
		return apperrors.NewSurveyExtractionFailedError(err.Error())
	default:
		return err
	}
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content variable is required", ErrMissingContent)
	}

	questions := survey.ExtractQuestions(input.Content)
	if len(questions) == 0 {
		metrics.QuestionExtractions.WithLabelValues("empty").Inc()
		if h.config.FailOnEmpty {
			return nil, fmt.Errorf("%w: no numbered questions or known survey topic in content", ErrNoQuestionsExtracted)
		}
	} else {
		metrics.QuestionExtractions.WithLabelValues("found").Inc()
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = survey.ExtractTitle(input.Content)
	}

	preview := make([]QuestionPreview, 0, len(questions))
	for _, q := range questions {
		text, options := survey.ResolveOptions(string(q.QuestionType), q.QuestionText, q.Options)
		preview = append(preview, QuestionPreview{
			OrderIndex:   q.OrderIndex,
			QuestionText: text,
			QuestionType: string(q.QuestionType),
			Options:      options,
		})
	}

	h.logger.Info("survey extracted", map[string]interface{}{
		"title":         title,
		"questionCount": len(questions),
	})

	return &Output{
		Title:         title,
		Questions:     questions,
		QuestionCount: len(questions),
		Preview:       preview,
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
		"jobKey":        job.Key,
		"questionCount": output.QuestionCount,
	})
}
