// internal/routing/router.go
package routing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/common/metrics"
	"survey-workers/internal/content/record"
)

const tracerName = "survey-workers/routing"

// maxAlternates is how many lower-ranked matches are tried after the best one.
const maxAlternates = 2

type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

func TierForScore(score int) Tier {
	switch {
	case score >= 20:
		return TierHigh
	case score >= 10:
		return TierMedium
	default:
		return TierLow
	}
}

// Store persists a record into a table and returns the stored row.
type Store interface {
	Insert(ctx context.Context, table string, rec record.Record) (record.Record, error)
}

type Result struct {
	Destination    Destination   `json:"destination"`
	Table          string        `json:"table"`
	ConfidenceTier Tier          `json:"confidenceTier"`
	Score          int           `json:"score"`
	Reasoning      string        `json:"reasoning"`
	EnrichedRecord record.Record `json:"enrichedRecord"`
	StoredRecord   record.Record `json:"storedRecord"`
	Alternates     []Destination `json:"alternates"`
	Persisted      bool          `json:"persisted"`
	Failed         []Attempt     `json:"failedAttempts,omitempty"`
}

type Router struct {
	classifier *Classifier
	store      Store
	logger     logger.Logger
	now        func() time.Time
	tracer     trace.Tracer
}

type Option func(*Router)

func WithClassifier(c *Classifier) Option {
	return func(r *Router) { r.classifier = c }
}

func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Router) { r.tracer = t }
}

func NewRouter(store Store, log logger.Logger, opts ...Option) *Router {
	r := &Router{
		classifier: NewClassifier(nil),
		store:      store,
		logger:     log.WithFields(map[string]interface{}{"component": "router"}),
		now:        time.Now,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify ranks destinations without persisting anything.
func (r *Router) Classify(rec record.Record, hint string) []Match {
	return r.classifier.Classify(rec, hint)
}

// RouteAndSave persists rec into its best destination, falling back to at
// most two alternates. Each destination is tried once, in rank order.
func (r *Router) RouteAndSave(ctx context.Context, rec record.Record, hint string) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "routing.RouteAndSave")
	defer span.End()

	matches := r.classifier.Classify(rec, hint)
	if len(matches) == 0 {
		err := &NoDestinationError{Fields: rec.Keys()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "no destination")
		metrics.RouteOutcomes.WithLabelValues("none", "no_destination").Inc()
		return nil, err
	}

	best := matches[0]
	candidates := matches[:min(len(matches), 1+maxAlternates)]

	alternates := make([]Destination, 0, len(candidates)-1)
	for _, m := range candidates[1:] {
		alternates = append(alternates, m.Destination)
	}

	result := &Result{
		Destination:    best.Destination,
		ConfidenceTier: TierForScore(best.Score),
		Score:          best.Score,
		Reasoning:      best.Reasoning,
		EnrichedRecord: r.enrich(rec),
		Alternates:     alternates,
	}
	span.SetAttributes(
		attribute.String("routing.best", string(best.Destination)),
		attribute.String("routing.tier", string(result.ConfidenceTier)),
		attribute.Int("routing.candidates", len(candidates)),
	)

	for i, m := range candidates {
		table := r.tableFor(m.Destination)
		stored, err := r.store.Insert(ctx, table, result.EnrichedRecord)
		if err != nil {
			r.logger.Warn("Insert failed, trying next destination", map[string]interface{}{
				"destination": m.Destination,
				"table":       table,
				"attempt":     i + 1,
				"error":       err.Error(),
			})
			metrics.RouteAttempts.WithLabelValues(string(m.Destination), "failed").Inc()
			result.Failed = append(result.Failed, Attempt{Destination: m.Destination, Table: table, Err: err})
			continue
		}

		metrics.RouteAttempts.WithLabelValues(string(m.Destination), "success").Inc()
		metrics.RouteOutcomes.WithLabelValues(string(m.Destination), "persisted").Inc()
		result.Destination = m.Destination
		result.Table = table
		result.StoredRecord = stored
		result.Persisted = true
		span.SetAttributes(attribute.String("routing.destination", string(m.Destination)))

		r.logger.Info("Record persisted", map[string]interface{}{
			"destination":    m.Destination,
			"table":          table,
			"confidenceTier": result.ConfidenceTier,
			"score":          best.Score,
			"fallback":       i > 0,
		})
		return result, nil
	}

	err := &AllDestinationsFailedError{Attempts: result.Failed}
	span.RecordError(err)
	span.SetStatus(codes.Error, "all destinations failed")
	metrics.RouteOutcomes.WithLabelValues(string(best.Destination), "all_failed").Inc()
	return nil, err
}

// enrich stamps timestamps on a copy of rec. created_at is kept when present.
func (r *Router) enrich(rec record.Record) record.Record {
	enriched := rec.Clone()
	now := record.String(r.now().UTC().Format(time.RFC3339))
	if !enriched.Has("created_at") {
		enriched.Set("created_at", now)
	}
	enriched.Set("updated_at", now)
	return enriched
}

func (r *Router) tableFor(dest Destination) string {
	if schema, ok := r.classifier.Schema(dest); ok && schema.Table != "" {
		return schema.Table
	}
	return string(dest)
}
