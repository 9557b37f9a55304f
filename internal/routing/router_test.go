// internal/routing/router_test.go
package routing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/content/record"
)

// ==========================
// Test Store Implementation
// ==========================

type recordingStore struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
	inserted map[string][]record.Record
}

func newRecordingStore(failures map[string]error) *recordingStore {
	return &recordingStore{failures: failures, inserted: map[string][]record.Record{}}
}

func (s *recordingStore) Insert(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, table)
	if err, ok := s.failures[table]; ok {
		return record.Record{}, err
	}
	stored := rec.Clone()
	stored.Set("id", record.String("generated-id"))
	s.inserted[table] = append(s.inserted[table], stored)
	return stored, nil
}

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, store Store) *Router {
	return NewRouter(store, logger.NewTestLogger(t), WithClock(func() time.Time { return fixedNow }))
}

func businessRecord() record.Record {
	return record.New(
		record.Field{Name: "name", Value: record.String("Acme")},
		record.Field{Name: "industry", Value: record.String("Retail")},
		record.Field{Name: "description", Value: record.String("...")},
	)
}

// campaignRecord gates business, campaign and survey with distinct scores.
func campaignRecord() record.Record {
	return record.New(
		record.Field{Name: "name", Value: record.String("Spring launch")},
		record.Field{Name: "description", Value: record.String("Post-launch survey push")},
		record.Field{Name: "channel", Value: record.String("email")},
		record.Field{Name: "budget", Value: record.Number(5000)},
		record.Field{Name: "company_size", Value: record.String("50-100")},
	)
}

// ==========================
// Classifier Tests
// ==========================

func TestClassify_BusinessRecordRanksHighest(t *testing.T) {
	matches := NewClassifier(nil).Classify(businessRecord(), "")
	require.NotEmpty(t, matches)

	assert.Equal(t, DestinationBusiness, matches[0].Destination)
	assert.GreaterOrEqual(t, matches[0].Score, 20)
	assert.Equal(t, TierHigh, TierForScore(matches[0].Score))
	assert.Contains(t, matches[0].Reasoning, "industry")
}

func TestClassify_Scoring(t *testing.T) {
	catalog := []Schema{{
		Destination:    "thing",
		TriggerTerms:   []string{"thing"},
		ExpectedFields: []string{"title", "owner", "missing"},
	}}
	rec := record.New(
		record.Field{Name: "Thing_Title", Value: record.String("x")},
		record.Field{Name: "OWNER", Value: record.String("y")},
	)

	matches := NewClassifier(catalog).Classify(rec, "")
	require.Len(t, matches, 1)
	assert.Equal(t, 15, matches[0].Score)
}

func TestClassify_GateSources(t *testing.T) {
	rec := record.New(record.Field{Name: "notes", Value: record.String("nothing to see")})
	assert.Empty(t, NewClassifier(nil).Classify(rec, ""))

	byContext := NewClassifier(nil).Classify(rec, "User is editing a Survey draft")
	require.NotEmpty(t, byContext)
	assert.Equal(t, DestinationSurvey, byContext[0].Destination)
	assert.Equal(t, 0, byContext[0].Score)

	keyword := record.New(record.Field{Name: "notes", Value: record.String("Dark theme please")})
	byKeyword := NewClassifier(nil).Classify(keyword, "")
	require.Len(t, byKeyword, 1)
	assert.Equal(t, DestinationSetting, byKeyword[0].Destination)
}

func TestClassify_SortedDescendingWithStableTies(t *testing.T) {
	matches := NewClassifier(nil).Classify(campaignRecord(), "")
	require.Len(t, matches, 3)

	assert.Equal(t, DestinationCampaign, matches[0].Destination)
	assert.Equal(t, DestinationBusiness, matches[1].Destination)
	assert.Equal(t, DestinationSurvey, matches[2].Destination)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}

	tie := []Schema{
		{Destination: "first", TriggerTerms: []string{"x"}},
		{Destination: "second", TriggerTerms: []string{"x"}},
	}
	tied := NewClassifier(tie).Classify(record.New(record.Field{Name: "x", Value: record.Null()}), "")
	require.Len(t, tied, 2)
	assert.Equal(t, Destination("first"), tied[0].Destination)
}

func TestTierForScore(t *testing.T) {
	assert.Equal(t, TierHigh, TierForScore(20))
	assert.Equal(t, TierMedium, TierForScore(19))
	assert.Equal(t, TierMedium, TierForScore(10))
	assert.Equal(t, TierLow, TierForScore(9))
	assert.Equal(t, TierLow, TierForScore(0))
}

// ==========================
// Router Tests
// ==========================

func TestRouteAndSave_PrimarySuccess(t *testing.T) {
	store := newRecordingStore(nil)
	router := newTestRouter(t, store)

	result, err := router.RouteAndSave(context.Background(), businessRecord(), "")
	require.NoError(t, err)

	assert.True(t, result.Persisted)
	assert.Equal(t, DestinationBusiness, result.Destination)
	assert.Equal(t, "businesses", result.Table)
	assert.Equal(t, TierHigh, result.ConfidenceTier)
	assert.Equal(t, []string{"businesses"}, store.calls)

	created, _ := result.EnrichedRecord.GetString("created_at")
	updated, _ := result.EnrichedRecord.GetString("updated_at")
	assert.Equal(t, "2024-05-01T12:00:00Z", created)
	assert.Equal(t, "2024-05-01T12:00:00Z", updated)

	id, _ := result.StoredRecord.GetString("id")
	assert.Equal(t, "generated-id", id)
}

func TestRouteAndSave_KeepsExistingCreatedAt(t *testing.T) {
	rec := businessRecord()
	rec.Set("created_at", record.String("2020-01-01T00:00:00Z"))

	result, err := newTestRouter(t, newRecordingStore(nil)).RouteAndSave(context.Background(), rec, "")
	require.NoError(t, err)

	created, _ := result.EnrichedRecord.GetString("created_at")
	assert.Equal(t, "2020-01-01T00:00:00Z", created)
	assert.False(t, rec.Has("updated_at"), "input record must not be mutated")
}

func TestRouteAndSave_FallsBackToFirstAlternate(t *testing.T) {
	store := newRecordingStore(map[string]error{"campaigns": errors.New("relation does not exist")})
	router := newTestRouter(t, store)

	result, err := router.RouteAndSave(context.Background(), campaignRecord(), "")
	require.NoError(t, err)

	assert.True(t, result.Persisted)
	assert.Equal(t, DestinationBusiness, result.Destination)
	assert.Equal(t, []string{"campaigns", "businesses"}, store.calls)
	assert.Equal(t, []Destination{DestinationBusiness, DestinationSurvey}, result.Alternates)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, DestinationCampaign, result.Failed[0].Destination)
}

func TestRouteAndSave_AllDestinationsFailed(t *testing.T) {
	boom := errors.New("connection refused")
	store := newRecordingStore(map[string]error{
		"campaigns":  boom,
		"businesses": boom,
		"surveys":    boom,
	})
	router := newTestRouter(t, store)

	result, err := router.RouteAndSave(context.Background(), campaignRecord(), "")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllDestinationsFailed))
	assert.True(t, errors.Is(err, boom))

	var failed *AllDestinationsFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, []Destination{DestinationCampaign, DestinationBusiness, DestinationSurvey}, failed.Destinations())
	assert.Equal(t, []string{"campaigns", "businesses", "surveys"}, store.calls)
}

func TestRouteAndSave_TriesAtMostTwoAlternates(t *testing.T) {
	catalog := []Schema{
		{Destination: "a", Table: "a", TriggerTerms: []string{"x"}},
		{Destination: "b", Table: "b", TriggerTerms: []string{"x"}},
		{Destination: "c", Table: "c", TriggerTerms: []string{"x"}},
		{Destination: "d", Table: "d", TriggerTerms: []string{"x"}},
	}
	boom := errors.New("down")
	store := newRecordingStore(map[string]error{"a": boom, "b": boom, "c": boom})
	router := NewRouter(store, logger.NewNoOpLogger(), WithClassifier(NewClassifier(catalog)))

	_, err := router.RouteAndSave(context.Background(), record.New(record.Field{Name: "x", Value: record.Bool(true)}), "")
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, store.calls)
}

func TestRouteAndSave_NoDestination(t *testing.T) {
	store := newRecordingStore(nil)
	rec := record.New(record.Field{Name: "foo", Value: record.String("bar")})

	result, err := newTestRouter(t, store).RouteAndSave(context.Background(), rec, "")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrNoDestination))

	var noDest *NoDestinationError
	require.True(t, errors.As(err, &noDest))
	assert.Equal(t, []string{"foo"}, noDest.Fields)
	assert.Empty(t, store.calls)
}
