// internal/autosave/autosave_test.go
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-workers/internal/common/logger"
	"survey-workers/internal/content/record"
	"survey-workers/internal/routing"
	"survey-workers/internal/storage"
)

const testQueueKey = "autosave:jobs"

// ==========================
// Test Doubles
// ==========================

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []*routing.AllDestinationsFailedError
	jobs   []Job
}

func (a *fakeAlerter) Alert(ctx context.Context, job Job, failure *routing.AllDestinationsFailedError) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, failure)
	a.jobs = append(a.jobs, job)
	return nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	statuses []string
}

func (r *fakeRecorder) RecordJobProcessed(ctx context.Context, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *fakeRecorder) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {}

type fakePublisher struct {
	topic   string
	subject string
	message string
	err     error
}

func (p *fakePublisher) PublishMessage(ctx context.Context, topicARN, subject, message string) (string, error) {
	p.topic, p.subject, p.message = topicARN, subject, message
	return "msg-1", p.err
}

// ==========================
// Test Helper Functions
// ==========================

func businessRecord() record.Record {
	return record.New(
		record.Field{Name: "name", Value: record.String("Acme")},
		record.Field{Name: "industry", Value: record.String("Retail")},
		record.Field{Name: "description", Value: record.String("Corner shop")},
	)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestWorker(t *testing.T, store *storage.MemoryStore, queue Queue, opts ...WorkerOption) *Worker {
	log := logger.NewTestLogger(t)
	router := routing.NewRouter(store, log)
	return NewWorker(&Config{Workers: 2, JobTimeout: time.Second, RetryDelay: 10 * time.Millisecond}, queue, router, log, opts...)
}

// ==========================
// Memory Queue Tests
// ==========================

func TestMemoryQueue_FIFO(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()

	first := NewJob(businessRecord(), "a")
	second := NewJob(businessRecord(), "b")
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))
	assert.ErrorIs(t, q.Enqueue(ctx, NewJob(businessRecord(), "c")), ErrQueueFull)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 1, q.Len())
}

func TestMemoryQueue_Close(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, NewJob(businessRecord(), "")))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue(ctx, NewJob(businessRecord(), "")), ErrQueueClosed)

	_, err := q.Dequeue(ctx)
	assert.NoError(t, err, "buffered jobs drain after close")
	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestMemoryQueue_DequeueHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewJob_CopiesRecord(t *testing.T) {
	rec := businessRecord()
	job := NewJob(rec, "business")
	rec.Set("name", record.String("changed"))

	name, _ := job.Record.GetString("name")
	assert.Equal(t, "Acme", name)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "business", job.Context)
}

// ==========================
// Redis Queue Tests
// ==========================

func TestRedisQueue_RoundTrip(t *testing.T) {
	client := setupRedis(t)
	q := NewRedisQueue(client, testQueueKey, time.Second)
	ctx := context.Background()

	job := NewJob(businessRecord(), "business profile")
	require.NoError(t, q.Enqueue(ctx, job))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.Context, got.Context)
	assert.Equal(t, []string{"name", "industry", "description"}, got.Record.Keys())
	assert.True(t, job.EnqueuedAt.Equal(got.EnqueuedAt))
}

func TestRedisQueue_DequeueStopsOnContext(t *testing.T) {
	client := setupRedis(t)
	q := NewRedisQueue(client, testQueueKey, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisQueue_EnqueueError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, testQueueKey, time.Second)

	job := NewJob(businessRecord(), "")
	payload, err := json.Marshal(job)
	require.NoError(t, err)
	mock.ExpectLPush(testQueueKey, payload).SetErr(errors.New("connection refused"))

	err = q.Enqueue(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueue_DequeueError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, testQueueKey, time.Second)

	mock.ExpectBRPop(time.Second, testQueueKey).SetErr(errors.New("LOADING dataset in memory"))

	_, err := q.Dequeue(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brpop")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Worker Tests
// ==========================

func TestWorker_ProcessPersisted(t *testing.T) {
	store := storage.NewMemoryStore()
	recorder := &fakeRecorder{}
	w := newTestWorker(t, store, NewMemoryQueue(1), WithRecorder(recorder))

	status := w.Process(context.Background(), NewJob(businessRecord(), ""))
	assert.Equal(t, StatusPersisted, status)
	assert.Len(t, store.Records("businesses"), 1)
	assert.Equal(t, []string{StatusPersisted}, recorder.statuses)
}

func TestWorker_ProcessAllFailedAlerts(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailTable("businesses", errors.New("disk full"))
	alerter := &fakeAlerter{}
	w := newTestWorker(t, store, NewMemoryQueue(1), WithAlerter(alerter))

	job := NewJob(businessRecord(), "")
	status := w.Process(context.Background(), job)

	assert.Equal(t, StatusAllFailed, status)
	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, []routing.Destination{routing.DestinationBusiness}, alerter.alerts[0].Destinations())
	assert.Equal(t, job.ID, alerter.jobs[0].ID)
}

func TestWorker_ProcessNoDestination(t *testing.T) {
	alerter := &fakeAlerter{}
	w := newTestWorker(t, storage.NewMemoryStore(), NewMemoryQueue(1), WithAlerter(alerter))

	rec := record.New(record.Field{Name: "foo", Value: record.String("bar")})
	assert.Equal(t, StatusNoDestination, w.Process(context.Background(), NewJob(rec, "")))
	assert.Empty(t, alerter.alerts)
}

func TestWorker_RunDrainsQueue(t *testing.T) {
	store := storage.NewMemoryStore()
	q := NewMemoryQueue(10)
	log := logger.NewTestLogger(t)

	for i := 0; i < 3; i++ {
		_, err := Submit(context.Background(), q, businessRecord(), "", log)
		require.NoError(t, err)
	}
	require.NoError(t, q.Close())

	done := make(chan struct{})
	go func() {
		newTestWorker(t, store, q).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after queue closed")
	}
	assert.Len(t, store.Records("businesses"), 3)
}

func TestSubmit_QueueFull(t *testing.T) {
	q := NewMemoryQueue(1)
	log := logger.NewNoOpLogger()

	_, err := Submit(context.Background(), q, businessRecord(), "", log)
	require.NoError(t, err)
	_, err = Submit(context.Background(), q, businessRecord(), "", log)
	assert.ErrorIs(t, err, ErrQueueFull)
}

// ==========================
// Alerter Tests
// ==========================

func TestSNSAlerter_Alert(t *testing.T) {
	pub := &fakePublisher{}
	alerter := NewSNSAlerter(pub, "arn:aws:sns:us-east-1:123456789012:autosave-dlq")

	job := NewJob(businessRecord(), "business")
	failure := &routing.AllDestinationsFailedError{Attempts: []routing.Attempt{
		{Destination: routing.DestinationBusiness, Table: "businesses", Err: errors.New("disk full")},
	}}
	require.NoError(t, alerter.Alert(context.Background(), job, failure))

	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:autosave-dlq", pub.topic)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(pub.message), &body))
	assert.Equal(t, job.ID, body["jobId"])
	attempts := body["attempts"].([]interface{})
	require.Len(t, attempts, 1)
	assert.Equal(t, "disk full", attempts[0].(map[string]interface{})["error"])
}

func TestSNSAlerter_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("throttled")}
	err := NewSNSAlerter(pub, "topic").Alert(context.Background(), NewJob(businessRecord(), ""), &routing.AllDestinationsFailedError{})
	assert.Error(t, err)
}
