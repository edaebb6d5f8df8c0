// internal/batch/runner_test.go
package batch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piplapis/piplapis-go/internal/common/cache"
	"github.com/piplapis/piplapis-go/internal/common/config"
	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// ==========================
// Test Helper Functions
// ==========================

const runnerMatchResponse = `{
	"@http_status_code": 200,
	"@search_id": "1582",
	"person": {"emails": [{"address": "clark.kent@example.com"}]}
}`

func newRunnerClient(t *testing.T, handler http.HandlerFunc) *pipl.Client {
	t.Helper()

	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	client, err := pipl.NewClient(pipl.Settings{
		APIKey:     "samplekey",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client
}

func newRunnerCache(t *testing.T) cache.Cache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCacheFromClient(client, time.Minute)
}

func testBatchConfig() config.BatchConfig {
	return config.BatchConfig{Concurrency: 2, MaxRetries: 3, RetryDelay: 1}
}

type memorySink struct {
	mu     sync.Mutex
	stored []Record
	calls  int
	fail   error
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Store(ctx context.Context, record Record, resp *pipl.SearchResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		return s.fail
	}
	s.stored = append(s.stored, record)
	return nil
}

func (s *memorySink) Close() error { return nil }

// ==========================
// Runner Tests
// ==========================

func TestRunner_Run_ProcessesAllRecords(t *testing.T) {
	var requests int64
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(runnerMatchResponse))
	})

	sink := &memorySink{}
	runner := NewRunner(testBatchConfig(), client, nil, []Sink{sink}, logger.NewTestLogger(t))

	records := []Record{
		{Email: "clark.kent@example.com"},
		{Email: "lois.lane@example.com"},
		{Email: "jimmy.olsen@example.com"},
	}
	summary, err := runner.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))
	assert.Len(t, sink.stored, 3)

	seen := map[string]bool{}
	for _, result := range summary.Results {
		assert.NotEmpty(t, result.RecordID)
		assert.False(t, seen[result.RecordID], "record IDs must be unique")
		seen[result.RecordID] = true

		require.NotNil(t, result.Response)
		assert.Equal(t, "1582", result.Response.SearchID)
		assert.Nil(t, result.Err)
	}
}

func TestRunner_Run_ServesRepeatsFromCache(t *testing.T) {
	var requests int64
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(runnerMatchResponse))
	})

	// One worker keeps the processing order deterministic.
	cfg := config.BatchConfig{Concurrency: 1, MaxRetries: 1, RetryDelay: 1}
	runner := NewRunner(cfg, client, newRunnerCache(t), nil, logger.NewTestLogger(t))

	records := []Record{
		{ID: "rec-1", Email: "clark.kent@example.com"},
		{ID: "rec-2", Email: "clark.kent@example.com"},
	}
	summary, err := runner.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.EqualValues(t, 1, atomic.LoadInt64(&requests))
	assert.Equal(t, 1, summary.CacheHits)

	assert.False(t, summary.Results[0].FromCache)
	assert.True(t, summary.Results[1].FromCache)
	require.NotNil(t, summary.Results[1].Response)
	assert.Equal(t, "1582", summary.Results[1].Response.SearchID)
}

func TestRunner_Run_RetriesServerErrors(t *testing.T) {
	var requests int64
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "Internal server error", "@http_status_code": 500}`))
			return
		}
		w.Write([]byte(runnerMatchResponse))
	})

	cfg := config.BatchConfig{Concurrency: 1, MaxRetries: 3, RetryDelay: 1}
	runner := NewRunner(cfg, client, nil, nil, logger.NewTestLogger(t))

	summary, err := runner.Run(context.Background(), []Record{{Email: "clark.kent@example.com"}})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))
}

func TestRunner_Run_DoesNotRetryUserErrors(t *testing.T) {
	var requests int64
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Empty search object", "@http_status_code": 400}`))
	})

	runner := NewRunner(testBatchConfig(), client, nil, nil, logger.NewTestLogger(t))

	summary, err := runner.Run(context.Background(), []Record{{ID: "rec-1", Email: "clark.kent@example.com"}})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.EqualValues(t, 1, atomic.LoadInt64(&requests), "user errors must not be retried")

	result := summary.Results[0]
	require.NotNil(t, result.Err)
	assert.Equal(t, apperrors.ErrCodeInvalidQuery, result.Err.Code)
	assert.False(t, result.Err.Retryable)
}

func TestRunner_Run_SinkFailureFailsRecord(t *testing.T) {
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(runnerMatchResponse))
	})

	sink := &memorySink{fail: apperrors.NewStorageWriteFailedError("memory", errors.New("disk full"))}
	cfg := config.BatchConfig{Concurrency: 1, MaxRetries: 2, RetryDelay: 1}
	runner := NewRunner(cfg, client, nil, []Sink{sink}, logger.NewTestLogger(t))

	summary, err := runner.Run(context.Background(), []Record{{ID: "rec-1", Email: "clark.kent@example.com"}})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, sink.calls, "storage errors are retried")

	result := summary.Results[0]
	require.NotNil(t, result.Err)
	assert.Equal(t, apperrors.ErrCodeStorageWriteFailed, result.Err.Code)
	require.NotNil(t, result.Response, "search result survives a sink failure")
}

func TestRunner_Run_CancelledContextSchedulesNothing(t *testing.T) {
	client := newRunnerClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected after cancellation")
	})

	runner := NewRunner(testBatchConfig(), client, nil, nil, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.Run(ctx, []Record{{Email: "clark.kent@example.com"}})
	require.NoError(t, err)

	assert.Zero(t, summary.Processed)
	assert.Empty(t, summary.Results)
}
