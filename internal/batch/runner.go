// Package batch runs bulk person enrichment. A Runner fans input
// records out over a worker pool, answers repeats from the response
// cache, and writes matched persons to the configured sinks.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/piplapis/piplapis-go/internal/common/cache"
	"github.com/piplapis/piplapis-go/internal/common/config"
	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/internal/common/metrics"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// Searcher runs one identity search. *pipl.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, req *pipl.SearchRequest) (*pipl.SearchResponse, error)
}

// Result is the outcome of one batch record.
type Result struct {
	RecordID  string
	Response  *pipl.SearchResponse
	FromCache bool
	Duration  time.Duration
	Err       *apperrors.StandardError
}

// Summary aggregates one batch run.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	CacheHits int
	Duration  time.Duration
	Results   []Result
}

// Runner drives a batch of records through the search API.
type Runner struct {
	searcher Searcher
	cache    cache.Cache
	sinks    []Sink
	errs     *apperrors.ErrorHandler
	logger   logger.Logger

	concurrency int
	maxRetries  int
	retryDelay  time.Duration
}

// NewRunner builds a runner. The cache may be nil to search without
// one, and sinks may be empty to only collect results in memory.
func NewRunner(cfg config.BatchConfig, searcher Searcher, store cache.Cache, sinks []Sink, log logger.Logger) *Runner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryDelay < 1 {
		cfg.RetryDelay = 1000
	}

	return &Runner{
		searcher:    searcher,
		cache:       store,
		sinks:       sinks,
		errs:        apperrors.NewErrorHandler(log),
		logger:      log.WithFields(map[string]interface{}{"component": "batch-runner"}),
		concurrency: cfg.Concurrency,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  time.Duration(cfg.RetryDelay) * time.Millisecond,
	}
}

// Run processes the records and blocks until every scheduled record
// has finished. Cancelling the context stops further scheduling;
// records already in flight run to completion.
func (r *Runner) Run(ctx context.Context, records []Record) (*Summary, error) {
	pool, err := ants.NewPool(r.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	r.logger.Info("batch run started", map[string]interface{}{
		"records":     len(records),
		"concurrency": r.concurrency,
	})

	start := time.Now()
	results := make([]Result, len(records))

	var wg sync.WaitGroup
	scheduled := 0
	for i := range records {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled, remaining records not scheduled", map[string]interface{}{
				"scheduled": scheduled,
				"remaining": len(records) - scheduled,
			})
			break
		}

		record := records[i]
		if record.ID == "" {
			record.ID = uuid.New().String()
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.processRecord(ctx, record)
		}); err != nil {
			wg.Done()
			results[i] = Result{RecordID: record.ID, Err: r.errs.HandleRecordError(record.ID, err)}
		}
		scheduled++
	}
	wg.Wait()

	summary := &Summary{
		Processed: scheduled,
		Duration:  time.Since(start),
		Results:   results[:scheduled],
	}
	for _, result := range summary.Results {
		if result.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		if result.FromCache {
			summary.CacheHits++
		}
	}

	r.logger.Info("batch run finished", map[string]interface{}{
		"processed":  summary.Processed,
		"succeeded":  summary.Succeeded,
		"failed":     summary.Failed,
		"cacheHits":  summary.CacheHits,
		"durationMs": summary.Duration.Milliseconds(),
	})
	return summary, nil
}

func (r *Runner) processRecord(ctx context.Context, record Record) Result {
	metrics.BatchRecordsActive.WithLabelValues("processing").Inc()
	defer metrics.BatchRecordsActive.WithLabelValues("processing").Dec()

	start := time.Now()
	resp, fromCache, err := r.search(ctx, record)
	if err != nil {
		stdErr := r.errs.HandleRecordError(record.ID, err)
		metrics.SearchesFailed.WithLabelValues(string(stdErr.Code)).Inc()
		metrics.SearchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return Result{RecordID: record.ID, Duration: time.Since(start), Err: stdErr}
	}

	outcome := responseOutcome(resp)
	metrics.SearchesCompleted.WithLabelValues(outcome).Inc()
	metrics.SearchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err := r.store(ctx, record, resp); err != nil {
		stdErr := r.errs.HandleRecordError(record.ID, err)
		metrics.SearchesFailed.WithLabelValues(string(stdErr.Code)).Inc()
		return Result{RecordID: record.ID, Response: resp, FromCache: fromCache, Duration: time.Since(start), Err: stdErr}
	}

	r.logger.Debug("record processed", map[string]interface{}{
		"recordId":  record.ID,
		"outcome":   outcome,
		"fromCache": fromCache,
	})
	return Result{RecordID: record.ID, Response: resp, FromCache: fromCache, Duration: time.Since(start)}
}

// search answers the record from the cache when it can. Cache failures
// degrade to a live search rather than failing the record.
func (r *Runner) search(ctx context.Context, record Record) (*pipl.SearchResponse, bool, error) {
	key := record.CacheKey()
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			var resp pipl.SearchResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				return &resp, true, nil
			}
			metrics.CacheLookups.WithLabelValues("error").Inc()
			r.logger.Warn("discarding unreadable cache entry", map[string]interface{}{
				"cacheKey": key,
			})
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("error").Inc()
			r.logger.Warn("cache lookup failed", map[string]interface{}{
				"cacheKey": key,
				"error":    err.Error(),
			})
		}
	}

	req := record.SearchRequest()
	var resp *pipl.SearchResponse
	err := r.retryWithBackoff(ctx, "search", func() error {
		var err error
		resp, err = r.searcher.Search(ctx, req)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	recordQuota(resp.Quota)

	if r.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := r.cache.Set(ctx, key, payload); err != nil {
				r.logger.Warn("cache write failed", map[string]interface{}{
					"cacheKey": key,
					"error":    err.Error(),
				})
			}
		}
	}
	return resp, false, nil
}

func (r *Runner) store(ctx context.Context, record Record, resp *pipl.SearchResponse) error {
	for _, sink := range r.sinks {
		name := sink.Name()
		err := r.retryWithBackoff(ctx, name+" write", func() error {
			return sink.Store(ctx, record, resp)
		})
		if err != nil {
			metrics.SinkWrites.WithLabelValues(name, "error").Inc()
			return err
		}
		metrics.SinkWrites.WithLabelValues(name, "ok").Inc()
	}
	return nil
}

// retryWithBackoff attempts an operation with exponential backoff.
// Errors that classify as non-retryable stop the loop immediately.
func (r *Runner) retryWithBackoff(ctx context.Context, operationName string, operation func() error) error {
	var err error
	delay := r.retryDelay

	for i := 0; i < r.maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if !apperrors.Normalize(err).Retryable {
			return err
		}

		if i < r.maxRetries-1 {
			r.logger.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  r.maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return err
			}
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.maxRetries, err)
}

// recordQuota publishes the per-key rate and quota headers that ride
// on live responses. Cached responses carry no quota state.
func recordQuota(q *pipl.QuotaInfo) {
	if q == nil {
		return
	}
	metrics.APIQuota.WithLabelValues("qps_allotted").Set(float64(q.QPSAllotted))
	metrics.APIQuota.WithLabelValues("qps_current").Set(float64(q.QPSCurrent))
	metrics.APIQuota.WithLabelValues("quota_allotted").Set(float64(q.QuotaAllotted))
	metrics.APIQuota.WithLabelValues("quota_current").Set(float64(q.QuotaCurrent))
}

func responseOutcome(resp *pipl.SearchResponse) string {
	switch {
	case resp.Person != nil:
		return "match"
	case len(resp.PossiblePersons) > 0:
		return "possible_matches"
	default:
		return "no_match"
	}
}
