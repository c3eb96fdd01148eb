// Package pipeline orchestrates an ingestion run: list every register entry,
// fetch and normalize documents on one worker pool, commit them on another.
// The queue between the pools is bounded so a slow database applies
// backpressure to fetching. A document failure is recorded and the run moves
// on; only listing failures and context cancellation end a run early.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/document"
	"lobbyreg/internal/normalize"
	"lobbyreg/internal/pipeline/metrics"
	"lobbyreg/internal/source"
)

// Source lists register entries and fetches their documents.
type Source interface {
	ListEntries(ctx context.Context) ([]string, source.Provenance, error)
	FetchEntry(ctx context.Context, registerNumber string) (document.Raw, error)
}

// Committer persists one normalized document atomically.
type Committer interface {
	Commit(ctx context.Context, root *catalog.Record) error
}

// Config sizes the run. Zero values fall back to defaults.
type Config struct {
	FetchWorkers   int
	PersistWorkers int
	QueueSize      int

	// Retry policy for transient fetch errors.
	MaxRetries   int
	Backoff      time.Duration
	BackoffMax   time.Duration
	FetchTimeout time.Duration

	// PersistTimeout bounds one document commit. A commit that exceeds it
	// fails terminally; its transaction state is indeterminate, so it is
	// never retried.
	PersistTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.FetchWorkers <= 0 {
		c.FetchWorkers = 4
	}
	if c.PersistWorkers <= 0 {
		c.PersistWorkers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 32
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 30 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 60 * time.Second
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = 60 * time.Second
	}
	return c
}

// Pipeline runs ingestions.
type Pipeline struct {
	src     Source
	store   Committer
	cfg     Config
	log     *log.Logger
	metrics *metrics.Metrics
}

// New assembles a pipeline. metrics may be nil.
func New(src Source, store Committer, cfg Config, logger *log.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{src: src, store: store, cfg: cfg.withDefaults(), log: logger, metrics: m}
}

type fetched struct {
	number string
	rec    *catalog.Record
}

// Run ingests every listed register entry once. The returned report is valid
// even when the run was cancelled; err is non-nil only for listing failures
// and cancellation.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	numbers, prov, err := p.listWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("list register entries: %w", err)
	}
	report := newReport(len(numbers))
	p.log.Printf("run %s: ingesting %d register entries", report.RunID, len(numbers))

	jobs := make(chan string)
	queue := make(chan fetched, p.cfg.QueueSize)

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, number := range numbers {
			select {
			case jobs <- number:
			case <-runCtx.Done():
				return runCtx.Err()
			}
		}
		return nil
	})

	var fetchers errgroup.Group
	for i := 0; i < p.cfg.FetchWorkers; i++ {
		fetchers.Go(func() error {
			for number := range jobs {
				rec, stage, err := p.fetchAndNormalize(runCtx, number, prov)
				if err != nil {
					if runCtx.Err() != nil {
						return runCtx.Err()
					}
					p.fail(report, number, stage, err)
					continue
				}
				select {
				case queue <- fetched{number: number, rec: rec}:
					p.metrics.SetQueueDepth(len(queue))
				case <-runCtx.Done():
					return runCtx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(queue)
		return fetchers.Wait()
	})

	for i := 0; i < p.cfg.PersistWorkers; i++ {
		g.Go(func() error {
			for f := range queue {
				p.metrics.SetQueueDepth(len(queue))
				start := time.Now()
				commitCtx, cancel := context.WithTimeout(runCtx, p.cfg.PersistTimeout)
				err := p.store.Commit(commitCtx, f.rec)
				cancel()
				if err != nil {
					if runCtx.Err() != nil {
						return runCtx.Err()
					}
					p.fail(report, f.number, StagePersist, err)
					continue
				}
				p.metrics.ObserveStage(string(StagePersist), time.Since(start))
				p.metrics.DocumentDone(false)
				report.success()
			}
			return nil
		})
	}

	err = g.Wait()
	report.Finished = time.Now()
	p.log.Printf("run %s: %d succeeded, %d failed", report.RunID, report.Succeeded(), report.Failed())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return report, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}
	return report, nil
}

func (p *Pipeline) fetchAndNormalize(ctx context.Context, number string, prov source.Provenance) (*catalog.Record, Stage, error) {
	start := time.Now()
	doc, err := p.fetchWithRetry(ctx, number)
	if err != nil {
		return nil, StageFetch, err
	}
	p.metrics.ObserveStage(string(StageFetch), time.Since(start))

	start = time.Now()
	rec, err := normalize.Normalize(doc, normalize.Provenance{
		Source:     prov.Source,
		SourceURL:  prov.SourceURL,
		SourceDate: prov.SourceDate,
		JSONDocURL: prov.JSONDocURL,
	}, time.Now())
	if err != nil {
		p.log.Printf("malformed document %s: %v; payload: %s", number, err, docExcerpt(doc))
		return nil, StageNormalize, err
	}
	p.metrics.ObserveStage(string(StageNormalize), time.Since(start))
	return rec, "", nil
}

// fetchWithRetry retries transient source errors with capped exponential
// backoff. Terminal errors and exhausted retries surface to the caller.
func (p *Pipeline) fetchWithRetry(ctx context.Context, number string) (document.Raw, error) {
	backoff := p.cfg.Backoff
	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			p.metrics.FetchRetried()
			p.log.Printf("retrying %s (attempt %d/%d) after %v: %v",
				number, attempt+1, p.cfg.MaxRetries+1, backoff, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
			if backoff > p.cfg.BackoffMax {
				backoff = p.cfg.BackoffMax
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		doc, err := p.src.FetchEntry(attemptCtx, number)
		cancel()
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !source.IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", p.cfg.MaxRetries+1, lastErr)
}

func (p *Pipeline) listWithRetry(ctx context.Context) ([]string, source.Provenance, error) {
	backoff := p.cfg.Backoff
	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, source.Provenance{}, ctx.Err()
			}
			backoff *= 2
			if backoff > p.cfg.BackoffMax {
				backoff = p.cfg.BackoffMax
			}
		}
		numbers, prov, err := p.src.ListEntries(ctx)
		if err == nil {
			return numbers, prov, nil
		}
		if ctx.Err() != nil {
			return nil, source.Provenance{}, ctx.Err()
		}
		if !source.IsTransient(err) {
			return nil, source.Provenance{}, err
		}
		lastErr = err
	}
	return nil, source.Provenance{}, lastErr
}

// docExcerpt renders a bounded prefix of a document for failure logs.
func docExcerpt(doc document.Raw) string {
	b, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

func (p *Pipeline) fail(report *Report, number string, stage Stage, err error) {
	e := &DocumentError{RegisterNumber: number, Stage: stage, Err: err}
	p.log.Printf("run failure: %v", e)
	p.metrics.DocumentDone(true)
	report.failure(e)
}
