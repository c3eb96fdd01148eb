package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/document"
	"lobbyreg/internal/source"
)

type fakeSource struct {
	numbers []string

	mu       sync.Mutex
	fetches  map[string]int
	failures map[string][]error // errors returned before success, per number
	docs     map[string]document.Raw
	listErr  error
}

func newFakeSource(numbers ...string) *fakeSource {
	docs := make(map[string]document.Raw, len(numbers))
	for _, n := range numbers {
		docs[n] = document.Raw{"registerNumber": n}
	}
	return &fakeSource{
		numbers:  numbers,
		fetches:  map[string]int{},
		failures: map[string][]error{},
		docs:     docs,
	}
}

func (f *fakeSource) ListEntries(context.Context) ([]string, source.Provenance, error) {
	if f.listErr != nil {
		return nil, source.Provenance{}, f.listErr
	}
	return f.numbers, source.Provenance{Source: "test"}, nil
}

func (f *fakeSource) FetchEntry(_ context.Context, number string) (document.Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[number]++
	if queued := f.failures[number]; len(queued) > 0 {
		err := queued[0]
		f.failures[number] = queued[1:]
		return nil, err
	}
	return f.docs[number], nil
}

func (f *fakeSource) fetchCount(number string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[number]
}

type fakeCommitter struct {
	mu        sync.Mutex
	committed []string
	errFor    map[string]error
	block     chan struct{} // when set, Commit waits until closed
	inflight  atomic.Int32
}

func (f *fakeCommitter) Commit(ctx context.Context, root *catalog.Record) error {
	if f.block != nil {
		f.inflight.Add(1)
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	number, _ := root.Fields["register_number"].(string)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor[number]; err != nil {
		return err
	}
	f.committed = append(f.committed, number)
	return nil
}

func (f *fakeCommitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.committed)
}

func testConfig() Config {
	return Config{
		FetchWorkers:   3,
		PersistWorkers: 2,
		QueueSize:      4,
		MaxRetries:     2,
		Backoff:        time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
		FetchTimeout:   time.Second,
	}
}

func newTestPipeline(src Source, store Committer) *Pipeline {
	return New(src, store, testConfig(), log.New(io.Discard, "", 0), nil)
}

func TestRunIngestsEverything(t *testing.T) {
	var numbers []string
	for i := 0; i < 50; i++ {
		numbers = append(numbers, fmt.Sprintf("R%06d", i))
	}
	src := newFakeSource(numbers...)
	store := &fakeCommitter{}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, report.Listed)
	assert.Equal(t, 50, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, 50, store.count())
	assert.NotEqual(t, report.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRunRetriesTransientFetch(t *testing.T) {
	src := newFakeSource("R000001")
	src.failures["R000001"] = []error{
		&source.TransientError{Err: errors.New("http 502")},
		&source.TransientError{Err: errors.New("http 502")},
	}
	store := &fakeCommitter{}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 3, src.fetchCount("R000001"), "two failures then success")
}

func TestRunGivesUpAfterMaxRetries(t *testing.T) {
	src := newFakeSource("R000001", "R000002")
	transient := &source.TransientError{Err: errors.New("http 503")}
	src.failures["R000001"] = []error{transient, transient, transient}
	store := &fakeCommitter{}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err, "a failing document must not abort the run")

	assert.Equal(t, 1, report.Succeeded())
	require.Equal(t, 1, report.Failed())
	failure := report.Failures()[0]
	assert.Equal(t, "R000001", failure.RegisterNumber)
	assert.Equal(t, StageFetch, failure.Stage)
	assert.Equal(t, 3, src.fetchCount("R000001"), "max retries plus the first attempt")
}

func TestRunTerminalFetchErrorIsNotRetried(t *testing.T) {
	src := newFakeSource("R000001")
	src.failures["R000001"] = []error{source.ErrNotFound}
	store := &fakeCommitter{}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, report.Failures()[0], source.ErrNotFound)
	assert.Equal(t, 1, src.fetchCount("R000001"))
}

func TestRunRecordsMalformedDocuments(t *testing.T) {
	src := newFakeSource("R000001", "R000002")
	src.docs["R000001"] = document.Raw{"registerNumber": "R000001", "clientIdentity": map[string]any{"clientsCount": "many"}}
	store := &fakeCommitter{}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Succeeded())
	require.Equal(t, 1, report.Failed())
	assert.Equal(t, StageNormalize, report.Failures()[0].Stage)
}

func TestRunLogsMalformedPayloadExcerpt(t *testing.T) {
	src := newFakeSource("R000001")
	src.docs["R000001"] = document.Raw{
		"registerNumber": "R000001",
		"clientIdentity": map[string]any{"clientsCount": "many"},
		"filler":         strings.Repeat("x", 4096),
	}

	var buf bytes.Buffer
	report, err := New(src, &fakeCommitter{}, testConfig(), log.New(&buf, "", 0), nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Failed())

	out := buf.String()
	assert.Contains(t, out, "malformed document R000001")
	assert.Contains(t, out, "clientsCount")
	for _, line := range strings.Split(out, "\n") {
		assert.Less(t, len(line), 1024, "payload excerpt must be bounded")
	}
}

func TestRunRecordsPersistFailures(t *testing.T) {
	src := newFakeSource("R000001", "R000002", "R000003")
	store := &fakeCommitter{errFor: map[string]error{"R000002": errors.New("constraint conflict")}}

	report, err := newTestPipeline(src, store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	require.Equal(t, 1, report.Failed())
	failure := report.Failures()[0]
	assert.Equal(t, "R000002", failure.RegisterNumber)
	assert.Equal(t, StagePersist, failure.Stage)
}

func TestRunHungCommitTimesOutTerminally(t *testing.T) {
	src := newFakeSource("R000001", "R000002")
	store := &fakeCommitter{block: make(chan struct{})}

	cfg := testConfig()
	cfg.PersistTimeout = 10 * time.Millisecond
	report, err := New(src, store, cfg, log.New(io.Discard, "", 0), nil).Run(context.Background())
	require.NoError(t, err, "a hung commit must not abort the run")

	assert.Equal(t, 0, report.Succeeded())
	require.Equal(t, 2, report.Failed())
	for _, f := range report.Failures() {
		assert.Equal(t, StagePersist, f.Stage)
		assert.ErrorIs(t, f, context.DeadlineExceeded)
	}
}

func TestRunListingFailureIsFatal(t *testing.T) {
	src := newFakeSource("R000001")
	src.listErr = errors.New("http 401")

	report, err := newTestPipeline(src, &fakeCommitter{}).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestRunCancellation(t *testing.T) {
	var numbers []string
	for i := 0; i < 200; i++ {
		numbers = append(numbers, fmt.Sprintf("R%06d", i))
	}
	src := newFakeSource(numbers...)
	store := &fakeCommitter{block: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var report *Report
	var runErr error
	go func() {
		report, runErr = newTestPipeline(src, store).Run(ctx)
		close(done)
	}()

	// Wait until commits are in flight, then cancel.
	require.Eventually(t, func() bool { return store.inflight.Load() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
	require.ErrorIs(t, runErr, context.Canceled)
	require.NotNil(t, report, "partial report survives cancellation")
	assert.Less(t, report.Succeeded(), 200)
}

func TestRunConcurrentWorkers(t *testing.T) {
	var numbers []string
	for i := 0; i < 30; i++ {
		numbers = append(numbers, fmt.Sprintf("R%06d", i))
	}
	src := newFakeSource(numbers...)
	store := &fakeCommitter{}

	cfg := testConfig()
	cfg.FetchWorkers = 8
	cfg.PersistWorkers = 4
	report, err := New(src, store, cfg, log.New(io.Discard, "", 0), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, report.Succeeded())
}
