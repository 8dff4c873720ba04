package usecase

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

var errNoProgress = errors.New("progress element missing")

// fakeSession serves one batch of items per extraction pass.
type fakeSession struct {
	progress     string
	batches      [][]entity.CollectedItem
	pass         int
	clicksLeft   int
	extractErr   error
	closed       bool
	extractCalls int
}

func (s *fakeSession) ProgressText(context.Context) (string, error) {
	if s.progress == "" {
		return "", errNoProgress
	}
	return s.progress, nil
}

func (s *fakeSession) RenderedCount(context.Context) (int, error) { return 0, nil }

func (s *fakeSession) LoadMoreAvailable(context.Context) (bool, error) { return s.clicksLeft > 0, nil }

func (s *fakeSession) ClickLoadMore(context.Context) error {
	s.clicksLeft--
	return nil
}

func (s *fakeSession) ExtractItems(_ context.Context, exclude map[string]struct{}) ([]entity.CollectedItem, error) {
	s.extractCalls++
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	if s.pass >= len(s.batches) {
		return nil, nil
	}
	batch := s.batches[s.pass]
	s.pass++
	var out []entity.CollectedItem
	for _, item := range batch {
		if _, ok := exclude[item.URL]; !ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeSession) WaitForItems(context.Context, int, time.Duration) error { return nil }

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeBrowser struct {
	session *fakeSession
	err     error
	opened  []string
}

func (b *fakeBrowser) Open(_ context.Context, url string) (repository.BrowserSession, error) {
	b.opened = append(b.opened, url)
	if b.err != nil {
		return nil, b.err
	}
	return b.session, nil
}

type fakeExporter struct {
	err      error
	exported *entity.RunReport
	dir      string
}

func (e *fakeExporter) Export(_ context.Context, report *entity.RunReport, outputDir string) (entity.Artifacts, error) {
	if e.err != nil {
		return entity.Artifacts{}, e.err
	}
	e.exported = report
	e.dir = outputDir
	return entity.Artifacts{
		SpreadsheetPath: outputDir + "/out.xlsx",
		ManifestPath:    outputDir + "/out.json",
	}, nil
}

type fakeQueue struct {
	mu      sync.Mutex
	items   []*entity.RunRequest
	pushErr error
	popErr  error
}

func (q *fakeQueue) Push(ctx context.Context, req *entity.RunRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pushErr != nil {
		return q.pushErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	q.items = append(q.items, req)
	return nil
}

func (q *fakeQueue) Pop(context.Context) (*entity.RunRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.popErr != nil {
		return nil, q.popErr
	}
	if len(q.items) == 0 {
		return nil, repository.ErrQueueEmpty
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, nil
}

func (q *fakeQueue) Size(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

type fakeSubmissions struct {
	marked map[string]time.Duration
	err    error
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{marked: map[string]time.Duration{}}
}

func (s *fakeSubmissions) MarkSubmitted(_ context.Context, url string, expiry time.Duration) error {
	s.marked[url] = expiry
	return nil
}

func (s *fakeSubmissions) IsSubmitted(_ context.Context, url string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.marked[url]
	return ok, nil
}

func (s *fakeSubmissions) RemoveSubmitted(_ context.Context, url string) error {
	delete(s.marked, url)
	return nil
}

type fakeRuns struct {
	saved   []*entity.RunReport
	saveErr error
}

func (r *fakeRuns) Save(_ context.Context, report *entity.RunReport) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, report)
	return nil
}

func (r *fakeRuns) FindLatestBySourceURL(_ context.Context, url string) (*entity.RunReport, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].SourceURL == url {
			return r.saved[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeFailedRuns mirrors the retry bookkeeping of the SQL implementation.
type fakeFailedRuns struct {
	records  map[string]*entity.FailedRun
	backoffs []time.Duration
	deleted  []string
	findErr  error
	clock    func() time.Time
}

func newFakeFailedRuns() *fakeFailedRuns {
	return &fakeFailedRuns{records: map[string]*entity.FailedRun{}, clock: time.Now}
}

func (f *fakeFailedRuns) SaveOrUpdate(_ context.Context, failed *entity.FailedRun, backoff time.Duration) error {
	f.backoffs = append(f.backoffs, backoff)
	retry := 1
	if prev, ok := f.records[failed.SourceURL]; ok {
		retry = prev.RetryCount + 1
	}
	failed.RetryCount = retry
	failed.NextRetryAt = failed.LastAttemptAt.Add(time.Duration(float64(backoff) * math.Pow(2, float64(retry-1))))
	stored := *failed
	f.records[failed.SourceURL] = &stored
	return nil
}

func (f *fakeFailedRuns) FindBySourceURL(_ context.Context, url string) (*entity.FailedRun, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if rec, ok := f.records[url]; ok {
		return rec, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFailedRuns) ClaimRetryable(_ context.Context, maxRetries, limit int, lease time.Duration) ([]*entity.FailedRun, error) {
	now := f.clock()
	var due []*entity.FailedRun
	for _, rec := range f.records {
		if len(due) == limit {
			break
		}
		if !rec.NextRetryAt.After(now) && rec.RetryCount <= maxRetries {
			rec.NextRetryAt = now.Add(lease)
			claimed := *rec
			due = append(due, &claimed)
		}
	}
	return due, nil
}

func (f *fakeFailedRuns) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	delete(f.records, url)
	return nil
}

// fakeRunner returns canned results and records the configs it was given.
type fakeRunner struct {
	report  *entity.RunReport
	err     error
	configs []entity.RunConfig
	onRun   func()
}

func (r *fakeRunner) Run(_ context.Context, cfg entity.RunConfig) (*entity.RunReport, error) {
	r.configs = append(r.configs, cfg)
	if r.onRun != nil {
		r.onRun()
	}
	if r.err != nil {
		return nil, r.err
	}
	report := *r.report
	report.SourceURL = cfg.SourceURL
	return &report, nil
}
