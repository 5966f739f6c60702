package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-kenyajobs/internal/cache"
	"go-kenyajobs/internal/dedup"
	"go-kenyajobs/internal/filter"
	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/source"
	"go-kenyajobs/internal/store"
)

var (
	testNow = time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC)
	testDay = time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
)

// fakeFetcher serves pre-baked pages per keyword and counts fetches.
type fakeFetcher struct {
	name    string
	pages   map[string][][]source.Posting
	failOn  map[string]bool
	fetches int
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) FetchPage(ctx context.Context, keyword string, page int) ([]source.Posting, error) {
	f.fetches++
	if f.failOn[keyword] {
		return nil, errors.New("boom")
	}
	pages := f.pages[keyword]
	if page-1 < len(pages) {
		return pages[page-1], nil
	}
	return nil, nil
}

func (f *fakeFetcher) HasNextPage(ctx context.Context, keyword string, page int) (bool, error) {
	return page < len(f.pages[keyword]), nil
}

type env struct {
	cache  cache.Store
	store  store.Store
	policy *freshness.Policy
}

func newEnv(t *testing.T, cacheDir, dataDir string) env {
	t.Helper()
	fs, err := store.NewFileStore(dataDir, testDay)
	assert.NoError(t, err)
	return env{
		cache:  cache.NewFileCache(cacheDir, "fp-test", testDay),
		store:  fs,
		policy: freshness.New(testNow, 7),
	}
}

func (e env) runner(t *testing.T, fetchers []source.Fetcher, keywords []string) *Runner {
	t.Helper()
	links, err := e.store.Links()
	assert.NoError(t, err)
	merger := dedup.NewMerger(e.policy, links)
	return New(e.policy, filter.NewMatcher(nil), e.cache, e.store, merger, fetchers, keywords, 5)
}

func TestStopsPaginationOnStaleLastItem(t *testing.T) {
	fetcher := &fakeFetcher{
		name: "MyJobMag Kenya",
		pages: map[string][][]source.Posting{
			"data analyst": {
				{
					{Title: "Data Analyst", Link: "https://x/1", DatePosted: "2 days ago", Source: "MyJobMag Kenya"},
					{Title: "Old Role", Link: "https://x/2", DatePosted: "3 weeks ago", Source: "MyJobMag Kenya"},
				},
				{
					{Title: "Never Reached", Link: "https://x/3", DatePosted: "1 day ago", Source: "MyJobMag Kenya"},
				},
			},
		},
	}

	e := newEnv(t, t.TempDir(), t.TempDir())
	summary := e.runner(t, []source.Fetcher{fetcher}, []string{"data analyst"}).Run(context.Background())

	assert.Equal(t, 1, fetcher.fetches, "page 2 must not be requested")

	accepted := summary.Results["MyJobMag Kenya"]
	assert.Len(t, accepted, 1)
	assert.Equal(t, "https://x/1", accepted[0].Link, "the stale item fails freshness even though its page was evaluated")

	count, err := e.store.Count()
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSecondRunServedEntirelyFromCache(t *testing.T) {
	cacheDir, dataDir := t.TempDir(), t.TempDir()
	pages := map[string][][]source.Posting{
		"data analyst": {
			{{Title: "Data Analyst", Link: "https://x/1", DatePosted: "2 days ago", Source: "MyJobMag Kenya"}},
		},
	}

	first := newEnv(t, cacheDir, dataDir)
	firstFetcher := &fakeFetcher{name: "MyJobMag Kenya", pages: pages}
	firstSummary := first.runner(t, []source.Fetcher{firstFetcher}, []string{"data analyst"}).Run(context.Background())
	assert.NotZero(t, firstSummary.PagesFetched)

	//same keywords, same day, fresh process
	second := newEnv(t, cacheDir, dataDir)
	secondFetcher := &fakeFetcher{name: "MyJobMag Kenya", pages: pages}
	secondSummary := second.runner(t, []source.Fetcher{secondFetcher}, []string{"data analyst"}).Run(context.Background())

	assert.Equal(t, 0, secondFetcher.fetches, "cache hit must perform zero live fetches")
	assert.Equal(t, 1, secondSummary.CacheHits)
	assert.Equal(t, firstSummary.Results, secondSummary.Results)
	assert.Empty(t, secondSummary.NewPostings)
}

func TestDuplicateLinkAcrossSourcesAcceptedOnce(t *testing.T) {
	shared := source.Posting{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago"}

	a := &fakeFetcher{name: "Source A", pages: map[string][][]source.Posting{"data": {{shared}}}}
	b := &fakeFetcher{name: "Source B", pages: map[string][][]source.Posting{"data": {{shared}}}}

	e := newEnv(t, t.TempDir(), t.TempDir())
	e.runner(t, []source.Fetcher{a, b}, []string{"data"}).Run(context.Background())

	count, err := e.store.Count()
	assert.NoError(t, err)
	assert.Equal(t, 1, count, "one link may enter the persisted store once")
}

func TestFetchFailureStopsOnlyThatKeyword(t *testing.T) {
	fetcher := &fakeFetcher{
		name: "MyJobMag Kenya",
		pages: map[string][][]source.Posting{
			"statistics": {
				{{Title: "Statistician", Link: "https://x/5", DatePosted: "1 day ago", Source: "MyJobMag Kenya"}},
			},
		},
		failOn: map[string]bool{"data analyst": true},
	}

	e := newEnv(t, t.TempDir(), t.TempDir())
	summary := e.runner(t, []source.Fetcher{fetcher}, []string{"data analyst", "statistics"}).Run(context.Background())

	accepted := summary.Results["MyJobMag Kenya"]
	assert.Len(t, accepted, 1)
	assert.Equal(t, "https://x/5", accepted[0].Link)
}

func TestRerunAfterRestartSkipsPersistedLinks(t *testing.T) {
	dataDir := t.TempDir()
	pages := map[string][][]source.Posting{
		"data": {{{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago"}}},
	}

	first := newEnv(t, t.TempDir(), dataDir)
	first.runner(t, []source.Fetcher{&fakeFetcher{name: "S", pages: pages}}, []string{"data"}).Run(context.Background())

	//new process, different fingerprint (cache cold) but same data dir:
	//the persisted store seeds dedup, so nothing is re-accepted
	second := newEnv(t, t.TempDir(), dataDir)
	summary := second.runner(t, []source.Fetcher{&fakeFetcher{name: "S", pages: pages}}, []string{"data"}).Run(context.Background())

	assert.Empty(t, summary.Results["S"])

	count, err := second.store.Count()
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

// flakyStore fails the first n appends, then delegates.
type flakyStore struct {
	store.Store
	failures int
	appends  int
}

func (s *flakyStore) Append(p source.Posting) error {
	s.appends++
	if s.appends <= s.failures {
		return errors.New("disk full")
	}
	return s.Store.Append(p)
}

func (e env) runnerWithStore(t *testing.T, s store.Store, fetchers []source.Fetcher, keywords []string) *Runner {
	t.Helper()
	links, err := s.Links()
	assert.NoError(t, err)
	merger := dedup.NewMerger(e.policy, links)
	return New(e.policy, filter.NewMatcher(nil), e.cache, s, merger, fetchers, keywords, 5)
}

func TestPersistRetryRecoversFromTransientFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		name: "MyJobMag Kenya",
		pages: map[string][][]source.Posting{
			"data": {{{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago"}}},
		},
	}

	e := newEnv(t, t.TempDir(), t.TempDir())
	flaky := &flakyStore{Store: e.store, failures: 1}
	summary := e.runnerWithStore(t, flaky, []source.Fetcher{fetcher}, []string{"data"}).Run(context.Background())

	assert.Equal(t, 2, flaky.appends, "one failure, one successful retry")
	assert.Equal(t, 0, summary.PersistFailures)
	assert.Len(t, summary.Results["MyJobMag Kenya"], 1)

	count, err := e.store.Count()
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPersistFailureSurfacedAfterRetry(t *testing.T) {
	fetcher := &fakeFetcher{
		name: "MyJobMag Kenya",
		pages: map[string][][]source.Posting{
			"data": {{{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago"}}},
		},
	}

	e := newEnv(t, t.TempDir(), t.TempDir())
	flaky := &flakyStore{Store: e.store, failures: 100}
	summary := e.runnerWithStore(t, flaky, []source.Fetcher{fetcher}, []string{"data"}).Run(context.Background())

	assert.Equal(t, 2, flaky.appends, "retried at most once")
	assert.Equal(t, 1, summary.PersistFailures)
	assert.Empty(t, summary.Results["MyJobMag Kenya"], "an unpersisted posting must not be reported as accepted")
	assert.Empty(t, summary.NewPostings)

	//the cache entry must not claim durability for the lost posting
	entry, found := e.cache.Get("MyJobMag Kenya")
	assert.True(t, found)
	assert.Empty(t, entry.Jobs)

	count, err := e.store.Count()
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCancellationStopsBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{
		name: "MyJobMag Kenya",
		pages: map[string][][]source.Posting{
			"data": {{{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago"}}},
		},
	}

	e := newEnv(t, t.TempDir(), t.TempDir())
	summary := e.runner(t, []source.Fetcher{fetcher}, []string{"data"}).Run(ctx)

	assert.Equal(t, 0, fetcher.fetches)
	assert.Empty(t, summary.Results["MyJobMag Kenya"])
}
