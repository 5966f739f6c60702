// Drive one aggregation run: per source, either serve the cached result set
// or page through live search results, filtering, deduplicating, and
// persisting every acceptance immediately.

package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"go-kenyajobs/internal/cache"
	"go-kenyajobs/internal/dedup"
	"go-kenyajobs/internal/filter"
	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/pagination"
	"go-kenyajobs/internal/source"
	"go-kenyajobs/internal/store"
)

// Summary reports what one run did.
type Summary struct {
	Results map[string][]source.Posting

	// NewPostings are the postings accepted from live fetches this run, in
	// acceptance order per source. Cache-hit sources contribute nothing
	// here; their postings were already reported when first fetched.
	NewPostings []source.Posting

	CacheHits       int
	PagesFetched    int
	NewAccepted     int
	PersistFailures int
	Elapsed         time.Duration
}

// Runner owns the shared collaborators for one run. Sources are isolated
// units of concurrency; the merger and store serialize their own state.
type Runner struct {
	policy   *freshness.Policy
	matcher  *filter.Matcher
	cache    cache.Store
	store    store.Store
	merger   *dedup.Merger
	fetchers []source.Fetcher
	keywords []string
	maxPages int
}

func New(
	policy *freshness.Policy,
	matcher *filter.Matcher,
	cacheStore cache.Store,
	persisted store.Store,
	merger *dedup.Merger,
	fetchers []source.Fetcher,
	keywords []string,
	maxPages int,
) *Runner {
	return &Runner{
		policy:   policy,
		matcher:  matcher,
		cache:    cacheStore,
		store:    persisted,
		merger:   merger,
		fetchers: fetchers,
		keywords: keywords,
		maxPages: maxPages,
	}
}

// Run executes the aggregation across all sources. Each source runs in its
// own goroutine; pagination within a source stays strictly sequential
// because the stop decision for page N needs page N fully evaluated first.
func (r *Runner) Run(ctx context.Context) Summary {
	start := time.Now()
	summary := Summary{Results: make(map[string][]source.Posting)}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, fetcher := range r.fetchers {
		wg.Add(1)
		go func(f source.Fetcher) {
			defer wg.Done()
			result := r.runSource(ctx, f)

			mu.Lock()
			defer mu.Unlock()
			summary.Results[f.Name()] = result.postings
			if result.fromCache {
				summary.CacheHits++
			} else {
				summary.NewPostings = append(summary.NewPostings, result.postings...)
			}
			summary.PagesFetched += result.pagesFetched
			summary.NewAccepted += result.accepted
			summary.PersistFailures += result.persistFailures
		}(fetcher)
	}
	wg.Wait()

	summary.Elapsed = time.Since(start)
	return summary
}

type sourceResult struct {
	postings        []source.Posting
	fromCache       bool
	pagesFetched    int
	accepted        int
	persistFailures int
}

func (r *Runner) runSource(ctx context.Context, f source.Fetcher) sourceResult {
	name := f.Name()

	status := r.cache.Check(name)
	if status == cache.Hit {
		entry, _ := r.cache.Get(name)
		log.Printf("📋 %s: using cached data (%d jobs)", name, len(entry.Jobs))
		return sourceResult{postings: entry.Jobs, fromCache: true}
	}
	log.Printf("🔍 %s: cache %s, fetching live", name, status)

	result := r.harvest(ctx, f)

	// a cancelled harvest is incomplete; caching it would wrongly satisfy
	// the next run of the same day
	if ctx.Err() != nil {
		return result
	}

	if err := r.cache.Put(name, result.postings); err != nil {
		log.Printf("⚠️ %s: failed to save cache entry: %v", name, err)
	}

	log.Printf("✅ %s finished: %d jobs accepted, %d pages fetched", name, result.accepted, result.pagesFetched)
	return result
}

// harvest pages through every keyword's results. Everything already
// accepted is durable by the time this returns, so cancellation between
// pages loses nothing.
func (r *Runner) harvest(ctx context.Context, f source.Fetcher) sourceResult {
	name := f.Name()
	var result sourceResult

	for _, keyword := range r.keywords {
		if ctx.Err() != nil {
			log.Printf("⏹️ %s: cancelled, accepted jobs already flushed", name)
			return result
		}

		ctrl := pagination.New(r.policy, r.maxPages)
		for !ctrl.Done() {
			if ctx.Err() != nil {
				log.Printf("⏹️ %s: cancelled, accepted jobs already flushed", name)
				return result
			}

			postings, err := f.FetchPage(ctx, keyword, ctrl.Page())
			result.pagesFetched++
			if err != nil {
				// a failed fetch stops only this keyword's pagination
				log.Printf("⚠️ %s: fetch failed for %q page %d: %v", name, keyword, ctrl.Page(), err)
				ctrl.Fail()
				break
			}

			for _, posting := range postings {
				if !r.matcher.Relevant(posting.Title) {
					continue
				}
				if !r.merger.Accept(posting) {
					continue
				}
				if err := r.persist(posting); err != nil {
					// a posting that never reached the store must not be
					// cached as durable; the next run gets another chance
					log.Printf("❌ %s: could not persist %s: %v", name, posting.Link, err)
					result.persistFailures++
					continue
				}
				result.postings = append(result.postings, posting)
				result.accepted++
			}

			ctrl.ObservePage(postings)
			if ctrl.State() == pagination.Advancing {
				hasNext, err := f.HasNextPage(ctx, keyword, ctrl.Page())
				if err != nil {
					ctrl.Fail()
				} else {
					ctrl.Advance(hasNext)
				}
			}
		}

		log.Printf("    %s: pagination for %q stopped on page %d (%s)", name, keyword, ctrl.Page(), ctrl.Reason())
	}

	return result
}

// persist writes one acceptance through the store, retrying once before
// surfacing the failure.
func (r *Runner) persist(posting source.Posting) error {
	if err := r.store.Append(posting); err != nil {
		log.Printf("⚠️ Persist failed for %s, retrying once: %v", posting.Link, err)
		return r.store.Append(posting)
	}
	return nil
}
