package dedup

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/source"
)

var testNow = time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC)

func newMerger(seed ...string) *Merger {
	return NewMerger(freshness.New(testNow, 7), seed)
}

func TestAcceptFirstWins(t *testing.T) {
	m := newMerger()

	first := source.Posting{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago", Source: "MyJobMag Kenya"}
	second := source.Posting{Title: "Data Analyst", Link: "https://x/1", DatePosted: "1 day ago", Source: "CareerPoint Kenya"}

	assert.True(t, m.Accept(first))
	assert.False(t, m.Accept(second), "same link from another source must be dropped")
	assert.Equal(t, 1, m.SeenCount())
}

func TestAcceptRejectsOutOfScope(t *testing.T) {
	m := newMerger()

	stale := source.Posting{Title: "Old Role", Link: "https://x/2", DatePosted: "3 weeks ago"}
	assert.False(t, m.Accept(stale))

	//a rejected posting does not burn its link
	fresh := source.Posting{Title: "Old Role Reposted", Link: "https://x/2", DatePosted: "1 day ago"}
	assert.True(t, m.Accept(fresh))
}

func TestAcceptRejectsEmptyLink(t *testing.T) {
	m := newMerger()
	assert.False(t, m.Accept(source.Posting{Title: "No Link", DatePosted: "1 day ago"}))
}

func TestSeededLinksAreDuplicates(t *testing.T) {
	m := newMerger("https://x/1", "https://x/2")

	assert.False(t, m.Accept(source.Posting{Title: "Seen Earlier", Link: "https://x/1", DatePosted: "1 day ago"}))
	assert.True(t, m.Accept(source.Posting{Title: "Brand New", Link: "https://x/3", DatePosted: "1 day ago"}))
}

func TestAcceptPermissiveWithoutDates(t *testing.T) {
	m := newMerger()

	posting := source.Posting{
		Title:       "Mystery Role",
		Link:        "https://x/4",
		DatePosted:  source.NotSpecified,
		DateExpires: source.NotSpecified,
	}
	assert.True(t, m.Accept(posting))
}

func TestAcceptConcurrent(t *testing.T) {
	m := newMerger()

	var wg sync.WaitGroup
	accepted := make([]bool, 50)
	for i := range accepted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accepted[i] = m.Accept(source.Posting{Title: "Race", Link: "https://x/race", DatePosted: "1 day ago"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, ok := range accepted {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one goroutine may accept a shared link")
}
