// Suppress postings whose canonical link was already accepted today,
// regardless of which source reported them first.

package dedup

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/source"
)

// Merger decides, in arrival order, whether a posting enters the day's
// accepted set. A posting gets in iff its link is new and it passes the
// freshness policy; rejections are silent.
type Merger struct {
	// Mutex guards the check-then-add sequence when sources run
	// concurrently; the set alone can't make that atomic.
	mu     sync.Mutex
	policy *freshness.Policy
	seen   mapset.Set[string]
}

// NewMerger seeds the merger with the links already persisted today so a
// rerun never re-accepts the same posting.
func NewMerger(policy *freshness.Policy, seedLinks []string) *Merger {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, link := range seedLinks {
		seen.Add(link)
	}
	return &Merger{policy: policy, seen: seen}
}

// Accept registers the posting's link and returns true iff it is new and in
// scope. The first source to report a link wins; later duplicates are
// dropped without comment.
func (m *Merger) Accept(posting source.Posting) bool {
	if posting.Link == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen.Contains(posting.Link) {
		return false
	}
	if !m.policy.InScope(posting) {
		return false
	}

	m.seen.Add(posting.Link)
	return true
}

// SeenCount is the number of distinct links registered so far.
func (m *Merger) SeenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen.Cardinality()
}
