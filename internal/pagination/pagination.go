// Per (source, keyword) pagination state machine. The sites list postings
// newest-first, so once the oldest item on a page falls outside the
// recency/expiry window every later page is guaranteed stale and paging
// stops early.

package pagination

import (
	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/source"
)

// DefaultMaxPages is the hard per-keyword page ceiling.
const DefaultMaxPages = 5

// State of the controller.
type State int

const (
	FetchingPage State = iota
	Evaluating
	Advancing
	Stopped
)

func (s State) String() string {
	switch s {
	case FetchingPage:
		return "fetching"
	case Evaluating:
		return "evaluating"
	case Advancing:
		return "advancing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason records why a controller reached Stopped.
type StopReason int

const (
	NotStopped StopReason = iota
	StaleDates
	EmptyPage
	PageLimit
	NoNextPage
	FetchFailed
)

func (r StopReason) String() string {
	switch r {
	case NotStopped:
		return "still running"
	case StaleDates:
		return "older jobs detected"
	case EmptyPage:
		return "empty page"
	case PageLimit:
		return "page limit reached"
	case NoNextPage:
		return "no next page"
	case FetchFailed:
		return "fetch failed"
	default:
		return "unknown"
	}
}

// Controller tracks paging through one keyword's results on one source.
type Controller struct {
	policy   *freshness.Policy
	maxPages int
	page     int
	state    State
	reason   StopReason
}

// New starts a controller at page 1 in FetchingPage.
func New(policy *freshness.Policy, maxPages int) *Controller {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Controller{
		policy:   policy,
		maxPages: maxPages,
		page:     1,
		state:    FetchingPage,
	}
}

// Page is the page number to fetch next (1-based).
func (c *Controller) Page() int { return c.page }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Done reports whether the controller has stopped.
func (c *Controller) Done() bool { return c.state == Stopped }

// Reason explains a stop; NotStopped while still running.
func (c *Controller) Reason() StopReason { return c.reason }

// ObservePage feeds the controller one fetched page, ordered as the source
// presents it. Only the last (oldest) posting decides whether paging
// continues; postings already confirmed in scope on this page are kept by
// the caller either way.
func (c *Controller) ObservePage(postings []source.Posting) {
	if c.state != FetchingPage {
		return
	}
	c.state = Evaluating

	if len(postings) == 0 {
		c.stop(EmptyPage)
		return
	}

	oldest := postings[len(postings)-1]
	if oldest.DatePosted != "" && oldest.DatePosted != source.NotSpecified {
		if !c.policy.IsRecentEnough(oldest.DatePosted, "") {
			c.stop(StaleDates)
			return
		}
	}
	if oldest.DateExpires != "" && oldest.DateExpires != source.NotSpecified {
		if !c.policy.IsNotExpired(oldest.DateExpires) {
			c.stop(StaleDates)
			return
		}
	}

	c.state = Advancing
}

// Advance moves to the next page when the source offers one and the page
// ceiling hasn't been hit.
func (c *Controller) Advance(hasNext bool) {
	if c.state != Advancing {
		return
	}
	if c.page >= c.maxPages {
		c.stop(PageLimit)
		return
	}
	if !hasNext {
		c.stop(NoNextPage)
		return
	}
	c.page++
	c.state = FetchingPage
}

// Fail stops the controller after a fetch error. The failure is terminal for
// this keyword only; the caller moves on to the next keyword or source.
func (c *Controller) Fail() {
	c.stop(FetchFailed)
}

func (c *Controller) stop(reason StopReason) {
	c.state = Stopped
	c.reason = reason
}
