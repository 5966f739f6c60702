// Decide whether a posting is still worth keeping: recent enough and not
// expired. The policy is deliberately permissive when a site publishes no
// parseable dates, to avoid silently dropping real openings.

package freshness

import (
	"time"

	"go-kenyajobs/internal/dates"
	"go-kenyajobs/internal/source"
)

// DefaultWindowDays is the trailing recency window.
const DefaultWindowDays = 7

// Policy evaluates posting dates against an injected clock.
type Policy struct {
	Now        time.Time
	WindowDays int
}

// New returns a Policy anchored at now with the given recency window.
// windowDays <= 0 falls back to the default.
func New(now time.Time, windowDays int) *Policy {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Policy{Now: now, WindowDays: windowDays}
}

// Today is the policy's calendar day.
func (p *Policy) Today() time.Time {
	return dates.Day(p.Now)
}

// IsRecentEnough reports whether a posting was posted within the recency
// window. When the posted date doesn't parse it falls back to the expiry
// date; when neither parses the posting is included.
func (p *Policy) IsRecentEnough(datePosted, dateExpires string) bool {
	if posted, ok := dates.Parse(datePosted, p.Now); ok {
		cutoff := p.Today().AddDate(0, 0, -p.WindowDays)
		return !dates.Day(posted).Before(cutoff)
	}

	if expires, ok := dates.Parse(dateExpires, p.Now); ok {
		return !dates.Day(expires).Before(p.Today())
	}

	return true
}

// IsNotExpired reports whether a posting's deadline has not passed yet.
// An unparseable deadline counts as not expired.
func (p *Policy) IsNotExpired(dateExpires string) bool {
	if expires, ok := dates.Parse(dateExpires, p.Now); ok {
		return !dates.Day(expires).Before(p.Today())
	}
	return true
}

// InScope combines both checks; a posting must pass both to be kept.
func (p *Policy) InScope(posting source.Posting) bool {
	return p.IsRecentEnough(posting.DatePosted, posting.DateExpires) &&
		p.IsNotExpired(posting.DateExpires)
}
