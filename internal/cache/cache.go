// Per-source result cache keyed by the run fingerprint. A source whose
// cached entry matches the current fingerprint and day is served from cache
// instead of re-fetched.

package cache

import (
	"time"

	"go-kenyajobs/internal/source"
)

// Entry is one source's previously computed result set plus the provenance
// needed to judge whether it can be reused.
type Entry struct {
	Jobs        []source.Posting `json:"jobs"`
	Fingerprint string           `json:"run_config"`
	Day         string           `json:"date"`
	ComputedAt  time.Time        `json:"timestamp"`
}

// Status says whether an entry is reusable, and if not, why. The reasons are
// kept distinct for logging.
type Status int

const (
	// Hit means the entry matches the current fingerprint and day.
	Hit Status = iota
	// MissNoEntry means no entry exists for the source.
	MissNoEntry
	// MissFingerprint means the run configuration changed since the entry
	// was computed.
	MissFingerprint
	// MissDay means the entry was computed on a different calendar day.
	MissDay
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case MissNoEntry:
		return "no entry"
	case MissFingerprint:
		return "configuration changed"
	case MissDay:
		return "date changed"
	default:
		return "unknown"
	}
}

// Store is the per-source cache. Put always replaces the prior entry for the
// source wholesale; a fresh fetch supersedes a stale cache, it never merges
// into it.
type Store interface {
	Check(sourceKey string) Status
	Get(sourceKey string) (Entry, bool)
	Put(sourceKey string, jobs []source.Posting) error
	Close() error
}

// check applies the validity rules shared by every Store implementation.
func check(entry Entry, found bool, fp, day string) Status {
	if !found {
		return MissNoEntry
	}
	if entry.Fingerprint != fp {
		return MissFingerprint
	}
	if entry.Day != day {
		return MissDay
	}
	return Hit
}
