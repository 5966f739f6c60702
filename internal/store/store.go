// The day's accumulated accepted postings. Each acceptance is written out
// immediately so a crash or interrupt never loses confirmed work.

package store

import "go-kenyajobs/internal/source"

// Store is the per-day persisted set of accepted postings. Append must be
// idempotent against the same link.
type Store interface {
	// Append durably records one accepted posting.
	Append(posting source.Posting) error

	// Links returns the canonical links accepted so far today, used to seed
	// the dedup merger at startup.
	Links() ([]string, error)

	// Count is the number of postings accepted so far today.
	Count() (int, error)

	Close() error
}
