// Define the contract between the aggregation core and the per-site fetchers.
// The core never touches site markup, only Postings handed back here.

package source

import "context"

// Posting is one job listing. Link is the canonical URL and the dedup key.
// Date fields carry the raw site text ("2 days ago", "July 1, 2025",
// "Not specified") and are normalized lazily by the freshness policy.
type Posting struct {
	Title         string `json:"job_title"`
	Link          string `json:"link"`
	DatePosted    string `json:"date_posted"`
	DateExpires   string `json:"date_expires"`
	Qualification string `json:"qualification"`
	Experience    string `json:"years_of_experience"`
	Location      string `json:"location"`
	Source        string `json:"source"`
}

// NotSpecified is the placeholder the sites (and our adapters) use for
// fields they don't expose.
const NotSpecified = "Not specified"

// Fetcher is implemented by every site adapter.
type Fetcher interface {
	// Name is the site name used as the cache key ("MyJobMag Kenya", ...)
	Name() string

	// FetchPage returns one page of search results for a keyword, ordered
	// as the site presents them (newest first).
	FetchPage(ctx context.Context, keyword string, page int) ([]Posting, error)

	// HasNextPage reports whether the site offers a page after the given one
	// for the last fetched result set.
	HasNextPage(ctx context.Context, keyword string, page int) (bool, error)
}
