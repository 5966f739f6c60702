// MyJobMag Kenya adapter. Selector glue only; every decision about what to
// keep lives in the aggregation core.

package myjobmag

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-kenyajobs/internal/httpclient"
	"go-kenyajobs/internal/source"
)

const defaultBaseURL = "https://www.myjobmag.co.ke"

type Fetcher struct {
	client  *httpclient.Client
	baseURL string

	// set by the last FetchPage; pagination within a source is sequential
	// so this needs no locking
	lastHasNext bool
}

func New(client *httpclient.Client) *Fetcher {
	return &Fetcher{client: client, baseURL: defaultBaseURL}
}

func (f *Fetcher) Name() string {
	return "MyJobMag Kenya"
}

func (f *Fetcher) FetchPage(ctx context.Context, keyword string, page int) ([]source.Posting, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("currentpage", fmt.Sprintf("%d", page))
	searchURL := fmt.Sprintf("%s/search/jobs?%s", f.baseURL, params.Encode())

	doc, err := f.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var postings []source.Posting
	doc.Find("li.job-list-li").Each(func(i int, s *goquery.Selection) {
		titleEl := s.Find("a[href*='/job/']").First()
		title := strings.TrimSpace(titleEl.Text())
		link, ok := titleEl.Attr("href")
		if !ok || title == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = f.baseURL + link
		}

		posted := source.NotSpecified
		if raw := strings.TrimSpace(s.Find("li.job-item-date, .job-date").First().Text()); raw != "" {
			posted = strings.TrimSpace(strings.TrimPrefix(raw, "Posted:"))
		}

		postings = append(postings, source.Posting{
			Title:         title,
			Link:          link,
			DatePosted:    posted,
			DateExpires:   source.NotSpecified,
			Qualification: source.NotSpecified,
			Experience:    source.NotSpecified,
			Location:      source.NotSpecified,
			Source:        f.Name(),
		})
	})

	f.lastHasNext = doc.Find(fmt.Sprintf("a[href*='currentpage=%d']", page+1)).Length() > 0 ||
		doc.Find("a[rel='next']").Length() > 0

	return postings, nil
}

func (f *Fetcher) HasNextPage(ctx context.Context, keyword string, page int) (bool, error) {
	return f.lastHasNext, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("myjobmag: building request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("myjobmag: executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("myjobmag: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("myjobmag: parsing HTML: %w", err)
	}
	return doc, nil
}
