// CareerPoint Kenya adapter (WordPress search pages).

package careerpoint

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

const baseURL = "https://www.careerpointkenya.co.ke"

type Fetcher struct {
	client      *httpclient.Client
	lastHasNext bool
}

func New(client *httpclient.Client) *Fetcher {
	return &Fetcher{client: client}
}

func (f *Fetcher) Name() string {
	return "CareerPoint Kenya"
}

func (f *Fetcher) FetchPage(ctx context.Context, keyword string, page int) ([]source.Posting, error) {
	params := url.Values{}
	params.Set("s", keyword)

	searchURL := fmt.Sprintf("%s/?%s", baseURL, params.Encode())
	if page > 1 {
		searchURL = fmt.Sprintf("%s/page/%d/?%s", baseURL, page, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("careerpoint: building request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careerpoint: executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("careerpoint: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("careerpoint: parsing HTML: %w", err)
	}

	var postings []source.Posting
	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		titleEl := s.Find("h2.entry-title a, h1.entry-title a").First()
		title := strings.TrimSpace(titleEl.Text())
		link, ok := titleEl.Attr("href")
		if !ok || title == "" {
			return
		}

		posted := source.NotSpecified
		if raw := strings.TrimSpace(s.Find("time.entry-date").First().Text()); raw != "" {
			posted = raw
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

	f.lastHasNext = doc.Find("a.next.page-numbers").Length() > 0

	return postings, nil
}

func (f *Fetcher) HasNextPage(ctx context.Context, keyword string, page int) (bool, error) {
	return f.lastHasNext, nil
}
