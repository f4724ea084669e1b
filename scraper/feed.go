package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// feedDateLayout matches the date format of the listing pages.
const feedDateLayout = "02 January 2006"

// FeedURL returns the RSS URL of a listing page. The site's category pages
// serve their feed when format=feed&type=rss is added to the query.
func FeedURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("format", "feed")
	q.Set("type", "rss")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FeedItemToSummary converts an RSS or Atom item to a summary. Feed items
// carry no hit count.
func FeedItemToSummary(item *gofeed.Item, base string) (ArticleSummary, error) {
	link, err := ResolveURL(base, item.Link)
	if err != nil {
		return ArticleSummary{}, err
	}

	// Date: prefer the parsed timestamp, fall back to the raw text
	date := normalizeText(item.Published)
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format(feedDateLayout)
	}

	// Author: <author>, then the first of several, then <dc:creator>
	var author string
	switch {
	case item.Author != nil && item.Author.Name != "":
		author = item.Author.Name
	case len(item.Authors) > 0 && item.Authors[0] != nil:
		author = item.Authors[0].Name
	case item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0:
		author = item.DublinCoreExt.Creator[0]
	}

	return ArticleSummary{
		Title:  normalizeText(item.Title),
		Date:   date,
		Author: normalizeText(author),
		Link:   link,
	}, nil
}

// FeedToSummaries converts every item of a feed, skipping items whose link
// cannot be resolved.
func FeedToSummaries(feed *gofeed.Feed, base string) []ArticleSummary {
	summaries := make([]ArticleSummary, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary, err := FeedItemToSummary(item, base)
		if err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// FetchListingFeed returns the summaries of a listing through its RSS feed
// rather than its HTML page. Same error policy as FetchListing.
func (s *Scraper) FetchListingFeed(ctx context.Context, source ListingSource, timeout time.Duration) []ArticleSummary {
	if timeout <= 0 {
		s.log.Error("feed fetch failed", "url", source.URL, "error", fmt.Sprintf("timeout must be positive, got %s", timeout))
		return []ArticleSummary{}
	}
	if err := ValidatePageURL(source.URL); err != nil {
		s.log.Error("invalid listing source", "title", source.Title, "url", source.URL, "error", err)
		return []ArticleSummary{}
	}

	feedURL, err := FeedURL(source.URL)
	if err != nil {
		s.log.Error("feed fetch failed", "url", source.URL, "error", err)
		return []ArticleSummary{}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := s.openPage(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		s.log.Error("feed fetch failed", "url", feedURL, "error", err)
		return []ArticleSummary{}
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		s.log.Error("feed parse failed", "url", feedURL, "error", err)
		return []ArticleSummary{}
	}

	summaries := FeedToSummaries(feed, s.baseURL)
	s.log.Debug("feed fetched", "title", source.Title, "items", len(summaries))
	return DropListingPlaceholder(summaries)
}
