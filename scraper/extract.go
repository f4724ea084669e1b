package scraper

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Class names used by the site's listing and article templates.
const (
	classTitle    = "list-title"
	classDate     = "list-date"
	classAuthor   = "list-author"
	classHits     = "list-hits"
	classItemPage = "item-page"

	// listingPlaceholder is the title of the table header row that the
	// listing template renders as a regular row.
	listingPlaceholder = "Title"
	// bodyPlaceholder marks the rating widget paragraph at the top of
	// article pages.
	bodyPlaceholder = "User Rating"
	// hitsMarker is the label the listing template puts in front of the
	// hit count.
	hitsMarker = "Hits:"
)

// normalizeText collapses runs of whitespace into single spaces and trims
// the result.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// classText returns the normalized text of every element with the given
// class inside s (including s itself), joined by single spaces.
func classText(s *goquery.Selection, class string) string {
	var parts []string
	if s.HasClass(class) {
		if t := normalizeText(s.Text()); t != "" {
			return t
		}
	}
	s.Find("." + class).Each(func(_ int, el *goquery.Selection) {
		if t := normalizeText(el.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// ResolveURL makes ref absolute against base. Absolute http(s) refs are
// returned unchanged and an empty ref resolves to base itself.
func ResolveURL(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference %q: %w", ref, err)
	}

	if refURL.IsAbs() && (refURL.Scheme == "http" || refURL.Scheme == "https") {
		return refURL.String(), nil
	}

	return baseURL.ResolveReference(refURL).String(), nil
}

// hitsFromCell applies the hit-count rule: a cell that does not contain
// the literal "Hits:" label yields no count, otherwise the count is
// re-rendered as "Hits: <n>".
func hitsFromCell(text string) *string {
	_, count, found := strings.Cut(text, hitsMarker)
	if !found {
		return nil
	}
	hits := fmt.Sprintf("%s %s", hitsMarker, strings.TrimSpace(count))
	return &hits
}

// resolveLink is ResolveURL for page hrefs. An href that does not parse
// is joined onto base as text so its row is never lost.
func resolveLink(base, href string) string {
	link, err := ResolveURL(base, href)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(strings.TrimSpace(href), "/")
	}
	return link
}

// ExtractListing turns every item row of the source's container into a
// summary, in document order. The placeholder row is kept; callers decide
// when to drop it (see DropListingPlaceholder).
func ExtractListing(doc *goquery.Document, source ListingSource, base string) []ArticleSummary {
	rows := []ArticleSummary{}

	doc.Find(source.containerSelector()).Find(source.ItemSelector).Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Find("a").First().Attr("href")
		link := resolveLink(base, href)

		rows = append(rows, ArticleSummary{
			Title:  classText(row, classTitle),
			Date:   classText(row, classDate),
			Author: classText(row, classAuthor),
			Hits:   hitsFromCell(classText(row, classHits)),
			Link:   link,
		})
	})

	return rows
}

// DropListingPlaceholder removes the first row when it is the header row
// ("Title", any case).
func DropListingPlaceholder(rows []ArticleSummary) []ArticleSummary {
	if len(rows) > 0 && strings.EqualFold(rows[0].Title, listingPlaceholder) {
		return rows[1:]
	}
	return rows
}

// ExtractArticleBody turns the paragraphs of an article page into blocks.
// Paragraphs with fewer than two characters of text and no image are
// skipped. The rating placeholder is kept; see DropBodyPlaceholder.
func ExtractArticleBody(doc *goquery.Document, base string) []ArticleBodyBlock {
	blocks := []ArticleBodyBlock{}

	doc.Find("." + classItemPage).Find("p").Each(func(_ int, p *goquery.Selection) {
		text := normalizeText(p.Text())
		img := p.Find("img").First()
		hasImage := img.Length() > 0

		if utf8.RuneCountInString(text) <= 1 && !hasImage {
			return
		}

		block := ArticleBodyBlock{
			Text:     text,
			Emphasis: EmphasisNormal,
		}

		if strong := p.Find("strong").First(); strong.Length() > 0 && normalizeText(strong.Text()) == text {
			block.Emphasis = EmphasisBold
		}

		if src, ok := img.Attr("src"); hasImage && ok && strings.TrimSpace(src) != "" {
			imageURL := resolveLink(base, src)
			block.ImageURL = &imageURL
		}

		blocks = append(blocks, block)
	})

	return blocks
}

// DropBodyPlaceholder removes the first block when it is the rating widget.
func DropBodyPlaceholder(blocks []ArticleBodyBlock) []ArticleBodyBlock {
	if len(blocks) > 0 && strings.Contains(blocks[0].Text, bodyPlaceholder) {
		return blocks[1:]
	}
	return blocks
}

// MatchesQuery reports whether the summary's title, date or author contains
// query, ignoring case. An empty query matches everything.
func MatchesQuery(summary ArticleSummary, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(summary.Title), q) ||
		strings.Contains(strings.ToLower(summary.Date), q) ||
		strings.Contains(strings.ToLower(summary.Author), q)
}

// FilterSummaries keeps the rows matching query, preserving order.
func FilterSummaries(rows []ArticleSummary, query string) []ArticleSummary {
	matched := []ArticleSummary{}
	for _, row := range rows {
		if MatchesQuery(row, query) {
			matched = append(matched, row)
		}
	}
	return matched
}
