package scraper

import "fmt"

// ArticleSummary is one row of a listing page.
type ArticleSummary struct {
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	Author string `json:"author,omitempty"`
	// Hits is nil when the row has no "Hits:" label (see hitsFromCell).
	Hits *string `json:"hits,omitempty"`
	// Link is always absolute.
	Link string `json:"link"`
}

// Emphasis is the text style of a body block.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisBold
)

// String returns "normal" or "bold".
func (e Emphasis) String() string {
	switch e {
	case EmphasisBold:
		return "bold"
	case EmphasisNormal:
		return "normal"
	default:
		return fmt.Sprintf("emphasis(%d)", int(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Emphasis) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Emphasis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "bold":
		*e = EmphasisBold
	case "normal", "":
		*e = EmphasisNormal
	default:
		return fmt.Errorf("unknown emphasis: %q", string(text))
	}
	return nil
}

// ArticleBodyBlock is one paragraph of an article page.
type ArticleBodyBlock struct {
	Text     string   `json:"text"`
	ImageURL *string  `json:"image_url,omitempty"`
	Emphasis Emphasis `json:"emphasis"`
}
