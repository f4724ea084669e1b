package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SectionKind identifies which part of the site a listing belongs to.
type SectionKind int

const (
	// SectionLibrary holds the site's own articles. Bodies are fetched and
	// rendered by the reader.
	SectionLibrary SectionKind = iota
	// SectionPressCuttings holds links to third-party press articles.
	SectionPressCuttings
)

var sectionNames = map[SectionKind]string{
	SectionLibrary:       "library",
	SectionPressCuttings: "press_cuttings",
}

// ErrUnknownSection is returned when a section name cannot be parsed.
var ErrUnknownSection = errors.New("section must be library or press_cuttings")

// String returns the wire name of the section.
func (k SectionKind) String() string {
	if name, ok := sectionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(k))
}

// ParseSectionKind parses a section name. Hyphens and case are ignored so
// "press-cuttings" and "Press_Cuttings" both work on the command line.
func ParseSectionKind(s string) (SectionKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for kind, name := range sectionNames {
		if name == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k SectionKind) MarshalText() ([]byte, error) {
	name, ok := sectionNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSection, int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SectionKind) UnmarshalText(text []byte) error {
	kind, err := ParseSectionKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ListingSource describes one listing page and how to find its rows.
// ContainerClass is a single CSS class name (no leading dot); ItemSelector
// is a selector evaluated inside each container.
type ListingSource struct {
	Title          string      `json:"title" yaml:"title"`
	URL            string      `json:"url" yaml:"url"`
	ContainerClass string      `json:"container_class" yaml:"container_class"`
	ItemSelector   string      `json:"item_selector" yaml:"item_selector"`
	Section        SectionKind `json:"section" yaml:"section"`
}

// containerSelector returns the CSS selector for the source's container.
func (s ListingSource) containerSelector() string {
	return "." + strings.TrimPrefix(strings.TrimSpace(s.ContainerClass), ".")
}

// Validate checks that the source can be fetched and parsed.
func (s ListingSource) Validate() error {
	if err := ValidatePageURL(s.URL); err != nil {
		return err
	}
	if strings.TrimSpace(strings.TrimPrefix(s.ContainerClass, ".")) == "" {
		return fmt.Errorf("container class is empty")
	}
	if strings.TrimSpace(s.ItemSelector) == "" {
		return fmt.Errorf("item selector is empty")
	}
	return nil
}

// ValidatePageURL requires an absolute http or https URL.
func ValidatePageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", raw)
	}
	return nil
}
