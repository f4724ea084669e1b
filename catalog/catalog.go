// Package catalog holds the fixed list of pages the reader knows about.
// The data is embedded at build time and is not user-editable.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pevans/crimetalk/scraper"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Custom errors for catalog lookups
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSourceNotFound  = errors.New("source not found")
)

// Section is a group of listing sources shown together as tabs.
type Section struct {
	Kind           scraper.SectionKind     `yaml:"kind" json:"kind"`
	Title          string                  `yaml:"title" json:"title"`
	ContainerClass string                  `yaml:"container_class" json:"-"`
	ItemSelector   string                  `yaml:"item_selector" json:"-"`
	Sources        []scraper.ListingSource `yaml:"sources" json:"sources"`
}

// Book is an entry of the shop page.
type Book struct {
	Title    string `yaml:"title" json:"title"`
	Author   string `yaml:"author,omitempty" json:"author,omitempty"`
	CoverURL string `yaml:"cover_url" json:"cover_url"`
	InfoURL  string `yaml:"info_url" json:"info_url"`
}

// Catalog is the full set of sections and books.
type Catalog struct {
	Sections []Section `yaml:"sections" json:"sections"`
	Books    []Book    `yaml:"books" json:"books"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The embedded data is validated by
// the package tests, so a parse failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog. Sources inherit their section's
// kind and, when unset, its container class and item selector.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[scraper.SectionKind]bool)
	for i := range c.Sections {
		section := &c.Sections[i]
		if seen[section.Kind] {
			return nil, fmt.Errorf("duplicate section %s", section.Kind)
		}
		seen[section.Kind] = true

		for j := range section.Sources {
			source := &section.Sources[j]
			source.Section = section.Kind
			if source.ContainerClass == "" {
				source.ContainerClass = section.ContainerClass
			}
			if source.ItemSelector == "" {
				source.ItemSelector = section.ItemSelector
			}
			if err := source.Validate(); err != nil {
				return nil, fmt.Errorf("section %s, source %q: %w", section.Kind, source.Title, err)
			}
		}
	}

	return &c, nil
}

// Section returns a copy of the section of the given kind.
func (c *Catalog) Section(kind scraper.SectionKind) (Section, error) {
	for _, section := range c.Sections {
		if section.Kind == kind {
			section.Sources = slices.Clone(section.Sources)
			return section, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, kind)
}

// Source returns the source of a section by tab title, ignoring case.
func (c *Catalog) Source(kind scraper.SectionKind, title string) (scraper.ListingSource, error) {
	section, err := c.Section(kind)
	if err != nil {
		return scraper.ListingSource{}, err
	}

	title = strings.TrimSpace(title)
	for _, source := range section.Sources {
		if strings.EqualFold(source.Title, title) {
			return source, nil
		}
	}

	return scraper.ListingSource{}, fmt.Errorf("%w: %s/%s", ErrSourceNotFound, kind, title)
}

// Sources returns every source of every section in catalog order.
func (c *Catalog) Sources() []scraper.ListingSource {
	var all []scraper.ListingSource
	for _, section := range c.Sections {
		all = append(all, section.Sources...)
	}
	return all
}
