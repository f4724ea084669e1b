package catalog

import (
	"strings"
	"testing"

	"github.com/pevans/crimetalk/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault_EmbeddedCatalogParses verifies the embedded data is valid
func TestDefault_EmbeddedCatalogParses(t *testing.T) {
	c, err := Parse(catalogYAML)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Same(t, Default(), Default(), "default catalog is parsed once")
}

// TestDefault_SectionSizes verifies 3 library and 16 press cuttings tabs
func TestDefault_SectionSizes(t *testing.T) {
	c := Default()
	require.Len(t, c.Sections, 2)

	library, err := c.Section(scraper.SectionLibrary)
	require.NoError(t, err)
	assert.Len(t, library.Sources, 3)

	press, err := c.Section(scraper.SectionPressCuttings)
	require.NoError(t, err)
	assert.Len(t, press.Sources, 16)

	assert.Len(t, c.Sources(), 19)
	assert.Len(t, c.Books, 2)
}

// TestDefault_SelectorsInherited verifies section defaults and overrides
func TestDefault_SelectorsInherited(t *testing.T) {
	c := Default()

	featured, err := c.Source(scraper.SectionLibrary, "Featured Articles")
	require.NoError(t, err)
	assert.Equal(t, "category", featured.ContainerClass)
	assert.Equal(t, "tr", featured.ItemSelector)
	assert.Equal(t, scraper.SectionLibrary, featured.Section)

	violence, err := c.Source(scraper.SectionPressCuttings, "violence")
	require.NoError(t, err)
	assert.Equal(t, "weblink-category", violence.ContainerClass)
	assert.Equal(t, "li", violence.ItemSelector)
	assert.Equal(t, scraper.SectionPressCuttings, violence.Section)

	crimetalk, err := c.Source(scraper.SectionPressCuttings, "CrimeTalk")
	require.NoError(t, err)
	assert.Equal(t, "category", crimetalk.ContainerClass, "CrimeTalk tab is a content category")
	assert.Equal(t, "tr", crimetalk.ItemSelector)
}

// TestDefault_AllSourcesOnSite verifies every URL targets the one site
func TestDefault_AllSourcesOnSite(t *testing.T) {
	for _, source := range Default().Sources() {
		assert.NoError(t, source.Validate(), source.Title)
		assert.True(t, strings.HasPrefix(source.URL, "http://crimetalk.org.uk/"), source.URL)
	}
}

// TestSection_ReturnsCopy verifies callers cannot mutate the catalog
func TestSection_ReturnsCopy(t *testing.T) {
	c := Default()

	section, err := c.Section(scraper.SectionLibrary)
	require.NoError(t, err)
	section.Sources[0].Title = "changed"

	again, err := c.Section(scraper.SectionLibrary)
	require.NoError(t, err)
	assert.Equal(t, "Featured Articles", again.Sources[0].Title)
}

// TestSource_NotFound verifies lookup errors
func TestSource_NotFound(t *testing.T) {
	_, err := Default().Source(scraper.SectionLibrary, "Violence")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	empty := &Catalog{}
	_, err = empty.Section(scraper.SectionLibrary)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

// TestParse_InvalidSource verifies validation of custom catalogs
func TestParse_InvalidSource(t *testing.T) {
	data := []byte(`
sections:
  - kind: library
    title: Library
    sources:
      - title: Broken
        url: http://crimetalk.org.uk/
`)
	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container class is empty")
}

// TestParse_UnknownSection verifies section kinds are checked
func TestParse_UnknownSection(t *testing.T) {
	_, err := Parse([]byte("sections:\n  - kind: shop\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog")
}

// TestParse_DuplicateSection verifies a kind appears once
func TestParse_DuplicateSection(t *testing.T) {
	_, err := Parse([]byte("sections:\n  - kind: library\n  - kind: library\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate section")
}
