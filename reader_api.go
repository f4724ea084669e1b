package crimetalk

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pevans/crimetalk/catalog"
	"github.com/pevans/crimetalk/scraper"
)

// ReaderAPIServer represents the HTTP API server for reading the site.
type ReaderAPIServer struct {
	reader *Reader
}

// NewReaderAPIServer creates a new reader API server.
func NewReaderAPIServer(reader *Reader) *ReaderAPIServer {
	return &ReaderAPIServer{
		reader: reader,
	}
}

// CORSMiddleware adds CORS headers and answers preflight requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// SetupRouter configures a standalone Gin router with the reader routes.
func (s *ReaderAPIServer) SetupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())
	s.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// RegisterRoutes mounts the reader routes on the given group.
func (s *ReaderAPIServer) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/sections", s.HandleListSections)
	api.GET("/sections/:kind/tabs/:tab", s.HandleListTab)
	api.GET("/sections/:kind/search", s.HandleSearch)
	api.GET("/article", s.HandleOpenArticle)
	api.GET("/books", s.HandleListBooks)
}

// ListSectionsResponse represents the response for GET /api/v1/sections.
type ListSectionsResponse struct {
	Sections []catalog.Section `json:"sections"`
	Total    int               `json:"total"`
}

// ListBooksResponse represents the response for GET /api/v1/books.
type ListBooksResponse struct {
	Books []catalog.Book `json:"books"`
	Total int            `json:"total"`
}

// ListingResponse represents a paginated listing.
type ListingResponse struct {
	*ListingResult
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *ReaderAPIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrSectionNotFound),
		errors.Is(err, catalog.ErrSourceNotFound),
		errors.Is(err, scraper.ErrUnknownSection):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, ErrInvalidLink):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleListSections handles GET /api/v1/sections.
func (s *ReaderAPIServer) HandleListSections(c *gin.Context) {
	sections := s.reader.Sections()
	c.JSON(http.StatusOK, ListSectionsResponse{
		Sections: sections,
		Total:    len(sections),
	})
}

// HandleListBooks handles GET /api/v1/books.
func (s *ReaderAPIServer) HandleListBooks(c *gin.Context) {
	books := s.reader.Books()
	c.JSON(http.StatusOK, ListBooksResponse{
		Books: books,
		Total: len(books),
	})
}

// HandleListTab handles GET /api/v1/sections/{kind}/tabs/{tab}. The
// refresh parameter forces a reload; feed=true reads the tab's RSS feed.
func (s *ReaderAPIServer) HandleListTab(c *gin.Context) {
	kind, err := scraper.ParseSectionKind(c.Param("kind"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	var result *ListingResult
	if c.Query("feed") == "true" {
		result, err = s.reader.ListTabFeed(c.Request.Context(), kind, c.Param("tab"))
	} else {
		result, err = s.reader.ListTab(c.Request.Context(), kind, c.Param("tab"), c.Query("refresh") == "true")
	}
	if err != nil {
		s.handleError(c, err)
		return
	}

	total := len(result.Items)
	page := *result
	page.Items = paginate(result.Items, offset, limit)

	c.JSON(http.StatusOK, ListingResponse{
		ListingResult: &page,
		Total:         total,
		Limit:         limit,
		Offset:        offset,
	})
}

// HandleSearch handles GET /api/v1/sections/{kind}/search.
func (s *ReaderAPIServer) HandleSearch(c *gin.Context) {
	kind, err := scraper.ParseSectionKind(c.Param("kind"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Missing q parameter"))
		return
	}

	result, err := s.reader.SearchSection(c.Request.Context(), kind, query)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleOpenArticle handles GET /api/v1/article. The kind parameter
// defaults to the library section.
func (s *ReaderAPIServer) HandleOpenArticle(c *gin.Context) {
	kind := scraper.SectionLibrary
	if kindParam := c.Query("kind"); kindParam != "" {
		parsed, err := scraper.ParseSectionKind(kindParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", err.Error()))
			return
		}
		kind = parsed
	}

	view, err := s.reader.OpenArticle(c.Request.Context(), kind, c.Query("link"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// parsePagination reads limit and offset, writing a 400 response on bad
// input. A zero limit means no limit.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid limit parameter"))
			return 0, 0, false
		}
		limit = parsed
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		parsed, err := strconv.Atoi(offsetParam)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid offset parameter"))
			return 0, 0, false
		}
		offset = parsed
	}

	return limit, offset, true
}

// paginate returns a slice of items for the given offset and limit.
func paginate(items []scraper.ArticleSummary, offset, limit int) []scraper.ArticleSummary {
	if offset >= len(items) {
		return []scraper.ArticleSummary{}
	}
	if limit == 0 || limit >= len(items)-offset {
		return items[offset:]
	}

	return items[offset : offset+limit]
}
