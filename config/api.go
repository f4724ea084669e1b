package config

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingsAPIServer represents the HTTP API server for reader settings.
type SettingsAPIServer struct {
	store *SettingsStore
}

// NewSettingsAPIServer creates a new settings API server.
func NewSettingsAPIServer(store *SettingsStore) *SettingsAPIServer {
	return &SettingsAPIServer{
		store: store,
	}
}

// SetupRouter configures a standalone Gin router with the settings routes.
func (c *SettingsAPIServer) SetupRouter() *gin.Engine {
	router := gin.Default()
	c.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// RegisterRoutes mounts the settings routes on the given group.
func (c *SettingsAPIServer) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/settings", c.HandleGetSettings)
	api.PUT("/settings", c.HandleUpdateSettings)
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

// HandleGetSettings handles GET /api/v1/settings.
func (c *SettingsAPIServer) HandleGetSettings(ctx *gin.Context) {
	settings, err := c.store.GetSettings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve settings"))
		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdateSettings handles PUT /api/v1/settings. Fields missing from
// the body keep their current values.
func (c *SettingsAPIServer) HandleUpdateSettings(ctx *gin.Context) {
	current, err := c.store.GetSettings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to retrieve settings"))
		return
	}

	// If no body provided, return current settings
	if ctx.Request.ContentLength == 0 {
		ctx.JSON(http.StatusOK, current)
		return
	}

	// Decoding over the current settings leaves absent fields untouched
	updates := *current
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	if err := c.store.UpdateSettings(&updates); err != nil {
		if errors.Is(err, ErrInvalidTimeout) {
			ctx.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to update settings"))
		return
	}

	ctx.JSON(http.StatusOK, updates)
}
