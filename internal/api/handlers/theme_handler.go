package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ITheme is the persisted colour theme.
type ITheme interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, theme string) error
	Toggle(ctx context.Context) (string, error)
}

type ThemeHandler struct {
	theme ITheme
}

func NewThemeHandler(theme ITheme) *ThemeHandler {
	return &ThemeHandler{theme: theme}
}

// Get handles GET /v1/theme
func (h *ThemeHandler) Get(c *gin.Context) {
	theme, err := h.theme.Get(c.Request.Context())
	if err != nil {
		log.Printf("Error reading theme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// Set handles PUT /v1/theme
func (h *ThemeHandler) Set(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.theme.Set(c.Request.Context(), req.Theme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

// Toggle handles POST /v1/theme/toggle
func (h *ThemeHandler) Toggle(c *gin.Context) {
	theme, err := h.theme.Toggle(c.Request.Context())
	if err != nil {
		log.Printf("Error toggling theme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
