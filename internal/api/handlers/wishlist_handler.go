package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// IWishlist is the saved-properties list.
type IWishlist interface {
	List(ctx context.Context) ([]int64, error)
	Toggle(ctx context.Context, id int64) (bool, error)
	Resolve(ctx context.Context, fetch func(ctx context.Context, id int64) (*models.Property, error)) ([]models.Property, error)
	Watch(ctx context.Context, fn func(ids []int64)) error
}

// PropertyFetcher loads one property for the wishlist page.
type PropertyFetcher func(ctx context.Context, id int64) (*models.Property, error)

type WishlistHandler struct {
	wishlist IWishlist
	fetch    PropertyFetcher
}

func NewWishlistHandler(wishlist IWishlist, fetch PropertyFetcher) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, fetch: fetch}
}

// List handles GET /v1/wishlist. With ?resolve=true the saved properties are
// loaded too; ones that fail to load are left out.
func (h *WishlistHandler) List(c *gin.Context) {
	ids, err := h.wishlist.List(c.Request.Context())
	if err != nil {
		log.Printf("Error reading wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read wishlist"})
		return
	}
	resp := gin.H{"ids": ids}
	if c.Query("resolve") == "true" {
		props, err := h.wishlist.Resolve(c.Request.Context(), h.fetch)
		if err != nil {
			log.Printf("Error resolving wishlist: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved properties"})
			return
		}
		resp["properties"] = props
	}
	c.JSON(http.StatusOK, resp)
}

// Toggle handles POST /v1/wishlist/:id/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}
	saved, err := h.wishlist.Toggle(c.Request.Context(), id)
	if err != nil {
		log.Printf("Error toggling wishlist entry %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "saved": saved})
}

// Changes handles GET /v1/wishlist/changes. It streams the saved IDs as
// server-sent events: once on connect, then after every change made through
// any client sharing the slot. Only the latest list is kept for a slow reader.
func (h *WishlistHandler) Changes(c *gin.Context) {
	ctx := c.Request.Context()
	updates := make(chan []int64, 1)
	err := h.wishlist.Watch(ctx, func(ids []int64) {
		select {
		case <-updates:
		default:
		}
		updates <- ids
	})
	if err != nil {
		log.Printf("Error watching wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to watch wishlist"})
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ids := <-updates:
			c.SSEvent("wishlist", gin.H{"ids": ids})
			return true
		}
	})
}
