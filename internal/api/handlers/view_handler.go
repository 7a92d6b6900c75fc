package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/collection"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
	"github.com/Hiltonrealtorsnm/frontend/internal/services"
)

// ViewHandler serves mounted list views.
type ViewHandler struct {
	catalog     services.ICatalogService
	views       *ViewRegistry
	defaultSize int
}

func NewViewHandler(catalog services.ICatalogService, views *ViewRegistry, defaultSize int) *ViewHandler {
	return &ViewHandler{catalog: catalog, views: views, defaultSize: defaultSize}
}

// Mount handles POST /v1/views
func (h *ViewHandler) Mount(c *gin.Context) {
	var opts services.ViewOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	v, err := h.catalog.NewView(opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := h.views.Add(v)
	c.JSON(http.StatusCreated, gin.H{"id": id, "resource": opts.Resource})
}

// Unmount handles DELETE /v1/views/:id
func (h *ViewHandler) Unmount(c *gin.Context) {
	if !h.views.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ViewHandler) view(c *gin.Context) (*services.View, bool) {
	v, ok := h.views.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return nil, false
	}
	return v, true
}

// Collection returns the handler for GET /v1/views/:id/<resource>.
func (h *ViewHandler) Collection(resource services.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := h.view(c)
		if !ok {
			return
		}
		if v.Resource() != resource {
			c.JSON(http.StatusNotFound, gin.H{"error": "View shows " + string(v.Resource())})
			return
		}

		var (
			page services.Page
			err  error
		)
		switch {
		case c.Query("reset") == "true":
			page, err = v.Reset(c.Request.Context())
		case c.Query("refresh") == "true":
			page, err = v.Refresh(c.Request.Context())
		default:
			page, err = v.Load(c.Request.Context(), h.query(c, v), c.Query("property"))
		}
		if err != nil {
			h.loadError(c, page, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// Events handles GET /v1/views/:id/events. It streams the view's pages as
// server-sent events, starting with the current one, so a client sees the
// loading state and late results without polling. A slow reader only gets
// the latest page.
func (h *ViewHandler) Events(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	pages := make(chan services.Page, 1)
	pages <- v.Snapshot()
	unsubscribe := v.Subscribe(func(p services.Page) {
		select {
		case <-pages:
		default:
		}
		pages <- p
	})
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case p := <-pages:
			c.SSEvent("page", p)
			return true
		}
	})
}

// query reads the list query from the URL. Sort and size carry over from
// the view when the request leaves them out.
func (h *ViewHandler) query(c *gin.Context, v *services.View) collection.Query {
	current := v.Snapshot()
	q := collection.Query{
		Criteria: models.ParseFilterCriteria(c.Request.URL.Query()),
		Sort:     current.Sort,
		Size:     current.Size,
	}
	if q.Size == 0 {
		q.Size = h.defaultSize
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil && size > 0 && size <= 500 {
		q.Size = size
	}
	if key := c.Query("sort"); key != "" {
		q.Sort = models.SortSpec{Key: key, Direction: models.Asc}
		if strings.EqualFold(c.Query("dir"), string(models.Desc)) {
			q.Sort.Direction = models.Desc
		}
	}
	return q
}

func (h *ViewHandler) loadError(c *gin.Context, page services.Page, err error) {
	switch {
	case errors.Is(err, collection.ErrStaleResponse):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
	case errors.Is(err, collection.ErrViewClosed):
		c.JSON(http.StatusGone, gin.H{"error": "view closed"})
	case errors.Is(err, collection.ErrFilterUnsupported):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case remote.IsTransportError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "page": page})
	default:
		log.Printf("Error loading view: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collection"})
	}
}

// Sort handles POST /v1/views/:id/sort/:key
func (h *ViewHandler) Sort(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	page, err := v.SortBy(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.loadError(c, page, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Counts handles GET /v1/views/:id/counts
func (h *ViewHandler) Counts(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	counts, err := v.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// Export handles POST /v1/views/:id/export
func (h *ViewHandler) Export(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	var req struct {
		Filename string `json:"filename"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	d, err := v.Export(c.Request.Context(), req.Filename)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Nothing to export"})
			return
		}
		log.Printf("Error exporting view: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	c.JSON(http.StatusCreated, d)
}
