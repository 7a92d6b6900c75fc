package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
)

// IImages manages the images of properties and projects.
type IImages interface {
	PropertyImages(ctx context.Context, propertyID int64) ([]models.Image, error)
	UploadPropertyImages(ctx context.Context, propertyID int64, files []models.ImageFile) ([]models.Image, error)
	ReplacePropertyImage(ctx context.Context, imageID int64, file models.ImageFile) (*models.Image, error)
	DeletePropertyImage(ctx context.Context, propertyID, imageID int64) ([]models.Image, error)
	ReorderPropertyImages(ctx context.Context, propertyID int64, orderedIDs []int64) ([]models.Image, error)

	ProjectImages(ctx context.Context, projectID int64) ([]models.Image, error)
	UploadProjectImages(ctx context.Context, projectID int64, files []models.ImageFile) ([]models.Image, error)
	DeleteProjectImage(ctx context.Context, projectID, imageID int64) ([]models.Image, error)
}

// RemoteImages adapts the remote client to IImages. Operations that change
// the set answer with the resulting display order.
type RemoteImages struct {
	Client *remote.Client
}

func (m RemoteImages) PropertyImages(ctx context.Context, propertyID int64) ([]models.Image, error) {
	p, err := m.Client.Properties().Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return models.NormalizePositions(p.Images), nil
}

func (m RemoteImages) UploadPropertyImages(ctx context.Context, propertyID int64, files []models.ImageFile) ([]models.Image, error) {
	if _, err := m.Client.Properties().UploadImages(ctx, propertyID, files); err != nil {
		return nil, err
	}
	return m.PropertyImages(ctx, propertyID)
}

func (m RemoteImages) ReplacePropertyImage(ctx context.Context, imageID int64, file models.ImageFile) (*models.Image, error) {
	return m.Client.Properties().ReplaceImage(ctx, imageID, file)
}

func (m RemoteImages) DeletePropertyImage(ctx context.Context, propertyID, imageID int64) ([]models.Image, error) {
	current, err := m.PropertyImages(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := m.Client.Properties().DeleteImage(ctx, imageID); err != nil {
		return nil, err
	}
	return models.RemoveImage(current, imageID), nil
}

func (m RemoteImages) ReorderPropertyImages(ctx context.Context, propertyID int64, orderedIDs []int64) ([]models.Image, error) {
	current, err := m.PropertyImages(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return m.Client.Properties().ReorderImages(ctx, propertyID, current, orderedIDs)
}

func (m RemoteImages) ProjectImages(ctx context.Context, projectID int64) ([]models.Image, error) {
	return m.Client.Projects().Images(ctx, projectID)
}

// UploadProjectImages sends one file through the single-image endpoint and
// several through the batch one.
func (m RemoteImages) UploadProjectImages(ctx context.Context, projectID int64, files []models.ImageFile) ([]models.Image, error) {
	var err error
	if len(files) == 1 {
		err = m.Client.Projects().UploadImage(ctx, projectID, files[0])
	} else {
		err = m.Client.Projects().UploadImages(ctx, projectID, files)
	}
	if err != nil {
		return nil, err
	}
	return m.ProjectImages(ctx, projectID)
}

func (m RemoteImages) DeleteProjectImage(ctx context.Context, projectID, imageID int64) ([]models.Image, error) {
	current, err := m.ProjectImages(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := m.Client.Projects().DeleteImage(ctx, imageID); err != nil {
		return nil, err
	}
	return models.RemoveImage(current, imageID), nil
}

type ImageHandler struct {
	images IImages
}

func NewImageHandler(images IImages) *ImageHandler {
	return &ImageHandler{images: images}
}

func imageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("imageId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
		return 0, false
	}
	return id, true
}

func (h *ImageHandler) imagesError(c *gin.Context, op string, id int64, err error) {
	if errors.Is(err, models.ErrInvalidOrder) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("Error in %s for %d: %v", op, id, err)
	c.JSON(remoteStatus(err), gin.H{"error": err.Error()})
}

// uploads reads the multipart files; at least one is required.
func uploads(c *gin.Context, field string) ([]models.ImageFile, bool) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a multipart form"})
		return nil, false
	}
	files, err := readImages(c, field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images uploaded"})
		return nil, false
	}
	return files, true
}

// ListPropertyImages handles GET /v1/admin/properties/:id/images
func (h *ImageHandler) ListPropertyImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	images, err := h.images.PropertyImages(c.Request.Context(), id)
	if err != nil {
		h.imagesError(c, "list property images", id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// UploadPropertyImages handles POST /v1/admin/properties/:id/images (multipart: images).
func (h *ImageHandler) UploadPropertyImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	files, ok := uploads(c, "images")
	if !ok {
		return
	}
	images, err := h.images.UploadPropertyImages(c.Request.Context(), id, files)
	if err != nil {
		h.imagesError(c, "upload property images", id, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"images": images})
}

// ReorderPropertyImages handles PUT /v1/admin/properties/:id/images/order
func (h *ImageHandler) ReorderPropertyImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		ImageIDs []int64 `json:"imageIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageIds are required"})
		return
	}
	images, err := h.images.ReorderPropertyImages(c.Request.Context(), id, req.ImageIDs)
	if err != nil {
		h.imagesError(c, "reorder property images", id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// ReplacePropertyImage handles PUT /v1/admin/properties/:id/images/:imageId (multipart: image).
func (h *ImageHandler) ReplacePropertyImage(c *gin.Context) {
	if _, ok := pathID(c); !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	files, ok := uploads(c, "image")
	if !ok {
		return
	}
	image, err := h.images.ReplacePropertyImage(c.Request.Context(), imgID, files[0])
	if err != nil {
		h.imagesError(c, "replace property image", imgID, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// DeletePropertyImage handles DELETE /v1/admin/properties/:id/images/:imageId
func (h *ImageHandler) DeletePropertyImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	images, err := h.images.DeletePropertyImage(c.Request.Context(), id, imgID)
	if err != nil {
		h.imagesError(c, "delete property image", imgID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// ListProjectImages handles GET /v1/admin/projects/:id/images
func (h *ImageHandler) ListProjectImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	images, err := h.images.ProjectImages(c.Request.Context(), id)
	if err != nil {
		h.imagesError(c, "list project images", id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// UploadProjectImages handles POST /v1/admin/projects/:id/images (multipart: images).
func (h *ImageHandler) UploadProjectImages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	files, ok := uploads(c, "images")
	if !ok {
		return
	}
	images, err := h.images.UploadProjectImages(c.Request.Context(), id, files)
	if err != nil {
		h.imagesError(c, "upload project images", id, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"images": images})
}

// DeleteProjectImage handles DELETE /v1/admin/projects/:id/images/:imageId
func (h *ImageHandler) DeleteProjectImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	images, err := h.images.DeleteProjectImage(c.Request.Context(), id, imgID)
	if err != nil {
		h.imagesError(c, "delete project image", imgID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}
