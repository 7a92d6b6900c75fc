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
	"github.com/Hiltonrealtorsnm/frontend/internal/services"
	"github.com/Hiltonrealtorsnm/frontend/internal/tasks"
)

// ISession logs the admin in and out.
type ISession interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// IModeration holds the admin actions on listings.
type IModeration interface {
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	MarkSold(ctx context.Context, id int64) error
	DeleteProperty(ctx context.Context, id int64) error
	UpdateProjectStatus(ctx context.Context, id int64, status models.ProjectStatus) error
	DeleteProject(ctx context.Context, id int64) error
	DeleteEnquiry(ctx context.Context, id int64) error
}

// RemoteModeration adapts the remote client to IModeration.
type RemoteModeration struct {
	Client *remote.Client
}

func (m RemoteModeration) Approve(ctx context.Context, id int64) error {
	return m.Client.Properties().Approve(ctx, id)
}

func (m RemoteModeration) Reject(ctx context.Context, id int64) error {
	return m.Client.Properties().Reject(ctx, id)
}

func (m RemoteModeration) MarkSold(ctx context.Context, id int64) error {
	return m.Client.Properties().MarkSold(ctx, id)
}

func (m RemoteModeration) DeleteProperty(ctx context.Context, id int64) error {
	return m.Client.Properties().Delete(ctx, id)
}

func (m RemoteModeration) UpdateProjectStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	return m.Client.Projects().UpdateStatus(ctx, id, status)
}

func (m RemoteModeration) DeleteProject(ctx context.Context, id int64) error {
	return m.Client.Projects().Delete(ctx, id)
}

func (m RemoteModeration) DeleteEnquiry(ctx context.Context, id int64) error {
	return m.Client.Enquiries().Delete(ctx, id)
}

type AdminHandler struct {
	session    ISession
	moderation IModeration
	tasks      tasks.Enqueuer
}

func NewAdminHandler(session ISession, moderation IModeration, taskClient tasks.Enqueuer) *AdminHandler {
	return &AdminHandler{session: session, moderation: moderation, tasks: taskClient}
}

func remoteStatus(err error) int {
	var te *remote.TransportError
	if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 {
		return te.StatusCode
	}
	return http.StatusBadGateway
}

// Login handles POST /v1/session
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if err := h.session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		log.Printf("Admin login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": "admin/dashboard"})
}

// Logout handles DELETE /v1/session
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		log.Printf("Error clearing admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": "admin/login"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// ModerateProperty handles POST /v1/admin/properties/:id/:action
func (h *AdminHandler) ModerateProperty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var fn func(context.Context, int64) error
	switch c.Param("action") {
	case "approve":
		fn = h.moderation.Approve
	case "reject":
		fn = h.moderation.Reject
	case "sold":
		fn = h.moderation.MarkSold
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown action"})
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		log.Printf("Error applying %s to property %d: %v", c.Param("action"), id, err)
		c.JSON(remoteStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateProjectStatus handles PUT /v1/admin/projects/:id/status
func (h *AdminHandler) UpdateProjectStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.ProjectStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidProjectStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project status"})
		return
	}
	if err := h.moderation.UpdateProjectStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(remoteStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete returns the handler for DELETE /v1/admin/<resource>/:id.
func (h *AdminHandler) Delete(resource services.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var err error
		switch resource {
		case services.ResourceProperties:
			err = h.moderation.DeleteProperty(c.Request.Context(), id)
		case services.ResourceProjects:
			err = h.moderation.DeleteProject(c.Request.Context(), id)
		default:
			err = h.moderation.DeleteEnquiry(c.Request.Context(), id)
		}
		if err != nil {
			c.JSON(remoteStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// EnqueueExport handles POST /v1/exports
func (h *AdminHandler) EnqueueExport(c *gin.Context) {
	var payload tasks.ExportTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	id, err := tasks.EnqueueExport(c.Request.Context(), h.tasks, payload)
	if err != nil {
		if errors.Is(err, services.ErrUnknownResource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error enqueuing export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue export"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": id})
}
