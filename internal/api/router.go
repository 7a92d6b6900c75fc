package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/api/handlers"
	"github.com/Hiltonrealtorsnm/frontend/internal/api/middleware"
	"github.com/Hiltonrealtorsnm/frontend/internal/auth"
	"github.com/Hiltonrealtorsnm/frontend/internal/config"
	"github.com/Hiltonrealtorsnm/frontend/internal/localstore"
	"github.com/Hiltonrealtorsnm/frontend/internal/prefs"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
	"github.com/Hiltonrealtorsnm/frontend/internal/services"
	"github.com/Hiltonrealtorsnm/frontend/internal/tasks"
	"github.com/Hiltonrealtorsnm/frontend/internal/workflow"
)

// Deps are the long-lived collaborators the API is built from.
type Deps struct {
	Client  *remote.Client
	Store   localstore.Store
	Tokens  *auth.TokenStore
	Catalog services.ICatalogService
	Tasks   tasks.Enqueuer
}

// logNavigator records where the UI is sent after a successful submission;
// the route itself is returned to the caller in the result.
type logNavigator struct{}

func (logNavigator) Navigate(route string) {
	log.Printf("Navigate to %s", route)
}

// SetupRouter configures and returns the main Gin engine together with the
// view registry, which the caller stops on shutdown.
func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) (*gin.Engine, *handlers.ViewRegistry) {
	wishlist := prefs.NewWishlist(deps.Store, cfg.WishlistSlot)
	theme := prefs.NewTheme(deps.Store, cfg.ThemeSlot)
	session := remote.NewSession(deps.Client, deps.Tokens)

	formDeps := workflow.Deps{
		Sellers:    deps.Client.Sellers(),
		Properties: deps.Client.Properties(),
		Projects:   deps.Client.Projects(),
		Enquiries:  deps.Client.Enquiries(),
		Navigator:  logNavigator{},
	}
	forms := handlers.Submitters{
		Listing:  workflow.NewSubmitter(formDeps, cfg.SellerUpsertRetries),
		Project:  workflow.NewSubmitter(formDeps, cfg.SellerUpsertRetries),
		Enquiry:  workflow.NewSubmitter(formDeps, cfg.SellerUpsertRetries),
		Property: workflow.NewSubmitter(formDeps, cfg.SellerUpsertRetries),
	}

	views := handlers.NewViewRegistry(cfg.MaxViews, cfg.ViewIdleTTL)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(ctx, cfg.ApiRateLimit, cfg.ApiRateBurst)
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CorsAllowedOrigin))
	r.Use(rateLimiter.Limit())

	viewHandler := handlers.NewViewHandler(deps.Catalog, views, cfg.DefaultPageSize)
	wishlistHandler := handlers.NewWishlistHandler(wishlist, deps.Client.Properties().Get)
	themeHandler := handlers.NewThemeHandler(theme)
	submissionHandler := handlers.NewSubmissionHandler(forms)
	adminHandler := handlers.NewAdminHandler(session, handlers.RemoteModeration{Client: deps.Client}, deps.Tasks)
	imageHandler := handlers.NewImageHandler(handlers.RemoteImages{Client: deps.Client})

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// List views
		v1.POST("/views", viewHandler.Mount)
		v1.DELETE("/views/:id", viewHandler.Unmount)
		v1.GET("/views/:id/properties", viewHandler.Collection(services.ResourceProperties))
		v1.GET("/views/:id/projects", viewHandler.Collection(services.ResourceProjects))
		v1.GET("/views/:id/enquiries", viewHandler.Collection(services.ResourceEnquiries))
		v1.POST("/views/:id/sort/:key", viewHandler.Sort)
		v1.GET("/views/:id/counts", viewHandler.Counts)
		v1.GET("/views/:id/events", viewHandler.Events)
		v1.POST("/views/:id/export", viewHandler.Export)

		// Local preferences
		v1.GET("/wishlist", wishlistHandler.List)
		v1.GET("/wishlist/changes", wishlistHandler.Changes)
		v1.POST("/wishlist/:id/toggle", wishlistHandler.Toggle)
		v1.GET("/theme", themeHandler.Get)
		v1.PUT("/theme", themeHandler.Set)
		v1.POST("/theme/toggle", themeHandler.Toggle)

		// Public forms
		v1.POST("/listings", submissionHandler.SubmitListing)
		v1.POST("/enquiries", submissionHandler.SendEnquiry)

		// Admin session
		v1.POST("/session", adminHandler.Login)
		v1.DELETE("/session", adminHandler.Logout)

		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AdminSessionMiddleware(deps.Tokens))
		{
			adminRequired.PUT("/properties/:id", submissionHandler.SaveProperty)
			adminRequired.POST("/properties/:id/:action", adminHandler.ModerateProperty)
			adminRequired.DELETE("/properties/:id", adminHandler.Delete(services.ResourceProperties))
			adminRequired.GET("/properties/:id/images", imageHandler.ListPropertyImages)
			adminRequired.POST("/properties/:id/images", imageHandler.UploadPropertyImages)
			adminRequired.PUT("/properties/:id/images/order", imageHandler.ReorderPropertyImages)
			adminRequired.PUT("/properties/:id/images/:imageId", imageHandler.ReplacePropertyImage)
			adminRequired.DELETE("/properties/:id/images/:imageId", imageHandler.DeletePropertyImage)
			adminRequired.POST("/projects", submissionHandler.SubmitProject)
			adminRequired.PUT("/projects/:id/status", adminHandler.UpdateProjectStatus)
			adminRequired.DELETE("/projects/:id", adminHandler.Delete(services.ResourceProjects))
			adminRequired.GET("/projects/:id/images", imageHandler.ListProjectImages)
			adminRequired.POST("/projects/:id/images", imageHandler.UploadProjectImages)
			adminRequired.DELETE("/projects/:id/images/:imageId", imageHandler.DeleteProjectImage)
			adminRequired.DELETE("/enquiries/:id", adminHandler.Delete(services.ResourceEnquiries))
		}

		v1.POST("/exports", middleware.AdminSessionMiddleware(deps.Tokens), adminHandler.EnqueueExport)
	}

	return r, views
}

// SetupServiceRouter configures the internal service Gin engine. It answers
// health checks and lets a supervisor request a graceful shutdown.
func SetupServiceRouter(cfg *config.Config, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			fmt.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				fmt.Println("Shutdown signal sent successfully.")
			default:
				fmt.Println("Shutdown channel already signaled or blocked.")
			}
		case "health":
			c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"mode": cfg.RunMode}})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
