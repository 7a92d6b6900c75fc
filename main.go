package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Hiltonrealtorsnm/frontend/internal/api"
	"github.com/Hiltonrealtorsnm/frontend/internal/api/handlers"
	"github.com/Hiltonrealtorsnm/frontend/internal/auth"
	"github.com/Hiltonrealtorsnm/frontend/internal/config"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
	"github.com/Hiltonrealtorsnm/frontend/internal/localstore"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
	"github.com/Hiltonrealtorsnm/frontend/internal/services"
	"github.com/Hiltonrealtorsnm/frontend/internal/storage"
	"github.com/Hiltonrealtorsnm/frontend/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background exports), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Redis backs the local slots (wishlist, token, theme) and the task queue
	redisClient, err := localstore.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := localstore.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	store := localstore.NewRedisStore(redisClient, cfg.LocalStorePrefix)
	tokens := auth.NewTokenStore(store, cfg.TokenSlot)
	client := remote.New(cfg, tokens)

	// Exports go to S3 when a bucket is configured, otherwise to disk
	var saver export.Saver
	if cfg.AwsS3Bucket != "" {
		s3Saver, err := storage.NewS3Saver(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 export storage: %v", err)
		}
		saver = s3Saver
		log.Printf("Exports are uploaded to s3://%s", cfg.AwsS3Bucket)
	} else {
		saver = export.NewFileSaver(cfg.ExportDir)
		log.Printf("Exports are written to %s", cfg.ExportDir)
	}
	catalog := services.NewCatalogService(services.SourcesFromClient(client), export.NewExporter(saver), cfg.CountConcurrency)

	// Initialize Task Client
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs)
	serviceRouter := api.SetupServiceRouter(cfg, shutdownChan)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: serviceRouter,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("Service API listening on :%s\n", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		fmt.Println("Service API server stopped.")
	}()

	// --- Mode-specific servers ---
	var mainApiSrv *http.Server
	var views *handlers.ViewRegistry
	var exportTaskSrv *asynq.Server

	// Cancelled on shutdown; stops the rate limiter cleanup loop.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		var mainApiRouter http.Handler
		mainApiRouter, views = api.SetupRouter(appCtx, cfg, api.Deps{
			Client:  client,
			Store:   store,
			Tokens:  tokens,
			Catalog: catalog,
			Tasks:   taskClient,
		})
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting export worker...")
		processor := tasks.NewTaskProcessor(catalog)
		var mux *asynq.ServeMux
		exportTaskSrv, mux = tasks.NewServer(redisClient, processor, cfg.WorkerConcurrency)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Export task server starting...")
			if err := exportTaskSrv.Run(mux); err != nil {
				log.Fatalf("Export task server error: %v", err)
			}
			fmt.Println("Export task server stopped.")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)
	case <-shutdownChan:
		fmt.Println("\nShutdown requested via Service API. Shutting down gracefully...")
	}

	// Create context with timeout for shutdown
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	fmt.Println("Shutting down Service API server...")
	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Service API server shutdown error: %v", err)
	}

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}
	if views != nil {
		fmt.Println("Closing list views...")
		views.Stop()
	}

	if exportTaskSrv != nil {
		fmt.Println("Shutting down Export Task server...")
		exportTaskSrv.Shutdown()
	}
	cancelApp()

	// Wait for all server goroutines to finish
	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
