package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/testsabirweb/slack_extract/internal/config"
	"github.com/testsabirweb/slack_extract/internal/scheduler"
	"github.com/testsabirweb/slack_extract/pkg/api"
)

func main() {
	// Initialize logger
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting slack-extract server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Slack.Token != "" {
		log.Printf("Using configured token %s", config.MaskToken(cfg.Slack.Token))
	}

	// Create a new API server
	server := api.NewServer(cfg)

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: server.Router(),
		// Extraction runs can legitimately take minutes when the API is
		// rate limiting; keep the write timeout generous.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
	}

	// Start the scheduler when a cron schedule is configured
	var sched *scheduler.Scheduler
	if cfg.Extract.Schedule != "" {
		sched = scheduler.New(cfg)
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
