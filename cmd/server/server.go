package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartstudy/catalog"
	"smartstudy/config"
	"smartstudy/handlers"
	"smartstudy/logger"
	"smartstudy/services/auth"
	"smartstudy/services/genai"
	"smartstudy/services/study"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	courses, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load course catalog", "path", cfg.CatalogPath, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := genai.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize generation gateway", "provider", cfg.GenAIProvider, "error", err)
	}

	authHandler := handlers.NewAuthHandler(auth.NewService(cfg.AppUsername, cfg.AppPassword, log), log)
	generateHandler := handlers.NewGenerateHandler(study.NewService(gateway, log), log)
	courseHandler := handlers.NewCourseHandler(courses, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(log, authHandler, generateHandler, courseHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		}
	}()

	log.Info("Server starting", "port", cfg.Port, "provider", cfg.GenAIProvider, "courses", len(courses.Courses))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed to start", "error", err)
	}
	log.Info("Server stopped")
}
