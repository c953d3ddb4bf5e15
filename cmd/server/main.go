package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orionhealth/hirag/internal/api"
	"github.com/orionhealth/hirag/internal/config"
	"github.com/orionhealth/hirag/internal/db"
	"github.com/orionhealth/hirag/internal/health"
	"github.com/orionhealth/hirag/internal/llm"
	"github.com/orionhealth/hirag/internal/mcp"
	"github.com/orionhealth/hirag/internal/node"
	"github.com/orionhealth/hirag/internal/search"
)

var version = "dev" // set via ldflags at build time

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	slog.Info("starting orionhealth", "version", version)

	// Load config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Node store: PostgreSQL, or the in-memory engine for single-user
	// setups that keep everything on the device.
	var store node.Store
	if cfg.Database.URL == "memory" {
		slog.Warn("using in-memory store; records are lost on shutdown")
		store = node.NewMemStore()
	} else {
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = node.NewRepository(pool)
	}

	engine := node.NewEngine(store, cfg.Summary.PatientID)
	retriever := search.NewRetriever(store, cfg.Summary.PatientID, cfg.Search)

	// Local model backend
	var models *llm.ModelManager
	var localAdapter llm.Adapter = llm.MockAdapter{}
	if cfg.Models.Local.Enabled {
		models = llm.NewModelManager(cfg.Models.Local.ModelsDir)
		if err := models.Init(); err != nil {
			slog.Warn("could not scan models directory", "error", err)
		}

		modelPath, err := models.Resolve(cfg.Models.Local.ModelID)
		if err != nil {
			slog.Warn("local model not downloaded; local generation disabled",
				"model", cfg.Models.Local.ModelID, "error", err)
		}
		localAdapter = llm.NewLocalAdapter(cfg.Models.Local, modelPath)
	}

	// Router over local and cloud backends
	router, err := llm.NewRouter(cfg.Router)
	if err != nil {
		slog.Error("invalid router configuration", "error", err)
		os.Exit(1)
	}
	router.WithLocal(localAdapter)
	if cfg.Models.Cloud.Enabled {
		router.WithCloud(llm.NewGeminiAdapter(cfg.Models.Cloud))
	}
	slog.Info("model routing configured",
		"strategy", router.Strategy(),
		"local", cfg.Models.Local.Enabled,
		"cloud", cfg.Models.Cloud.Enabled,
	)

	svc := &api.Service{
		Engine:    engine,
		Retriever: retriever,
		Summaries: health.NewGenerator(engine, router, cfg.Summary.MinRecords),
		Router:    router,
		Models:    models,
	}

	// Create MCP server
	mcpServer := mcp.NewServer(svc)

	// Create REST API router
	apiRouter := api.NewRouter(svc)

	// Combined HTTP server
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpServer.Handler())
	mux.Handle("/", apiRouter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("orionhealth server listening",
		"addr", addr,
		"mcp", "/mcp",
		"rest", "/api/v1/",
		"health", "/health",
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
