// Package main provides the embedded DocNest backend server for desktop
// platforms. The desktop shell communicates via REST/WebSocket on
// localhost only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docnest/docnest/cmd/desktop/handlers"
	"github.com/docnest/docnest/internal/config"
	"github.com/docnest/docnest/internal/db"
	"github.com/docnest/docnest/internal/export"
	"github.com/docnest/docnest/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(os.Stderr, logging.ParseLevel(cfg.Log.Level))

	database, err := db.Open(cfg.DataDir)
	if err != nil {
		logging.Error("failed to open database", err, nil)
		os.Exit(1)
	}
	defer database.Close()

	migrator := db.NewMigrator(database.DB, db.Migrations())
	if err := migrator.Initialize(); err != nil {
		logging.Error("failed to initialize migrations", err, nil)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		logging.Error("failed to apply migrations", err, nil)
		os.Exit(1)
	}

	repo := db.NewRepository(database.DB)
	defer repo.Close()

	engine := export.NewService(repo, export.Config{
		StagingRoot:     export.DataDirRoot(cfg.DataDir),
		ExcludePatterns: cfg.Export.ExcludePatterns,
		History:         repo,
	})

	hub := NewWSHub()
	mux := newMux(repo, engine, hub, cfg)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	go func() {
		logging.Info("desktop server listening", map[string]interface{}{
			"addr": cfg.Server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server failed", err, nil)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error("shutdown failed", err, nil)
	}
}

// newMux wires all REST and WebSocket routes.
func newMux(repo *db.Repository, engine export.Engine, hub *WSHub, cfg *config.Config) *http.ServeMux {
	categoryHandler := handlers.NewCategoryHandler(repo)
	documentHandler := handlers.NewDocumentHandler(repo)
	attachmentHandler := handlers.NewAttachmentHandler(repo)
	exportHandler := handlers.NewExportHandler(engine, repo, hub, cfg.ExportDir)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"docnest-desktop"}`))
	})

	mux.HandleFunc("GET /api/categories", categoryHandler.List)
	mux.HandleFunc("POST /api/categories", categoryHandler.Create)
	mux.HandleFunc("GET /api/categories/{id}", categoryHandler.Get)
	mux.HandleFunc("PUT /api/categories/{id}", categoryHandler.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", categoryHandler.Delete)
	mux.HandleFunc("GET /api/categories/{id}/documents", documentHandler.List)

	mux.HandleFunc("POST /api/documents", documentHandler.Create)
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.Get)
	mux.HandleFunc("PUT /api/documents/{id}", documentHandler.Update)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.Delete)
	mux.HandleFunc("GET /api/documents/{id}/attachments", attachmentHandler.List)
	mux.HandleFunc("POST /api/documents/{id}/attachments", attachmentHandler.Create)

	mux.HandleFunc("GET /api/attachments/{id}", attachmentHandler.Get)
	mux.HandleFunc("DELETE /api/attachments/{id}", attachmentHandler.Delete)

	mux.HandleFunc("POST /api/export", exportHandler.Export)
	mux.HandleFunc("GET /api/export/stats", exportHandler.Stats)
	mux.HandleFunc("GET /api/export/history", exportHandler.History)

	mux.HandleFunc("GET /ws", HandleWebSocket(hub))

	return mux
}
