/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load configuration (.env + environment, flags override)
  2. Load the catalog reference tables (conversion + recipes)
  3. Open the snapshot stores (SQLite primary, JSON file secondary)
  4. Restore the ledger from the last snapshot, if any
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port   HTTP server port
  -db     SQLite snapshot database path (":memory:" for in-memory)
  -state  JSON fallback snapshot file
  -data   directory holding conversion.csv and recipes.csv

A missing reference table logs a warning and yields an empty catalog;
the server still starts and reports unmatched items instead of crashing.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frostline/inventory-engine/api"
	"github.com/frostline/inventory-engine/catalog"
	"github.com/frostline/inventory-engine/config"
	"github.com/frostline/inventory-engine/extract"
	"github.com/frostline/inventory-engine/ingest"
	"github.com/frostline/inventory-engine/ledger"
	"github.com/frostline/inventory-engine/store"
	"github.com/frostline/inventory-engine/store/file"
	"github.com/frostline/inventory-engine/store/sqlite"
)

func main() {
	cfg := config.Load()
	logger := config.GetLogger()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite snapshot database path")
	stateFile := flag.String("state", cfg.StateFile, "JSON fallback snapshot file")
	dataDir := flag.String("data", cfg.DataDir, "reference table directory")
	flag.Parse()

	// Reference data
	conversionRows := readTable(filepath.Join(*dataDir, cfg.ConversionFile), logger)
	recipeRows := readTable(filepath.Join(*dataDir, cfg.RecipeFile), logger)
	cat := catalog.Load(conversionRows, recipeRows, logger)

	// Persistence: SQLite primary with a local JSON file fallback
	primary, err := sqlite.New(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to open snapshot database")
	}
	defer primary.Close()
	snapshots := store.NewFallback(primary, file.New(*stateFile), logger)

	// Engine
	engine := ledger.NewEngine(ledger.DefaultConfig(), cat, snapshots, logger)
	if err := engine.LoadFromStore(context.Background()); err != nil {
		logger.WithError(err).Warn("could not restore ledger snapshot, starting fresh")
	}

	// HTTP shell
	handler := api.NewHandler(engine, extract.New(extract.DefaultGrammar(), logger), logger)
	handler.MaxUploadBytes = cfg.MaxUploadBytes
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}
	logger.Info("server stopped")
}

// readTable reads a reference CSV, degrading to no rows when the file is
// missing or unreadable.
func readTable(path string, logger *logrus.Logger) []ingest.Row {
	f, err := os.Open(path)
	if err != nil {
		logger.WithField("path", path).Warn("reference table not found, loading empty")
		return nil
	}
	defer f.Close()

	rows, err := ingest.ReadCSV(f)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("reference table unreadable, loading empty")
		return nil
	}
	return rows
}
