// stalld is the local shop API fixture for webstall. It serves the
// catalog and records orders in sqlite so the storefront can run
// end to end without a hosted backend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"webstall/internal/config"
	"webstall/internal/stalld"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Stub.DBPath), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := stalld.Open(cfg.Stub.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := stalld.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := stalld.NewStore(db)
	if err := stalld.Seed(ctx, store); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.Stub.Addr,
		Handler: stalld.NewServer(store).Router(),
	}

	go func() {
		log.Printf("stalld listening on %s", cfg.Stub.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
