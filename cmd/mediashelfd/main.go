package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mediashelf/mediashelf/internal/api"
	"github.com/mediashelf/mediashelf/internal/artwork"
	"github.com/mediashelf/mediashelf/internal/catalog"
	"github.com/mediashelf/mediashelf/internal/config"
	"github.com/mediashelf/mediashelf/internal/jobs"
	"github.com/mediashelf/mediashelf/internal/keystore"
	"github.com/mediashelf/mediashelf/internal/resolver"
	"github.com/mediashelf/mediashelf/internal/scheduler"
	"github.com/mediashelf/mediashelf/internal/version"
)

func main() {
	ver := version.Load(os.Getenv("VERSION_FILE"))
	log.Printf("MediaShelf %s starting...", ver.Version)

	cfg := config.Load()

	keys, err := keystore.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("keystore init failed: %v", err)
	}
	if cfg.TMDBAPIKey != "" && !keys.HasKey() {
		if err := keys.Store(cfg.TMDBAPIKey); err != nil {
			log.Printf("warning: could not store bootstrap API key: %v", err)
		}
	}

	artworkCache, err := artwork.NewCache(filepath.Join(cfg.DataDir, "artwork"))
	if err != nil {
		log.Fatalf("artwork cache init failed: %v", err)
	}

	imageCDN := cfg.ImageCDNURL
	if imageCDN == "" {
		imageCDN = catalog.DefaultImageBaseURL
	}

	res, err := resolver.New(resolver.Config{
		DataDir:    cfg.DataDir,
		Provider:   catalog.NewTMDBClient(cfg.CatalogURL, keys),
		Keys:       keys,
		Artwork:    artworkCache,
		Downloader: artwork.NewDownloader(artworkCache, imageCDN),
		BatchDelay: cfg.BatchDelay,
	})
	if err != nil {
		log.Fatalf("resolver init failed: %v", err)
	}

	queue := jobs.NewQueue(cfg.RedisAddr)
	defer queue.Stop()

	srv := api.NewServer(res, queue, ver)

	jobs.RegisterHandlers(queue, res, srv.WSHub())
	if err := queue.Start(context.Background()); err != nil {
		log.Fatalf("job queue failed to start: %v", err)
	}

	statsTicker := scheduler.New(res, srv.WSHub(), cfg.StatsEvery)
	statsTicker.Start()
	defer statsTicker.Stop()

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)

	// Let in-flight artwork downloads land before the process exits.
	res.WaitBackground()
}
