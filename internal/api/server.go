// Package api exposes the resolver over HTTP: resolve endpoints, cached
// reads, artwork serving, key management, and a websocket feed for batch
// progress.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mediashelf/mediashelf/internal/jobs"
	"github.com/mediashelf/mediashelf/internal/resolver"
	"github.com/mediashelf/mediashelf/internal/version"
)

type Server struct {
	resolver *resolver.Resolver
	queue    *jobs.Queue
	version  version.Info
	wsHub    *WSHub
	router   chi.Router
}

func NewServer(res *resolver.Resolver, queue *jobs.Queue, ver version.Info) *Server {
	s := &Server{
		resolver: res,
		queue:    queue,
		version:  ver,
		wsHub:    NewWSHub(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/ws", s.handleWebSocket)

		// Catalog API key
		r.Put("/settings/api-key", s.handleSetAPIKey)
		r.Delete("/settings/api-key", s.handleDeleteAPIKey)

		// Resolution
		r.Post("/resolve/movie", s.handleResolveMovie)
		r.Post("/resolve/episode", s.handleResolveEpisode)
		r.Post("/resolve/batch", s.handleResolveBatch)

		// Cached reads
		r.Get("/movies/{fileID}", s.handleGetMovie)
		r.Get("/episodes/{fileID}", s.handleGetEpisode)
		r.Get("/shows", s.handleListShows)
		r.Get("/shows/{catalogID}", s.handleGetShow)
		r.Get("/shows/{catalogID}/seasons", s.handleShowSeasons)
		r.Get("/shows/{catalogID}/episodes", s.handleShowEpisodes)

		// Artwork
		r.Get("/artwork/{kind}/{ownerID}/{variant}", s.handleGetArtwork)

		// Cache maintenance
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/cache", s.handleClearCache)
		r.Delete("/files/{fileID}/metadata", s.handleInvalidateFile)
	})

	s.router = r
}
