package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mediashelf/mediashelf/internal/httputil"
	"github.com/mediashelf/mediashelf/internal/jobs"
	"github.com/mediashelf/mediashelf/internal/models"
)

// ──────────────────── System ────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":            s.version.Version,
		"api_key_configured": s.resolver.HasAPIKey(),
		"cache":              s.resolver.Stats(),
	})
}

// ──────────────────── API key ────────────────────

func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if err := s.resolver.ConfigureAPIKey(req.APIKey); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"api_key_configured": true})
}

func (s *Server) handleDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := s.resolver.RemoveAPIKey(); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"api_key_configured": false})
}

// ──────────────────── Resolution ────────────────────

type resolveRequest struct {
	FileID       uuid.UUID `json:"file_id"`
	Filename     string    `json:"filename"`
	ForceRefresh bool      `json:"force_refresh,omitempty"`
}

func (s *Server) handleResolveMovie(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := httputil.ReadJSON(r, &req); err != nil || req.FileID == uuid.Nil || req.Filename == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "file_id and filename are required")
		return
	}

	rec, err := s.resolver.ResolveMovie(r.Context(), req.FileID, req.Filename, req.ForceRefresh)
	if err != nil {
		httputil.WriteCatalogError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleResolveEpisode(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := httputil.ReadJSON(r, &req); err != nil || req.FileID == uuid.Nil || req.Filename == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "file_id and filename are required")
		return
	}

	rec, err := s.resolver.ResolveEpisode(r.Context(), req.FileID, req.Filename, req.ForceRefresh)
	if err != nil {
		httputil.WriteCatalogError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatchID string             `json:"batch_id,omitempty"`
		Files   []models.MediaFile `json:"files"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || len(req.Files) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "files are required")
		return
	}
	if req.BatchID == "" {
		req.BatchID = uuid.New().String()
	}

	payload := jobs.ResolveBatchPayload{BatchID: req.BatchID, Files: req.Files}
	taskID, err := s.queue.EnqueueUnique(jobs.TaskResolveBatch, payload, "resolve:batch:"+req.BatchID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"batch_id": req.BatchID,
		"task_id":  taskID,
		"files":    len(req.Files),
	})
}

// ──────────────────── Cached reads ────────────────────

func (s *Server) fileIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid file ID")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) catalogIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "catalogID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid catalog ID")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := s.fileIDParam(w, r)
	if !ok {
		return
	}
	rec, ok := s.resolver.CachedMovie(id)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "no cached record for file")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.fileIDParam(w, r)
	if !ok {
		return
	}
	rec, ok := s.resolver.CachedEpisode(id)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "no cached record for file")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListShows(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.resolver.AllCachedShows())
}

func (s *Server) handleGetShow(w http.ResponseWriter, r *http.Request) {
	id, ok := s.catalogIDParam(w, r)
	if !ok {
		return
	}
	rec, ok := s.resolver.CachedShow(id)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "show not cached")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleShowSeasons(w http.ResponseWriter, r *http.Request) {
	id, ok := s.catalogIDParam(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.resolver.SeasonsForShow(id))
}

func (s *Server) handleShowEpisodes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.catalogIDParam(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.resolver.EpisodesForShow(id))
}

// ──────────────────── Artwork ────────────────────

var artworkKinds = map[string]models.ArtworkKind{
	"poster":   models.ArtworkPoster,
	"backdrop": models.ArtworkBackdrop,
	"still":    models.ArtworkStill,
}

var artworkVariants = map[string]models.ArtworkVariant{
	"thumb":    models.VariantThumb,
	"detail":   models.VariantDetail,
	"full":     models.VariantFull,
	"w342":     models.VariantThumb,
	"w780":     models.VariantDetail,
	"original": models.VariantFull,
}

func (s *Server) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	kind, ok := artworkKinds[chi.URLParam(r, "kind")]
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "unknown artwork kind")
		return
	}
	variant, ok := artworkVariants[chi.URLParam(r, "variant")]
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "unknown artwork variant")
		return
	}

	path, ok := s.resolver.ArtworkLocalPath(chi.URLParam(r, "ownerID"), kind, variant)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "artwork not cached")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache, must-revalidate")
	http.ServeFile(w, r, path)
}

// ──────────────────── Cache maintenance ────────────────────

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cache":              s.resolver.Stats(),
		"artwork_size_human": s.resolver.ArtworkSizeHuman(),
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.resolver.ClearCache(); err != nil {
		httputil.WriteCatalogError(w, err)
		return
	}
	s.wsHub.Broadcast("cache:stats", s.resolver.Stats())
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleInvalidateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.fileIDParam(w, r)
	if !ok {
		return
	}
	if err := s.resolver.InvalidateFile(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
