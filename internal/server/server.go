// Package server exposes the transcription and comparison API over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"voxscribe/internal/asr"
	"voxscribe/internal/audio"
	"voxscribe/internal/config"
	"voxscribe/internal/history"
	"voxscribe/internal/textdiff"
	"voxscribe/internal/transcribe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Transcriber runs one orchestration call.
type Transcriber interface {
	Transcribe(ctx context.Context, wave []float32, modelID string) (transcribe.Result, error)
}

// Server wires the API handlers to the orchestrator and history store.
type Server struct {
	cfg     *config.Config
	logger  *logrus.Logger
	svc     Transcriber
	store   history.Store
	metrics metrics
}

func New(cfg *config.Config, logger *logrus.Logger, svc Transcriber, store history.Store) *Server {
	return &Server{cfg: cfg, logger: logger, svc: svc, store: store}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Post("/transcribe", s.handleTranscribe)
		api.Post("/diff", s.handleDiff)
		api.Get("/models", s.handleModels)
		api.Get("/health", s.handleHealth)
		api.Get("/history", s.handleHistoryList)
		api.Get("/history/{id}", s.handleHistoryGet)
		api.Delete("/history/{id}", s.handleHistoryDelete)
		api.Delete("/history", s.handleHistoryClear)
	})
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully. Writes a pid file for the lifetime of the listener.
func (s *Server) Serve(ctx context.Context) error {
	if err := config.MustStatePaths(s.cfg); err != nil {
		return err
	}
	if pid := s.cfg.Paths.PidPath; pid != "" {
		if err := os.WriteFile(pid, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
			return err
		}
		defer func() {
			if err := os.Remove(pid); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warnf("remove pid file: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.cfg.Metrics.Enabled {
		go s.metricsServe(ctx.Done(), s.cfg.Metrics.Addr, s.logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Infof("voxscribe API listening on %s", s.cfg.Server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type transcribeResponse struct {
	Success       bool               `json:"success"`
	Transcription string             `json:"transcription"`
	Duration      float64            `json:"duration"`
	ModelUsed     string             `json:"model_used"`
	Diff          []textdiff.Segment `json:"diff,omitempty"`
	ID            string             `json:"id,omitempty"`
}

func (s *Server) maxUploadBytes() int64 {
	mb := s.cfg.Server.MaxUploadMB
	if mb <= 0 {
		mb = 64
	}
	return int64(mb) << 20
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes()))
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read audio upload")
		return
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "empty audio file")
		return
	}

	modelID := r.FormValue("model")
	if modelID == "" {
		modelID = s.cfg.ASR.DefaultModel
	}
	if !asr.IsKnownModel(modelID) {
		ids := make([]string, 0)
		for _, m := range asr.Models() {
			ids = append(ids, m.ID)
		}
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid model %q; available models: %s", modelID, strings.Join(ids, ", ")))
		return
	}
	reference := r.FormValue("reference_text")

	wave, err := audio.DecodeWAV(bytes.NewReader(data))
	if err != nil {
		s.metrics.incFailed()
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot decode audio: %v", err))
		return
	}

	res, err := s.svc.Transcribe(r.Context(), wave, modelID)
	if err != nil {
		s.metrics.incFailed()
		switch {
		case errors.Is(err, asr.ErrUnknownModel):
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid model %q", modelID))
		case errors.Is(err, asr.ErrUnavailable):
			s.logger.Warnf("transcribe: %v", err)
			respondError(w, http.StatusServiceUnavailable, "transcription backend unavailable, try again shortly")
		default:
			s.logger.Errorf("transcribe: %v", err)
			respondError(w, http.StatusInternalServerError, "transcription failed")
		}
		return
	}
	s.metrics.incTranscribed()

	var diff []textdiff.Segment
	if strings.TrimSpace(reference) != "" {
		diff = textdiff.Diff(reference, res.Text)
		s.metrics.incDiffed()
	}

	resp := transcribeResponse{
		Success:       true,
		Transcription: res.Text,
		Duration:      res.ElapsedSeconds,
		ModelUsed:     res.Model,
		Diff:          diff,
	}
	if s.cfg.History.Enabled {
		filename := header.Filename
		if filename == "" {
			filename = "audio.wav"
		}
		rec := s.store.Add(history.Record{
			Filename:      filename,
			ModelUsed:     res.Model,
			Transcription: res.Text,
			ReferenceText: reference,
			Duration:      res.ElapsedSeconds,
			Diff:          diff,
		})
		resp.ID = rec.ID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReferenceText string `json:"reference_text"`
		Transcription string `json:"transcription"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ReferenceText == "" && req.Transcription == "" {
		respondError(w, http.StatusBadRequest, "reference_text or transcription is required")
		return
	}
	diff := textdiff.Diff(req.ReferenceText, req.Transcription)
	s.metrics.incDiffed()
	respondJSON(w, http.StatusOK, map[string]any{
		"diff":       diff,
		"similarity": textdiff.Similarity(diff),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"models": asr.Models()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit < 1 {
		limit = 1
	} else if limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "offset", 0)
	records, total := s.store.List(limit, offset)
	if records == nil {
		records = []history.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"total": total, "records": records})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "record deleted"})
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	count := s.store.Clear()
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("deleted %d records", count),
		"count":   count,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
