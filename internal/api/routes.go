package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/planner"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Post("/scene-map", sceneMapHandler(cfg))
		r.Post("/plans/normalize", normalizeHandler(cfg))
		r.Post("/plans/enrich", enrichHandler(cfg))
		r.Post("/plans/validate", validateHandler(cfg))
		r.Post("/plans/draft", draftHandler(cfg))
		r.Post("/plans/export", exportHandler(cfg))
		r.Get("/runs", listRunsHandler(cfg))
		r.Get("/runs/{id}", getRunHandler(cfg))
		r.Get("/assets/*", assetHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func parseEntries(cfg ServerConfig, content string, maxEntries int) ([]srt.Entry, error) {
	if maxEntries <= 0 {
		maxEntries = cfg.MaxEntries
	}
	return srt.Parse(strings.NewReader(content), maxEntries)
}

func sceneMapHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SceneMapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.SRT == "" {
			WriteError(w, http.StatusBadRequest, "srt is required", "BAD_REQUEST")
			return
		}

		entries, err := parseEntries(cfg, req.SRT, req.MaxEntries)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		sm, err := cfg.Service.SceneMap(r.Context(), entries, req.Source)
		if err != nil {
			if errors.Is(err, srt.ErrNoEntries) {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, sm)
	}
}

func normalizeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NormalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Plan == nil {
			WriteError(w, http.StatusBadRequest, "plan is required", "BAD_REQUEST")
			return
		}

		entries, err := parseEntries(cfg, req.SRT, 0)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		p, diag, err := cfg.Service.Normalize(r.Context(), req.Plan, entries, req.Source)
		if err != nil {
			if errors.Is(err, plan.ErrInvalidInput) {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, PlanResponse{Plan: p, Warnings: diagWarnings(diag)})
	}
}

func enrichHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EnrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Plan == nil {
			WriteError(w, http.StatusBadRequest, "plan is required", "BAD_REQUEST")
			return
		}

		entries, err := parseEntries(cfg, req.SRT, 0)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		p, diag, err := cfg.Service.Normalize(r.Context(), req.Plan, entries, req.Source)
		if err != nil {
			if errors.Is(err, plan.ErrInvalidInput) {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		var scenes []scenemap.Scene
		if req.SceneMap != nil {
			scenes = req.SceneMap.Segments
		}

		enrichDiag := cfg.Service.Enrich(r.Context(), p, scenes, entries, req.Overlays, req.Source)
		if diag == nil {
			diag = enrichDiag
		} else {
			diag.Merge(enrichDiag)
		}

		WriteJSON(w, http.StatusOK, PlanResponse{Plan: p, Warnings: diagWarnings(diag)})
	}
}

func validateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Plan == nil {
			WriteError(w, http.StatusBadRequest, "plan is required", "BAD_REQUEST")
			return
		}

		report := cfg.Service.Validate(r.Context(), req.Plan, req.Source)
		WriteJSON(w, http.StatusOK, ValidateResponse{IsValid: report.IsValid, Issues: report.Issues})
	}
}

func draftHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.SRT == "" {
			WriteError(w, http.StatusBadRequest, "srt is required", "BAD_REQUEST")
			return
		}

		entries, err := parseEntries(cfg, req.SRT, req.MaxEntries)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if len(entries) == 0 {
			WriteError(w, http.StatusBadRequest, srt.ErrNoEntries.Error(), "BAD_REQUEST")
			return
		}

		in := cfg.Service.PromptInput(entries, req.Extra)
		p, diag, raw, err := cfg.Service.Draft(r.Context(), in, req.Source)
		if err != nil {
			if errors.Is(err, planner.ErrNotConfigured) {
				WriteError(w, http.StatusServiceUnavailable, err.Error(), "NOT_CONFIGURED")
				return
			}
			cfg.Logger.Error("draft failed", "error", err, "source", req.Source)
			WriteError(w, http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, DraftResponse{Plan: p, Warnings: diagWarnings(diag), Raw: raw})
	}
}

func listRunsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				WriteError(w, http.StatusBadRequest, "invalid limit", "BAD_REQUEST")
				return
			}
			limit = parsed
		}

		all, err := cfg.Repository.List(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list runs", "INTERNAL_ERROR")
			return
		}

		resp := RunsResponse{Runs: make([]RunResponse, len(all))}
		for i, run := range all {
			resp.Runs[i] = RunToResponse(run)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getRunHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "run id required", "BAD_REQUEST")
			return
		}

		run, err := cfg.Repository.Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if run == nil {
			WriteError(w, http.StatusNotFound, "run not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, RunToResponse(run))
	}
}

func assetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Assets == nil {
			WriteError(w, http.StatusNotFound, "assets not configured", "NOT_FOUND")
			return
		}

		relPath := chi.URLParam(r, "*")
		if err := cfg.Assets.ServeAsset(w, r, relPath); err != nil {
			cfg.Logger.Error("asset error", "error", err, "path", relPath)
		}
	}
}
