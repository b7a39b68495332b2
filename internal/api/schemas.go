package api

import (
	"time"

	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/runs"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/validate"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type SceneMapRequest struct {
	SRT        string `json:"srt"`
	Source     string `json:"source,omitempty"`
	MaxEntries int    `json:"max_entries,omitempty"`
}

type NormalizeRequest struct {
	Plan   map[string]any `json:"plan"`
	SRT    string         `json:"srt,omitempty"`
	Source string         `json:"source,omitempty"`
}

type EnrichRequest struct {
	Plan     map[string]any     `json:"plan"`
	SRT      string             `json:"srt,omitempty"`
	SceneMap *scenemap.SceneMap `json:"scene_map,omitempty"`
	Overlays map[string]any     `json:"overlays,omitempty"`
	Source   string             `json:"source,omitempty"`
}

type ValidateRequest struct {
	Plan   *plan.Plan `json:"plan"`
	Source string     `json:"source,omitempty"`
}

type DraftRequest struct {
	SRT        string `json:"srt"`
	Extra      string `json:"extra,omitempty"`
	MaxEntries int    `json:"max_entries,omitempty"`
	Source     string `json:"source,omitempty"`
}

type PlanResponse struct {
	Plan     *plan.Plan `json:"plan"`
	Warnings []string   `json:"warnings,omitempty"`
}

type DraftResponse struct {
	Plan     *plan.Plan `json:"plan"`
	Warnings []string   `json:"warnings,omitempty"`
	Raw      string     `json:"raw,omitempty"`
}

type ValidateResponse struct {
	IsValid bool             `json:"is_valid"`
	Issues  []validate.Issue `json:"issues,omitempty"`
}

type RunResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Source         string `json:"source,omitempty"`
	Status         string `json:"status"`
	SegmentCount   int    `json:"segment_count"`
	HighlightCount int    `json:"highlight_count"`
	WarningCount   int    `json:"warning_count"`
	Error          string `json:"error,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RunToResponse(r *runs.Run) RunResponse {
	return RunResponse{
		ID:             r.ID,
		Kind:           r.Kind,
		Source:         r.Source,
		Status:         r.Status,
		SegmentCount:   r.SegmentCount,
		HighlightCount: r.HighlightCount,
		WarningCount:   r.WarningCount,
		Error:          r.Error,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}

func diagWarnings(diag *plan.Diagnostics) []string {
	if diag == nil {
		return nil
	}
	return diag.Warnings
}
