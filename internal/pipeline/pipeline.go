// Package pipeline orchestrates the plan operations end to end: scene map
// generation, draft normalization, enrichment, and validation, with run
// bookkeeping around each invocation.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/enrich"
	"github.com/NhiLe-Team-Webs/video-be/internal/logging"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/planner"
	"github.com/NhiLe-Team-Webs/video-be/internal/runs"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
	"github.com/NhiLe-Team-Webs/video-be/internal/validate"
)

// Catalogs bundles the asset catalogs and rule tables every stage may use.
// Any member may be nil; the dependent passes degrade to no-ops.
type Catalogs struct {
	Broll  *catalog.BrollCatalog
	Sfx    *catalog.SfxCatalog
	Motion *catalog.MotionRules
	Rules  *catalog.KeywordRules
}

// LoadCatalogs reads the catalog files for the configured asset paths.
// Missing files load as nil catalogs rather than errors.
func LoadCatalogs(brollPath, sfxPath, motionPath, rulesPath string) (Catalogs, error) {
	var cats Catalogs
	var err error
	if cats.Broll, err = catalog.LoadBroll(brollPath); err != nil {
		return cats, err
	}
	if cats.Sfx, err = catalog.LoadSfx(sfxPath); err != nil {
		return cats, err
	}
	if cats.Motion, err = catalog.LoadMotionRules(motionPath); err != nil {
		return cats, err
	}
	if cats.Rules, err = catalog.LoadKeywordRules(rulesPath); err != nil {
		return cats, err
	}
	return cats, nil
}

// Service wires the pipeline stages together. Repo is optional; without it
// no run rows are written. Clock defaults to time.Now.
type Service struct {
	Catalogs      Catalogs
	Planner       planner.Generator
	Repo          runs.Repository
	Logger        *slog.Logger
	Clock         func() time.Time
	FPS           float64
	MaxHighlights int

	// Manifest and AvailableSfx feed extra context into draft prompts.
	Manifest     *planner.ClientManifest
	AvailableSfx map[string]string
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) startRun(ctx context.Context, kind, source string) *runs.Run {
	if s.Repo == nil {
		return nil
	}
	run := runs.NewRun(kind, source, s.now())
	if err := s.Repo.Create(ctx, run); err != nil {
		s.log().Warn("failed to record run", "kind", kind, "error", err)
		return nil
	}
	logging.WithRunID(s.log(), run.ID).Debug("run started", "kind", kind, "source", source)
	return run
}

func (s *Service) finishRun(ctx context.Context, run *runs.Run, p *plan.Plan, warnings int, err error) {
	if run == nil || s.Repo == nil {
		return
	}
	if err != nil {
		if ferr := s.Repo.Fail(ctx, run.ID, err.Error(), s.now()); ferr != nil {
			s.log().Warn("failed to fail run", "run_id", run.ID, "error", ferr)
		}
		return
	}
	segments, highlights := 0, 0
	if p != nil {
		segments = len(p.Segments)
		highlights = len(p.Highlights)
	}
	if cerr := s.Repo.Complete(ctx, run.ID, segments, highlights, warnings, s.now()); cerr != nil {
		s.log().Warn("failed to complete run", "run_id", run.ID, "error", cerr)
	}
}

func warningCount(diag *plan.Diagnostics) int {
	if diag == nil {
		return 0
	}
	return len(diag.Warnings)
}

// SceneMap generates the scored scene map for a transcript.
func (s *Service) SceneMap(ctx context.Context, entries []srt.Entry, source string) (*scenemap.SceneMap, error) {
	run := s.startRun(ctx, runs.KindSceneMap, source)
	if len(entries) == 0 {
		err := srt.ErrNoEntries
		s.finishRun(ctx, run, nil, 0, err)
		return nil, err
	}
	generator := &scenemap.Generator{
		TopicIndex:  scenemap.BuildTopicIndex(s.Catalogs.Broll),
		MotionRules: s.Catalogs.Motion,
		FPS:         s.FPS,
	}
	sm := generator.Generate(entries, s.now())
	if s.Repo != nil && run != nil {
		if err := s.Repo.Complete(ctx, run.ID, len(sm.Segments), 0, 0, s.now()); err != nil {
			s.log().Warn("failed to complete run", "run_id", run.ID, "error", err)
		}
	}
	return sm, nil
}

// Normalize converts raw draft-plan JSON into the canonical model.
func (s *Service) Normalize(ctx context.Context, raw map[string]any, entries []srt.Entry, source string) (*plan.Plan, *plan.Diagnostics, error) {
	run := s.startRun(ctx, runs.KindNormalize, source)
	normalizer := &plan.Normalizer{
		SfxLookup:     catalog.SfxLookupFromCatalog(s.Catalogs.Sfx),
		MaxHighlights: s.MaxHighlights,
	}
	p, diag, err := normalizer.Normalize(raw, entries)
	s.finishRun(ctx, run, p, warningCount(diag), err)
	return p, diag, err
}

// Enrich runs the enrichment pipeline over a normalized plan in place.
func (s *Service) Enrich(ctx context.Context, p *plan.Plan, scenes []scenemap.Scene, entries []srt.Entry, overlays map[string]any, source string) *plan.Diagnostics {
	run := s.startRun(ctx, runs.KindEnrich, source)
	enricher := &enrich.Enricher{
		Broll:  s.Catalogs.Broll,
		Sfx:    s.Catalogs.Sfx,
		Motion: s.Catalogs.Motion,
		Rules:  s.Catalogs.Rules,
		Logger: s.Logger,
	}
	diag := enricher.Run(p, scenes, entries, overlays)
	s.finishRun(ctx, run, p, warningCount(diag), nil)
	return diag
}

// Validate produces the terminal report for a plan. The plan is not mutated.
func (s *Service) Validate(ctx context.Context, p *plan.Plan, source string) *validate.Report {
	run := s.startRun(ctx, runs.KindValidate, source)
	validator := &validate.Validator{
		Broll:  s.Catalogs.Broll,
		Sfx:    s.Catalogs.Sfx,
		Motion: s.Catalogs.Motion,
		Rules:  s.Catalogs.Rules,
	}
	report := validator.Check(p)
	warnings := 0
	for _, issue := range report.Issues {
		if issue.Severity == validate.SeverityWarning {
			warnings++
		}
	}
	s.finishRun(ctx, run, p, warnings, nil)
	return report
}

// PromptInput assembles the model input for a transcript from the service
// catalogs, generating a scene map when entries are present.
func (s *Service) PromptInput(entries []srt.Entry, extra string) planner.PromptInput {
	in := planner.PromptInput{
		Entries:      entries,
		Extra:        extra,
		Broll:        s.Catalogs.Broll,
		Sfx:          s.Catalogs.Sfx,
		Motion:       s.Catalogs.Motion,
		Manifest:     s.Manifest,
		AvailableSfx: s.AvailableSfx,
	}
	if len(entries) > 0 {
		generator := &scenemap.Generator{
			TopicIndex:  scenemap.BuildTopicIndex(s.Catalogs.Broll),
			MotionRules: s.Catalogs.Motion,
			FPS:         s.FPS,
		}
		in.SceneMap = generator.Generate(entries, s.now())
	}
	return in
}

// Draft asks the model for a plan and normalizes the response. Requires a
// configured Planner.
func (s *Service) Draft(ctx context.Context, in planner.PromptInput, source string) (*plan.Plan, *plan.Diagnostics, string, error) {
	run := s.startRun(ctx, runs.KindDraft, source)
	if s.Planner == nil {
		err := planner.ErrNotConfigured
		s.finishRun(ctx, run, nil, 0, err)
		return nil, nil, "", err
	}
	normalizer := &plan.Normalizer{
		SfxLookup:     catalog.SfxLookupFromCatalog(s.Catalogs.Sfx),
		MaxHighlights: s.MaxHighlights,
	}
	p, diag, raw, err := planner.Draft(ctx, s.Planner, in, normalizer, s.Logger)
	s.finishRun(ctx, run, p, warningCount(diag), err)
	return p, diag, raw, err
}
