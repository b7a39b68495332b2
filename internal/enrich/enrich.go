// Package enrich augments a normalized edit plan with scene-driven metadata:
// B-roll assignments, motion cues, sfx hints, CTA and section-title cards,
// and transcript-derived highlight refinement.
package enrich

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

const (
	MaxSRTAutoHighlights = 6
	MaxTotalHighlights   = 20
	DefaultSectionCards  = 4
	SectionMinGapSeconds = 18.0
)

// Enricher applies the full enrichment pipeline. Catalogs are optional; a
// nil catalog disables the passes that depend on it.
type Enricher struct {
	Broll          *catalog.BrollCatalog
	Sfx            *catalog.SfxCatalog
	Motion         *catalog.MotionRules
	Rules          *catalog.KeywordRules
	BrollThreshold float64
	Logger         *slog.Logger
}

func (e *Enricher) rules() *catalog.KeywordRules {
	if e.Rules != nil {
		return e.Rules
	}
	return catalog.DefaultKeywordRules()
}

func (e *Enricher) threshold() float64 {
	if e.BrollThreshold > 0 {
		return e.BrollThreshold
	}
	return catalog.DefaultBrollThreshold
}

func (e *Enricher) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Run executes every enrichment pass in order. Scene segments, transcript
// entries, and the overlay catalog may each be empty; the corresponding
// passes degrade to no-ops.
func (e *Enricher) Run(p *plan.Plan, scenes []scenemap.Scene, entries []srt.Entry, overlays map[string]any) *plan.Diagnostics {
	diags := &plan.Diagnostics{}

	warnings := e.EnrichSegments(p, scenes)
	for _, w := range warnings {
		diags.Warn(w)
	}

	if injected := e.AugmentFromOverlays(p, overlays, 0.4); len(injected) > 0 {
		e.log().Debug("overlay highlights injected", "count", len(injected))
	}
	if injected := e.AugmentFromSRT(p, entries); len(injected) > 0 {
		e.log().Debug("transcript highlights injected", "count", len(injected))
	}

	windows := snapHighlightsToTranscript(p, scenes, 0.06, 0.6)
	refreshHighlightPhrases(p, windows)
	decorateSectionHighlights(p)
	enforceHighlightSpacing(p, 0.2, 0.6)
	pruneHighlights(p, MaxTotalHighlights)
	trimHighlightsToSegments(p, 0.25)

	e.ensureBrollFromHighlights(p)
	e.ensureMotionFromHighlights(p)
	e.ensureHighlightSfx(p)
	stripNonSectionSfx(p)

	return diags
}

// EnrichSegments runs the per-segment scene pass: b-roll selection, motion
// cues, sfx hint propagation, CTA and section cards, and timing warnings.
// It returns the timing warnings, which are also recorded in plan meta.
func (e *Enricher) EnrichSegments(p *plan.Plan, scenes []scenemap.Scene) []string {
	totalSegments := len(p.Segments)
	assignedMotion := 0
	var ctaCandidates []segmentScene
	var pairs []segmentScene

	for _, segment := range p.Segments {
		if segment.Kind == "" {
			segment.Kind = "normal"
		}

		summary := aggregateScene(segment, scenes)
		if summary == nil {
			segment.Notes = append(segment.Notes, "No matching scene metadata; skipped B-roll and motion cue.")
			continue
		}

		var notes []string

		if e.Broll != nil {
			if broll := selectBroll(summary, e.Broll, e.threshold()); broll != nil {
				segment.Broll = &plan.Broll{
					ID:         broll.ID,
					File:       broll.File,
					Mode:       "full",
					Confidence: broll.Confidence,
					Reasons:    broll.Reasons,
				}
				notes = append(notes, fmt.Sprintf("B-roll assigned: %s (%s)", broll.ID, joinReasons(broll.Reasons)))
			} else {
				notes = append(notes, "No B-roll match above threshold.")
			}
		}

		if e.Motion != nil {
			if cue := selectMotionCue(summary, e.Motion, assignedMotion, totalSegments); cue != "" {
				segment.MotionCue = cue
				assignedMotion++
				notes = append(notes, fmt.Sprintf("Motion cue assigned: %s", cue))
			}
		}

		if summary.CTA {
			ctaCandidates = append(ctaCandidates, segmentScene{segment, summary})
		}

		if len(summary.SfxHints) > 0 && segment.SfxHints == nil {
			segment.SfxHints = summary.SfxHints
			notes = append(notes, fmt.Sprintf("SFX hints propagated: %s", joinReasons(summary.SfxHints)))
		}

		segment.Notes = append(segment.Notes, notes...)
		pairs = append(pairs, segmentScene{segment, summary})
	}

	e.ensureCTAHighlight(p, ctaCandidates)

	if inserted := injectSectionCards(p, pairs, scenes, DefaultSectionCards, SectionMinGapSeconds); inserted > 0 {
		meta := p.EnsureMeta()
		count := inserted
		if existing, ok := meta["generatedSections"]; ok {
			if n, ok := toInt(existing); ok {
				count += n
			}
		}
		meta["generatedSections"] = count
	}

	warnings := computeTimingWarnings(p.Segments, 0.05)
	if len(warnings) > 0 {
		meta := p.EnsureMeta()
		if _, ok := meta["warnings"]; !ok {
			meta["warnings"] = warnings
		}
	}
	return warnings
}

type segmentScene struct {
	segment *plan.Segment
	summary *SceneSummary
}

// computeTimingWarnings flags gaps and overlaps between consecutive segments
// on the source timeline.
func computeTimingWarnings(segments []*plan.Segment, tolerance float64) []string {
	var warnings []string
	for i := 1; i < len(segments); i++ {
		prev, current := segments[i-1], segments[i]
		gap := current.SourceStart - prev.End()
		switch {
		case gap > tolerance:
			warnings = append(warnings, fmt.Sprintf(
				"Gap of %.2fs between %s and %s; consider extending previous duration.",
				gap, prev.ID, current.ID))
		case gap < -tolerance:
			warnings = append(warnings, fmt.Sprintf(
				"Overlap of %.2fs between %s and %s; verify segment timings.",
				-gap, prev.ID, current.ID))
		}
	}
	return warnings
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, ", ")
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func overlapSeconds(aStart, aEnd, bStart, bEnd float64) float64 {
	return math.Max(0, math.Min(aEnd, bEnd)-math.Max(aStart, bStart))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
