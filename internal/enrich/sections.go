package enrich

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
)

// ensureCTAHighlight appends a centred call-to-action card when the scene
// map flagged CTA segments and the plan does not already carry one.
func (e *Enricher) ensureCTAHighlight(p *plan.Plan, candidates []segmentScene) {
	for _, h := range p.Highlights {
		if strings.Contains(strings.ToLower(h.ID), "cta") || h.Type == plan.TypeCTA {
			return
		}
	}
	if len(candidates) == 0 {
		return
	}

	// The last candidate usually sits near the outro.
	pick := candidates[len(candidates)-1]
	segment, scene := pick.segment, pick.summary

	start := math.Max(scene.Start, segment.SourceStart)
	duration := segment.Duration
	if duration <= 0 {
		duration = 4.0
	}
	clamped := math.Max(2.5, math.Min(5.0, duration))
	highlightStart := math.Max(start, start+duration-3.0)

	text := e.rules().CTAText
	volume := 0.7
	p.Highlights = append(p.Highlights, &plan.Highlight{
		ID:        "cta_subscribe",
		Type:      plan.TypeSectionTitle,
		Text:      text,
		Start:     round2(highlightStart),
		Duration:  round2(clamped),
		Position:  "center",
		Animation: "float",
		Variant:   "brand",
		Sfx:       e.Sfx.ApplauseFile(),
		Volume:    &volume,
	})
}

// injectSectionCards inserts up to maxCards centred section titles at major
// topic pivots: high-impact scenes that are long enough, not too early, and
// well clear of existing section cards. Returns the number inserted.
func injectSectionCards(p *plan.Plan, pairs []segmentScene, scenes []scenemap.Scene, maxCards int, minGapSeconds float64) int {
	if len(pairs) == 0 {
		return 0
	}

	var existingSections []float64
	for _, h := range p.Highlights {
		if h.IsSection() {
			existingSections = append(existingSections, h.Start)
		}
	}
	sort.Float64s(existingSections)

	inserted := 0
	lastSection := math.Inf(-1)
	if len(existingSections) > 0 {
		lastSection = existingSections[len(existingSections)-1]
	}

	for _, pair := range pairs {
		if inserted >= maxCards {
			break
		}
		summary := pair.summary
		if summary.HighlightScore < 0.65 || summary.Duration() < 3.0 {
			continue
		}
		startTime := summary.Start
		if startTime < 5.0 || startTime < lastSection+minGapSeconds {
			continue
		}
		tooClose := false
		for _, existing := range existingSections {
			if math.Abs(startTime-existing) < minGapSeconds*0.5 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		window := collectSceneWindow(scenes, summary.Start, summary.End, 0.4)
		if len(window) == 0 {
			continue
		}
		phraseText := derivePhraseFromWindow(window, phrase.MaxKeywordTokens+2)
		if phraseText == "" {
			continue
		}

		rawID := pair.segment.ID
		if rawID == "" {
			rawID = fmt.Sprintf("%d", len(p.Highlights)+inserted)
		}

		card := &plan.Highlight{
			ID:         fmt.Sprintf("section_%s", rawID),
			Type:       plan.TypeSectionTitle,
			Start:      round2(window[0].Start),
			Duration:   round2(math.Min(math.Max(summary.Duration(), 3.2), 5.2)),
			Text:       phrase.TitleCase(phraseText),
			Keyword:    phraseText,
			Position:   "center",
			Animation:  "float",
			Variant:    "brand",
			Overlay:    &plan.Overlay{Tint: "#050607", Opacity: 0.72, BlendMode: "multiply"},
			Sfx:        "assets/sfx/ui/swipe.mp3",
			Volume:     plan.Float(0.55),
			Importance: "primary",
		}

		p.Highlights = append(p.Highlights, card)
		inserted++
		existingSections = append(existingSections, card.Start)
		sort.Float64s(existingSections)
		lastSection = card.Start
	}

	if inserted > 0 {
		sortHighlights(p)
	}
	return inserted
}

// collectSceneWindow returns the transcript scenes overlapping a time window
// by at least minOverlap seconds, ordered by start.
func collectSceneWindow(scenes []scenemap.Scene, start, end, minOverlap float64) []scenemap.Scene {
	var window []scenemap.Scene
	for _, scene := range scenes {
		if scene.End <= scene.Start {
			continue
		}
		if overlapSeconds(start, end, scene.Start, scene.End) >= minOverlap {
			window = append(window, scene)
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Start < window[j].Start
	})
	return window
}

// derivePhraseFromWindow builds an uppercase noun phrase from the window's
// combined text, falling back to its raw token stream.
func derivePhraseFromWindow(window []scenemap.Scene, maxTokens int) string {
	if len(window) == 0 {
		return ""
	}

	var parts []string
	var tokens []string
	for _, scene := range window {
		if line := scene.Line(); line != "" {
			parts = append(parts, strings.TrimSpace(line))
		}
		tokens = append(tokens, scene.Tokens...)
	}

	if blob := strings.TrimSpace(strings.Join(parts, " ")); blob != "" {
		if candidate := phrase.SelectKeyword(blob, maxTokens, 48); candidate != "" {
			return candidate
		}
	}

	if len(tokens) > 0 {
		filtered := phrase.NewKeywordFilter().NounPhrase(tokens, maxTokens)
		if len(filtered) > 0 {
			fallback := strings.ToUpper(strings.Join(filtered, " "))
			if phrase.Meaningful(fallback) {
				return fallback
			}
		}
	}
	return ""
}

func sortHighlights(p *plan.Plan) {
	sort.SliceStable(p.Highlights, func(i, j int) bool {
		return p.Highlights[i].Start < p.Highlights[j].Start
	})
}
