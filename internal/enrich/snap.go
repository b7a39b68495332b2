package enrich

import (
	"math"
	"regexp"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
)

// snapHighlightsToTranscript aligns each highlight window to the transcript
// scenes it overlaps and returns the window used per highlight. Highlights
// that overlap nothing keep their timing and get no window.
func snapHighlightsToTranscript(p *plan.Plan, scenes []scenemap.Scene, minOverlap, minDuration float64) map[*plan.Highlight][]scenemap.Scene {
	if len(p.Highlights) == 0 || len(scenes) == 0 {
		return nil
	}

	windows := make(map[*plan.Highlight][]scenemap.Scene)

	for _, highlight := range p.Highlights {
		start := highlight.Start
		duration := highlight.Duration
		if duration <= 0 {
			duration = minDuration
		}
		end := start + duration
		if end <= start {
			end = start + minDuration
		}

		window := collectSceneWindow(scenes, start, end, minOverlap)
		if len(window) == 0 {
			var best *scenemap.Scene
			bestOverlap := 0.0
			for i := range scenes {
				scene := scenes[i]
				if scene.End <= scene.Start {
					continue
				}
				if ov := overlapSeconds(start, end, scene.Start, scene.End); ov > bestOverlap {
					bestOverlap = ov
					best = &scenes[i]
				}
			}
			if best != nil {
				window = []scenemap.Scene{*best}
			}
		}
		if len(window) == 0 {
			continue
		}

		snappedStart := window[0].Start
		snappedEnd := window[len(window)-1].End
		if snappedEnd <= snappedStart {
			continue
		}

		highlight.Start = round2(snappedStart)
		highlight.Duration = round2(math.Max(minDuration, snappedEnd-snappedStart))
		windows[highlight] = window
	}

	if len(windows) > 0 {
		sortHighlights(p)
	}
	return windows
}

var phraseWordRe = regexp.MustCompile(`[A-Za-z0-9']+`)

// refreshHighlightPhrases replaces highlight keyword/text with transcript
// noun phrases when the existing value is empty or uses words the viewer
// never hears in that window. Highlights that end up without a meaningful
// phrase are dropped.
func refreshHighlightPhrases(p *plan.Plan, windows map[*plan.Highlight][]scenemap.Scene) {
	if len(p.Highlights) == 0 || len(windows) == 0 {
		return
	}

	var refreshed []*plan.Highlight

	for _, highlight := range p.Highlights {
		window := windows[highlight]
		if len(window) == 0 {
			value := highlight.Keyword
			if value == "" {
				value = highlight.Text
			}
			if highlight.IsSection() || phrase.Meaningful(value) {
				refreshed = append(refreshed, highlight)
			}
			continue
		}
		if strings.HasPrefix(highlight.ID, "cta_") {
			refreshed = append(refreshed, highlight)
			continue
		}

		candidate := derivePhraseFromWindow(window, phrase.MaxKeywordTokens+2)
		if candidate == "" {
			if highlight.IsSection() || phrase.Meaningful(highlight.Keyword) || phrase.Meaningful(highlight.Text) {
				refreshed = append(refreshed, highlight)
			}
			continue
		}

		if strings.EqualFold(highlight.Type, plan.TypeIcon) {
			continue
		}

		transcriptTokens := map[string]bool{}
		for _, scene := range window {
			for _, token := range scene.Tokens {
				if token != "" {
					transcriptTokens[strings.ToUpper(token)] = true
				}
			}
		}

		needsOverride := func(value string) bool {
			if strings.TrimSpace(value) == "" {
				return true
			}
			words := phraseWordRe.FindAllString(value, -1)
			if len(words) == 0 {
				return true
			}
			if len(transcriptTokens) > 0 {
				for _, word := range words {
					if !transcriptTokens[strings.ToUpper(word)] {
						return true
					}
				}
			}
			return false
		}

		if needsOverride(highlight.Keyword) {
			highlight.Keyword = candidate
		}
		if highlight.IsSection() {
			if needsOverride(highlight.Text) {
				highlight.Text = phrase.TitleCase(candidate)
			}
		} else if needsOverride(highlight.Text) {
			highlight.Text = candidate
		}

		value := highlight.Keyword
		if value == "" {
			value = highlight.Text
		}
		if !phrase.Meaningful(value) {
			continue
		}
		refreshed = append(refreshed, highlight)
	}

	p.Highlights = refreshed
}

// decorateSectionHighlights gives every section title a decorated phrase so
// cards never mirror raw transcript snippets, keeping suffixes unique across
// the plan.
func decorateSectionHighlights(p *plan.Plan) {
	if len(p.Highlights) == 0 {
		return
	}

	used := map[string]bool{}
	suffixCount := len(phrase.SectionTitleSuffixes)
	if suffixCount == 0 {
		return
	}

	for _, highlight := range p.Highlights {
		if !highlight.IsSection() {
			continue
		}
		base := highlight.Keyword
		if base == "" {
			base = highlight.Text
		}
		basePhrase := phrase.SelectKeyword(base, phrase.MaxKeywordTokens+1, 48)
		if basePhrase == "" {
			basePhrase = phrase.Condense(base, phrase.MaxKeywordTokens+1, 48)
		}
		if basePhrase == "" {
			basePhrase = "Key Theme"
		}
		seed := phrase.SuffixSeed(highlight.ID)
		baseTitle := phrase.TitleCase(basePhrase)

		chosen := ""
		for attempt := 0; attempt < suffixCount*2; attempt++ {
			suffix := phrase.SectionTitleSuffixes[(seed+attempt)%suffixCount]
			candidate := baseTitle
			if !strings.Contains(strings.ToLower(baseTitle), strings.ToLower(suffix)) {
				candidate = baseTitle + " " + suffix
			}
			candidate = strings.TrimSpace(candidate)
			if !used[strings.ToLower(candidate)] {
				chosen = candidate
				break
			}
		}
		if chosen == "" {
			chosen = strings.TrimSpace(baseTitle)
			if chosen == "" {
				chosen = "Key Theme Overview"
			}
		}

		highlight.Text = chosen
		highlight.Keyword = strings.ToUpper(chosen)
		used[strings.ToLower(chosen)] = true
	}
}
