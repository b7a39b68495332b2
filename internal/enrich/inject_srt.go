package enrich

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

var srtCleanRe = regexp.MustCompile(`[^A-Za-z0-9\s'%-]`)

// dynamicDuration scales display time with word count: half a second per
// word, clamped to a readable range, never shorter than the spoken line.
func dynamicDuration(base float64, text string) float64 {
	if text == "" {
		return base
	}
	words := len(strings.Fields(text))
	dynamic := math.Max(1.5, math.Min(float64(words)*0.5, 5.0))
	return math.Max(base, dynamic)
}

// AugmentFromSRT derives noteBox highlights straight from transcript lines
// that are not already covered by existing highlights. Sentences split into
// supporting captions at natural break words; single captions alternate
// sides across successive injections.
func (e *Enricher) AugmentFromSRT(p *plan.Plan, entries []srt.Entry) []*plan.Highlight {
	if len(entries) == 0 {
		return nil
	}
	const minGap = 0.5

	sortHighlights(p)

	hasConflict := func(start, duration float64) bool {
		end := start + duration
		for _, existing := range p.Highlights {
			if overlapSeconds(start, end, existing.Start, existing.End()) > 0 {
				return true
			}
			if math.Abs(existing.Start-start) <= minGap {
				return true
			}
		}
		return false
	}

	var injected []*plan.Highlight
	sideToggle := false
	recent := map[string]bool{}

	for _, entry := range entries {
		if len(injected) >= MaxSRTAutoHighlights || len(p.Highlights) >= MaxTotalHighlights {
			break
		}

		start := math.Max(0, entry.Start)
		duration := dynamicDuration(entry.Duration, entry.Text)

		if start < 0.6 || hasConflict(start, duration) {
			continue
		}

		textLower := strings.ToLower(entry.Text)
		if phrase.IsBlacklisted(textLower) {
			continue
		}

		clean := srtCleanRe.ReplaceAllString(entry.Text, " ")
		words := strings.Fields(clean)
		if len(words) == 0 {
			continue
		}

		normalized := strings.ToLower(strings.Join(words, " "))
		if recent[normalized] {
			continue
		}
		recent[normalized] = true

		primary := phrase.FromWords(words, 4, 40)
		if primary == "" || !phrase.Meaningful(primary) {
			continue
		}

		leftWords, rightWords := phrase.SplitSupporting(words)
		leftText := phrase.FromWords(leftWords, 4, 32)
		rightText := ""
		if len(rightWords) > 0 {
			rightText = phrase.FromWords(rightWords, 4, 32)
		}

		highlight := &plan.Highlight{
			ID:                  fmt.Sprintf("srt-%04d", entry.Index),
			Type:                plan.TypeNoteBox,
			Start:               round2(start),
			Duration:            round2(duration),
			Position:            "bottom",
			Layout:              "bottom",
			Importance:          "primary",
			ShowBottom:          true,
			SafeBottom:          0.18,
			SafeInsetHorizontal: 0.08,
			Text:                primary,
			Keyword:             primary,
		}

		type candidate struct {
			side string
			text string
		}
		var candidates []candidate
		if leftText != "" && phrase.Meaningful(leftText) && leftText != primary {
			candidates = append(candidates, candidate{"left", leftText})
		}
		if rightText != "" && phrase.Meaningful(rightText) && rightText != primary && rightText != leftText {
			candidates = append(candidates, candidate{"right", rightText})
		}

		switch {
		case len(candidates) >= 2:
			highlight.SupportingTexts = &plan.SupportingTexts{
				TopLeft:  candidates[0].text,
				TopRight: candidates[1].text,
			}
			highlight.Layout = "dual"
			highlight.StaggerLeft = plan.Float(0)
			highlight.StaggerRight = plan.Float(2.0)
		case len(candidates) == 1:
			if !sideToggle {
				highlight.SupportingTexts = &plan.SupportingTexts{TopLeft: candidates[0].text}
				highlight.Layout = "left"
				highlight.StaggerLeft = plan.Float(0)
			} else {
				highlight.SupportingTexts = &plan.SupportingTexts{TopRight: candidates[0].text}
				highlight.Layout = "right"
				highlight.StaggerRight = plan.Float(0)
			}
			sideToggle = !sideToggle
		}

		if !ensureHighlightKeyword(highlight) {
			continue
		}

		// Bias the pop toward the back half of the spoken line without
		// letting it outlive the entry window.
		hlDuration := highlight.Duration
		if hlDuration <= 0 {
			hlDuration = duration
		}
		windowEnd := start + duration
		maxStart := math.Max(start, windowEnd-hlDuration)
		desired := start + duration*0.55
		highlight.Start = round2(math.Min(math.Max(desired, start), maxStart))

		p.Highlights = append(p.Highlights, highlight)
		injected = append(injected, highlight)
	}

	if len(injected) > 0 {
		sortHighlights(p)
	}
	return injected
}

// ensureHighlightKeyword guarantees a meaningful keyword, promoting the text
// field when needed.
func ensureHighlightKeyword(h *plan.Highlight) bool {
	if h.Keyword != "" && phrase.Meaningful(h.Keyword) {
		return true
	}
	if h.Text != "" && phrase.Meaningful(h.Text) {
		h.Keyword = h.Text
		return true
	}
	return false
}
