package enrich

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
)

// enforceHighlightSpacing prevents overlapping highlight windows. Earlier
// highlights get trimmed to make room; when there is no room, the less
// important side loses, with section titles always outranking other types.
func enforceHighlightSpacing(p *plan.Plan, minGap, minDuration float64) {
	if len(p.Highlights) == 0 {
		return
	}

	ordered := append([]*plan.Highlight(nil), p.Highlights...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var filtered []*plan.Highlight

	for _, current := range ordered {
		start := current.Start
		duration := math.Max(minDuration, current.Duration)

		for len(filtered) > 0 {
			previous := filtered[len(filtered)-1]
			prevStart := previous.Start
			prevDuration := math.Max(minDuration, previous.Duration)
			prevEnd := prevStart + prevDuration
			if start >= prevEnd+minGap {
				break
			}

			available := start - minGap - prevStart
			currentIsSection := current.IsSection()
			previousIsSection := previous.IsSection()

			if available >= minDuration {
				previous.Duration = round2(available)
				break
			}

			if currentIsSection && !previousIsSection {
				filtered = filtered[:len(filtered)-1]
				continue
			}

			if !currentIsSection && previousIsSection {
				break
			}

			if available > 0.4 {
				previous.Duration = round2(math.Max(minDuration, available))
				break
			}

			if duration > prevDuration {
				filtered = filtered[:len(filtered)-1]
				continue
			}

			break
		}

		if len(filtered) > 0 {
			previous := filtered[len(filtered)-1]
			prevEnd := previous.Start + previous.Duration
			if start < prevEnd+minGap {
				continue
			}
		}

		current.Start = round2(start)
		current.Duration = round2(duration)
		filtered = append(filtered, current)
	}

	p.Highlights = filtered
}

var pruneTokenRe = regexp.MustCompile(`[A-Za-z0-9]+`)

// scoreHighlight ranks a highlight for pruning: section titles and CTAs
// dominate, then noun-rich compact phrases, numbers, duration, and earlier
// placement.
func scoreHighlight(h *plan.Highlight) float64 {
	base := 0.0
	switch strings.ToLower(h.Type) {
	case "sectiontitle":
		base += 120
	case "icon":
		base += 40
	case "cta":
		base += 80
	}

	if strings.EqualFold(h.Importance, "primary") {
		base += 12
	}

	text := h.Keyword
	if text == "" {
		text = h.Text
	}
	tokens := pruneTokenRe.FindAllString(text, -1)
	if len(tokens) == 0 {
		return base - 25.0
	}

	var contentTokens []string
	nounLike := 0
	for _, token := range tokens {
		if phrase.IsConnector(strings.ToUpper(token)) {
			continue
		}
		contentTokens = append(contentTokens, token)
		if !phrase.IsCommonVerb(strings.ToLower(token)) {
			nounLike++
		}
	}
	base += math.Min(float64(nounLike)*4, 20)

	if strings.ContainsAny(text, "0123456789") {
		base += 10
	}

	base += math.Min(h.Duration, 5.0)
	base += math.Max(0, 8.0-h.Start*0.05)

	switch {
	case len(contentTokens) >= 2:
		base += 10
	case len(contentTokens) == 1:
		if len(contentTokens[0]) >= 6 {
			base += 2
		} else {
			base -= 12
		}
	}

	return base
}

// pruneHighlights caps the highlight count, keeping the highest-scoring
// moments and restoring chronological order.
func pruneHighlights(p *plan.Plan, maxTotal int) {
	if len(p.Highlights) <= maxTotal {
		return
	}

	type scored struct {
		score float64
		start float64
		index int
		item  *plan.Highlight
	}
	entries := make([]scored, len(p.Highlights))
	for i, h := range p.Highlights {
		entries[i] = scored{scoreHighlight(h), h.Start, i, h}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		if entries[i].start != entries[j].start {
			return entries[i].start < entries[j].start
		}
		return entries[i].index < entries[j].index
	})

	retained := map[*plan.Highlight]bool{}
	for _, entry := range entries[:maxTotal] {
		retained[entry.item] = true
	}

	var kept []*plan.Highlight
	for _, h := range p.Highlights {
		if retained[h] {
			kept = append(kept, h)
		}
	}
	p.Highlights = kept
	sortHighlights(p)
}

// trimHighlightsToSegments drops highlights placed past the end of the last
// segment, plus a small margin.
func trimHighlightsToSegments(p *plan.Plan, margin float64) {
	if len(p.Segments) == 0 || len(p.Highlights) == 0 {
		return
	}

	latestEnd := 0.0
	for _, segment := range p.Segments {
		end := segment.SourceStart + math.Max(0, segment.Duration)
		if end > latestEnd {
			latestEnd = end
		}
	}
	cutoff := latestEnd + margin

	var trimmed []*plan.Highlight
	for _, h := range p.Highlights {
		if h.Start <= cutoff {
			trimmed = append(trimmed, h)
		}
	}
	p.Highlights = trimmed
	sortHighlights(p)
}
