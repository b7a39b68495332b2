package enrich

import (
	"fmt"
	"math"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
)

func locateSegment(segments []*plan.Segment, timestamp float64) *plan.Segment {
	for _, segment := range segments {
		if segment.SourceStart <= timestamp && timestamp <= segment.End() {
			return segment
		}
	}
	return nil
}

func highlightKeywordText(h *plan.Highlight) string {
	parts := []string{h.Keyword}
	if h.SupportingTexts != nil {
		parts = append(parts, h.SupportingTexts.TopLeft, h.SupportingTexts.TopRight)
	}
	var joined []string
	for _, part := range parts {
		if part != "" {
			joined = append(joined, part)
		}
	}
	return strings.Join(joined, " ")
}

// ensureBrollFromHighlights retrofits b-roll onto segments the scene pass
// left bare, keyed off highlight keywords. Segments hosting a section title
// stay clean, and no catalog item is reused more than the configured cap.
func (e *Enricher) ensureBrollFromHighlights(p *plan.Plan) {
	if e.Broll == nil {
		return
	}
	items := e.Broll.ItemsByID()
	if len(items) == 0 || len(p.Segments) == 0 || len(p.Highlights) == 0 {
		return
	}
	rules := e.rules()

	sectionLocked := map[string]bool{}
	for _, h := range p.Highlights {
		if !h.IsSection() {
			continue
		}
		if segment := locateSegment(p.Segments, h.Start); segment != nil && segment.ID != "" {
			sectionLocked[segment.ID] = true
		}
	}

	assigned := map[string]int{}
	for _, highlight := range p.Highlights {
		segment := locateSegment(p.Segments, highlight.Start)
		if segment == nil || segment.Broll != nil {
			continue
		}
		if segment.ID != "" && sectionLocked[segment.ID] {
			continue
		}
		if highlight.IsSection() {
			continue
		}

		fullText := highlightKeywordText(highlight)
		if label := firstNonEmptyString(segment.Label, segment.Title); label != "" {
			fullText = strings.TrimSpace(fullText + " " + label)
		}
		if fullText == "" {
			continue
		}

		candidates := rules.MatchBrollCandidates(fullText)
		if len(candidates) == 0 {
			continue
		}

		var chosen *catalog.BrollItem
		for _, candidateID := range catalog.SortCandidates(candidates, assigned) {
			item, ok := items[candidateID]
			if !ok || !item.IsVideo() {
				continue
			}
			if assigned[candidateID] >= rules.MaxBrollReuse {
				continue
			}
			chosen = &item
			break
		}
		if chosen == nil {
			continue
		}

		durationHint := rules.BrollDurationHint
		if chosen.DurationHintSeconds > 0 {
			durationHint = chosen.DurationHintSeconds
		}
		maxDuration := durationHint
		if segment.Duration > 0 {
			maxDuration = math.Min(durationHint, segment.Duration)
		}

		segment.Broll = &plan.Broll{
			ID:         chosen.ID,
			File:       chosen.File,
			Mode:       "full",
			Confidence: 3.0,
			Reasons:    rules.BrollReasonsFor(chosen.ID),
			Duration:   round3(maxDuration),
		}

		var notes []string
		for _, note := range segment.Notes {
			if !strings.HasPrefix(strings.ToLower(note), "no b-roll match") {
				notes = append(notes, note)
			}
		}
		noteText := rules.BrollNote(chosen.ID)
		if !containsString(notes, noteText) {
			notes = append(notes, noteText)
		}
		segment.Notes = notes
		assigned[chosen.ID]++
	}
}

var allowedMotions = map[string]bool{"zoomIn": true, "zoomOut": true}

// ensureMotionFromHighlights drives camera cues from highlight content,
// alternating zoom direction to avoid monotony and capping total cues by the
// motion frequency.
func (e *Enricher) ensureMotionFromHighlights(p *plan.Plan) {
	if len(p.Segments) == 0 || len(p.Highlights) == 0 {
		return
	}
	rules := e.rules()

	frequency := 0.5
	var zoomOutKeywords []string
	if e.Motion != nil {
		if e.Motion.MotionFrequency > 0 {
			frequency = e.Motion.MotionFrequency
		}
		zoomOutKeywords = e.Motion.ZoomOutKeywords
	}

	maxMotions := int(math.Ceil(float64(len(p.Segments)) * frequency))
	if maxMotions < 1 {
		maxMotions = 1
	}
	assigned := 0
	for _, segment := range p.Segments {
		if segment.MotionCue != "" {
			assigned++
		}
	}
	lastMotion := ""

	for _, highlight := range p.Highlights {
		segment := locateSegment(p.Segments, highlight.Start)
		if segment == nil {
			continue
		}
		existingCue := segment.MotionCue
		if assigned >= maxMotions && existingCue == "" {
			break
		}

		combined := strings.ToLower(highlightKeywordText(highlight))
		animationHint := strings.ToLower(highlight.Animation)
		zoomOutHit := containsAnyKeyword(combined, zoomOutKeywords)
		hasNumber := strings.ContainsAny(combined, "0123456789")

		var motion string
		switch {
		case strings.EqualFold(highlight.Importance, "primary"):
			switch {
			case zoomOutHit && lastMotion == "zoomIn":
				motion = "zoomOut"
			case hasNumber:
				motion = "zoomIn"
			case lastMotion == "zoomIn":
				motion = "zoomOut"
			default:
				motion = "zoomIn"
			}
		case hasNumber:
			motion = "zoomIn"
		case containsAnyKeyword(combined, rules.ZoomInKeywords):
			motion = "zoomIn"
		case containsString(rules.AnimationHints, animationHint):
			motion = "zoomIn"
		case zoomOutHit:
			motion = "zoomOut"
		case allowedMotions[existingCue]:
			motion = existingCue
		case lastMotion == "zoomIn":
			motion = "zoomOut"
		default:
			motion = "zoomIn"
		}

		if existingCue != "" {
			if existingCue == motion {
				continue
			}
			if allowedMotions[existingCue] && motion != existingCue {
				segment.MotionCue = motion
			} else if !allowedMotions[existingCue] && allowedMotions[motion] {
				// replace non-zoom cue with a zoom cue
			} else {
				continue
			}
		}

		var notes []string
		for _, note := range segment.Notes {
			if !strings.HasPrefix(strings.ToLower(note), "motion cue assigned") {
				notes = append(notes, note)
			}
		}
		description := strings.TrimSpace(firstNonEmptyString(highlight.Text, highlight.Keyword, highlight.Title))
		gist := "highlight context"
		if description != "" {
			gist = fmt.Sprintf("%q", description)
		}
		noteText := fmt.Sprintf("Motion cue: %s emphasises %s.", motion, gist)
		if !containsString(notes, noteText) {
			notes = append(notes, noteText)
		}
		segment.Notes = notes
		segment.MotionCue = motion
		if existingCue == "" {
			assigned++
		}
		lastMotion = motion
	}
}

// ensureHighlightSfx attaches accent sound effects to highlights whose text
// matches the sfx keyword rules, skipping assets the catalog does not carry.
func (e *Enricher) ensureHighlightSfx(p *plan.Plan) {
	if len(p.Highlights) == 0 {
		return
	}
	rules := e.rules()
	available := e.Sfx.AvailablePaths()

	for _, highlight := range p.Highlights {
		if highlight.Sfx != "" {
			continue
		}
		combined := strings.ToLower(strings.TrimSpace(strings.Join(nonEmpty(
			highlight.Text, highlight.Keyword, highlight.Title), " ")))
		if combined == "" {
			continue
		}
		rule, ok := rules.MatchSfxRule(combined)
		if !ok {
			continue
		}
		if len(available) > 0 && !available[strings.ToLower(rule.Sfx)] {
			continue
		}
		highlight.Sfx = rule.Sfx
		highlight.Gain = plan.Float(rule.Gain)
		if highlight.Metadata == nil {
			highlight.Metadata = map[string]any{}
		}
		if _, ok := highlight.Metadata["audio"]; !ok {
			highlight.Metadata["audio"] = "auto"
		}
	}
}

// stripNonSectionSfx removes sound effects from non-section highlights so
// overlays stay subtle, unless their metadata explicitly keeps audio.
func stripNonSectionSfx(p *plan.Plan) {
	for _, highlight := range p.Highlights {
		if highlight.IsSection() {
			continue
		}
		if audio, ok := highlight.Metadata["audio"].(string); ok {
			if audio == "auto" || audio == "keep" || audio == "accent" {
				continue
			}
		}
		highlight.Sfx = ""
		highlight.Gain = nil
		highlight.Ducking = nil
	}
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
