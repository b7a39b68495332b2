// Package planner drives draft-plan generation: it assembles the editing
// prompt from the transcript and asset catalogs, calls the language model
// with a degraded-context retry ladder, and extracts the JSON plan from the
// response for normalization.
package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
	"github.com/NhiLe-Team-Webs/video-be/internal/timecode"
)

const (
	// MaxSceneContextItems caps per-segment scene map lines in the prompt.
	MaxSceneContextItems = 32
	// MaxBrollSummaryItems caps B-roll catalog lines in the prompt.
	MaxBrollSummaryItems = 20
	// MaxSfxItemsPerCategory caps sfx ids listed per catalog category.
	MaxSfxItemsPerCategory = 5
)

var transitionTypes = []string{"cut", "crossfade", "slide", "zoom", "scale", "rotate", "blur"}

var transitionDirections = []string{"left", "right", "up", "down"}

var highlightPositions = []string{"bottom", "center"}

var highlightAnimations = []string{
	"fade", "zoom", "slide", "bounce", "float",
	"flip", "typewriter", "pulse", "spin", "pop",
}

// schemaHint shows the model the plan shape with plausible values. It is a
// template, not a contract; the normalizer tolerates deviations.
const schemaHint = `{
  "segments": [
    {
      "id": "intro",
      "sourceStart": 0.0,
      "duration": 6.4,
      "transitionOut": {
        "type": "crossfade",
        "duration": 0.6
      }
    },
    {
      "id": "demo",
      "sourceStart": 6.4,
      "duration": 9.1,
      "transitionIn": {
        "type": "crossfade",
        "duration": 0.6
      },
      "transitionOut": {
        "type": "slide",
        "duration": 0.5,
        "direction": "left"
      }
    }
  ],
  "highlights": [
    {
      "id": "hook",
      "text": "KEY IDEA: Stay consistent",
      "start": 2.4,
      "duration": 2.6,
      "position": "center",
      "animation": "zoom",
      "sfx": "ui/pop.mp3",
      "volume": 0.75
    }
  ]
}`

// PromptInput carries everything the prompt builder may draw on. Nil
// catalogs and scene maps simply drop their sections.
type PromptInput struct {
	Entries      []srt.Entry
	Extra        string
	SceneMap     *scenemap.SceneMap
	Broll        *catalog.BrollCatalog
	Sfx          *catalog.SfxCatalog
	Motion       *catalog.MotionRules
	Manifest     *ClientManifest
	AvailableSfx map[string]string
}

func joinOrDash(values []string, limit int) string {
	if len(values) > limit {
		values = values[:limit]
	}
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SummarizeSceneMap renders the scene map as a compact context block:
// one summary line plus one line per segment up to limit.
func SummarizeSceneMap(sm *scenemap.SceneMap, limit int) string {
	if sm == nil || len(sm.Segments) == 0 {
		return ""
	}

	var lines []string
	summary := sm.Summary
	parts := []string{
		fmt.Sprintf("segments=%d", summary.TotalSegments),
		fmt.Sprintf("duration~%.1fs", summary.EstimatedDurationSeconds),
		fmt.Sprintf("highlight>=threshold=%d", summary.HighlightSegments),
		fmt.Sprintf("cta=%d", summary.CTASegments),
		fmt.Sprintf("motion_frequency=%.2f", summary.MotionFrequencyConfig),
		fmt.Sprintf("highlight_rate=%.2f", summary.HighlightRateConfig),
	}
	if len(summary.TopTopics) > 0 {
		topics := summary.TopTopics
		if len(topics) > 6 {
			topics = topics[:6]
		}
		topicParts := make([]string, 0, len(topics))
		for _, stat := range topics {
			topicParts = append(topicParts, fmt.Sprintf("%s(%d)", stat.Topic, stat.Count))
		}
		parts = append(parts, "top_topics="+strings.Join(topicParts, ", "))
	}
	lines = append(lines, "Summary: "+strings.Join(parts, " | "))

	segments := sm.Segments
	if len(segments) > limit {
		segments = segments[:limit]
	}
	for _, seg := range segments {
		emotion := seg.Emotion
		if emotion == "" {
			emotion = "neutral"
		}
		var flags []string
		if seg.CTA {
			flags = append(flags, "cta")
		}
		if seg.ParallaxEligible {
			flags = append(flags, "parallax")
		}
		flagSuffix := ""
		if len(flags) > 0 {
			flagSuffix = " | flags=" + strings.Join(flags, ",")
		}
		lines = append(lines, fmt.Sprintf(
			"%d: %.2f-%.2fs | topics=%s | emotion=%s | highlight=%.2f | motion=%s | sfx=%s%s",
			seg.ID, seg.Start, seg.End,
			joinOrDash(seg.Topics, 3), emotion, seg.HighlightScore,
			joinOrDash(seg.MotionCandidates, 3), joinOrDash(seg.SfxHints, 3), flagSuffix,
		))
	}
	if remaining := len(sm.Segments) - limit; remaining > 0 {
		lines = append(lines, fmt.Sprintf("... %d additional segments omitted", remaining))
	}
	return strings.Join(lines, "\n")
}

// SummarizeBrollCatalog renders one line per catalog item up to limit.
func SummarizeBrollCatalog(cat *catalog.BrollCatalog, limit int) string {
	if cat == nil || len(cat.Items) == 0 {
		return ""
	}
	var lines []string
	items := cat.Items
	if len(items) > limit {
		items = items[:limit]
	}
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = "?"
		}
		mediaType := item.MediaType
		if mediaType == "" {
			mediaType = "video"
		}
		orientation := item.Orientation
		if orientation == "" {
			orientation = "landscape"
		}
		lines = append(lines, fmt.Sprintf(
			"%s: %s/%s | topics=%s | mood=%s | usage=%s",
			id, mediaType, orientation,
			joinOrDash(item.Topics, 3), joinOrDash(item.Mood, 2), joinOrDash(item.RecommendedUsage, 2),
		))
	}
	if remaining := len(cat.Items) - limit; remaining > 0 {
		lines = append(lines, fmt.Sprintf("... %d additional B-roll items available", remaining))
	}
	return strings.Join(lines, "\n")
}

// SummarizeSfxCatalog lists a few item ids per category with their usage
// hints in parentheses.
func SummarizeSfxCatalog(cat *catalog.SfxCatalog, maxItems int) string {
	if cat == nil || len(cat.Categories) == 0 {
		return ""
	}
	var lines []string
	for _, category := range cat.Categories {
		label := category.Label
		if label == "" {
			label = category.ID
		}
		if label == "" {
			label = "misc"
		}
		if len(category.Items) == 0 {
			continue
		}
		items := category.Items
		if len(items) > maxItems {
			items = items[:maxItems]
		}
		entries := make([]string, 0, len(items)+1)
		for _, item := range items {
			id := item.ID
			if id == "" {
				id = "?"
			}
			usage := item.Usage
			if len(usage) > 2 {
				usage = usage[:2]
			}
			if len(usage) > 0 {
				entries = append(entries, fmt.Sprintf("%s (%s)", id, strings.Join(usage, "/")))
			} else {
				entries = append(entries, id)
			}
		}
		if remaining := len(category.Items) - maxItems; remaining > 0 {
			entries = append(entries, fmt.Sprintf("+%d more", remaining))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, strings.Join(entries, ", ")))
	}
	return strings.Join(lines, "\n")
}

// SummarizeMotionRules renders the pacing knobs and cue keyword tables.
func SummarizeMotionRules(rules *catalog.MotionRules) string {
	if rules == nil {
		return ""
	}
	var lines []string
	if rules.MotionFrequency > 0 {
		lines = append(lines, "Target motion frequency <= "+formatFloat(rules.MotionFrequency))
	}
	if rules.HighlightRate > 0 {
		lines = append(lines, "Highlight threshold >= "+formatFloat(rules.HighlightRate))
	}
	cues := make([]string, 0, len(rules.CueKeywords))
	for cue := range rules.CueKeywords {
		cues = append(cues, cue)
	}
	sort.Strings(cues)
	for _, cue := range cues {
		keywords := rules.CueKeywords[cue]
		if len(keywords) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ReplaceAll(cue, "_", " "), strings.Join(keywords, ", ")))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt assembles the full model prompt: instruction, schema template,
// rules, supplemental context sections, and the ordered transcript.
func BuildPrompt(in PromptInput) string {
	timelineLines := make([]string, 0, len(in.Entries))
	for _, entry := range in.Entries {
		timelineLines = append(timelineLines, fmt.Sprintf(
			"%d. [%s -> %s] %s",
			entry.Index, timecode.FormatSRT(entry.Start), timecode.FormatSRT(entry.End), entry.Text,
		))
	}
	transcriptSection := strings.Join(timelineLines, "\n")

	available := in.AvailableSfx
	if len(available) == 0 {
		available = DefaultAvailableSfx()
	}
	sfxKeys := make([]string, 0, len(available))
	for key := range available {
		sfxKeys = append(sfxKeys, key)
	}
	sort.Strings(sfxKeys)
	sfxNotes := make([]string, 0, len(sfxKeys))
	for _, key := range sfxKeys {
		sfxNotes = append(sfxNotes, fmt.Sprintf("%s: %s", key, available[key]))
	}

	instruction := "You are a detail-oriented video editor. Build a Remotion JSON plan with concise segments, smooth transitions, and purposeful highlights/SFX. " +
		"Maintain a cinematic rhythm and avoid overusing effects."
	if extra := strings.TrimSpace(in.Extra); extra != "" {
		instruction += " Extra guidance from user: " + extra
	}

	rules := []string{
		"- `segments` describe consecutive portions of the trimmed video with `sourceStart` (seconds) and `duration`. Use `label` for short context if helpful.",
		fmt.Sprintf("- `transitionIn`/`transitionOut` types may be: %s; slides can add `direction` (%s); zoom/scale/rotate/blur may include `intensity` between 0.1 and 0.35.",
			strings.Join(transitionTypes, ", "), strings.Join(transitionDirections, ", ")),
		"- Trim or merge sentences when silence exceeds ~0.7s unless a pause is intentionally required.",
		fmt.Sprintf("- Aim for up to %d standout highlights; keep each roughly 2-4 seconds and anchor every one to a crisp verb-free noun phrase from the transcript.", plan.MaxHighlights),
		"- Maintain breathing room; skip filler chatter, but don't hesitate to capture each meaningful beat the speaker emphasises.",
		fmt.Sprintf("- Populate `highlights` with `type` (noteBox/typewriter/sectionTitle/icon/etc.), `text`, `start`, `duration`, plus `position` (%s) and `animation` (%s). Icons may sit centre; all large text callouts stay `position: \"bottom\"`.",
			strings.Join(highlightPositions, ", "), strings.Join(highlightAnimations, ", ")),
		"- Keep highlight placements to three slots: a bold bottom banner for the key noun phrase, plus optional concise supporting phrases at `supportingTexts.topLeft` and `supportingTexts.topRight`.",
		"- For textual highlights, keep `text`/`keyword` to a meaningful noun phrase (no verbs, no conjunction lists). Favour compact 2-3 word noun clusters; if you cannot form one, skip the highlight. Always anchor the main phrase at the bottom centre using `layout: \"bottom\"` (or set `layout` to `left`/`right`/`dual` with `supportingTexts.topLeft`/`supportingTexts.topRight` while keeping the bottom text).",
		"- When emitting `sectionTitle` entries, append a high-level descriptor (Overview/Insights/Focus/etc.) so the visible text never duplicates a raw clip name or B-roll label.",
		"- Only surface language that actually appears in the transcript (allowing singular/plural variations); extract noun phrases from the spoken sentence and avoid invented wording.",
		"- If you cannot find a clear noun phrase for a candidate moment, skip the highlight instead of forcing one.",
		"- Align every highlight `start` and `duration` to the transcript timestamps, snap to the underlying SRT entries and leave at least 0.2s between independent highlights so different positions never overlap simultaneously.",
		"- When both left and right supporting texts are present, ensure the right side appears second by leaving the left stagger at 0 and adding `staggerRight: 2` (seconds).",
		"- Insert centre-screen `sectionTitle` cards at major topic shifts (roughly every big idea). Give them an `overlay` tint (for example `{ \"tint\": \"#030303\", \"opacity\": 0.72 }`) and a short SFX accent from the catalog.",
		"- Provide `motionCue` (zoomIn/zoomOut) on segments that carry high-impact numbers, definitions, or section cards so the camera reinforces emphasis.",
		"- For `type: \"icon\"` include `name` (short label) and optional icon/colors/animation; attach SFX when it enhances energy.",
		"- When assigning B-roll, set `mode: \"full\"` so footage fills the frame beneath overlays and animations.",
		fmt.Sprintf("- Always pick SFX from `assets/sfx` with relative paths (for example assets/sfx/ui/pop.mp3). Available options: %s. Key notes: %s.",
			strings.Join(sfxKeys, ", "), strings.Join(sfxNotes, "; ")),
		"- When highlights include SFX, align `start` with the moment and set `volume` between 0-1 if needed.",
		"- Match B-roll subjects to the spoken context. Favour catalog IDs where keywords overlap the transcript tokens inside the same time range.",
		"- Segments must touch end-to-start with no gaps in the source timeline.",
		"- Respond with JSON inside a single fenced code block.",
	}

	if in.Motion != nil {
		rules = append(rules, "- Motion cues must follow the keywords and frequency found in the motion rules context.")
		if in.Motion.HighlightRate > 0 {
			rules = append(rules, fmt.Sprintf(
				"- Treat segments with `highlightScore` >= %s as prime candidates for visual emphasis, B-roll, and SFX.",
				formatFloat(in.Motion.HighlightRate)))
		}
	}
	if in.SceneMap != nil {
		rules = append(rules, "- Use the scene map insights below to align B-roll, CTA moments, motion cues, and SFX hints per segment.")
	}
	if in.Broll != nil {
		rules = append(rules, "- Choose B-roll IDs from the catalog context, matching topics/mood and keeping framing consistent.")
	}
	if in.Manifest != nil {
		rules = append(rules, "- Align segments with the FE templates and effects listed in the client manifest when recommending overlays, typography, or decorative assets.")
	}

	var contextSections []string
	if summary := SummarizeSceneMap(in.SceneMap, MaxSceneContextItems); summary != "" {
		contextSections = append(contextSections, "Scene map insights:\n"+summary)
	}
	if summary := SummarizeBrollCatalog(in.Broll, MaxBrollSummaryItems); summary != "" {
		contextSections = append(contextSections, "B-roll catalog (id / media / topics):\n"+summary)
	}
	if summary := SummarizeMotionRules(in.Motion); summary != "" {
		contextSections = append(contextSections, "Motion cue rules:\n"+summary)
	}
	if summary := SummarizeSfxCatalog(in.Sfx, MaxSfxItemsPerCategory); summary != "" {
		contextSections = append(contextSections, "SFX catalog overview:\n"+summary)
	}
	contextSections = append(contextSections, in.Manifest.sections()...)

	parts := []string{
		instruction,
		"Use this schema template (update with real values):",
		schemaHint,
		"Rules:",
		strings.Join(rules, "\n"),
	}
	if len(contextSections) > 0 {
		parts = append(parts, "Supplemental context:\n"+strings.Join(contextSections, "\n\n"))
	}
	parts = append(parts, "Transcript segments (ordered):\n"+transcriptSection)

	return strings.Join(parts, "\n\n") + "\n"
}
