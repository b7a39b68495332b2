package plan

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

// DefaultHighlightDuration is used when a raw highlight has no usable
// duration or end time.
const DefaultHighlightDuration = 2.6

// MaxHighlights caps how many highlights normalization accepts.
const MaxHighlights = 18

var (
	transitionTypes = map[string]bool{
		TransitionCut: true, TransitionCrossfade: true, TransitionSlide: true,
		TransitionZoom: true, TransitionScale: true, TransitionRotate: true,
		TransitionBlur: true,
	}
	transitionDirections = []string{"left", "right", "up", "down"}
	highlightPositions   = map[string]bool{"bottom": true, "center": true}
	highlightVariants    = map[string]bool{
		"callout": true, "blurred": true, "brand": true, "cutaway": true,
		"typewriter": true,
	}
	srtHighlightIDRe = regexp.MustCompile(`^srt-(\d+)$`)
)

var highlightTypeAliases = map[string]string{
	"highlight":    TypeNoteBox,
	"caption":      TypeNoteBox,
	"callout":      TypeNoteBox,
	"notebox":      TypeNoteBox,
	"notecard":     TypeNoteBox,
	"quote":        TypeNoteBox,
	"typewriter":   TypeTypewriter,
	"section":      TypeSectionTitle,
	"sectiontitle": TypeSectionTitle,
	"titlecard":    TypeSectionTitle,
	"chapter":      TypeSectionTitle,
	"icon":         TypeIcon,
	"iconhighlight": TypeIcon,
}

var animationAliases = map[string]string{
	"fade": "fade", "fadein": "fade",
	"zoom": "zoom", "zoomin": "zoom",
	"punch": "pop", "punchin": "pop", "pop": "pop", "popin": "pop",
	"bounce": "bounce",
	"float": "float", "floating": "float",
	"flip": "flip",
	"spin": "spin", "rotate": "spin",
	"typewriter": "typewriter",
	"pulse": "pulse", "breath": "pulse", "beat": "pulse",
	"slide": "slide", "slideup": "slide", "slidedown": "slide",
	"slideleft": "slide", "slideright": "slide",
}

var variantAliases = map[string]string{
	"callout": "callout", "default": "callout", "bubble": "callout",
	"blur": "blurred", "blurred": "blurred", "blurredbackdrop": "blurred",
	"brand": "brand", "brandpanel": "brand",
	"cutaway": "cutaway", "black": "cutaway",
	"typewriter": "typewriter",
}

// Normalizer converts decoded draft-plan JSON into the canonical model.
type Normalizer struct {
	// SfxLookup maps lowercased sfx paths, filenames and stems to
	// canonical asset paths. Nil disables sfx resolution.
	SfxLookup map[string]string
	// MaxHighlights overrides the accepted highlight cap when positive.
	MaxHighlights int
}

// Normalize builds a canonical plan from raw JSON. Per-entry problems are
// skipped and recorded on the returned diagnostics; only a non-object plan
// is a hard error.
func (n *Normalizer) Normalize(raw map[string]any, srtEntries []srt.Entry) (*Plan, *Diagnostics, error) {
	if raw == nil {
		return nil, nil, fmt.Errorf("%w: plan must be a JSON object", ErrInvalidInput)
	}

	diag := &Diagnostics{}

	srtLookup := make(map[int]srt.Entry, len(srtEntries))
	for _, entry := range srtEntries {
		srtLookup[entry.Index] = entry
	}

	type segmentItem struct {
		timelineStart float64
		order         int
		segment       *Segment
	}
	var segmentItems []segmentItem

	if rawSegments, ok := raw["segments"].([]any); ok {
		for index, rawEntry := range rawSegments {
			rawSegment, ok := rawEntry.(map[string]any)
			if !ok {
				diag.Warn(fmt.Sprintf("segment %d skipped: not an object", index+1))
				continue
			}
			segment := normalizeSegment(rawSegment, index)
			if segment == nil {
				diag.Warn(fmt.Sprintf("segment %d skipped: no positive duration", index+1))
				continue
			}
			timelineStart := toFloat(firstKey(rawSegment, "timelineStart", "timeline_start"), segment.SourceStart)
			segmentItems = append(segmentItems, segmentItem{timelineStart, index, segment})
		}
	}

	sort.SliceStable(segmentItems, func(i, j int) bool {
		if segmentItems[i].timelineStart != segmentItems[j].timelineStart {
			return segmentItems[i].timelineStart < segmentItems[j].timelineStart
		}
		return segmentItems[i].segment.SourceStart < segmentItems[j].segment.SourceStart
	})

	segments := make([]*Segment, 0, len(segmentItems))
	for _, item := range segmentItems {
		segments = append(segments, item.segment)
	}

	maxHighlights := n.MaxHighlights
	if maxHighlights <= 0 {
		maxHighlights = MaxHighlights
	}

	var rawHighlights []any
	if list, ok := raw["highlights"].([]any); ok {
		rawHighlights = list
	} else if actions, ok := raw["actions"].([]any); ok {
		// Legacy plans carried overlays inside a generic actions list.
		for _, rawAction := range actions {
			action, ok := rawAction.(map[string]any)
			if !ok {
				continue
			}
			actionType := strings.ToLower(stringValue(firstKey(action, "type", "kind")))
			switch actionType {
			case "caption", "highlight", "icon", "notebox", "typewriter", "section", "sectiontitle":
				rawHighlights = append(rawHighlights, action)
			}
		}
	}

	highlights := make([]*Highlight, 0, len(rawHighlights))
	for index, rawEntry := range rawHighlights {
		rawHighlight, ok := rawEntry.(map[string]any)
		if !ok {
			diag.Warn(fmt.Sprintf("highlight %d skipped: not an object", index+1))
			continue
		}
		highlight := n.normalizeHighlight(rawHighlight, index, srtLookup)
		if highlight == nil {
			diag.Warn(fmt.Sprintf("highlight %d skipped: no usable content", index+1))
			continue
		}
		highlights = append(highlights, highlight)
		if len(highlights) >= maxHighlights {
			break
		}
	}

	sort.SliceStable(highlights, func(i, j int) bool {
		return highlights[i].Start < highlights[j].Start
	})

	normalized := &Plan{Segments: segments, Highlights: highlights}
	if meta, ok := raw["meta"].(map[string]any); ok {
		normalized.Meta = meta
	}
	return normalized, diag, nil
}

func normalizeSegment(raw map[string]any, index int) *Segment {
	sourceStart := toFloat(firstKey(raw, "sourceStart", "start"), 0)

	duration := toFloat(raw["duration"], 0)
	if duration <= 0 {
		endValue := toFloat(raw["end"], 0)
		startValue := toFloat(firstKey(raw, "start"), sourceStart)
		if endValue > startValue {
			duration = endValue - startValue
		}
	}
	if duration <= 0 {
		if length := toFloat(raw["length"], 0); length > 0 {
			duration = length
		}
	}
	if duration <= 0 {
		return nil
	}

	segment := &Segment{
		ID:          stringOr(stringValue(raw["id"]), fmt.Sprintf("segment-%02d", index+1)),
		SourceStart: round3(sourceStart),
		Duration:    round3(duration),
	}

	if label := strings.TrimSpace(stringValue(firstKey(raw, "label", "title"))); label != "" {
		segment.Label = label
	}
	if title, ok := raw["title"].(string); ok {
		if clean := strings.TrimSpace(title); clean != "" {
			segment.Title = clean
		}
	}

	if v := firstKey(raw, "silenceAfter", "silence_after"); v != nil {
		segment.SilenceAfter = toBool(v, false)
	}
	if v := firstKey(raw, "gapAfter", "gap_after"); v != nil {
		segment.GapAfter = Bool(toBool(v, false))
	}

	if v := firstKey(raw, "playbackRate", "speed"); v != nil {
		rate := toFloat(v, 1.0)
		if rate <= 0 {
			rate = 1.0
		}
		if math.Abs(rate-1.0) > 1e-3 {
			segment.PlaybackRate = round3(rate)
		}
	}

	segment.TransitionIn = NormalizeTransition(firstKey(raw, "transitionIn", "transition_in", "enterTransition"))
	segment.TransitionOut = NormalizeTransition(firstKey(raw, "transitionOut", "transition_out", "exitTransition"))

	metadata, _ := raw["metadata"].(map[string]any)
	var metadataCamera any
	if metadata != nil {
		metadataCamera = metadata["cameraMovement"]
	}
	if movement := NormalizeCameraMovement(firstKey(raw, "cameraMovement", "camera_movement")); movement != "" {
		segment.CameraMovement = movement
	} else if movement := NormalizeCameraMovement(metadataCamera); movement != "" {
		segment.CameraMovement = movement
	}

	if len(metadata) > 0 {
		segment.Metadata = metadata
	}

	return segment
}

// NormalizeTransition converts a raw transition value (string or object)
// into a canonical transition. Unknown types collapse to a cut.
func NormalizeTransition(value any) *Transition {
	if value == nil {
		return nil
	}

	var transitionType, direction string
	var duration, intensity float64

	switch v := value.(type) {
	case string:
		transitionType = strings.ToLower(v)
	case map[string]any:
		transitionType = strings.ToLower(stringValue(firstKey(v, "type", "style")))
		direction = strings.ToLower(stringValue(firstKey(v, "direction", "dir")))
		duration = toFloat(firstKey(v, "duration", "length"), 0)
		intensity = toFloat(firstKey(v, "intensity", "strength"), 0)
	default:
		return nil
	}

	switch transitionType {
	case "fade", "dissolve":
		transitionType = TransitionCrossfade
	case "slide-left", "slide-right", "slide-up", "slide-down":
		for _, candidate := range transitionDirections {
			if strings.Contains(transitionType, candidate) {
				direction = candidate
				break
			}
		}
		transitionType = TransitionSlide
	case "zoom-in", "zoom-out", "push", "push-in", "push-out", "punch", "punch-in", "punch-out":
		transitionType = TransitionZoom
	case "scale-up", "scale-down", "grow", "shrink":
		transitionType = TransitionScale
	case "spin", "twist", "turn":
		transitionType = TransitionRotate
	case "focus", "defocus", "dream", "soft-focus", "soften":
		transitionType = TransitionBlur
	}

	if !transitionTypes[transitionType] {
		transitionType = TransitionCut
	}
	if transitionType == TransitionCut {
		return &Transition{Type: TransitionCut}
	}

	if duration <= 0 {
		duration = 0.6
	}
	duration = math.Max(0.1, math.Min(duration, 3.0))

	transition := &Transition{Type: transitionType, Duration: round3(duration)}

	if transitionType == TransitionSlide {
		for _, candidate := range transitionDirections {
			if direction == candidate {
				transition.Direction = direction
				break
			}
		}
	}

	if intensity > 0 {
		switch transitionType {
		case TransitionZoom, TransitionScale, TransitionRotate, TransitionBlur:
			transition.Intensity = round3(math.Max(0.05, math.Min(intensity, 0.6)))
		}
	}

	return transition
}

// NormalizeCameraMovement maps camera movement descriptions onto the two
// supported cues.
func NormalizeCameraMovement(value any) string {
	if value == nil {
		return ""
	}
	normalized := squash(stringValue(value))
	switch normalized {
	case "zoomin", "pushin", "push":
		return "zoomIn"
	case "zoomout", "pullback", "pull":
		return "zoomOut"
	}
	return ""
}

// NormalizeSegmentKind maps segment kind labels to "broll" or "normal".
func NormalizeSegmentKind(value string) string {
	normalized := squash(value)
	if normalized == "" {
		return ""
	}
	if strings.Contains(normalized, "broll") {
		return "broll"
	}
	return "normal"
}

func (n *Normalizer) normalizeHighlight(raw map[string]any, index int, srtLookup map[int]srt.Entry) *Highlight {
	highlightID := stringOr(stringValue(raw["id"]), fmt.Sprintf("highlight-%02d", index+1))

	var highlightType string
	if typeRaw := stringValue(firstKey(raw, "type", "kind")); typeRaw != "" {
		if mapped, ok := highlightTypeAliases[squash(typeRaw)]; ok {
			highlightType = mapped
		} else {
			highlightType = strings.TrimSpace(typeRaw)
		}
	}

	textRaw := strings.TrimSpace(stringValue(firstKey(raw, "text", "caption")))
	titleRaw := strings.TrimSpace(stringValue(raw["title"]))
	subtitleRaw := strings.TrimSpace(stringValue(raw["subtitle"]))
	badgeRaw := strings.TrimSpace(stringValue(raw["badge"]))
	nameRaw := strings.TrimSpace(stringValue(firstKey(raw, "name", "label")))
	iconValue := strings.TrimSpace(stringValue(firstKey(raw, "icon", "iconName")))
	keywordText := strings.TrimSpace(stringValue(raw["keyword"]))

	var srtEntry *srt.Entry
	if len(srtLookup) > 0 {
		if m := srtHighlightIDRe.FindStringSubmatch(strings.ToLower(highlightID)); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil {
				if entry, ok := srtLookup[idx]; ok {
					srtEntry = &entry
				}
			}
		}
	}
	srtText := ""
	if srtEntry != nil {
		srtText = strings.TrimSpace(strings.Join(strings.Fields(srtEntry.Text), " "))
	}

	hasIconMarker := iconValue != "" || (nameRaw != "" && highlightType == "")
	resolvedType := highlightType
	if resolvedType == "" && hasIconMarker {
		resolvedType = TypeIcon
	}

	if textRaw == "" && titleRaw == "" && subtitleRaw == "" && badgeRaw == "" &&
		nameRaw == "" && iconValue == "" && srtText == "" {
		return nil
	}
	if textRaw == "" && srtText != "" {
		textRaw = srtText
	}

	start := math.Max(0, toFloat(firstKey(raw, "start", "time"), 0))

	var duration float64
	if v := firstKey(raw, "duration", "length"); v != nil {
		duration = toFloat(v, DefaultHighlightDuration)
	}
	if duration <= 0 {
		if end := toFloat(raw["end"], 0); end > start {
			duration = end - start
		}
	}
	if duration <= 0 {
		duration = DefaultHighlightDuration
	}
	duration = math.Max(1.5, math.Min(duration, 5.0))

	if srtEntry != nil && srtEntry.Duration > 0 {
		start = srtEntry.Start
		duration = math.Max(1.5, math.Min(srtEntry.Duration, 5.0))
	}
	start = math.Max(0, start)

	isIcon := resolvedType == TypeIcon
	defaultPosition := "bottom"
	if isIcon {
		defaultPosition = "center"
	}
	position := strings.ToLower(stringOr(stringValue(firstKey(raw, "position", "placement")), defaultPosition))
	if !highlightPositions[position] || !isIcon {
		// Only icons may sit center; text overlays stay at the bottom.
		position = defaultPosition
	}

	animationDefault := "fade"
	if isIcon {
		animationDefault = "pop"
	}
	animation := animationDefault
	if animationRaw := stringValue(firstKey(raw, "animation", "style", "motion")); animationRaw != "" {
		if mapped, ok := animationAliases[squash(animationRaw)]; ok {
			animation = mapped
		}
	}

	sanitizedText := ""
	if !isIcon {
		for _, candidate := range []string{textRaw, srtText, keywordText, titleRaw, subtitleRaw} {
			if candidate == "" {
				continue
			}
			if sanitized := phrase.Sanitize(candidate); sanitized != "" {
				sanitizedText = sanitized
				break
			}
		}
	}

	highlight := &Highlight{
		ID:        highlightID,
		Start:     round3(start),
		Duration:  round3(duration),
		Position:  position,
		Animation: animation,
	}

	assignedType := resolvedType
	if assignedType == "" && (sanitizedText != "" || textRaw != "") {
		assignedType = TypeNoteBox
	}
	highlight.Type = assignedType

	switch assignedType {
	case TypeNoteBox:
		if sanitizedText == "" {
			return nil
		}
		highlight.Text = sanitizedText
		highlight.Keyword = sanitizedText
		importance := strings.TrimSpace(stringValue(raw["importance"]))
		if importance != "" {
			highlight.Importance = strings.ToLower(importance)
		} else {
			highlight.Importance = "primary"
		}
		highlight.ShowBottom = true
		highlight.SafeBottom = 0.18
		highlight.SafeInsetHorizontal = 0.08
	case TypeSectionTitle:
		basePhrase := firstNonEmpty(titleRaw, textRaw, keywordText, sanitizedText, srtText)
		display, keyword := phrase.SectionTitle(highlightID, basePhrase, "")
		highlight.Text = display
		highlight.Keyword = keyword
	case TypeIcon:
		if textRaw != "" {
			highlight.Text = textRaw
		}
	}

	highlight.Title = titleRaw
	highlight.Subtitle = subtitleRaw
	highlight.Badge = badgeRaw
	highlight.Name = nameRaw
	highlight.Icon = iconValue

	if asset := strings.TrimSpace(stringValue(firstKey(raw, "asset", "media"))); asset != "" {
		highlight.Asset = asset
	}

	if variantRaw := stringValue(firstKey(raw, "variant", "styleVariant")); variantRaw != "" {
		if mapped, ok := variantAliases[squash(variantRaw)]; ok && highlightVariants[mapped] {
			highlight.Variant = mapped
		}
	}

	if sfxName := NormalizeSfxName(stringValue(firstKey(raw, "sfx", "asset", "sound")), n.SfxLookup); sfxName != "" {
		highlight.Sfx = sfxName
	}

	if accent := strings.TrimSpace(stringValue(firstKey(raw, "accentColor", "accent"))); accent != "" {
		highlight.AccentColor = accent
	}
	if background := strings.TrimSpace(stringValue(firstKey(raw, "backgroundColor", "background", "bg"))); background != "" {
		highlight.BackgroundColor = background
	}
	if iconColor := strings.TrimSpace(stringValue(firstKey(raw, "iconColor", "iconColour"))); iconColor != "" {
		highlight.IconColor = iconColor
	}

	supporting := &SupportingTexts{}
	coerce := func(v any) string {
		s, ok := v.(string)
		if !ok {
			return ""
		}
		return phrase.Sanitize(strings.TrimSpace(s))
	}

	if rawSupporting, ok := raw["supportingTexts"].(map[string]any); ok {
		supporting.TopLeft = coerce(firstKey(rawSupporting, "topLeft", "top_left", "left", "primary"))
		supporting.TopRight = coerce(firstKey(rawSupporting, "topRight", "top_right", "right", "secondary"))
	}
	if supporting.TopLeft == "" && supporting.TopRight == "" {
		if items, ok := raw["items"].([]any); ok {
			if len(items) > 0 {
				supporting.TopLeft = coerce(items[0])
			}
			if len(items) > 1 {
				supporting.TopRight = coerce(items[1])
			}
		}
	}
	if left := coerce(firstKey(raw, "supportingLeft", "supportLeft", "supporting", "keywordSecondary", "left")); left != "" && supporting.TopLeft == "" {
		supporting.TopLeft = left
	}
	if right := coerce(firstKey(raw, "supportingRight", "supportRight", "right")); right != "" && supporting.TopRight == "" {
		supporting.TopRight = right
	}

	hasSupporting := supporting.TopLeft != "" || supporting.TopRight != ""
	if hasSupporting {
		highlight.SupportingTexts = supporting
	}

	layout := ""
	if layoutRaw := strings.ToLower(strings.TrimSpace(stringValue(firstKey(raw, "layout", "arrangement", "alignment")))); layoutRaw != "" {
		switch layoutRaw {
		case "left", "right", "dual", "bottom":
			layout = layoutRaw
		case "pair", "split":
			layout = "dual"
		}
	}
	if layout == "" {
		switch {
		case supporting.TopLeft != "" && supporting.TopRight != "":
			layout = "dual"
		case supporting.TopLeft != "":
			layout = "left"
		case supporting.TopRight != "":
			layout = "right"
		case !isIcon && sanitizedText != "":
			layout = "bottom"
		}
	}
	if layout != "" {
		highlight.Layout = layout
		if (layout == "left" || layout == "right" || layout == "dual") && sanitizedText != "" {
			highlight.ShowBottom = true
		}
	}

	if side := strings.ToLower(strings.TrimSpace(stringValue(raw["side"]))); side != "" {
		switch side {
		case "top", "bottom", "left", "right":
			highlight.Side = side
		}
	}

	if hasSupporting {
		highlight.StaggerLeft = Float(0)
		if supporting.TopRight != "" {
			staggerRight := toFloat(raw["staggerRight"], 2.0)
			if staggerRight == 0 {
				staggerRight = 2.0
			}
			highlight.StaggerRight = Float(staggerRight)
		}
	}

	if radius := toFloat(raw["radius"], 0); radius > 0 {
		highlight.Radius = round3(radius)
	}
	if v, ok := raw["volume"]; ok && v != nil {
		volume := toFloat(v, math.NaN())
		if !math.IsNaN(volume) {
			highlight.Volume = Float(round3(math.Max(0, math.Min(volume, 1.0))))
		}
	}

	return highlight
}

// NormalizeSfxName resolves sfx references against a lookup of known
// assets, then roots the result under assets/sfx.
func NormalizeSfxName(value string, lookup map[string]string) string {
	candidate := strings.TrimSpace(value)
	if candidate == "" || len(lookup) == 0 {
		return ""
	}
	candidate = strings.ReplaceAll(candidate, "\\", "/")
	candidate = strings.TrimLeft(candidate, "./")
	candidate = strings.TrimPrefix(candidate, "assets/")
	candidate = strings.TrimPrefix(candidate, "sfx/")

	base := candidate
	if idx := strings.LastIndex(candidate, "/"); idx >= 0 {
		base = candidate[idx+1:]
	}
	stem := base
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		stem = base[:idx]
	}

	var match string
	for _, key := range []string{strings.ToLower(candidate), strings.ToLower(base), strings.ToLower(stem)} {
		if key == "" {
			continue
		}
		if resolved, ok := lookup[key]; ok {
			match = resolved
			break
		}
	}
	if match == "" {
		return ""
	}

	lower := strings.ToLower(match)
	switch {
	case strings.HasPrefix(lower, "assets/"):
		return match
	case strings.HasPrefix(lower, "sfx/"):
		return "assets/" + match
	default:
		return "assets/sfx/" + match
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func squash(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, sep := range []string{" ", "-", "_"} {
		value = strings.ReplaceAll(value, sep, "")
	}
	return value
}

func firstKey(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toFloat(v any, def float64) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return def
}

func toBool(v any, def bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case int:
		return value != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "y", "on":
			return true
		case "false", "0", "no", "n", "off":
			return false
		}
	}
	return def
}
