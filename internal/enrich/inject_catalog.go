package enrich

import (
	"fmt"
	"math"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/phrase"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/timecode"
)

// AugmentFromOverlays converts text overlay elements from a knowledge-base
// video timeline into noteBox highlights, skipping timestamps that collide
// with existing highlights. The catalog is schemaless JSON, so elements are
// walked as raw maps.
func (e *Enricher) AugmentFromOverlays(p *plan.Plan, overlayCatalog map[string]any, minGap float64) []*plan.Highlight {
	if overlayCatalog == nil {
		return nil
	}
	timeline := sliceValue(overlayCatalog["video_timeline"])
	if timeline == nil {
		timeline = sliceValue(overlayCatalog["timeline"])
	}
	if len(timeline) == 0 {
		return nil
	}

	existingStarts := make([]float64, 0, len(p.Highlights))
	for _, h := range p.Highlights {
		existingStarts = append(existingStarts, h.Start)
	}

	var injected []*plan.Highlight
	sideToggle := false

	for entryIndex, rawEntry := range timeline {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			continue
		}
		elements := sliceValue(entry["elements"])
		for elementIndex, rawElement := range elements {
			element, ok := rawElement.(map[string]any)
			if !ok {
				continue
			}
			highlight := buildHighlightFromOverlay(entryIndex, entry, elementIndex, element)
			if highlight == nil {
				continue
			}

			duplicate := false
			for _, existing := range existingStarts {
				if math.Abs(highlight.Start-existing) <= minGap {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}

			layout := highlight.Layout
			if layout == "" {
				layout = "bottom"
			}
			highlight.Position = "bottom"
			highlight.ShowBottom = true
			highlight.Importance = strings.ToLower(firstNonEmptyString(highlight.Importance, "primary"))

			supporting := highlight.SupportingTexts
			switch {
			case (layout == "left" || layout == "right") && supporting != nil:
				desired := "left"
				if sideToggle {
					desired = "right"
				}
				value := supporting.TopLeft
				if desired == "right" {
					value = supporting.TopRight
				}
				if value == "" {
					value = firstNonEmptyString(supporting.TopLeft, supporting.TopRight)
				}
				if desired == "left" && value != "" {
					highlight.SupportingTexts = &plan.SupportingTexts{TopLeft: value}
					highlight.Layout = "left"
					highlight.StaggerLeft = plan.Float(0)
					highlight.StaggerRight = nil
				} else if desired == "right" && value != "" {
					highlight.SupportingTexts = &plan.SupportingTexts{TopRight: value}
					highlight.Layout = "right"
					highlight.StaggerRight = plan.Float(0)
					highlight.StaggerLeft = nil
				} else {
					highlight.Layout = desired
				}
				sideToggle = !sideToggle
			case layout == "dual" && supporting != nil:
				highlight.Layout = "dual"
				highlight.StaggerLeft = plan.Float(0)
				stagger := 2.0
				if highlight.StaggerRight != nil && *highlight.StaggerRight > stagger {
					stagger = *highlight.StaggerRight
				}
				highlight.StaggerRight = plan.Float(stagger)
			default:
				highlight.Layout = "bottom"
				highlight.SupportingTexts = nil
				highlight.StaggerLeft = nil
				highlight.StaggerRight = nil
			}

			highlight.Side = ""
			p.Highlights = append(p.Highlights, highlight)
			injected = append(injected, highlight)
			existingStarts = append(existingStarts, highlight.Start)
		}
	}

	if len(injected) > 0 {
		sortHighlights(p)
	}
	return injected
}

// buildHighlightFromOverlay converts one text_overlay element into a
// highlight, or nil when it carries no usable text or timestamp.
func buildHighlightFromOverlay(entryIndex int, entry map[string]any, elementIndex int, element map[string]any) *plan.Highlight {
	if stringValue(element["type"]) != "text_overlay" {
		return nil
	}

	timestamp, ok := timecode.Seconds(entry["timestamp"])
	if !ok {
		return nil
	}

	content := element["content"]
	var mainText string
	supporting := map[string]string{}

	switch value := content.(type) {
	case string:
		mainText = strings.TrimSpace(value)
	case map[string]any:
		mainText = firstNonEmptyString(
			trimmed(value["keyword"]),
			trimmed(value["title"]),
			trimmed(value["heading"]),
			trimmed(value["label"]),
		)

		if items := sliceValue(value["items"]); len(items) > 0 {
			first := trimmed(items[0])
			second := ""
			if len(items) > 1 {
				second = trimmed(items[1])
			}
			if first != "" {
				supporting["topLeft"] = first
			}
			if second != "" {
				supporting["topRight"] = second
			}
			if mainText == "" {
				mainText = firstNonEmptyString(trimmed(items[len(items)-1]), first)
			}
		}

		for _, alias := range []struct{ source, target string }{
			{"top_left", "topLeft"}, {"topLeft", "topLeft"}, {"left", "topLeft"}, {"primary", "topLeft"},
			{"top_right", "topRight"}, {"topRight", "topRight"}, {"right", "topRight"}, {"secondary", "topRight"},
			{"top_center", "topCenter"}, {"topCenter", "topCenter"},
		} {
			if text := trimmed(value[alias.source]); text != "" {
				if _, exists := supporting[alias.target]; !exists {
					supporting[alias.target] = text
				}
			}
		}
	default:
		mainText = trimmed(entry["script"])
	}

	if mainText == "" {
		mainText = trimmed(entry["script"])
	}
	if mainText == "" {
		return nil
	}

	cleaned := map[string]string{}
	for key, value := range supporting {
		if extracted := phrase.SelectKeyword(value, phrase.MaxKeywordTokens, 32); extracted != "" {
			cleaned[key] = extracted
		}
	}

	duration := overlayDuration(entry, element)

	left := firstNonEmptyString(cleaned["topLeft"], cleaned["topCenter"])
	right := firstNonEmptyString(cleaned["topRight"], cleaned["topCenter"])

	primary := phrase.SelectKeyword(mainText, phrase.MaxKeywordTokens, 42)
	if primary == "" || !phrase.Meaningful(primary) {
		return nil
	}

	highlight := &plan.Highlight{
		ID:                  fmt.Sprintf("kb-%03d-%02d", entryIndex, elementIndex),
		Type:                plan.TypeNoteBox,
		Start:               round2(timestamp),
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

	if right == left {
		right = ""
	}
	switch {
	case left != "" && right != "":
		highlight.SupportingTexts = &plan.SupportingTexts{TopLeft: left, TopRight: right}
		highlight.Layout = "dual"
		highlight.StaggerLeft = plan.Float(0)
		highlight.StaggerRight = plan.Float(2.0)
	case left != "":
		highlight.SupportingTexts = &plan.SupportingTexts{TopLeft: left}
		highlight.Layout = "left"
		highlight.StaggerLeft = plan.Float(0)
	case right != "":
		highlight.SupportingTexts = &plan.SupportingTexts{TopRight: right}
		highlight.Layout = "right"
		highlight.StaggerRight = plan.Float(0)
	}

	return highlight
}

// overlayDuration resolves a duration from element or entry metadata and
// stretches it for longer captions.
func overlayDuration(entry, element map[string]any) float64 {
	base := 3.0
	found := false
	for _, container := range []map[string]any{element, entry} {
		for _, key := range []string{"duration_seconds", "duration", "length"} {
			if v, ok := container[key]; ok {
				if n, ok := floatValue(v); ok && n > 0 {
					base = n
					found = true
					break
				}
			}
		}
		if found {
			break
		}
	}

	text := firstNonEmptyString(trimmed(element["content"]), trimmed(entry["text"]))
	if text != "" {
		return dynamicDuration(base, text)
	}
	return base
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func trimmed(v any) string {
	return strings.TrimSpace(stringValue(v))
}

func sliceValue(v any) []any {
	s, _ := v.([]any)
	return s
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
