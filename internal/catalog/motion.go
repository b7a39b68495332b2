package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MotionRules hold the pacing knobs and keyword tables that control camera
// motion assignment. Any "*_keywords" entry in the source JSON becomes a cue
// candidate table keyed by the cue name.
type MotionRules struct {
	Parallax        bool
	MotionFrequency float64
	HighlightRate   float64
	ZoomOutKeywords []string
	CueKeywords     map[string][]string
}

func (r *MotionRules) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rules := MotionRules{CueKeywords: map[string][]string{}}
	for key, value := range raw {
		switch key {
		case "parallax":
			json.Unmarshal(value, &rules.Parallax)
		case "motion_frequency":
			json.Unmarshal(value, &rules.MotionFrequency)
		case "highlight_rate":
			json.Unmarshal(value, &rules.HighlightRate)
		}
		if !strings.HasSuffix(key, "_keywords") {
			continue
		}
		var keywords []string
		if err := json.Unmarshal(value, &keywords); err != nil {
			continue
		}
		for i, keyword := range keywords {
			keywords[i] = strings.ToLower(keyword)
		}
		cue := strings.TrimSuffix(key, "_keywords")
		rules.CueKeywords[cue] = keywords
		if cue == "zoom_out" {
			rules.ZoomOutKeywords = keywords
		}
	}
	*r = rules
	return nil
}

// LoadMotionRules reads motion rules JSON. A missing file yields nil rules,
// which disables the scene-driven motion pass.
func LoadMotionRules(path string) (*MotionRules, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read motion rules: %w", err)
	}
	var rules MotionRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse motion rules %s: %w", path, err)
	}
	return &rules, nil
}

// CamelCaseMotion converts cue names from rule files into the camelCase form
// plans carry, e.g. "zoom_out" and "zoom-out" both become "zoomOut".
func CamelCaseMotion(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	parts := strings.Split(normalized, "_")
	cleaned := parts[:0]
	for _, part := range parts {
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(cleaned[0]))
	for _, part := range cleaned[1:] {
		lower := strings.ToLower(part)
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}
