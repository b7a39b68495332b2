// Package scenemap derives per-scene editing metadata from an SRT
// transcript: topics, emotion, highlight scores, CTA flags, motion cue
// candidates, and sfx hints. The output drives plan enrichment.
package scenemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
)

type Scene struct {
	ID                int            `json:"id"`
	Start             float64        `json:"start"`
	End               float64        `json:"end"`
	Duration          float64        `json:"duration"`
	StartFrame        int            `json:"startFrame"`
	EndFrame          int            `json:"endFrame"`
	Text              string         `json:"text"`
	TextOneLine       string         `json:"textOneLine"`
	Tokens            []string       `json:"tokens"`
	Topics            []string       `json:"topics"`
	TopicScores       map[string]int `json:"topicScores"`
	Emotion           string         `json:"emotion"`
	EmotionTriggers   []string       `json:"emotionTriggers"`
	HighlightScore    float64        `json:"highlightScore"`
	HighlightTriggers []string       `json:"highlightTriggers"`
	CTA               bool           `json:"cta"`
	CTATriggers       []string       `json:"ctaTriggers"`
	MotionCandidates  []string       `json:"motionCandidates"`
	ParallaxEligible  bool           `json:"parallaxEligible"`
	SfxHints          []string       `json:"sfxHints"`
	RawTextLength     int            `json:"rawTextLength"`
}

// Line returns the one-line transcript text, falling back to Text for scene
// maps produced by older tooling.
func (s Scene) Line() string {
	if s.TextOneLine != "" {
		return s.TextOneLine
	}
	return s.Text
}

type TopicStat struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalSegments            int         `json:"totalSegments"`
	EstimatedDurationSeconds float64     `json:"estimatedDurationSeconds"`
	HighlightSegments        int         `json:"highlightSegments"`
	CTASegments              int         `json:"ctaSegments"`
	MotionFrequencyConfig    float64     `json:"motionFrequencyConfig"`
	HighlightRateConfig      float64     `json:"highlightRateConfig"`
	TopTopics                []TopicStat `json:"topTopics"`
}

type MotionRuleSummary struct {
	Parallax        bool    `json:"parallax"`
	MotionFrequency float64 `json:"motion_frequency"`
	HighlightRate   float64 `json:"highlight_rate"`
}

type SceneMap struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generatedAt"`
	FPS         float64           `json:"fps"`
	MotionRules MotionRuleSummary `json:"motionRules"`
	Segments    []Scene           `json:"segments"`
	Summary     Summary           `json:"summary"`
	Source      string            `json:"source,omitempty"`
	Catalogs    map[string]bool   `json:"catalogs,omitempty"`
}

// Load reads a scene map JSON file produced by Generate or external tooling.
func Load(path string) (*SceneMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene map: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*SceneMap, error) {
	var sm SceneMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("parse scene map: %w", err)
	}
	return &sm, nil
}

// BuildTopicIndex maps each catalog topic to the lowercased word set drawn
// from the topic name itself plus the keywords and titles of items carrying
// that topic. Scenes are scored against this index during generation.
func BuildTopicIndex(cat *catalog.BrollCatalog) map[string][]string {
	if cat == nil {
		return nil
	}
	sets := map[string]map[string]bool{}
	ordered := []string{}
	add := func(topic, text string) {
		words, ok := sets[topic]
		if !ok {
			words = map[string]bool{}
			sets[topic] = words
			ordered = append(ordered, topic)
		}
		for _, token := range Tokenize(text) {
			words[token] = true
		}
	}
	for _, item := range cat.Items {
		for _, topic := range item.Topics {
			add(topic, topic)
			for _, keyword := range item.Keywords {
				add(topic, keyword)
			}
			add(topic, item.Title)
		}
	}
	index := make(map[string][]string, len(ordered))
	for _, topic := range ordered {
		index[topic] = sortedKeys(sets[topic])
	}
	return index
}
