package scenemap

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
	"github.com/NhiLe-Team-Webs/video-be/internal/timecode"
)

const DefaultFPS = 30.0

var tokenRe = regexp.MustCompile(`[A-Za-zÀ-ỹ0-9]+`)

// Tokenize lowercases and splits text on anything outside the Latin and
// Vietnamese letter ranges.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

type keywordRule struct {
	name     string
	keywords []string
}

var emotionRules = []keywordRule{
	{"hype", []string{"amazing", "incredible", "thành công", "bứt phá", "đột phá", "celebrate", "thành tựu"}},
	{"confidence", []string{"tin tưởng", "chắc chắn", "đảm bảo", "guarantee", "bảo chứng"}},
	{"urgent", []string{"ngay", "ngay lập tức", "đừng bỏ lỡ", "right now", "deadline"}},
	{"serious", []string{"thách thức", "khó khăn", "trở ngại", "challenge"}},
	{"informative", []string{"thống kê", "số liệu", "data", "analytics"}},
	{"surprise", []string{"bất ngờ", "shock", "surprise", "không ngờ"}},
}

var highlightKeywords = []string{
	"quan trọng", "key", "điểm chính", "đặc biệt", "chìa khóa", "kết quả",
	"giải pháp", "lợi ích", "đột phá", "chiến lược", "số liệu", "target",
	"goal", "kêu gọi", "nhớ", "focus", "highlight",
}

var ctaKeywords = []string{
	"đăng ký", "subscribe", "theo dõi", "liên hệ", "đăng nhập", "đăng ký kênh",
	"call to action", "cta", "kêu gọi", "sign up", "subscribe now", "hành động ngay",
}

var numberRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?%?\b`)

// detectEmotion picks the emotion with the most keyword hits. Ties resolve
// in rule order so output is stable.
func detectEmotion(text string) (string, []string) {
	lowered := strings.ToLower(text)
	best := "neutral"
	bestCount := 0
	var allHits []string
	for _, rule := range emotionRules {
		var hits []string
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				hits = append(hits, keyword)
			}
		}
		allHits = append(allHits, hits...)
		if len(hits) > bestCount {
			best = rule.name
			bestCount = len(hits)
		}
	}
	if bestCount == 0 {
		return "neutral", nil
	}
	return best, allHits
}

// highlightScore weighs keyword hits, numbers, and exclamations, each capped
// so no single signal saturates the score.
func highlightScore(text string) (float64, []string) {
	lowered := strings.ToLower(text)
	var hits []string
	for _, keyword := range highlightKeywords {
		if strings.Contains(lowered, keyword) {
			hits = append(hits, keyword)
		}
	}
	numbers := numberRe.FindAllString(text, -1)
	exclamations := strings.Count(lowered, "!")

	score := math.Min(float64(len(hits))*0.18, 0.6)
	score += math.Min(float64(len(numbers))*0.15, 0.3)
	score += math.Min(float64(exclamations)*0.1, 0.2)
	return math.Min(score, 1.0), append(hits, numbers...)
}

func detectCTA(text string) (bool, []string) {
	lowered := strings.ToLower(text)
	var triggers []string
	for _, keyword := range ctaKeywords {
		if strings.Contains(lowered, keyword) {
			triggers = append(triggers, keyword)
		}
	}
	return len(triggers) > 0, triggers
}

func detectMotionCues(text string, rules *catalog.MotionRules) []string {
	if rules == nil {
		return nil
	}
	lowered := strings.ToLower(text)
	cues := sortedKeys(rules.CueKeywords)
	var candidates []string
	for _, cue := range cues {
		for _, keyword := range rules.CueKeywords[cue] {
			if strings.Contains(lowered, keyword) {
				candidates = append(candidates, cue)
				break
			}
		}
	}
	return candidates
}

var sfxHintRules = []keywordRule{
	{"whoosh", []string{"wow", "whoa", "bất ngờ", "surprise"}},
	{"emotion", []string{"chúc mừng", "celebrate", "thành công", "chiến thắng"}},
	{"ui", []string{"click", "nhấp", "button", "giao diện", "ứng dụng"}},
	{"tech", []string{"công nghệ", "ai", "digital", "robot"}},
}

func detectSfxHints(text string, score float64, cta bool) []string {
	lowered := strings.ToLower(text)
	set := map[string]bool{}
	if score >= 0.55 {
		set["emphasis"] = true
	}
	for _, rule := range sfxHintRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				set[rule.name] = true
				break
			}
		}
	}
	if cta {
		set["cta"] = true
	}
	if len(set) == 0 && strings.Contains(text, "?") {
		set["question"] = true
	}
	return sortedKeys(set)
}

// detectTopics scores each indexed topic by token frequency and returns the
// top five plus the full score map. Ties break alphabetically.
func detectTopics(tokens []string, topicIndex map[string][]string) ([]string, map[string]int) {
	counts := map[string]int{}
	for _, token := range tokens {
		counts[token]++
	}
	scores := map[string]int{}
	for topic, keywords := range topicIndex {
		score := 0
		for _, keyword := range keywords {
			score += counts[keyword]
		}
		if score > 0 {
			scores[topic] = score
		}
	}
	ranked := sortedKeys(scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked, scores
}

// Generator builds scene maps from transcripts.
type Generator struct {
	TopicIndex  map[string][]string
	MotionRules *catalog.MotionRules
	FPS         float64
}

// Generate walks the transcript entries and emits a scored scene map.
// generatedAt comes from the caller so output is reproducible.
func (g *Generator) Generate(entries []srt.Entry, generatedAt time.Time) *SceneMap {
	fps := g.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	var parallax bool
	var motionFrequency, highlightRate float64
	if g.MotionRules != nil {
		parallax = g.MotionRules.Parallax
		motionFrequency = g.MotionRules.MotionFrequency
		highlightRate = g.MotionRules.HighlightRate
	}

	scenes := make([]Scene, 0, len(entries))
	topicTotals := map[string]int{}
	highlightCount := 0
	ctaCount := 0
	totalDuration := 0.0

	for _, entry := range entries {
		line := entry.Text
		tokens := Tokenize(line)

		topics, topicScores := detectTopics(tokens, g.TopicIndex)
		emotion, emotionHits := detectEmotion(line)
		score, scoreTriggers := highlightScore(line)
		ctaFlag, ctaHits := detectCTA(line)
		motionCandidates := detectMotionCues(line, g.MotionRules)
		sfxHints := detectSfxHints(line, score, ctaFlag)

		for _, topic := range topics {
			topicTotals[topic]++
		}
		if score >= highlightRate {
			highlightCount++
		}
		if ctaFlag {
			ctaCount++
		}
		if entry.End > totalDuration {
			totalDuration = entry.End
		}

		scenes = append(scenes, Scene{
			ID:                entry.Index,
			Start:             entry.Start,
			End:               entry.End,
			Duration:          math.Max(entry.End-entry.Start, 0),
			StartFrame:        timecode.Frames(entry.Start, fps),
			EndFrame:          timecode.Frames(entry.End, fps),
			Text:              entry.Text,
			TextOneLine:       line,
			Tokens:            tokens,
			Topics:            topics,
			TopicScores:       topicScores,
			Emotion:           emotion,
			EmotionTriggers:   emotionHits,
			HighlightScore:    round4(score),
			HighlightTriggers: scoreTriggers,
			CTA:               ctaFlag,
			CTATriggers:       ctaHits,
			MotionCandidates:  motionCandidates,
			ParallaxEligible:  parallax && score >= highlightRate,
			SfxHints:          sfxHints,
			RawTextLength:     len([]rune(line)),
		})
	}

	topTopics := sortedKeys(topicTotals)
	sort.SliceStable(topTopics, func(i, j int) bool {
		return topicTotals[topTopics[i]] > topicTotals[topTopics[j]]
	})
	if len(topTopics) > 8 {
		topTopics = topTopics[:8]
	}
	stats := make([]TopicStat, 0, len(topTopics))
	for _, topic := range topTopics {
		stats = append(stats, TopicStat{Topic: topic, Count: topicTotals[topic]})
	}

	return &SceneMap{
		Version:     1,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		FPS:         fps,
		MotionRules: MotionRuleSummary{
			Parallax:        parallax,
			MotionFrequency: motionFrequency,
			HighlightRate:   highlightRate,
		},
		Segments: scenes,
		Summary: Summary{
			TotalSegments:            len(scenes),
			EstimatedDurationSeconds: totalDuration,
			HighlightSegments:        highlightCount,
			CTASegments:              ctaCount,
			MotionFrequencyConfig:    motionFrequency,
			HighlightRateConfig:      highlightRate,
			TopTopics:                stats,
		},
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
