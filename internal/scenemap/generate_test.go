package scenemap

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"Đăng ký kênh ngay", []string{"đăng", "ký", "kênh", "ngay"}},
		{"20% growth in Q3", []string{"20", "growth", "in", "q3"}},
		{"", nil},
	}
	for _, tc := range tests {
		if got := Tokenize(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		text    string
		emotion string
	}{
		{"The data and analytics back this up", "informative"},
		{"This is an amazing, incredible result", "hype"},
		{"Nothing much here", "neutral"},
	}
	for _, tc := range tests {
		got, _ := detectEmotion(tc.text)
		if got != tc.emotion {
			t.Errorf("detectEmotion(%q) = %q, want %q", tc.text, got, tc.emotion)
		}
	}
}

func TestHighlightScore(t *testing.T) {
	score, triggers := highlightScore("Đây là kết quả quan trọng! 20%")
	if math.Abs(score-0.61) > 1e-9 {
		t.Errorf("score = %v, want 0.61", score)
	}
	if len(triggers) != 3 {
		t.Errorf("triggers = %v, want 3 entries", triggers)
	}

	// Keyword contribution saturates at 0.6.
	score, _ = highlightScore("key điểm chính đặc biệt kết quả giải pháp target goal focus highlight")
	if score != 0.6 {
		t.Errorf("saturated score = %v, want 0.6", score)
	}

	score, _ = highlightScore("plain sentence")
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestDetectCTA(t *testing.T) {
	cta, triggers := detectCTA("Hãy subscribe và theo dõi kênh")
	if !cta {
		t.Fatal("expected CTA")
	}
	if !reflect.DeepEqual(triggers, []string{"subscribe", "theo dõi"}) {
		t.Errorf("triggers = %v", triggers)
	}
	if cta, _ := detectCTA("no action here"); cta {
		t.Error("unexpected CTA")
	}
}

func TestDetectSfxHints(t *testing.T) {
	hints := detectSfxHints("Wow, click the button to celebrate", 0.6, true)
	want := []string{"cta", "emotion", "emphasis", "ui", "whoosh"}
	if !reflect.DeepEqual(hints, want) {
		t.Errorf("hints = %v, want %v", hints, want)
	}

	hints = detectSfxHints("What do you think?", 0.2, false)
	if !reflect.DeepEqual(hints, []string{"question"}) {
		t.Errorf("hints = %v, want [question]", hints)
	}
}

func TestBuildTopicIndex(t *testing.T) {
	cat := &catalog.BrollCatalog{Items: []catalog.BrollItem{
		{ID: "data_analysis", Title: "Data Analysis", Topics: []string{"analytics"}, Keywords: []string{"data", "metrics"}},
	}}
	index := BuildTopicIndex(cat)
	want := []string{"analysis", "analytics", "data", "metrics"}
	if !reflect.DeepEqual(index["analytics"], want) {
		t.Errorf("index = %v, want %v", index["analytics"], want)
	}
}

func TestDetectTopics(t *testing.T) {
	index := map[string][]string{
		"analytics": {"data", "metrics"},
		"teamwork":  {"team"},
	}
	topics, scores := detectTopics([]string{"the", "data", "and", "metrics", "show", "data"}, index)
	if !reflect.DeepEqual(topics, []string{"analytics"}) {
		t.Errorf("topics = %v", topics)
	}
	if scores["analytics"] != 3 {
		t.Errorf("score = %d, want 3", scores["analytics"])
	}
}

func TestGenerate(t *testing.T) {
	rules := &catalog.MotionRules{
		Parallax:        true,
		MotionFrequency: 0.5,
		HighlightRate:   0.5,
		CueKeywords:     map[string][]string{"zoom_in": {"growth"}},
	}
	gen := &Generator{
		TopicIndex:  map[string][]string{"analytics": {"data"}},
		MotionRules: rules,
		FPS:         30,
	}
	entries := []srt.Entry{
		{Index: 1, Start: 0, End: 3.5, Text: "Our growth this year hit 40%! Kết quả đặc biệt!"},
		{Index: 2, Start: 3.5, End: 6, Text: "The data speaks for itself"},
	}

	sm := gen.Generate(entries, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	if sm.Version != 1 || sm.FPS != 30 {
		t.Fatalf("header = %+v", sm)
	}
	if sm.GeneratedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("generatedAt = %q", sm.GeneratedAt)
	}
	if len(sm.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(sm.Segments))
	}

	first := sm.Segments[0]
	if !reflect.DeepEqual(first.MotionCandidates, []string{"zoom_in"}) {
		t.Errorf("motion candidates = %v", first.MotionCandidates)
	}
	if first.EndFrame != 105 {
		t.Errorf("endFrame = %d, want 105", first.EndFrame)
	}
	if !first.ParallaxEligible {
		t.Error("high score scene should be parallax eligible")
	}

	second := sm.Segments[1]
	if !reflect.DeepEqual(second.Topics, []string{"analytics"}) {
		t.Errorf("topics = %v", second.Topics)
	}
	if second.ParallaxEligible {
		t.Error("low score scene should not be parallax eligible")
	}

	if sm.Summary.TotalSegments != 2 || sm.Summary.EstimatedDurationSeconds != 6 {
		t.Errorf("summary = %+v", sm.Summary)
	}
	if sm.Summary.HighlightSegments != 1 {
		t.Errorf("highlight segments = %d, want 1", sm.Summary.HighlightSegments)
	}
	if !reflect.DeepEqual(sm.Summary.TopTopics, []TopicStat{{Topic: "analytics", Count: 1}}) {
		t.Errorf("top topics = %v", sm.Summary.TopTopics)
	}
}
