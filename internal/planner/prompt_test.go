package planner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

func testSceneMap() *scenemap.SceneMap {
	return &scenemap.SceneMap{
		Segments: []scenemap.Scene{
			{
				ID: 1, Start: 0, End: 4,
				Topics:           []string{"analytics"},
				Emotion:          "excited",
				HighlightScore:   0.8,
				MotionCandidates: []string{"zoom_in"},
				SfxHints:         []string{"emphasis"},
				CTA:              true,
			},
			{ID: 2, Start: 4, End: 8, HighlightScore: 0.1},
		},
		Summary: scenemap.Summary{
			TotalSegments:            2,
			EstimatedDurationSeconds: 8,
			HighlightSegments:        1,
			CTASegments:              1,
			MotionFrequencyConfig:    0.35,
			HighlightRateConfig:      0.6,
			TopTopics: []scenemap.TopicStat{
				{Topic: "analytics", Count: 3},
				{Topic: "growth", Count: 1},
			},
		},
	}
}

func testEntries() []srt.Entry {
	return []srt.Entry{
		{Index: 1, Start: 1, End: 3.5, Duration: 2.5, Text: "Hello there"},
		{Index: 2, Start: 3.5, End: 6, Duration: 2.5, Text: "Welcome back"},
	}
}

func TestSummarizeSceneMap(t *testing.T) {
	got := SummarizeSceneMap(testSceneMap(), MaxSceneContextItems)
	want := strings.Join([]string{
		"Summary: segments=2 | duration~8.0s | highlight>=threshold=1 | cta=1 | motion_frequency=0.35 | highlight_rate=0.60 | top_topics=analytics(3), growth(1)",
		"1: 0.00-4.00s | topics=analytics | emotion=excited | highlight=0.80 | motion=zoom_in | sfx=emphasis | flags=cta",
		"2: 4.00-8.00s | topics=- | emotion=neutral | highlight=0.10 | motion=- | sfx=-",
	}, "\n")
	if got != want {
		t.Errorf("summary mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSummarizeSceneMapLimit(t *testing.T) {
	got := SummarizeSceneMap(testSceneMap(), 1)
	if !strings.HasSuffix(got, "... 1 additional segments omitted") {
		t.Errorf("expected omission line, got:\n%s", got)
	}
	if strings.Contains(got, "2: 4.00-8.00s") {
		t.Errorf("second segment should be omitted:\n%s", got)
	}
}

func TestSummarizeSceneMapEmpty(t *testing.T) {
	if got := SummarizeSceneMap(nil, 10); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
	if got := SummarizeSceneMap(&scenemap.SceneMap{}, 10); got != "" {
		t.Errorf("expected empty summary for no segments, got %q", got)
	}
}

func TestSummarizeBrollCatalog(t *testing.T) {
	cat := &catalog.BrollCatalog{Items: []catalog.BrollItem{
		{
			ID: "data_analysis", MediaType: "video", Orientation: "landscape",
			Topics:           []string{"analytics", "data"},
			Mood:             []string{"focused"},
			RecommendedUsage: []string{"background"},
		},
		{ID: "city_night"},
	}}

	got := SummarizeBrollCatalog(cat, MaxBrollSummaryItems)
	want := strings.Join([]string{
		"data_analysis: video/landscape | topics=analytics, data | mood=focused | usage=background",
		"city_night: video/landscape | topics=- | mood=- | usage=-",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	got = SummarizeBrollCatalog(cat, 1)
	if !strings.HasSuffix(got, "... 1 additional B-roll items available") {
		t.Errorf("expected omission line, got:\n%s", got)
	}
}

func TestSummarizeSfxCatalog(t *testing.T) {
	cat := &catalog.SfxCatalog{Categories: []catalog.SfxCategory{
		{ID: "ui", Label: "UI", Items: []catalog.SfxItem{
			{ID: "pop", Usage: []string{"click", "accent", "extra"}},
			{ID: "swipe"},
		}},
		{ID: "ambient"},
		{ID: "emphasis", Items: []catalog.SfxItem{{ID: "ding"}}},
	}}

	got := SummarizeSfxCatalog(cat, MaxSfxItemsPerCategory)
	want := "UI: pop (click/accent), swipe\nemphasis: ding"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	got = SummarizeSfxCatalog(cat, 1)
	if !strings.Contains(got, "UI: pop (click/accent), +1 more") {
		t.Errorf("expected truncated category, got:\n%s", got)
	}
}

func TestSummarizeMotionRules(t *testing.T) {
	rules := &catalog.MotionRules{
		MotionFrequency: 0.35,
		HighlightRate:   0.6,
		CueKeywords: map[string][]string{
			"zoom_out": {"overall"},
			"zoom_in":  {"important", "key"},
		},
	}

	got := SummarizeMotionRules(rules)
	want := strings.Join([]string{
		"Target motion frequency <= 0.35",
		"Highlight threshold >= 0.6",
		"zoom in: important, key",
		"zoom out: overall",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if got := SummarizeMotionRules(nil); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestBuildPromptFullContext(t *testing.T) {
	manifest := &ClientManifest{
		Templates: []ManifestTemplate{{ID: "tpl1", Name: "Clean", Description: "Minimal lower thirds"}},
		Effects:   map[string]json.RawMessage{"glow": nil, "blur": nil},
		Audio:     ManifestAudio{BGM: "lofi", SfxFallback: "ui/pop.mp3"},
	}
	prompt := BuildPrompt(PromptInput{
		Entries:  testEntries(),
		Extra:    "Keep it upbeat",
		SceneMap: testSceneMap(),
		Broll:    &catalog.BrollCatalog{Items: []catalog.BrollItem{{ID: "data_analysis"}}},
		Sfx:      &catalog.SfxCatalog{Categories: []catalog.SfxCategory{{ID: "ui", Items: []catalog.SfxItem{{ID: "pop"}}}}},
		Motion:   &catalog.MotionRules{MotionFrequency: 0.35, HighlightRate: 0.6},
		Manifest: manifest,
	})

	if !strings.HasPrefix(prompt, "You are a detail-oriented video editor.") {
		t.Fatalf("unexpected prompt head: %q", prompt[:80])
	}
	if !strings.HasSuffix(prompt, "\n") {
		t.Error("prompt should end with a newline")
	}

	for _, fragment := range []string{
		"Extra guidance from user: Keep it upbeat",
		"Use this schema template (update with real values):",
		"\"sourceStart\": 0.0",
		"Rules:",
		"- Motion cues must follow the keywords and frequency found in the motion rules context.",
		"- Treat segments with `highlightScore` >= 0.6 as prime candidates for visual emphasis, B-roll, and SFX.",
		"- Use the scene map insights below to align B-roll, CTA moments, motion cues, and SFX hints per segment.",
		"- Choose B-roll IDs from the catalog context, matching topics/mood and keeping framing consistent.",
		"- Align segments with the FE templates and effects listed in the client manifest",
		"- Respond with JSON inside a single fenced code block.",
		"Supplemental context:\nScene map insights:\n",
		"B-roll catalog (id / media / topics):\ndata_analysis:",
		"Motion cue rules:\nTarget motion frequency <= 0.35",
		"SFX catalog overview:\nui: pop",
		"FE templates (id / name / description):\ntpl1: Clean - Minimal lower thirds",
		"Available FE effects keys:\nblur, glow",
		"Audio guidance from client manifest:\nBGM preference: lofi\nSFX fallback: ui/pop.mp3",
		"Transcript segments (ordered):\n1. [00:00:01,000 -> 00:00:03,500] Hello there\n2. [00:00:03,500 -> 00:00:06,000] Welcome back",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}

	// Supplemental context precedes the transcript.
	if strings.Index(prompt, "Supplemental context:") > strings.Index(prompt, "Transcript segments (ordered):") {
		t.Error("supplemental context should come before the transcript")
	}
}

func TestBuildPromptMinimal(t *testing.T) {
	prompt := BuildPrompt(PromptInput{Entries: testEntries()})

	for _, fragment := range []string{
		"Supplemental context:",
		"Extra guidance from user:",
		"- Motion cues must follow",
		"- Use the scene map insights",
		"- Choose B-roll IDs from the catalog context",
	} {
		if strings.Contains(prompt, fragment) {
			t.Errorf("minimal prompt should not contain %q", fragment)
		}
	}

	// Stock sfx inventory backs the options rule when nothing is discovered.
	if !strings.Contains(prompt, "emphasis/ding.mp3") {
		t.Error("expected stock sfx options in the rules")
	}
	if !strings.Contains(prompt, "Transcript segments (ordered):\n1. ") {
		t.Error("expected transcript section")
	}
}

func TestDiscoverAvailableSfx(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sfx", "ui"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		filepath.Join(dir, "sfx", "ui", "pop.mp3"),
		filepath.Join(dir, "sfx", "ui", "notes.txt"),
		filepath.Join(dir, "sfx", "camera-click.wav"),
	} {
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := DiscoverAvailableSfx(dir)
	if got["ui/pop.mp3"] != "Ui: Pop" {
		t.Errorf("ui/pop.mp3 = %q, want %q", got["ui/pop.mp3"], "Ui: Pop")
	}
	if got["assets/sfx/ui/pop.mp3"] != "Ui: Pop" {
		t.Errorf("prefixed key missing: %v", got)
	}
	if got["camera-click.wav"] != "Mix: Camera Click" {
		t.Errorf("camera-click.wav = %q, want %q", got["camera-click.wav"], "Mix: Camera Click")
	}
	if _, ok := got["ui/notes.txt"]; ok {
		t.Error("non-audio file should be skipped")
	}
}

func TestDiscoverAvailableSfxFallback(t *testing.T) {
	got := DiscoverAvailableSfx(filepath.Join(t.TempDir(), "missing"))
	if got["ui/pop.mp3"] == "" {
		t.Errorf("expected stock inventory, got %v", got)
	}
}
