package enrich

import (
	"strings"
	"testing"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

func TestSnapHighlightsToTranscript(t *testing.T) {
	h := &plan.Highlight{ID: "h1", Type: plan.TypeNoteBox, Start: 1.0, Duration: 1.0}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}
	scenes := []scenemap.Scene{
		{ID: 1, Start: 0.8, End: 2.2},
		{ID: 2, Start: 2.5, End: 3.0},
	}

	windows := snapHighlightsToTranscript(p, scenes, 0.06, 0.6)

	if h.Start != 0.8 || h.Duration != 1.4 {
		t.Errorf("snapped to %v/%v, want 0.8/1.4", h.Start, h.Duration)
	}
	if len(windows[h]) != 1 || windows[h][0].ID != 1 {
		t.Errorf("window = %v", windows[h])
	}
}

func TestSnapHighlightsBestEffortScene(t *testing.T) {
	// Too little overlap for a window, but the closest scene still wins.
	h := &plan.Highlight{ID: "h1", Start: 2.18, Duration: 1.0}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}
	scenes := []scenemap.Scene{
		{ID: 1, Start: 0.0, End: 2.2},
		{ID: 2, Start: 2.2, End: 4.0},
	}

	windows := snapHighlightsToTranscript(p, scenes, 1.5, 0.6)

	if len(windows[h]) != 1 || windows[h][0].ID != 2 {
		t.Fatalf("window = %v", windows[h])
	}
	if h.Start != 2.2 || h.Duration != 1.8 {
		t.Errorf("snapped to %v/%v", h.Start, h.Duration)
	}
}

func TestRefreshHighlightPhrases(t *testing.T) {
	scene := scenemap.Scene{
		ID: 1, Start: 0.8, End: 2.2,
		TextOneLine: "The loyal clientele keeps growing",
		Tokens:      []string{"loyal", "clientele", "keeps", "growing"},
	}
	stale := &plan.Highlight{ID: "h1", Type: plan.TypeNoteBox, Start: 0.8, Duration: 1.4, Keyword: "OLD PHRASE"}
	cta := &plan.Highlight{ID: "cta_subscribe", Type: plan.TypeSectionTitle, Start: 0.9, Text: "Dang ky kenh!"}
	orphan := &plan.Highlight{ID: "h2", Type: plan.TypeNoteBox, Start: 50, Keyword: ""}
	p := &plan.Plan{Highlights: []*plan.Highlight{stale, cta, orphan}}

	windows := map[*plan.Highlight][]scenemap.Scene{
		stale: {scene},
		cta:   {scene},
	}
	refreshHighlightPhrases(p, windows)

	if len(p.Highlights) != 2 {
		t.Fatalf("kept %d highlights, want 2", len(p.Highlights))
	}
	if stale.Keyword != "LOYAL CLIENTELE" || stale.Text != "LOYAL CLIENTELE" {
		t.Errorf("refreshed = %q/%q", stale.Keyword, stale.Text)
	}
	if cta.Text != "Dang ky kenh!" {
		t.Errorf("cta text changed: %q", cta.Text)
	}
}

func TestRefreshKeepsMatchingPhrase(t *testing.T) {
	scene := scenemap.Scene{
		ID: 1, Start: 0, End: 2,
		TextOneLine: "The loyal clientele keeps growing",
		Tokens:      []string{"loyal", "clientele", "keeps", "growing"},
	}
	h := &plan.Highlight{ID: "h1", Type: plan.TypeNoteBox, Start: 0, Duration: 2, Keyword: "CLIENTELE GROWING", Text: "CLIENTELE GROWING"}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}

	refreshHighlightPhrases(p, map[*plan.Highlight][]scenemap.Scene{h: {scene}})

	// Every word is spoken in the window, so the phrase survives untouched.
	if h.Keyword != "CLIENTELE GROWING" {
		t.Errorf("keyword = %q", h.Keyword)
	}
}

func TestDecorateSectionHighlights(t *testing.T) {
	first := &plan.Highlight{ID: "a", Type: plan.TypeSectionTitle, Keyword: "LOYAL CLIENTELE"}
	second := &plan.Highlight{ID: "h", Type: plan.TypeSectionTitle, Keyword: "LOYAL CLIENTELE"}
	note := &plan.Highlight{ID: "n", Type: plan.TypeNoteBox, Keyword: "LOYAL CLIENTELE"}
	p := &plan.Plan{Highlights: []*plan.Highlight{first, second, note}}

	decorateSectionHighlights(p)

	// Byte sums of "a" and "h" both land on the same suffix; the second
	// card rolls forward to keep titles unique.
	if first.Text != "Loyal Clientele Summary" {
		t.Errorf("first = %q", first.Text)
	}
	if second.Text != "Loyal Clientele Overview" {
		t.Errorf("second = %q", second.Text)
	}
	if first.Keyword != "LOYAL CLIENTELE SUMMARY" {
		t.Errorf("keyword = %q", first.Keyword)
	}
	if note.Keyword != "LOYAL CLIENTELE" {
		t.Errorf("noteBox touched: %q", note.Keyword)
	}
}

func TestEnforceHighlightSpacingTrimsPrevious(t *testing.T) {
	a := &plan.Highlight{ID: "a", Type: plan.TypeNoteBox, Start: 10, Duration: 4}
	b := &plan.Highlight{ID: "b", Type: plan.TypeSectionTitle, Start: 12, Duration: 2}
	c := &plan.Highlight{ID: "c", Type: plan.TypeNoteBox, Start: 12.5, Duration: 1}
	p := &plan.Plan{Highlights: []*plan.Highlight{a, b, c}}

	enforceHighlightSpacing(p, 0.2, 0.6)

	if len(p.Highlights) != 2 {
		t.Fatalf("kept %d, want 2", len(p.Highlights))
	}
	if a.Duration != 1.8 {
		t.Errorf("a.Duration = %v, want 1.8", a.Duration)
	}
	if p.Highlights[1] != b {
		t.Error("section should survive")
	}
}

func TestEnforceHighlightSpacingSectionWins(t *testing.T) {
	a := &plan.Highlight{ID: "a", Type: plan.TypeNoteBox, Start: 10, Duration: 4}
	b := &plan.Highlight{ID: "b", Type: plan.TypeSectionTitle, Start: 10.1, Duration: 3}
	p := &plan.Plan{Highlights: []*plan.Highlight{a, b}}

	enforceHighlightSpacing(p, 0.2, 0.6)

	if len(p.Highlights) != 1 || p.Highlights[0] != b {
		t.Fatalf("highlights = %v", p.Highlights)
	}
}

func TestScoreHighlight(t *testing.T) {
	section := &plan.Highlight{Type: plan.TypeSectionTitle, Keyword: "LOYAL CLIENTELE", Duration: 4}
	note := &plan.Highlight{Type: plan.TypeNoteBox, Keyword: "LOYAL CLIENTELE", Duration: 4}
	empty := &plan.Highlight{Type: plan.TypeNoteBox}
	if scoreHighlight(section) <= scoreHighlight(note) {
		t.Error("section should outrank noteBox")
	}
	if scoreHighlight(empty) >= 0 {
		t.Errorf("empty score = %v, want negative", scoreHighlight(empty))
	}
	numbered := &plan.Highlight{Type: plan.TypeNoteBox, Keyword: "REVENUE GROWTH 2024", Duration: 4}
	if scoreHighlight(numbered) <= scoreHighlight(note) {
		t.Error("numbers should boost the score")
	}
}

func TestPruneHighlights(t *testing.T) {
	section := &plan.Highlight{ID: "s", Type: plan.TypeSectionTitle, Start: 20, Duration: 4, Keyword: "BRAND STORY"}
	strong := &plan.Highlight{ID: "h1", Type: plan.TypeNoteBox, Start: 1, Duration: 2, Keyword: "LOYAL CLIENTELE"}
	weak := &plan.Highlight{ID: "h2", Type: plan.TypeNoteBox, Start: 5, Duration: 1}
	numbered := &plan.Highlight{ID: "h3", Type: plan.TypeNoteBox, Start: 30, Duration: 3, Keyword: "REVENUE GROWTH 2024"}
	blank := &plan.Highlight{ID: "h4", Type: plan.TypeNoteBox, Start: 40, Duration: 1}
	p := &plan.Plan{Highlights: []*plan.Highlight{section, strong, weak, numbered, blank}}

	pruneHighlights(p, 3)

	if len(p.Highlights) != 3 {
		t.Fatalf("kept %d, want 3", len(p.Highlights))
	}
	// Chronological order after pruning.
	want := []*plan.Highlight{strong, section, numbered}
	for i, h := range want {
		if p.Highlights[i] != h {
			t.Fatalf("highlight[%d] = %s", i, p.Highlights[i].ID)
		}
	}
}

func TestPruneHighlightsUnderCap(t *testing.T) {
	h := &plan.Highlight{ID: "h1", Start: 1}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}
	pruneHighlights(p, 20)
	if len(p.Highlights) != 1 {
		t.Fatal("nothing should be pruned under the cap")
	}
}

func TestTrimHighlightsToSegments(t *testing.T) {
	p := &plan.Plan{
		Segments: []*plan.Segment{{ID: "a", SourceStart: 0, Duration: 10}},
		Highlights: []*plan.Highlight{
			{ID: "in", Start: 5, Duration: 2},
			{ID: "out", Start: 10.5, Duration: 2},
		},
	}
	trimHighlightsToSegments(p, 0.25)
	if len(p.Highlights) != 1 || p.Highlights[0].ID != "in" {
		t.Errorf("highlights = %v", p.Highlights)
	}
}

func TestEnsureBrollFromHighlights(t *testing.T) {
	e := &Enricher{Broll: &catalog.BrollCatalog{Items: []catalog.BrollItem{
		{ID: "handshake_success", File: "assets/broll/handshake.mp4", MediaType: "video"},
		{ID: "teamwork_meeting", File: "assets/broll/teamwork.mp4", MediaType: "video"},
	}}}
	segment := &plan.Segment{
		ID: "seg-a", SourceStart: 0, Duration: 4,
		Notes: []string{"No B-roll match above threshold."},
	}
	p := &plan.Plan{
		Segments: []*plan.Segment{segment},
		Highlights: []*plan.Highlight{
			{ID: "h1", Type: plan.TypeNoteBox, Start: 1, Keyword: "LOYAL CLIENTELE"},
		},
	}

	e.ensureBrollFromHighlights(p)

	if segment.Broll == nil {
		t.Fatal("expected broll")
	}
	// Both catalog rules match; the tie resolves alphabetically.
	if segment.Broll.ID != "handshake_success" {
		t.Errorf("broll = %q", segment.Broll.ID)
	}
	if segment.Broll.Confidence != 3.0 || segment.Broll.Duration != 4.0 {
		t.Errorf("broll = %+v", segment.Broll)
	}
	for _, note := range segment.Notes {
		if strings.HasPrefix(strings.ToLower(note), "no b-roll match") {
			t.Errorf("stale note kept: %v", segment.Notes)
		}
	}
	if len(segment.Notes) != 1 || !strings.HasPrefix(segment.Notes[0], "B-roll: handshake_success") {
		t.Errorf("notes = %v", segment.Notes)
	}
}

func TestEnsureBrollFromHighlightsSkipsSectionSegments(t *testing.T) {
	e := &Enricher{Broll: &catalog.BrollCatalog{Items: []catalog.BrollItem{
		{ID: "handshake_success", File: "assets/broll/handshake.mp4", MediaType: "video"},
	}}}
	segment := &plan.Segment{ID: "seg-a", SourceStart: 0, Duration: 4}
	p := &plan.Plan{
		Segments: []*plan.Segment{segment},
		Highlights: []*plan.Highlight{
			{ID: "section_seg-a", Type: plan.TypeSectionTitle, Start: 0.5},
			{ID: "h1", Type: plan.TypeNoteBox, Start: 1, Keyword: "LOYAL CLIENTELE"},
		},
	}

	e.ensureBrollFromHighlights(p)

	if segment.Broll != nil {
		t.Errorf("section-locked segment got broll: %+v", segment.Broll)
	}
}

func TestEnsureMotionFromHighlights(t *testing.T) {
	e := &Enricher{Motion: &catalog.MotionRules{MotionFrequency: 1}}
	segA := &plan.Segment{ID: "seg-a", SourceStart: 0, Duration: 4}
	segB := &plan.Segment{ID: "seg-b", SourceStart: 4, Duration: 4}
	p := &plan.Plan{
		Segments: []*plan.Segment{segA, segB},
		Highlights: []*plan.Highlight{
			{ID: "h1", Type: plan.TypeNoteBox, Start: 1, Importance: "primary", Keyword: "10 MILLION"},
			{ID: "h2", Type: plan.TypeNoteBox, Start: 5, Importance: "primary", Keyword: "LOYAL CLIENTELE"},
		},
	}

	e.ensureMotionFromHighlights(p)

	if segA.MotionCue != "zoomIn" {
		t.Errorf("segA cue = %q, want zoomIn", segA.MotionCue)
	}
	// Alternates away from the previous zoomIn.
	if segB.MotionCue != "zoomOut" {
		t.Errorf("segB cue = %q, want zoomOut", segB.MotionCue)
	}
	if len(segA.Notes) != 1 || segA.Notes[0] != `Motion cue: zoomIn emphasises "10 MILLION".` {
		t.Errorf("notes = %v", segA.Notes)
	}
}

func TestEnsureMotionFrequencyCap(t *testing.T) {
	// Default frequency 0.5 over two segments allows a single cue.
	e := &Enricher{}
	segA := &plan.Segment{ID: "seg-a", SourceStart: 0, Duration: 4}
	segB := &plan.Segment{ID: "seg-b", SourceStart: 4, Duration: 4}
	p := &plan.Plan{
		Segments: []*plan.Segment{segA, segB},
		Highlights: []*plan.Highlight{
			{ID: "h1", Start: 1, Importance: "primary", Keyword: "10 MILLION"},
			{ID: "h2", Start: 5, Importance: "primary", Keyword: "LOYAL CLIENTELE"},
		},
	}

	e.ensureMotionFromHighlights(p)

	if segA.MotionCue != "zoomIn" || segB.MotionCue != "" {
		t.Errorf("cues = %q/%q", segA.MotionCue, segB.MotionCue)
	}
}

func TestEnsureHighlightSfx(t *testing.T) {
	e := &Enricher{}
	h := &plan.Highlight{ID: "h1", Type: plan.TypeSectionTitle, Text: "Loyalty since day one"}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}

	e.ensureHighlightSfx(p)

	if h.Sfx != "assets/sfx/emphasis/ding.mp3" {
		t.Errorf("sfx = %q", h.Sfx)
	}
	if h.Gain == nil || *h.Gain != -2.5 {
		t.Errorf("gain = %v", h.Gain)
	}
	if h.Metadata["audio"] != "auto" {
		t.Errorf("metadata = %v", h.Metadata)
	}
}

func TestEnsureHighlightSfxHonorsCatalog(t *testing.T) {
	e := &Enricher{Sfx: &catalog.SfxCatalog{Items: []catalog.SfxItem{
		{ID: "pop", File: "assets/sfx/ui/pop.mp3"},
	}}}
	h := &plan.Highlight{ID: "h1", Text: "Loyalty since day one"}
	p := &plan.Plan{Highlights: []*plan.Highlight{h}}

	e.ensureHighlightSfx(p)

	if h.Sfx != "" {
		t.Errorf("sfx = %q, want none when catalog lacks the asset", h.Sfx)
	}
}

func TestStripNonSectionSfx(t *testing.T) {
	section := &plan.Highlight{Type: plan.TypeSectionTitle, Sfx: "assets/sfx/ui/swipe.mp3"}
	kept := &plan.Highlight{Type: plan.TypeNoteBox, Sfx: "assets/sfx/ui/pop.mp3", Gain: plan.Float(-2), Metadata: map[string]any{"audio": "auto"}}
	stripped := &plan.Highlight{Type: plan.TypeNoteBox, Sfx: "assets/sfx/ui/pop.mp3", Gain: plan.Float(-2)}
	p := &plan.Plan{Highlights: []*plan.Highlight{section, kept, stripped}}

	stripNonSectionSfx(p)

	if section.Sfx == "" || kept.Sfx == "" {
		t.Error("section and audio=auto highlights keep sfx")
	}
	if stripped.Sfx != "" || stripped.Gain != nil {
		t.Errorf("stripped = %+v", stripped)
	}
}

func TestAugmentFromSRT(t *testing.T) {
	e := &Enricher{}
	p := &plan.Plan{}
	entries := []srt.Entry{
		{Index: 7, Start: 2.0, End: 5.0, Duration: 3.0, Text: "We really think the loyal clientele keeps growing"},
		// Within the conflict window of the first injection.
		{Index: 8, Start: 2.3, End: 4.0, Duration: 1.7, Text: "Another solid revenue milestone"},
		{Index: 9, Start: 20.0, End: 22.0, Duration: 2.0, Text: "Thanks for watching everyone"},
	}

	injected := e.AugmentFromSRT(p, entries)

	if len(injected) != 1 {
		t.Fatalf("injected %d, want 1", len(injected))
	}
	h := injected[0]
	if h.ID != "srt-0007" || h.Type != plan.TypeNoteBox {
		t.Errorf("highlight = %+v", h)
	}
	if h.Keyword != "LOYAL CLIENTELE" || h.Text != "LOYAL CLIENTELE" {
		t.Errorf("phrase = %q/%q", h.Keyword, h.Text)
	}
	// Eight words stretch the three-second line to four.
	if h.Duration != 4.0 {
		t.Errorf("duration = %v, want 4", h.Duration)
	}
	if h.Start != 2.0 {
		t.Errorf("start = %v, want 2", h.Start)
	}
	if h.Layout != "bottom" || !h.ShowBottom || h.SafeBottom != 0.18 {
		t.Errorf("layout = %+v", h)
	}
}

func TestAugmentFromSRTSkipsEarlyLines(t *testing.T) {
	e := &Enricher{}
	p := &plan.Plan{}
	entries := []srt.Entry{{Index: 1, Start: 0.2, End: 2.0, Duration: 1.8, Text: "The loyal clientele keeps growing"}}
	if injected := e.AugmentFromSRT(p, entries); len(injected) != 0 {
		t.Errorf("injected = %v", injected)
	}
}

func TestAugmentFromOverlays(t *testing.T) {
	e := &Enricher{}
	p := &plan.Plan{}
	catalogData := map[string]any{
		"video_timeline": []any{
			map[string]any{
				"timestamp": "0:12",
				"elements": []any{
					map[string]any{
						"type": "text_overlay",
						"content": map[string]any{
							"keyword": "Loyal Clientele",
							"items":   []any{"10 million people", "20 years"},
						},
					},
				},
			},
		},
	}

	injected := e.AugmentFromOverlays(p, catalogData, 0.4)

	if len(injected) != 1 {
		t.Fatalf("injected %d, want 1", len(injected))
	}
	h := injected[0]
	if h.ID != "kb-000-00" || h.Start != 12.0 {
		t.Errorf("highlight = %s at %v", h.ID, h.Start)
	}
	if h.Keyword != "LOYAL CLIENTELE" {
		t.Errorf("keyword = %q", h.Keyword)
	}
	if h.SupportingTexts == nil || h.SupportingTexts.TopLeft != "MILLION PEOPLE" || h.SupportingTexts.TopRight != "YEARS" {
		t.Errorf("supporting = %+v", h.SupportingTexts)
	}
	if h.Layout != "dual" || h.StaggerRight == nil || *h.StaggerRight != 2.0 {
		t.Errorf("layout = %q stagger = %v", h.Layout, h.StaggerRight)
	}
	if h.Duration != 3.0 {
		t.Errorf("duration = %v", h.Duration)
	}
}

func TestAugmentFromOverlaysSkipsDuplicates(t *testing.T) {
	e := &Enricher{}
	p := &plan.Plan{Highlights: []*plan.Highlight{{ID: "existing", Start: 11.8}}}
	catalogData := map[string]any{
		"timeline": []any{
			map[string]any{
				"timestamp": 12.0,
				"elements": []any{
					map[string]any{"type": "text_overlay", "content": "Loyal Clientele"},
				},
			},
		},
	}
	if injected := e.AugmentFromOverlays(p, catalogData, 0.4); len(injected) != 0 {
		t.Errorf("injected = %v", injected)
	}
}

func TestRunPipeline(t *testing.T) {
	e := &Enricher{
		Broll:  testBrollCatalog(),
		Motion: &catalog.MotionRules{MotionFrequency: 1, HighlightRate: 0.6},
	}
	p := &plan.Plan{Segments: []*plan.Segment{
		{ID: "seg-a", SourceStart: 0, Duration: 4},
		{ID: "seg-b", SourceStart: 4, Duration: 4},
	}}
	entries := []srt.Entry{
		{Index: 1, Start: 0, End: 4, Duration: 4, Text: "The loyal clientele keeps growing"},
		{Index: 2, Start: 4, End: 8, Duration: 4, Text: "Nothing remarkable here"},
	}

	diags := e.Run(p, testScenes(), entries, nil)

	if diags == nil {
		t.Fatal("expected diagnostics")
	}
	if len(diags.Warnings) != 0 {
		t.Errorf("warnings = %v", diags.Warnings)
	}
	var cta *plan.Highlight
	for _, h := range p.Highlights {
		if h.ID == "cta_subscribe" {
			cta = h
		}
	}
	if cta == nil {
		t.Fatal("expected cta highlight to survive the pipeline")
	}
	for i := 1; i < len(p.Highlights); i++ {
		if p.Highlights[i].Start < p.Highlights[i-1].Start {
			t.Fatal("highlights out of order")
		}
	}
	if segA := p.Segments[0]; segA.Broll == nil || segA.MotionCue == "" {
		t.Errorf("segment enrichment missing: %+v", segA)
	}
}
