package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

type fakeGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	var text string
	if call < len(f.responses) {
		text = f.responses[call]
	}
	return text, err
}

func manyEntries(n int) []srt.Entry {
	entries := make([]srt.Entry, n)
	for i := range entries {
		entries[i] = srt.Entry{
			Index: i + 1, Start: float64(i), End: float64(i) + 1, Duration: 1,
			Text: "line",
		}
	}
	return entries
}

func TestAttemptConfigs(t *testing.T) {
	configs := AttemptConfigs(200, true, true)
	want := []AttemptConfig{
		{200, true, true, "full prompt"},
		{140, true, true, "140 entries"},
		{120, true, true, "120 entries"},
		{90, false, true, "no scene map"},
		{70, false, false, "minimal context"},
	}
	if len(configs) != len(want) {
		t.Fatalf("got %d configs, want %d: %v", len(configs), len(want), configs)
	}
	for i, config := range configs {
		if config != want[i] {
			t.Errorf("config %d = %+v, want %+v", i, config, want[i])
		}
	}
}

func TestAttemptConfigsShortTranscript(t *testing.T) {
	configs := AttemptConfigs(80, true, true)
	want := []AttemptConfig{
		{80, true, true, "full prompt"},
		{80, false, true, "no scene map"},
		{70, false, false, "minimal context"},
	}
	if len(configs) != len(want) {
		t.Fatalf("got %d configs, want %d: %v", len(configs), len(want), configs)
	}
	for i, config := range configs {
		if config != want[i] {
			t.Errorf("config %d = %+v, want %+v", i, config, want[i])
		}
	}
}

func TestAttemptConfigsNoContext(t *testing.T) {
	configs := AttemptConfigs(100, false, false)
	want := []AttemptConfig{
		{100, false, false, "full prompt"},
		{90, false, false, "no scene map"},
		{70, false, false, "minimal context"},
	}
	if len(configs) != len(want) {
		t.Fatalf("got %d configs, want %d: %v", len(configs), len(want), configs)
	}
	for i, config := range configs {
		if config != want[i] {
			t.Errorf("config %d = %+v, want %+v", i, config, want[i])
		}
	}
}

func TestRequestRetriesOnTimeout(t *testing.T) {
	gen := &fakeGenerator{
		errs:      []error{errors.New("context deadline exceeded"), errors.New("gateway 504"), nil},
		responses: []string{"", "", "{\"segments\": []}"},
	}
	in := PromptInput{
		Entries:  manyEntries(10),
		SceneMap: &scenemap.SceneMap{Segments: []scenemap.Scene{{ID: 1, End: 1}}},
		Motion:   &catalog.MotionRules{MotionFrequency: 0.5},
	}

	text, used, err := Request(context.Background(), gen, in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "{\"segments\": []}" {
		t.Errorf("got text %q", text)
	}
	if len(used) != 10 {
		t.Errorf("got %d used entries, want 10", len(used))
	}
	if len(gen.prompts) != 3 {
		t.Fatalf("got %d attempts, want 3", len(gen.prompts))
	}
	// Later rungs carry less context.
	if !strings.Contains(gen.prompts[0], "Scene map insights:") {
		t.Error("first attempt should include the scene map")
	}
	if strings.Contains(gen.prompts[1], "Scene map insights:") {
		t.Error("second attempt should drop the scene map")
	}
}

func TestRequestAbortsOnFatalError(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("invalid api key")}}
	in := PromptInput{
		Entries:  manyEntries(10),
		SceneMap: &scenemap.SceneMap{Segments: []scenemap.Scene{{ID: 1, End: 1}}},
	}

	_, _, err := Request(context.Background(), gen, in, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("got %d attempts, want 1", len(gen.prompts))
	}
}

func TestRequestEmptyResponsesExhaustLadder(t *testing.T) {
	gen := &fakeGenerator{}
	in := PromptInput{Entries: manyEntries(10)}

	_, _, err := Request(context.Background(), gen, in, nil)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	// Without context to shed, only distinct entry limits remain.
	if len(gen.prompts) != 1 {
		t.Errorf("got %d attempts, want 1", len(gen.prompts))
	}
}

func TestRequestNoEntries(t *testing.T) {
	gen := &fakeGenerator{}
	if _, _, err := Request(context.Background(), gen, PromptInput{}, nil); !errors.Is(err, srt.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}

func TestDraft(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"segments\": [{\"id\": \"intro\", \"sourceStart\": 0, \"duration\": 4}]}\n```",
	}}
	in := PromptInput{Entries: manyEntries(4)}

	drafted, diag, raw, err := Draft(context.Background(), gen, in, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw == "" {
		t.Error("expected raw response text")
	}
	if diag == nil {
		t.Fatal("expected diagnostics")
	}
	if len(drafted.Segments) != 1 || drafted.Segments[0].ID != "intro" {
		t.Errorf("unexpected plan: %+v", drafted)
	}
}

func TestDraftBadResponse(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"no json here"}}
	in := PromptInput{Entries: manyEntries(4)}

	_, _, raw, err := Draft(context.Background(), gen, in, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if raw != "no json here" {
		t.Errorf("raw = %q, want the model text for debugging", raw)
	}
}
