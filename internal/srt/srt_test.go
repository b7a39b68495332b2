package srt

import (
	"math"
	"strings"
	"testing"
)

const sample = `1
00:00:01,000 --> 00:00:03,500
Digital marketing is changing fast.

2
00:00:04,000 --> 00:00:06,250
The loyal clientele
keeps growing.

not-a-number
00:00:07,000 --> 00:00:08,000
Index falls back to ordinal.

4
bad timecode line
Skipped block.

5
00:00:10,000 --> 00:00:09,000
End before start is skipped.
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Index != 1 {
		t.Errorf("index = %d", first.Index)
	}
	if math.Abs(first.Start-1.0) > 1e-9 || math.Abs(first.End-3.5) > 1e-9 {
		t.Errorf("timing = %v..%v", first.Start, first.End)
	}
	if first.Text != "Digital marketing is changing fast." {
		t.Errorf("text = %q", first.Text)
	}

	// Multi-line text is joined with a space.
	if entries[1].Text != "The loyal clientele keeps growing." {
		t.Errorf("joined text = %q", entries[1].Text)
	}

	// Non-numeric index falls back to the running count.
	if entries[2].Index != 3 {
		t.Errorf("fallback index = %d", entries[2].Index)
	}
}

func TestParseMaxEntries(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample), 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestParseEmpty(t *testing.T) {
	entries, err := Parse(strings.NewReader("  \n \uFEFF "), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
}

func TestParseByteOrderMark(t *testing.T) {
	entries, err := Parse(strings.NewReader("\uFEFF"+sample), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Index != 1 || entries[0].Text != "Digital marketing is changing fast." {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestParseFileMissing(t *testing.T) {
	entries, err := ParseFile("does-not-exist.srt", 0)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
}
