package timecode

import (
	"math"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"minutes seconds", "01:30", 90, false},
		{"hours minutes seconds", "01:02:03", 3723, false},
		{"srt millis comma", "00:00:05,500", 5.5, false},
		{"srt millis dot", "00:01:00.250", 60.25, false},
		{"short fraction padded", "00:10,5", 10.5, false},
		{"leading whitespace", "  02:00", 120, false},
		{"garbage", "abc", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"numeric string", "3.25", 3.25, true},
		{"clock string", "00:02:10", 130, true},
		{"blank string", "   ", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Seconds(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	if got := Overlap(0, 10, 5, 10); math.Abs(got-5) > 1e-9 {
		t.Errorf("partial overlap: got %v, want 5", got)
	}
	if got := Overlap(0, 5, 5, 5); got != 0 {
		t.Errorf("touching windows: got %v, want 0", got)
	}
	if got := Overlap(0, 5, 10, 5); got != 0 {
		t.Errorf("disjoint windows: got %v, want 0", got)
	}
	if got := Overlap(2, 10, 0, 100); math.Abs(got-10) > 1e-9 {
		t.Errorf("contained window: got %v, want 10", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(1.005); math.Abs(got-1.0) > 0.011 {
		t.Errorf("got %v", got)
	}
	if got := Round2(2.678); math.Abs(got-2.68) > 1e-9 {
		t.Errorf("got %v, want 2.68", got)
	}
}

func TestFrames(t *testing.T) {
	if got := Frames(2.5, 30); got != 75 {
		t.Errorf("got %d, want 75", got)
	}
	if got := Frames(10, 0); got != 0 {
		t.Errorf("got %d, want 0 for zero fps", got)
	}
}

func TestFormatSRT(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"millis", 3.5, "00:00:03,500"},
		{"minutes", 65.25, "00:01:05,250"},
		{"hours", 3723.007, "01:02:03,007"},
		{"negative clamps", -1.5, "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSRT(tt.seconds); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
