// Package timecode converts the time representations found in raw edit
// plans and subtitle files into float seconds on a single timebase.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidTimecode = errors.New("invalid timecode")

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?(?:[.,](\d{1,3}))?$`)

// ParseClock parses "MM:SS", "HH:MM:SS" and "HH:MM:SS,mmm" style values
// into seconds. Fractional parts accept both comma and dot separators.
func ParseClock(value string) (float64, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, value)
	}

	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])

	var seconds float64
	if m[3] == "" {
		// MM:SS
		seconds = float64(first*60 + second)
	} else {
		third, _ := strconv.Atoi(m[3])
		seconds = float64(first*3600 + second*60 + third)
	}

	if m[4] != "" {
		frac := m[4]
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ := strconv.Atoi(frac)
		seconds += float64(millis) / 1000.0
	}
	return seconds, nil
}

// FormatSRT renders seconds as an "HH:MM:SS,mmm" SubRip timecode.
// Negative values clamp to zero.
func FormatSRT(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000))
	hours := millis / 3600000
	millis -= hours * 3600000
	minutes := millis / 60000
	millis -= minutes * 60000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Seconds coerces a decoded JSON value into float seconds. Numbers are
// taken as-is; strings may be plain numerals or clock notation. The
// second return reports whether the value was usable.
func Seconds(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		if f, err := ParseClock(s); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Overlap returns the length of the intersection of two windows given as
// (start, duration) pairs. Zero when the windows do not intersect.
func Overlap(aStart, aDur, bStart, bDur float64) float64 {
	start := math.Max(aStart, bStart)
	end := math.Min(aStart+aDur, bStart+bDur)
	if end <= start {
		return 0
	}
	return end - start
}

// Round2 rounds to two decimal places, the precision carried on
// timeline starts and durations in emitted plans.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Frames converts seconds to a frame count at the given rate.
func Frames(seconds, fps float64) int {
	if fps <= 0 {
		return 0
	}
	return int(math.Round(seconds * fps))
}
