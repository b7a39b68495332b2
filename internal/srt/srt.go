// Package srt parses SubRip subtitle files into timed entries used by the
// scene map generator and the highlight injectors.
package srt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/timecode"
)

var ErrNoEntries = errors.New("no subtitle entries")

var (
	timeLineRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	blockSepRe = regexp.MustCompile(`\r?\n\r?\n`)
)

// Entry is one subtitle cue on the source timeline.
type Entry struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Parse reads SRT content. Malformed blocks are skipped rather than
// failing the whole file. maxEntries <= 0 means unlimited.
func Parse(r io.Reader, maxEntries int) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}

	raw := strings.TrimSpace(strings.ReplaceAll(string(data), "\uFEFF", ""))
	if raw == "" {
		return nil, nil
	}

	var entries []Entry
	for _, block := range blockSepRe.Split(raw, -1) {
		if maxEntries > 0 && len(entries) >= maxEntries {
			break
		}

		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) < 2 {
			continue
		}

		m := timeLineRe.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}
		start, err := timecode.ParseClock(m[1])
		if err != nil {
			continue
		}
		end, err := timecode.ParseClock(m[2])
		if err != nil || end <= start {
			continue
		}

		index, err := strconv.Atoi(lines[0])
		if err != nil {
			index = len(entries) + 1
		}

		text := strings.TrimSpace(strings.Join(lines[2:], " "))
		if text == "" {
			continue
		}

		entries = append(entries, Entry{
			Index:    index,
			Start:    start,
			End:      end,
			Duration: end - start,
			Text:     text,
		})
	}

	return entries, nil
}

// ParseFile parses the SRT file at path. A missing file yields no entries
// rather than an error, matching how optional transcripts are handled.
func ParseFile(path string, maxEntries int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer f.Close()
	return Parse(f, maxEntries)
}
