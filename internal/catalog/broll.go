// Package catalog loads the asset catalogs and rule tables that drive plan
// enrichment: B-roll footage, sound effects, and motion cue rules.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type BrollItem struct {
	ID                  string   `json:"id"`
	File                string   `json:"file"`
	Title               string   `json:"title,omitempty"`
	MediaType           string   `json:"mediaType,omitempty"`
	Orientation         string   `json:"orientation,omitempty"`
	Duration            float64  `json:"duration,omitempty"`
	DurationHintSeconds float64  `json:"durationHintSeconds,omitempty"`
	Topics              []string `json:"topics,omitempty"`
	Keywords            []string `json:"keywords,omitempty"`
	Mood                []string `json:"mood,omitempty"`
	RecommendedUsage    []string `json:"recommendedUsage,omitempty"`
}

type BrollCatalog struct {
	Items []BrollItem `json:"items"`
}

// ItemsByID indexes catalog items for highlight-driven lookup.
func (c *BrollCatalog) ItemsByID() map[string]BrollItem {
	if c == nil {
		return nil
	}
	index := make(map[string]BrollItem, len(c.Items))
	for _, item := range c.Items {
		if item.ID != "" {
			index[item.ID] = item
		}
	}
	return index
}

var videoExtensions = []string{".mp4", ".mov", ".m4v", ".webm", ".mpg", ".mpeg"}

// IsVideo reports whether the item can play as footage. Items tagged with a
// non-video media type still qualify when the file itself is a video container.
func (i BrollItem) IsVideo() bool {
	mediaType := strings.ToLower(i.MediaType)
	if mediaType == "" || mediaType == "video" {
		return true
	}
	lowered := strings.ToLower(i.File)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// LoadBroll reads a broll catalog JSON file. A missing file is not an error;
// callers treat a nil catalog as "no b-roll available".
func LoadBroll(path string) (*BrollCatalog, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read broll catalog: %w", err)
	}
	var cat BrollCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse broll catalog %s: %w", path, err)
	}
	return &cat, nil
}
