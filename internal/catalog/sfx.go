package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

type SfxItem struct {
	ID          string   `json:"id"`
	File        string   `json:"file,omitempty"`
	Description string   `json:"description,omitempty"`
	Gain        float64  `json:"gain,omitempty"`
	Usage       []string `json:"usage,omitempty"`
}

type SfxCategory struct {
	ID    string    `json:"id"`
	Label string    `json:"label,omitempty"`
	Items []SfxItem `json:"items,omitempty"`
}

type SfxCatalog struct {
	Items      []SfxItem     `json:"items,omitempty"`
	Categories []SfxCategory `json:"categories,omitempty"`
}

// AvailablePaths returns the lowercased set of file paths the catalog offers.
// Highlight sfx rules are skipped when their asset is not in this set.
func (c *SfxCatalog) AvailablePaths() map[string]bool {
	if c == nil {
		return nil
	}
	available := make(map[string]bool)
	for _, item := range c.Items {
		key := item.File
		if key == "" {
			key = item.ID
		}
		if key != "" {
			available[strings.ToLower(key)] = true
		}
	}
	return available
}

// ApplauseFile locates an applause asset in the category tree for the CTA
// highlight, falling back to the stock applause path.
func (c *SfxCatalog) ApplauseFile() string {
	if c != nil {
		for _, category := range c.Categories {
			for _, item := range category.Items {
				if !strings.Contains(item.ID, "applause") {
					continue
				}
				if item.File != "" {
					return item.File
				}
				return fmt.Sprintf("assets/sfx/%s/%s", category.ID, item.ID)
			}
		}
	}
	return "assets/sfx/emotion/applause.mp3"
}

// LoadSfx reads an sfx catalog JSON file. A missing file yields a nil catalog.
func LoadSfx(path string) (*SfxCatalog, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sfx catalog: %w", err)
	}
	var cat SfxCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse sfx catalog %s: %w", path, err)
	}
	return &cat, nil
}

// defaultSfxFiles seeds the lookup when no catalog or asset tree is present.
var defaultSfxFiles = []string{
	"ui/pop.mp3",
	"whoosh/whoosh.mp3",
	"emphasis/ding.mp3",
	"emotion/applause.mp3",
	"tech/camera-click.mp3",
}

// BuildSfxLookup maps normalized keys (relative path, prefixed path, file
// name, bare stem) to canonical relative paths so loosely-specified sfx
// references resolve to real assets.
func BuildSfxLookup(files []string) map[string]string {
	lookup := make(map[string]string, len(files)*4)
	add := func(key, canonical string) {
		key = strings.ToLower(key)
		if key == "" {
			return
		}
		if _, ok := lookup[key]; !ok {
			lookup[key] = canonical
		}
	}
	for _, file := range files {
		relative := strings.TrimPrefix(strings.TrimPrefix(file, "assets/"), "sfx/")
		add(relative, relative)
		add("assets/sfx/"+relative, relative)
		name := path.Base(relative)
		add(name, relative)
		add(strings.TrimSuffix(name, path.Ext(name)), relative)
	}
	return lookup
}

// DefaultSfxLookup builds the lookup from the stock asset list.
func DefaultSfxLookup() map[string]string {
	return BuildSfxLookup(defaultSfxFiles)
}

// SfxLookupFromCatalog folds catalog items and categories into lookup keys,
// layered over the stock defaults.
func SfxLookupFromCatalog(cat *SfxCatalog) map[string]string {
	files := append([]string(nil), defaultSfxFiles...)
	if cat != nil {
		for _, item := range cat.Items {
			if item.File != "" {
				files = append(files, item.File)
			}
		}
		for _, category := range cat.Categories {
			for _, item := range category.Items {
				if item.File != "" {
					files = append(files, item.File)
				} else if item.ID != "" && category.ID != "" {
					files = append(files, fmt.Sprintf("%s/%s", category.ID, item.ID))
				}
			}
		}
	}
	return BuildSfxLookup(files)
}
