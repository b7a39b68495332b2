package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ManifestTemplate describes one frontend template the renderer offers.
type ManifestTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ManifestAudio carries the client's audio preferences.
type ManifestAudio struct {
	BGM         string `json:"bgm,omitempty"`
	SfxFallback string `json:"sfxFallback,omitempty"`
}

// ClientManifest mirrors the clientManifest.json the frontend publishes:
// templates, effect registries, and audio guidance the prompt should honour.
type ClientManifest struct {
	Templates []ManifestTemplate         `json:"templates,omitempty"`
	Effects   map[string]json.RawMessage `json:"effects,omitempty"`
	Audio     ManifestAudio              `json:"audio,omitempty"`
}

// LoadClientManifest reads a client manifest file. An empty manifest returns
// nil so the prompt drops its sections.
func LoadClientManifest(path string) (*ClientManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client manifest: %w", err)
	}
	var manifest ClientManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse client manifest: %w", err)
	}
	if len(manifest.Templates) == 0 && len(manifest.Effects) == 0 &&
		manifest.Audio.BGM == "" && manifest.Audio.SfxFallback == "" {
		return nil, nil
	}
	return &manifest, nil
}

// sections renders the manifest into prompt context blocks.
func (m *ClientManifest) sections() []string {
	if m == nil {
		return nil
	}
	var sections []string
	if len(m.Templates) > 0 {
		templates := m.Templates
		if len(templates) > 5 {
			templates = templates[:5]
		}
		lines := make([]string, 0, len(templates))
		for _, template := range templates {
			id := template.ID
			if id == "" {
				id = "?"
			}
			lines = append(lines, fmt.Sprintf("%s: %s - %s", id, template.Name, template.Description))
		}
		sections = append(sections, "FE templates (id / name / description):\n"+strings.Join(lines, "\n"))
	}
	if len(m.Effects) > 0 {
		keys := make([]string, 0, len(m.Effects))
		for key := range m.Effects {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		if len(keys) > 12 {
			keys = keys[:12]
		}
		sections = append(sections, "Available FE effects keys:\n"+strings.Join(keys, ", "))
	}
	var audioLines []string
	if m.Audio.BGM != "" {
		audioLines = append(audioLines, "BGM preference: "+m.Audio.BGM)
	}
	if m.Audio.SfxFallback != "" {
		audioLines = append(audioLines, "SFX fallback: "+m.Audio.SfxFallback)
	}
	if len(audioLines) > 0 {
		sections = append(sections, "Audio guidance from client manifest:\n"+strings.Join(audioLines, "\n"))
	}
	return sections
}
