package planner

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

var sfxExtensions = map[string]bool{".mp3": true, ".wav": true, ".ogg": true}

// defaultAvailableSfx is the stock sfx inventory used when no assets
// directory is available for discovery.
var defaultAvailableSfx = map[string]string{
	"ui/pop.mp3":            "UI: Pop punchy nhấn mạnh",
	"whoosh/whoosh.mp3":     "Whoosh chuyển cảnh mượt",
	"emphasis/ding.mp3":     "Ding sạch cho số liệu quan trọng",
	"emotion/applause.mp3":  "Applause nhanh cho thành tựu",
	"tech/camera-click.mp3": "Tiếng chụp ảnh nhấn mạnh demo",
}

// DefaultAvailableSfx returns a copy of the stock inventory.
func DefaultAvailableSfx() map[string]string {
	out := make(map[string]string, len(defaultAvailableSfx))
	for key, desc := range defaultAvailableSfx {
		out[key] = desc
	}
	return out
}

func titleWords(s string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func humanizeSfxDescription(relative string) string {
	category := path.Dir(relative)
	if category == "." || category == "" {
		category = "mix"
	}
	base := strings.TrimSuffix(path.Base(relative), path.Ext(relative))
	return titleWords(category) + ": " + titleWords(base)
}

// DiscoverAvailableSfx walks assetsDir/sfx and maps each audio file, under
// both its relative and assets-prefixed path, to a readable description.
// Falls back to the stock inventory when the directory is missing or empty.
func DiscoverAvailableSfx(assetsDir string) map[string]string {
	sfxDir := filepath.Join(assetsDir, "sfx")
	available := map[string]string{}
	filepath.WalkDir(sfxDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !sfxExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		relative, err := filepath.Rel(sfxDir, p)
		if err != nil {
			return nil
		}
		relative = filepath.ToSlash(relative)
		description := humanizeSfxDescription(relative)
		available[relative] = description
		available["assets/sfx/"+relative] = description
		return nil
	})
	if len(available) == 0 {
		return DefaultAvailableSfx()
	}
	return available
}
