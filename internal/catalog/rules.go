package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	DefaultBrollDuration  = 6.0
	MaxBrollReuse         = 2
	DefaultBrollThreshold = 1.5
	DefaultCTAText        = "Dang ky kenh de nhan video moi!"
)

// BrollRule maps highlight keywords to a catalog b-roll id. Matching is
// substring-based over the combined highlight text.
type BrollRule struct {
	Keywords []string `json:"keywords"`
	BrollID  string   `json:"brollId"`
}

// SfxRule maps highlight keywords to an sfx asset with a gain in dB.
type SfxRule struct {
	Keywords []string `json:"keywords"`
	Sfx      string   `json:"sfx"`
	Gain     float64  `json:"gain"`
}

// KeywordRules bundle the editorial tables that drive highlight-based
// enrichment. They ship with curated defaults and may be overridden from a
// JSON rules file per project.
type KeywordRules struct {
	BrollRules        []BrollRule         `json:"brollRules"`
	BrollNotes        map[string]string   `json:"brollNotes"`
	BrollReasons      map[string][]string `json:"brollReasons"`
	ZoomInKeywords    []string            `json:"zoomInKeywords"`
	AnimationHints    []string            `json:"animationHints"`
	SfxRules          []SfxRule           `json:"sfxRules"`
	CTAText           string              `json:"ctaText"`
	MaxBrollReuse     int                 `json:"maxBrollReuse"`
	BrollDurationHint float64             `json:"brollDurationHint"`
}

// DefaultKeywordRules returns the stock editorial tables.
func DefaultKeywordRules() *KeywordRules {
	return &KeywordRules{
		BrollRules: []BrollRule{
			{Keywords: []string{"digital marketing", "marketing", "online marketing"}, BrollID: "creative_brainstorm"},
			{Keywords: []string{"strategy", "tactics", "plan", "framework"}, BrollID: "presentation_speaker"},
			{Keywords: []string{"seo", "search engine optimization"}, BrollID: "data_analysis"},
			{Keywords: []string{"social media", "facebook", "instagram", "linkedin"}, BrollID: "remote_call"},
			{Keywords: []string{"ppc", "paid ads", "google ads"}, BrollID: "data_analysis"},
			{Keywords: []string{"email marketing", "email campaigns"}, BrollID: "typing_laptop"},
			{Keywords: []string{"web optimization", "website", "landing page"}, BrollID: "coding_screen"},
			{Keywords: []string{"audience", "segmentation", "target", "customer"}, BrollID: "teamwork_meeting"},
			{Keywords: []string{"learning", "education", "course", "training"}, BrollID: "training_workshop"},
			{Keywords: []string{"caffeine", "coffee", "cup of coffee"}, BrollID: "typing_laptop"},
			{Keywords: []string{"career", "job", "growth", "specialise"}, BrollID: "office_motion"},
			{Keywords: []string{"credibility", "authority", "expert"}, BrollID: "presentation_speaker"},
			{Keywords: []string{"data", "analytics", "metrics", "insights"}, BrollID: "data_analysis"},
			{Keywords: []string{"content", "blog", "video", "post"}, BrollID: "creative_brainstorm"},
			{Keywords: []string{"organic", "paid", "promotion"}, BrollID: "data_analysis"},
			{Keywords: []string{"brand awareness", "direct response"}, BrollID: "presentation_speaker"},
			{Keywords: []string{"products", "services"}, BrollID: "office_motion"},
			{Keywords: []string{"b2b", "b2c", "business to business", "business to consumer"}, BrollID: "teamwork_meeting"},
			{Keywords: []string{"loyal", "loyalty", "loyal clients"}, BrollID: "handshake_success"},
			{Keywords: []string{"sweet", "honest", "heartwarming"}, BrollID: "celebration_success"},
			{Keywords: []string{"favorite memory", "favourite memory", "memory", "family", "grandkids"}, BrollID: "celebration_success"},
			{Keywords: []string{"high school", "sweetheart", "sweethearts"}, BrollID: "training_workshop"},
			{Keywords: []string{"clientele", "clients", "client"}, BrollID: "teamwork_meeting"},
			{Keywords: []string{"partnership", "still with", "day one"}, BrollID: "office_motion"},
			{Keywords: []string{"relationship", "relationships", "friendships"}, BrollID: "startup_team"},
			{Keywords: []string{"consistency", "consistent"}, BrollID: "office_motion"},
			{Keywords: []string{"mail room", "mailroom"}, BrollID: "office_motion"},
			{Keywords: []string{"industry", "business owner", "company"}, BrollID: "startup_team"},
			{Keywords: []string{"personality", "psychology", "traits", "introvert", "extrovert"}, BrollID: "training_workshop"},
			{Keywords: []string{"mind", "brain", "thought", "thinking"}, BrollID: "digital_brain"},
			{Keywords: []string{"people", "audience", "social", "crowd", "group"}, BrollID: "teamwork_meeting"},
		},
		BrollNotes: map[string]string{
			"handshake_success":    "B-roll: handshake_success underscores loyalty anecdote.",
			"celebration_success":  "B-roll: celebration_success adds warmth during character description.",
			"training_workshop":    "B-roll: training_workshop illustrates the high-school group setup.",
			"teamwork_meeting":     "B-roll: teamwork_meeting spotlights established clientele.",
			"presentation_speaker": "B-roll: presentation_speaker fits the talk-style explanation.",
			"creative_brainstorm":  "B-roll: creative_brainstorm adds energetic collaboration context.",
			"data_analysis":        "B-roll: data_analysis visualises metric-heavy commentary.",
			"remote_call":          "B-roll: remote_call reinforces digital social interaction.",
			"typing_laptop":        "B-roll: typing_laptop underscores analytical focus.",
			"coding_screen":        "B-roll: coding_screen mirrors technical optimisation themes.",
			"digital_brain":        "B-roll: digital_brain supports references to cognitive science.",
			"startup_team":         "B-roll: startup_team reinforces loyal friendships with clients.",
			"office_motion":        "B-roll: office_motion underscores consistent client relationships.",
		},
		BrollReasons: map[string][]string{
			"handshake_success":    {"Handshake moment reinforces loyalty description."},
			"celebration_success":  {"Celebration visual supports the heartfelt moment."},
			"training_workshop":    {"Group setting mirrors the meeting story energy."},
			"teamwork_meeting":     {"Team huddle echoes long-term client relationships."},
			"presentation_speaker": {"Stage speaker visual reinforces the narrated insight."},
			"creative_brainstorm":  {"Creative session footage keeps the discussion lively."},
			"data_analysis":        {"Analytics dashboard imagery matches the metric-focused commentary."},
			"remote_call":          {"Video call vignette highlights social/audience engagement."},
			"typing_laptop":        {"Typing closeup mirrors detailed analytical thinking."},
			"coding_screen":        {"Code view emphasises technical problem solving."},
			"digital_brain":        {"Digital brain animation echoes cognitive references in the script."},
			"startup_team":         {"Collaborative workspace visualises loyal friendships with clients."},
			"office_motion":        {"Office walkthrough mirrors consistent client presence."},
		},
		ZoomInKeywords: []string{
			"loyal", "loyalty", "sweet", "honest", "memory",
			"favorite memory", "favourite memory", "sweetheart", "sweethearts",
			"clientele", "client", "clients",
			"relationship", "relationships", "consistency", "consistent",
		},
		AnimationHints: []string{"zoom", "pulse", "bounce", "fade"},
		SfxRules: []SfxRule{
			{Keywords: []string{"sweet", "honest"}, Sfx: "assets/sfx/emotion/applause.mp3", Gain: -2.5},
			{Keywords: []string{"high school", "sweetheart", "sweethearts"}, Sfx: "assets/sfx/ui/pop.mp3", Gain: -2.5},
			{Keywords: []string{"clientele", "client", "clients"}, Sfx: "assets/sfx/ui/pop.mp3", Gain: -2.5},
			{Keywords: []string{"loyalty", "day one"}, Sfx: "assets/sfx/emphasis/ding.mp3", Gain: -2.5},
			{Keywords: []string{"relationship", "relationships"}, Sfx: "assets/sfx/ui/bubble-pop.mp3", Gain: -3.0},
			{Keywords: []string{"consistency", "consistent"}, Sfx: "assets/sfx/emphasis/ding.mp3", Gain: -3.0},
		},
		CTAText:           DefaultCTAText,
		MaxBrollReuse:     MaxBrollReuse,
		BrollDurationHint: DefaultBrollDuration,
	}
}

// LoadKeywordRules reads a rules override file and merges it over the
// defaults. Only populated sections replace the stock tables.
func LoadKeywordRules(path string) (*KeywordRules, error) {
	rules := DefaultKeywordRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return nil, fmt.Errorf("read keyword rules: %w", err)
	}
	var override KeywordRules
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse keyword rules %s: %w", path, err)
	}
	if len(override.BrollRules) > 0 {
		rules.BrollRules = override.BrollRules
	}
	if len(override.BrollNotes) > 0 {
		rules.BrollNotes = override.BrollNotes
	}
	if len(override.BrollReasons) > 0 {
		rules.BrollReasons = override.BrollReasons
	}
	if len(override.ZoomInKeywords) > 0 {
		rules.ZoomInKeywords = override.ZoomInKeywords
	}
	if len(override.AnimationHints) > 0 {
		rules.AnimationHints = override.AnimationHints
	}
	if len(override.SfxRules) > 0 {
		rules.SfxRules = override.SfxRules
	}
	if override.CTAText != "" {
		rules.CTAText = override.CTAText
	}
	if override.MaxBrollReuse > 0 {
		rules.MaxBrollReuse = override.MaxBrollReuse
	}
	if override.BrollDurationHint > 0 {
		rules.BrollDurationHint = override.BrollDurationHint
	}
	return rules, nil
}

// MatchBrollCandidates returns b-roll ids whose keyword sets hit the text,
// in rule order.
func (r *KeywordRules) MatchBrollCandidates(text string) []string {
	lowered := strings.ToLower(text)
	var matches []string
	for _, rule := range r.BrollRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				matches = append(matches, rule.BrollID)
				break
			}
		}
	}
	return matches
}

// BrollNote returns the curated note for an assigned b-roll id.
func (r *KeywordRules) BrollNote(id string) string {
	if note, ok := r.BrollNotes[id]; ok {
		return note
	}
	return fmt.Sprintf("B-roll injected via highlight keyword: %s", id)
}

// BrollReasonsFor returns the curated reasons list for a b-roll id.
func (r *KeywordRules) BrollReasonsFor(id string) []string {
	if reasons, ok := r.BrollReasons[id]; ok && len(reasons) > 0 {
		return reasons
	}
	return []string{"Highlight keyword match"}
}

// MatchSfxRule returns the first sfx rule whose keywords hit the text.
func (r *KeywordRules) MatchSfxRule(text string) (SfxRule, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range r.SfxRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule, true
			}
		}
	}
	return SfxRule{}, false
}

// SortCandidates orders b-roll candidates by current reuse count, breaking
// ties by id so assignment stays deterministic.
func SortCandidates(candidates []string, assigned map[string]int) []string {
	sorted := append([]string(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if assigned[sorted[i]] != assigned[sorted[j]] {
			return assigned[sorted[i]] < assigned[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
