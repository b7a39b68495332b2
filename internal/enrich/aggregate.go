package enrich

import (
	"sort"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
)

// SceneSummary aggregates scene metadata across every transcript scene that
// overlaps one plan segment. Scores are weighted by overlap duration.
type SceneSummary struct {
	Start            float64
	End              float64
	Topics           []string
	HighlightScore   float64
	MotionCandidates []string
	Tokens           []string
	Text             string
	CTA              bool
	SfxHints         []string
}

func (s *SceneSummary) Duration() float64 {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// counted tracks occurrence counts while preserving first-seen order, so
// most-common ranking stays deterministic.
type counted struct {
	order  []string
	counts map[string]int
}

func newCounted() *counted {
	return &counted{counts: map[string]int{}}
}

func (c *counted) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := c.counts[v]; !ok {
			c.order = append(c.order, v)
		}
		c.counts[v]++
	}
}

// mostCommon returns up to n values ordered by count descending, first-seen
// order breaking ties.
func (c *counted) mostCommon(n int) []string {
	ranked := append([]string(nil), c.order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// aggregateScene summarises the scenes overlapping a segment's source window.
// Returns nil when nothing overlaps, which callers surface as a note.
func aggregateScene(segment *plan.Segment, scenes []scenemap.Scene) *SceneSummary {
	start := segment.SourceStart
	end := start + segment.Duration
	if end <= start {
		return nil
	}

	topics := newCounted()
	tokens := newCounted()
	sfxHints := newCounted()
	var motionCandidates []string
	seenMotion := map[string]bool{}

	highlightTotal := 0.0
	totalWeight := 0.0
	var texts []string
	ctaFlag := false

	for _, scene := range scenes {
		weight := overlapSeconds(start, end, scene.Start, scene.End)
		if weight <= 0 {
			continue
		}

		topics.add(scene.Topics...)
		for _, candidate := range scene.MotionCandidates {
			name := catalog.CamelCaseMotion(candidate)
			if name != "" && !seenMotion[name] {
				seenMotion[name] = true
				motionCandidates = append(motionCandidates, name)
			}
		}
		tokens.add(scene.Tokens...)
		sfxHints.add(scene.SfxHints...)

		highlightTotal += scene.HighlightScore * weight
		totalWeight += weight

		if line := scene.Line(); line != "" {
			texts = append(texts, line)
		}
		ctaFlag = ctaFlag || scene.CTA
	}

	if totalWeight == 0 {
		return nil
	}

	return &SceneSummary{
		Start:            start,
		End:              end,
		Topics:           topics.mostCommon(6),
		HighlightScore:   highlightTotal / totalWeight,
		MotionCandidates: motionCandidates,
		Tokens:           tokens.mostCommon(24),
		Text:             joinTexts(texts),
		CTA:              ctaFlag,
		SfxHints:         sfxHints.mostCommon(8),
	}
}

func joinTexts(texts []string) string {
	return strings.Join(texts, " ")
}
