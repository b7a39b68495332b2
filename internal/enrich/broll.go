package enrich

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
)

// brollMatch is a scored catalog pick for one scene.
type brollMatch struct {
	ID         string
	File       string
	Confidence float64
	Reasons    []string
}

// scoreBrollItem weighs topic overlap heaviest, then keyword hits, with
// small nudges for mood assets on high-impact scenes, video media, and
// landscape orientation.
func scoreBrollItem(item catalog.BrollItem, scene *SceneSummary) (float64, []string) {
	score := 0.0
	var reasons []string

	itemTopics := lowerSet(item.Topics)
	sceneTopics := lowerSet(scene.Topics)
	var topicOverlap []string
	for topic := range itemTopics {
		if sceneTopics[topic] {
			topicOverlap = append(topicOverlap, topic)
		}
	}
	if len(topicOverlap) > 0 {
		sort.Strings(topicOverlap)
		score += 2.5 * float64(len(topicOverlap))
		reasons = append(reasons, fmt.Sprintf("topics match %v", topicOverlap))
	}

	keywords := lowerSet(item.Keywords)
	var tokenHits []string
	for _, token := range scene.Tokens {
		if keywords[token] {
			tokenHits = append(tokenHits, token)
		}
	}
	if len(tokenHits) > 0 {
		sort.Strings(tokenHits)
		score += 1.0 * float64(len(tokenHits))
		reasons = append(reasons, fmt.Sprintf("keywords hit %v", tokenHits))
	}

	if scene.HighlightScore >= 0.7 && len(item.Mood) > 0 {
		score += 0.4
		reasons = append(reasons, "highlight scene prefers mood assets")
	}

	if strings.EqualFold(item.MediaType, "video") {
		score += 0.3
	}
	if strings.EqualFold(item.Orientation, "landscape") {
		score += 0.1
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "fallback")
	}
	return score, reasons
}

// selectBroll picks the best-scoring item that is long enough for the scene.
// A pick is withheld unless it clears the threshold and the scene itself is
// high-impact.
func selectBroll(scene *SceneSummary, cat *catalog.BrollCatalog, threshold float64) *brollMatch {
	if cat == nil || len(cat.Items) == 0 {
		return nil
	}

	minDuration := scene.Duration() * 0.8
	var best *brollMatch
	bestScore := 0.0
	for _, item := range cat.Items {
		if item.Duration < minDuration {
			continue
		}
		score, reasons := scoreBrollItem(item, scene)
		if score > bestScore {
			bestScore = score
			best = &brollMatch{
				ID:         item.ID,
				File:       item.File,
				Confidence: round2(score),
				Reasons:    reasons,
			}
		}
	}

	if best == nil || bestScore < threshold || scene.HighlightScore < 0.6 {
		return nil
	}
	return best
}

// selectMotionCue assigns a camera cue for high-impact scenes, respecting
// the configured motion frequency cap across the plan.
func selectMotionCue(scene *SceneSummary, rules *catalog.MotionRules, assignedSoFar, totalSegments int) string {
	maxSegments := totalSegments
	if rules.MotionFrequency > 0 {
		maxSegments = int(math.Ceil(float64(totalSegments) * rules.MotionFrequency))
	}
	if assignedSoFar >= maxSegments {
		return ""
	}

	switch {
	case len(scene.MotionCandidates) > 0:
		return scene.MotionCandidates[0]
	case scene.HighlightScore >= rules.HighlightRate:
		return "zoomIn"
	case scene.HighlightScore >= 0.4 && scene.Duration() > 5.0:
		return "pan"
	case scene.HighlightScore < 0.4 && scene.Duration() > 3.0:
		return "zoomOut"
	}
	return ""
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
