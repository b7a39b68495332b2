// Package validate produces a terminal validation report for a plan. It
// never mutates the plan: structural violations of the canonical model are
// errors, editorial-rule violations are warnings.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"

	// Minimum gap between highlight windows after conflict resolution.
	minHighlightGap = 0.2
	// Tolerance for segment contiguity on the source timeline.
	contiguityTolerance = 0.05
)

// Issue is one validation finding.
type Issue struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Context  map[string]any `json:"context,omitempty"`
}

// Report is the result of validating a plan. IsValid is false only when at
// least one error-severity issue was found; warnings alone keep it true.
type Report struct {
	IsValid bool    `json:"isValid"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Validator checks plans against the canonical model and, when catalogs are
// supplied, against the assets they reference. All catalogs are optional.
type Validator struct {
	Broll  *catalog.BrollCatalog
	Sfx    *catalog.SfxCatalog
	Motion *catalog.MotionRules
	Rules  *catalog.KeywordRules
}

var validTransitionTypes = map[string]bool{
	plan.TransitionCut: true, plan.TransitionCrossfade: true,
	plan.TransitionSlide: true, plan.TransitionZoom: true,
	plan.TransitionScale: true, plan.TransitionRotate: true,
	plan.TransitionBlur: true,
}

var validSlideDirections = map[string]bool{
	"left": true, "right": true, "up": true, "down": true,
}

var validHighlightTypes = map[string]bool{
	plan.TypeNoteBox: true, plan.TypeSectionTitle: true,
	plan.TypeIcon: true, plan.TypeCTA: true, plan.TypeTypewriter: true,
}

// Check validates a plan and returns the report.
func (v *Validator) Check(p *plan.Plan) *Report {
	report := &Report{IsValid: true}
	if p == nil {
		report.add(Issue{
			Code:     "schema.plan",
			Message:  "plan is missing",
			Severity: SeverityError,
		})
		return report
	}

	v.checkSegments(p, report)
	v.checkHighlights(p, report)
	v.checkBrollUsage(p, report)
	v.checkMotionBudget(p, report)
	return report
}

func (r *Report) add(issue Issue) {
	if issue.Severity == SeverityError {
		r.IsValid = false
	}
	r.Issues = append(r.Issues, issue)
}

func (v *Validator) checkSegments(p *plan.Plan, report *Report) {
	seen := map[string]bool{}
	for i, segment := range p.Segments {
		ctx := map[string]any{"index": i, "id": segment.ID}

		if segment.ID == "" {
			report.add(Issue{
				Code:     "schema.segment.id",
				Message:  fmt.Sprintf("segment %d has no id", i),
				Severity: SeverityError,
				Context:  ctx,
			})
		} else if seen[segment.ID] {
			report.add(Issue{
				Code:     "schema.segment.id",
				Message:  fmt.Sprintf("duplicate segment id %q", segment.ID),
				Severity: SeverityError,
				Context:  ctx,
			})
		}
		seen[segment.ID] = true

		if segment.Duration <= 0 {
			report.add(Issue{
				Code:     "schema.segment.duration",
				Message:  fmt.Sprintf("segment %q has non-positive duration %.2f", segment.ID, segment.Duration),
				Severity: SeverityError,
				Context:  ctx,
			})
		}
		if segment.PlaybackRate < 0 {
			report.add(Issue{
				Code:     "schema.segment.playbackRate",
				Message:  fmt.Sprintf("segment %q has negative playback rate", segment.ID),
				Severity: SeverityError,
				Context:  ctx,
			})
		}

		checkTransition(segment.ID, "transitionIn", segment.TransitionIn, report)
		checkTransition(segment.ID, "transitionOut", segment.TransitionOut, report)

		if i > 0 {
			prev := p.Segments[i-1]
			gap := segment.SourceStart - prev.End()
			if math.Abs(gap) > contiguityTolerance {
				word := "gap"
				if gap < 0 {
					word = "overlap"
				}
				report.add(Issue{
					Code:     "rule.segment.contiguity",
					Message:  fmt.Sprintf("%.2fs %s between %s and %s", math.Abs(gap), word, prev.ID, segment.ID),
					Severity: SeverityWarning,
					Context:  map[string]any{"previous": prev.ID, "current": segment.ID},
				})
			}
		}
	}
}

func checkTransition(segmentID, field string, t *plan.Transition, report *Report) {
	if t == nil {
		return
	}
	ctx := map[string]any{"segment": segmentID, "field": field}

	if !validTransitionTypes[t.Type] {
		report.add(Issue{
			Code:     "schema.transition.type",
			Message:  fmt.Sprintf("segment %q %s has unknown type %q", segmentID, field, t.Type),
			Severity: SeverityError,
			Context:  ctx,
		})
		return
	}
	if t.Type == plan.TransitionCut {
		return
	}
	if t.Duration < 0.1 || t.Duration > 3.0 {
		report.add(Issue{
			Code:     "schema.transition.duration",
			Message:  fmt.Sprintf("segment %q %s duration %.2fs outside [0.1, 3.0]", segmentID, field, t.Duration),
			Severity: SeverityError,
			Context:  ctx,
		})
	}
	if t.Type == plan.TransitionSlide && !validSlideDirections[t.Direction] {
		report.add(Issue{
			Code:     "schema.transition.direction",
			Message:  fmt.Sprintf("segment %q %s has invalid slide direction %q", segmentID, field, t.Direction),
			Severity: SeverityError,
			Context:  ctx,
		})
	}
	if t.Intensity != 0 && (t.Intensity < 0.05 || t.Intensity > 0.6) {
		report.add(Issue{
			Code:     "schema.transition.intensity",
			Message:  fmt.Sprintf("segment %q %s intensity %.2f outside [0.05, 0.6]", segmentID, field, t.Intensity),
			Severity: SeverityError,
			Context:  ctx,
		})
	}
}

func (v *Validator) checkHighlights(p *plan.Plan, report *Report) {
	available := v.Sfx.AvailablePaths()

	ordered := append([]*plan.Highlight(nil), p.Highlights...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	seen := map[string]bool{}
	lastEnd := math.Inf(-1)
	for i, h := range ordered {
		ctx := map[string]any{"id": h.ID, "start": h.Start}

		if h.ID == "" {
			report.add(Issue{
				Code:     "schema.highlight.id",
				Message:  fmt.Sprintf("highlight %d has no id", i),
				Severity: SeverityError,
				Context:  ctx,
			})
		} else if seen[h.ID] {
			report.add(Issue{
				Code:     "schema.highlight.id",
				Message:  fmt.Sprintf("duplicate highlight id %q", h.ID),
				Severity: SeverityError,
				Context:  ctx,
			})
		}
		seen[h.ID] = true

		if h.Type != "" && !validHighlightTypes[h.Type] {
			report.add(Issue{
				Code:     "schema.highlight.type",
				Message:  fmt.Sprintf("highlight %q has unknown type %q", h.ID, h.Type),
				Severity: SeverityError,
				Context:  ctx,
			})
		}

		if h.Layout == "dual" {
			if h.SupportingTexts == nil || h.SupportingTexts.TopLeft == "" || h.SupportingTexts.TopRight == "" {
				report.add(Issue{
					Code:     "schema.highlight.layout",
					Message:  fmt.Sprintf("highlight %q declares dual layout without both supporting texts", h.ID),
					Severity: SeverityError,
					Context:  ctx,
				})
			}
		}

		if isTextual(h.Type) {
			max := 5.0
			if h.IsSection() {
				// Section cards stretch slightly past the textual cap.
				max = 5.2
			}
			if h.Duration < 1.5 || h.Duration > max {
				report.add(Issue{
					Code:     "rule.highlight.duration",
					Message:  fmt.Sprintf("highlight %q duration %.2fs outside [1.5, %.1f]", h.ID, h.Duration, max),
					Severity: SeverityWarning,
					Context:  ctx,
				})
			}
		}

		if h.Start < lastEnd+minHighlightGap {
			report.add(Issue{
				Code:     "rule.overlay.spacing",
				Message:  fmt.Sprintf("highlights should be staggered by at least %.1fs", minHighlightGap),
				Severity: SeverityWarning,
				Context:  ctx,
			})
		}
		if end := h.End(); end > lastEnd {
			lastEnd = end
		}

		if h.Sfx != "" && len(available) > 0 && !available[strings.ToLower(h.Sfx)] {
			report.add(Issue{
				Code:     "rule.highlight.sfx",
				Message:  fmt.Sprintf("sound %q is not in the sfx catalog", h.Sfx),
				Severity: SeverityWarning,
				Context:  ctx,
			})
		}
	}
}

func isTextual(highlightType string) bool {
	switch highlightType {
	case plan.TypeNoteBox, plan.TypeSectionTitle, plan.TypeCTA, plan.TypeTypewriter:
		return true
	}
	return false
}

func (v *Validator) checkBrollUsage(p *plan.Plan, report *Report) {
	maxReuse := catalog.MaxBrollReuse
	if v.Rules != nil && v.Rules.MaxBrollReuse > 0 {
		maxReuse = v.Rules.MaxBrollReuse
	}

	var items map[string]catalog.BrollItem
	if v.Broll != nil {
		items = v.Broll.ItemsByID()
	}

	usage := map[string]int{}
	for _, segment := range p.Segments {
		if segment.Broll == nil {
			continue
		}
		usage[segment.Broll.ID]++
		if items != nil {
			if _, ok := items[segment.Broll.ID]; !ok {
				report.add(Issue{
					Code:     "rule.broll.asset",
					Message:  fmt.Sprintf("b-roll %q on segment %q is not in the catalog", segment.Broll.ID, segment.ID),
					Severity: SeverityWarning,
					Context:  map[string]any{"segment": segment.ID, "broll": segment.Broll.ID},
				})
			}
		}
	}
	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if usage[id] > maxReuse {
			report.add(Issue{
				Code:     "rule.broll.reuse",
				Message:  fmt.Sprintf("b-roll %q assigned %d times, exceeding the reuse cap of %d", id, usage[id], maxReuse),
				Severity: SeverityWarning,
				Context:  map[string]any{"broll": id, "count": usage[id]},
			})
		}
	}
}

func (v *Validator) checkMotionBudget(p *plan.Plan, report *Report) {
	if v.Motion == nil || v.Motion.MotionFrequency <= 0 || len(p.Segments) == 0 {
		return
	}
	budget := int(math.Ceil(float64(len(p.Segments)) * v.Motion.MotionFrequency))
	assigned := 0
	for _, segment := range p.Segments {
		if segment.MotionCue != "" {
			assigned++
		}
	}
	if assigned > budget {
		report.add(Issue{
			Code:     "rule.motion.frequency",
			Message:  fmt.Sprintf("%d motion cues exceed the budget of %d", assigned, budget),
			Severity: SeverityWarning,
			Context:  map[string]any{"assigned": assigned, "budget": budget},
		})
	}
}
