// Package plan defines the canonical edit-plan model and the schema
// normalizer that converts loosely structured draft plans into it.
package plan

import (
	"errors"
	"strings"
)

// ErrInvalidInput marks input that cannot be treated as a plan at all,
// as opposed to malformed entries inside an otherwise usable plan.
var ErrInvalidInput = errors.New("invalid plan input")

// Transition types and the fields they carry.
const (
	TransitionCut       = "cut"
	TransitionCrossfade = "crossfade"
	TransitionSlide     = "slide"
	TransitionZoom      = "zoom"
	TransitionScale     = "scale"
	TransitionRotate    = "rotate"
	TransitionBlur      = "blur"
)

// Highlight types.
const (
	TypeNoteBox      = "noteBox"
	TypeSectionTitle = "sectionTitle"
	TypeIcon         = "icon"
	TypeCTA          = "cta"
	TypeTypewriter   = "typewriter"
)

// Transition describes how a segment enters or exits the timeline.
type Transition struct {
	Type      string  `json:"type"`
	Duration  float64 `json:"duration,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
}

// Broll references a catalog item assigned to a segment.
type Broll struct {
	ID         string   `json:"id"`
	File       string   `json:"file"`
	Mode       string   `json:"mode,omitempty"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
	Duration   float64  `json:"duration,omitempty"`
}

// Segment is one cut of source footage on the output timeline.
type Segment struct {
	ID             string         `json:"id"`
	SourceStart    float64        `json:"sourceStart"`
	Duration       float64        `json:"duration"`
	Kind           string         `json:"kind,omitempty"`
	Label          string         `json:"label,omitempty"`
	Title          string         `json:"title,omitempty"`
	SilenceAfter   bool           `json:"silenceAfter"`
	GapAfter       *bool          `json:"gapAfter,omitempty"`
	PlaybackRate   float64        `json:"playbackRate,omitempty"`
	TransitionIn   *Transition    `json:"transitionIn,omitempty"`
	TransitionOut  *Transition    `json:"transitionOut,omitempty"`
	CameraMovement string         `json:"cameraMovement,omitempty"`
	MotionCue      string         `json:"motionCue,omitempty"`
	Broll          *Broll         `json:"broll,omitempty"`
	SfxHints       []string       `json:"sfxHints,omitempty"`
	Notes          []string       `json:"notes,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// End returns the segment's end on the source timeline.
func (s *Segment) End() float64 {
	return s.SourceStart + s.Duration
}

// SupportingTexts are the side captions flanking a highlight.
type SupportingTexts struct {
	TopLeft  string `json:"topLeft,omitempty"`
	TopRight string `json:"topRight,omitempty"`
}

// Overlay tints the video behind a centered highlight.
type Overlay struct {
	Tint      string  `json:"tint,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
}

// Highlight is a timed overlay on the output timeline.
type Highlight struct {
	ID                  string           `json:"id"`
	Type                string           `json:"type,omitempty"`
	Start               float64          `json:"start"`
	Duration            float64          `json:"duration"`
	Position            string           `json:"position,omitempty"`
	Animation           string           `json:"animation,omitempty"`
	Text                string           `json:"text,omitempty"`
	Keyword             string           `json:"keyword,omitempty"`
	Title               string           `json:"title,omitempty"`
	Subtitle            string           `json:"subtitle,omitempty"`
	Badge               string           `json:"badge,omitempty"`
	Name                string           `json:"name,omitempty"`
	Icon                string           `json:"icon,omitempty"`
	Asset               string           `json:"asset,omitempty"`
	Variant             string           `json:"variant,omitempty"`
	Importance          string           `json:"importance,omitempty"`
	Layout              string           `json:"layout,omitempty"`
	Side                string           `json:"side,omitempty"`
	ShowBottom          bool             `json:"showBottom,omitempty"`
	SafeBottom          float64          `json:"safeBottom,omitempty"`
	SafeInsetHorizontal float64          `json:"safeInsetHorizontal,omitempty"`
	SupportingTexts     *SupportingTexts `json:"supportingTexts,omitempty"`
	StaggerLeft         *float64         `json:"staggerLeft,omitempty"`
	StaggerRight        *float64         `json:"staggerRight,omitempty"`
	Sfx                 string           `json:"sfx,omitempty"`
	Gain                *float64         `json:"gain,omitempty"`
	Volume              *float64         `json:"volume,omitempty"`
	Ducking             *float64         `json:"ducking,omitempty"`
	Radius              float64          `json:"radius,omitempty"`
	AccentColor         string           `json:"accentColor,omitempty"`
	BackgroundColor     string           `json:"backgroundColor,omitempty"`
	IconColor           string           `json:"iconColor,omitempty"`
	Overlay             *Overlay         `json:"overlay,omitempty"`
	Metadata            map[string]any   `json:"metadata,omitempty"`
}

// End returns the highlight's end on the output timeline.
func (h *Highlight) End() float64 {
	return h.Start + h.Duration
}

// IsSection reports whether the highlight is a section title card.
func (h *Highlight) IsSection() bool {
	return strings.EqualFold(h.Type, TypeSectionTitle)
}

// Plan is the canonical, validated edit plan.
type Plan struct {
	Segments   []*Segment     `json:"segments"`
	Highlights []*Highlight   `json:"highlights"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// EnsureMeta returns the plan's meta map, creating it when absent.
func (p *Plan) EnsureMeta() map[string]any {
	if p.Meta == nil {
		p.Meta = make(map[string]any)
	}
	return p.Meta
}

// Float returns a pointer for optional numeric fields whose zero value is
// meaningful, such as staggerLeft.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer for optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

// Diagnostics collects non-fatal problems found while processing a plan:
// skipped entries, missing scene data, withheld assets.
type Diagnostics struct {
	Warnings []string `json:"warnings,omitempty"`
}

// Warn records a diagnostic message.
func (d *Diagnostics) Warn(message string) {
	if d == nil {
		return
	}
	d.Warnings = append(d.Warnings, message)
}

// Merge appends another diagnostics set.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
}
