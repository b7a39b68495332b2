package export

import (
	"fmt"
	"math"

	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
)

// FromPlan converts a plan's segments into EDL clips cut from one media
// file. Segments without a positive duration are skipped and reported by ID.
func FromPlan(p *plan.Plan, mediaPath string) ([]ResolvedClip, []string) {
	if p == nil {
		return nil, nil
	}

	clips := make([]ResolvedClip, 0, len(p.Segments))
	var skipped []string

	for i, segment := range p.Segments {
		id := segment.ID
		if id == "" {
			id = fmt.Sprintf("segment-%d", i+1)
		}
		if segment.Duration <= 0 {
			skipped = append(skipped, id)
			continue
		}

		name := segment.Label
		if name == "" {
			name = segment.Title
		}
		if name == "" {
			name = id
		}
		name = SanitizeName(name, 160)
		if name == "" {
			name = id
		}

		startMs := int(math.Round(segment.SourceStart * 1000))
		endMs := int(math.Round(segment.End() * 1000))
		if startMs < 0 {
			startMs = 0
		}
		if endMs <= startMs {
			skipped = append(skipped, id)
			continue
		}

		clips = append(clips, ResolvedClip{
			ClipName:  name,
			MediaPath: mediaPath,
			StartMs:   startMs,
			EndMs:     endMs,
			SegmentID: id,
		})
	}

	return clips, skipped
}
