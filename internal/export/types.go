// Package export renders edit plans into interchange formats editors can
// import, currently CMX 3600 EDL.
package export

// ExportRequest asks for a plan's segments to be written as an EDL file.
// MediaPath is the source footage every segment cuts from.
type ExportRequest struct {
	ProjectName string         `json:"project_name"`
	Format      string         `json:"format"`
	FrameRate   float64        `json:"frame_rate"`
	OutputDir   string         `json:"output_dir"`
	MediaPath   string         `json:"media_path"`
	Plan        map[string]any `json:"plan"`
}

// ResolvedClip is one timeline event ready for EDL rendering.
type ResolvedClip struct {
	ClipName  string
	MediaPath string
	StartMs   int
	EndMs     int
	SegmentID string
}

type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	SkippedSegments []string `json:"skipped_segments,omitempty"`
}
