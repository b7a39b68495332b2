package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PipelineAssets names the catalog files the pipeline loads, relative to the
// assets directory unless absolute.
type PipelineAssets struct {
	Broll        string `yaml:"broll"`
	Sfx          string `yaml:"sfx"`
	MotionRules  string `yaml:"motionRules"`
	KeywordRules string `yaml:"keywordRules"`
	Overlays     string `yaml:"overlays"`
}

// PlannerSettings tune the draft-plan model call.
type PlannerSettings struct {
	Model      string `yaml:"model"`
	MaxEntries int    `yaml:"maxEntries"`
}

// Pipeline is the optional YAML pipeline file. It overrides enrichment knobs
// and asset locations; keyword tables themselves stay JSON files referenced
// from Assets.
type Pipeline struct {
	FPS           float64         `yaml:"fps"`
	MaxHighlights int             `yaml:"maxHighlights"`
	Assets        PipelineAssets  `yaml:"assets"`
	Planner       PlannerSettings `yaml:"planner"`
}

// DefaultPipeline returns the settings used without a pipeline file.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		FPS:           30,
		MaxHighlights: 18,
		Assets: PipelineAssets{
			Broll:        "broll_catalog.json",
			Sfx:          "sfx_catalog.json",
			MotionRules:  "motion_rules.json",
			KeywordRules: "keyword_rules.json",
		},
		Planner: PlannerSettings{MaxEntries: 160},
	}
}

// LoadPipeline reads the YAML pipeline file at path, layering it over the
// defaults. An empty path yields the defaults; a missing file is an error
// since the path was explicitly configured.
func LoadPipeline(path string) (*Pipeline, error) {
	pipeline := DefaultPipeline()
	if path == "" {
		return pipeline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}
	if err := yaml.Unmarshal(data, pipeline); err != nil {
		return nil, fmt.Errorf("parse pipeline file: %w", err)
	}
	if pipeline.FPS <= 0 {
		pipeline.FPS = 30
	}
	if pipeline.MaxHighlights <= 0 {
		pipeline.MaxHighlights = 18
	}
	if pipeline.Planner.MaxEntries <= 0 {
		pipeline.Planner.MaxEntries = 160
	}
	return pipeline, nil
}

// ResolveAsset joins an asset file name with the assets directory. Absolute
// paths and empty names pass through unchanged.
func ResolveAsset(assetsDir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(assetsDir, name)
}
