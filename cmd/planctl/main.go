// planctl drives the plan pipeline from the command line: scene maps,
// model drafts, normalization, enrichment, validation and EDL export.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/NhiLe-Team-Webs/video-be/internal/config"
	"github.com/NhiLe-Team-Webs/video-be/internal/export"
	"github.com/NhiLe-Team-Webs/video-be/internal/logging"
	"github.com/NhiLe-Team-Webs/video-be/internal/pipeline"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
	"github.com/NhiLe-Team-Webs/video-be/internal/planner"
	"github.com/NhiLe-Team-Webs/video-be/internal/scenemap"
	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
	"github.com/NhiLe-Team-Webs/video-be/internal/validate"
)

const usage = `Usage: planctl <command> [flags]

Commands:
  scene-map   generate a scored scene map from an SRT transcript
  draft       ask the model for a draft plan and normalize it
  normalize   normalize a raw draft plan JSON file
  enrich      normalize and enrich a plan with catalog assets
  validate    check a plan against schema and catalog rules
  export      write a plan's segments as a CMX 3600 EDL

Run 'planctl <command> -h' for command flags.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "scene-map":
		err = runSceneMap(os.Args[2:])
	case "draft":
		err = runDraft(os.Args[2:])
	case "normalize":
		err = runNormalize(os.Args[2:])
	case "enrich":
		err = runEnrich(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "planctl: %v\n", err)
		os.Exit(1)
	}
}

// catalogFlags holds the asset paths shared by most commands. Empty paths
// fall back to the pipeline config defaults under the assets directory.
type catalogFlags struct {
	assetsDir string
	broll     string
	sfx       string
	motion    string
	rules     string
}

func (cf *catalogFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.assetsDir, "assets-dir", "", "assets directory (default from VIDEOBE_ASSETS_DIR or ./assets)")
	fs.StringVar(&cf.broll, "broll-catalog", "", "B-roll catalog JSON path")
	fs.StringVar(&cf.sfx, "sfx-catalog", "", "sfx catalog JSON path")
	fs.StringVar(&cf.motion, "motion-rules", "", "motion rules JSON path")
	fs.StringVar(&cf.rules, "keyword-rules", "", "keyword rules JSON path")
}

func (cf *catalogFlags) load(pipelineCfg *config.Pipeline, assetsDir string) (pipeline.Catalogs, error) {
	if cf.assetsDir != "" {
		assetsDir = cf.assetsDir
	}
	pick := func(override, name string) string {
		if override != "" {
			return override
		}
		return config.ResolveAsset(assetsDir, name)
	}
	return pipeline.LoadCatalogs(
		pick(cf.broll, pipelineCfg.Assets.Broll),
		pick(cf.sfx, pipelineCfg.Assets.Sfx),
		pick(cf.motion, pipelineCfg.Assets.MotionRules),
		pick(cf.rules, pipelineCfg.Assets.KeywordRules),
	)
}

func loadEnv() (config.Config, *config.Pipeline, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	pipelineCfg, err := config.LoadPipeline(cfg.PipelineFile())
	if err != nil {
		return nil, nil, err
	}
	return cfg, pipelineCfg, nil
}

func newService(cfg config.Config, pipelineCfg *config.Pipeline, catalogs pipeline.Catalogs) *pipeline.Service {
	return &pipeline.Service{
		Catalogs:      catalogs,
		Logger:        logging.NewLogger(cfg.LogLevel()),
		FPS:           pipelineCfg.FPS,
		MaxHighlights: pipelineCfg.MaxHighlights,
	}
}

func parseSRTFile(path string, maxEntries int) ([]srt.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer f.Close()
	return srt.Parse(f, maxEntries)
}

func readJSONMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func runSceneMap(args []string) error {
	fs := flag.NewFlagSet("scene-map", flag.ExitOnError)
	srtPath := fs.String("srt", "", "SRT transcript path (required)")
	out := fs.String("out", "-", "output path, - for stdout")
	maxEntries := fs.Int("max-entries", 0, "cap on transcript entries, 0 for unlimited")
	var cf catalogFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *srtPath == "" {
		return fmt.Errorf("-srt is required")
	}

	cfg, pipelineCfg, err := loadEnv()
	if err != nil {
		return err
	}
	catalogs, err := cf.load(pipelineCfg, cfg.AssetsDir())
	if err != nil {
		return err
	}

	entries, err := parseSRTFile(*srtPath, *maxEntries)
	if err != nil {
		return err
	}

	svc := newService(cfg, pipelineCfg, catalogs)
	sm, err := svc.SceneMap(context.Background(), entries, filepath.Base(*srtPath))
	if err != nil {
		return err
	}
	return writeJSON(*out, sm)
}

func runDraft(args []string) error {
	fs := flag.NewFlagSet("draft", flag.ExitOnError)
	srtPath := fs.String("srt", "", "SRT transcript path (required)")
	out := fs.String("out", "-", "output plan path, - for stdout")
	model := fs.String("model", "", "model name override")
	maxEntries := fs.Int("max-entries", 0, "cap on transcript entries, 0 uses the pipeline default")
	extra := fs.String("extra", "", "extra guidance appended to the prompt")
	dryRun := fs.Bool("dry-run", false, "print the prompt and exit without calling the model")
	sceneMapPath := fs.String("scene-map", "", "precomputed scene map JSON path")
	manifestPath := fs.String("client-manifest", "", "client manifest JSON path")
	var cf catalogFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *srtPath == "" {
		return fmt.Errorf("-srt is required")
	}

	cfg, pipelineCfg, err := loadEnv()
	if err != nil {
		return err
	}
	catalogs, err := cf.load(pipelineCfg, cfg.AssetsDir())
	if err != nil {
		return err
	}

	limit := *maxEntries
	if limit <= 0 {
		limit = pipelineCfg.Planner.MaxEntries
	}
	entries, err := parseSRTFile(*srtPath, limit)
	if err != nil {
		return err
	}

	svc := newService(cfg, pipelineCfg, catalogs)
	svc.AvailableSfx = planner.DiscoverAvailableSfx(cfg.AssetsDir())

	if *manifestPath != "" {
		manifest, err := planner.LoadClientManifest(*manifestPath)
		if err != nil {
			return err
		}
		svc.Manifest = manifest
	}

	in := svc.PromptInput(entries, *extra)
	if *sceneMapPath != "" {
		sm, err := scenemap.Load(*sceneMapPath)
		if err != nil {
			return err
		}
		in.SceneMap = sm
	}

	if *dryRun {
		fmt.Println(planner.BuildPrompt(in))
		return nil
	}

	chosenModel := *model
	if chosenModel == "" {
		chosenModel = cfg.OpenAIModel()
	}
	if chosenModel == "" {
		chosenModel = pipelineCfg.Planner.Model
	}
	client, err := planner.NewClient(planner.Config{
		APIKey:  cfg.OpenAIAPIKey(),
		BaseURL: cfg.OpenAIBaseURL(),
		Model:   chosenModel,
	})
	if err != nil {
		return err
	}
	svc.Planner = client

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	p, diag, raw, err := svc.Draft(ctx, in, filepath.Base(*srtPath))
	if err != nil {
		if raw != "" {
			fmt.Fprintf(os.Stderr, "model response:\n%s\n", raw)
		}
		return err
	}

	printWarnings(diag)
	return writeJSON(*out, p)
}

func runNormalize(args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	planPath := fs.String("plan", "", "raw plan JSON path (required)")
	srtPath := fs.String("srt", "", "SRT transcript path for index resolution")
	out := fs.String("out", "-", "output path, - for stdout")
	var cf catalogFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *planPath == "" {
		return fmt.Errorf("-plan is required")
	}

	cfg, pipelineCfg, err := loadEnv()
	if err != nil {
		return err
	}
	catalogs, err := cf.load(pipelineCfg, cfg.AssetsDir())
	if err != nil {
		return err
	}

	raw, err := readJSONMap(*planPath)
	if err != nil {
		return err
	}

	var entries []srt.Entry
	if *srtPath != "" {
		if entries, err = parseSRTFile(*srtPath, 0); err != nil {
			return err
		}
	}

	svc := newService(cfg, pipelineCfg, catalogs)
	p, diag, err := svc.Normalize(context.Background(), raw, entries, filepath.Base(*planPath))
	if err != nil {
		return err
	}

	printWarnings(diag)
	return writeJSON(*out, p)
}

func runEnrich(args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	planPath := fs.String("plan", "", "plan JSON path (required)")
	srtPath := fs.String("srt", "", "SRT transcript path")
	sceneMapPath := fs.String("scene-map", "", "scene map JSON path")
	overlaysPath := fs.String("overlays", "", "overlay suggestions JSON path")
	out := fs.String("out", "-", "output path, - for stdout")
	var cf catalogFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *planPath == "" {
		return fmt.Errorf("-plan is required")
	}

	cfg, pipelineCfg, err := loadEnv()
	if err != nil {
		return err
	}
	catalogs, err := cf.load(pipelineCfg, cfg.AssetsDir())
	if err != nil {
		return err
	}

	raw, err := readJSONMap(*planPath)
	if err != nil {
		return err
	}

	var entries []srt.Entry
	if *srtPath != "" {
		if entries, err = parseSRTFile(*srtPath, 0); err != nil {
			return err
		}
	}

	var scenes []scenemap.Scene
	if *sceneMapPath != "" {
		sm, err := scenemap.Load(*sceneMapPath)
		if err != nil {
			return err
		}
		scenes = sm.Segments
	}

	var overlays map[string]any
	if *overlaysPath != "" {
		if overlays, err = readJSONMap(*overlaysPath); err != nil {
			return err
		}
	}

	svc := newService(cfg, pipelineCfg, catalogs)
	source := filepath.Base(*planPath)
	p, diag, err := svc.Normalize(context.Background(), raw, entries, source)
	if err != nil {
		return err
	}
	enrichDiag := svc.Enrich(context.Background(), p, scenes, entries, overlays, source)
	if diag == nil {
		diag = enrichDiag
	} else {
		diag.Merge(enrichDiag)
	}

	printWarnings(diag)
	return writeJSON(*out, p)
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	planPath := fs.String("plan", "", "plan JSON path (required)")
	var cf catalogFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *planPath == "" {
		return fmt.Errorf("-plan is required")
	}

	cfg, pipelineCfg, err := loadEnv()
	if err != nil {
		return err
	}
	catalogs, err := cf.load(pipelineCfg, cfg.AssetsDir())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*planPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", *planPath, err)
	}
	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse %s: %w", *planPath, err)
	}

	svc := newService(cfg, pipelineCfg, catalogs)
	report := svc.Validate(context.Background(), &p, filepath.Base(*planPath))

	for _, issue := range report.Issues {
		fmt.Printf("%s (%s): %s\n", issue.Code, issue.Severity, issue.Message)
	}
	if !report.IsValid {
		errorCount := 0
		for _, issue := range report.Issues {
			if issue.Severity == validate.SeverityError {
				errorCount++
			}
		}
		return fmt.Errorf("plan invalid: %d error(s)", errorCount)
	}
	fmt.Printf("plan valid, %d warning(s)\n", len(report.Issues))
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	planPath := fs.String("plan", "", "plan JSON path (required)")
	mediaPath := fs.String("media", "", "source media path for clip references (required)")
	outDir := fs.String("out-dir", ".", "directory for the EDL file")
	project := fs.String("project", "", "project name, defaults to the plan filename")
	frameRate := fs.Float64("frame-rate", 30, "EDL frame rate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *planPath == "" {
		return fmt.Errorf("-plan is required")
	}
	if *mediaPath == "" {
		return fmt.Errorf("-media is required")
	}
	if err := export.ValidateOutputDir(*outDir); err != nil {
		return err
	}

	data, err := os.ReadFile(*planPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", *planPath, err)
	}
	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse %s: %w", *planPath, err)
	}

	name := export.SanitizeName(*project, 120)
	if name == "" {
		base := filepath.Base(*planPath)
		name = export.SanitizeName(strings.TrimSuffix(base, filepath.Ext(base)), 120)
	}
	if name == "" {
		name = "videobe_export"
	}

	clips, skipped := export.FromPlan(&p, *mediaPath)
	if len(clips) == 0 {
		return fmt.Errorf("no segments could be exported")
	}
	for _, id := range skipped {
		fmt.Fprintf(os.Stderr, "skipped segment %s: no positive duration\n", id)
	}

	edl := export.GenerateEDL(clips, name, *frameRate)
	outputPath := filepath.Join(*outDir, name+".edl")
	if err := os.WriteFile(outputPath, []byte(edl), 0o644); err != nil {
		return fmt.Errorf("write edl: %w", err)
	}

	fmt.Printf("wrote %s (%d clips)\n", outputPath, len(clips))
	return nil
}

func printWarnings(diag *plan.Diagnostics) {
	if diag == nil {
		return
	}
	for _, warning := range diag.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}
