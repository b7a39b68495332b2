package planner

import (
	"context"
	"log/slog"

	"github.com/NhiLe-Team-Webs/video-be/internal/catalog"
	"github.com/NhiLe-Team-Webs/video-be/internal/plan"
)

// Draft runs the full path: prompt the model through the retry ladder,
// extract the JSON plan, and normalize it against the transcript subset the
// winning prompt carried. The raw response is returned alongside so callers
// can persist it when extraction fails.
func Draft(ctx context.Context, gen Generator, in PromptInput, normalizer *plan.Normalizer, logger *slog.Logger) (*plan.Plan, *plan.Diagnostics, string, error) {
	raw, used, err := Request(ctx, gen, in, logger)
	if err != nil {
		return nil, nil, "", err
	}
	parsed, err := ExtractPlanJSON(raw)
	if err != nil {
		return nil, nil, raw, err
	}
	if normalizer == nil {
		normalizer = &plan.Normalizer{SfxLookup: catalog.SfxLookupFromCatalog(in.Sfx)}
	}
	drafted, diag, err := normalizer.Normalize(parsed, used)
	if err != nil {
		return nil, nil, raw, err
	}
	return drafted, diag, raw, nil
}
