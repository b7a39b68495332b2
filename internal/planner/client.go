package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/NhiLe-Team-Webs/video-be/internal/srt"
)

// DefaultModel is the chat model used when no override is configured.
const DefaultModel = "gpt-4.1-mini"

// ErrEmptyResponse signals the model answered with no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// ErrNotConfigured signals no model backend was set up for drafting.
var ErrNotConfigured = errors.New("no plan generator configured")

// Generator produces raw model output for a prompt. The OpenAI client
// implements it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the model client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client calls the chat completion API to draft edit plans.
type Client struct {
	client openai.Client
	model  string
}

// NewClient builds the OpenAI-compatible client. BaseURL may point at any
// compatible gateway.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing API key: set VIDEOBE_OPENAI_API_KEY or OPENAI_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClient(opts...), model: model}, nil
}

// Generate sends the prompt as a single user message and returns the raw
// completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       c.model,
		Temperature: openai.Float(0.2),
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// AttemptConfig is one rung of the degraded-context retry ladder.
type AttemptConfig struct {
	Limit           int
	IncludeSceneMap bool
	IncludeCatalogs bool
	Label           string
}

// AttemptConfigs builds the retry ladder for a transcript of entryCount
// entries: the full prompt first, then progressively smaller transcripts,
// then prompts without the scene map and finally without any catalogs.
// Rungs that collapse to an already-registered shape are dropped.
func AttemptConfigs(entryCount int, haveSceneMap, haveCatalogs bool) []AttemptConfig {
	var configs []AttemptConfig
	seen := map[[3]int]bool{}

	register := func(limit int, includeScene, includeCatalogs bool, label string) {
		if limit > entryCount {
			limit = entryCount
		}
		if limit < 1 {
			limit = 1
		}
		includeScene = includeScene && haveSceneMap
		includeCatalogs = includeCatalogs && haveCatalogs
		key := [3]int{limit, boolToInt(includeScene), boolToInt(includeCatalogs)}
		if seen[key] {
			return
		}
		seen[key] = true
		configs = append(configs, AttemptConfig{
			Limit:           limit,
			IncludeSceneMap: includeScene,
			IncludeCatalogs: includeCatalogs,
			Label:           label,
		})
	}

	register(entryCount, true, true, "full prompt")
	if entryCount > 140 {
		register(140, true, true, "140 entries")
	}
	if entryCount > 120 {
		register(120, true, true, "120 entries")
	}
	register(min(entryCount, 90), false, true, "no scene map")
	register(min(entryCount, 70), false, false, "minimal context")
	return configs
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// retryable reports whether a model error is worth a smaller-prompt retry.
// Timeouts and gateway 504s shrink the prompt; other failures abort.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "504")
}

// Request walks the retry ladder until the model returns text. It returns
// the raw response and the transcript subset the winning prompt carried, so
// normalization snaps against the same entries the model saw.
func Request(ctx context.Context, gen Generator, in PromptInput, logger *slog.Logger) (string, []srt.Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(in.Entries) == 0 {
		return "", nil, srt.ErrNoEntries
	}

	prompts := map[[3]int]string{}
	var lastErr error

	for _, config := range AttemptConfigs(len(in.Entries), in.SceneMap != nil, in.Broll != nil || in.Sfx != nil || in.Motion != nil) {
		subset := in.Entries[:config.Limit]
		key := [3]int{config.Limit, boolToInt(config.IncludeSceneMap), boolToInt(config.IncludeCatalogs)}
		prompt, ok := prompts[key]
		if !ok {
			attempt := in
			attempt.Entries = subset
			if !config.IncludeSceneMap {
				attempt.SceneMap = nil
			}
			if !config.IncludeCatalogs {
				attempt.Broll = nil
				attempt.Sfx = nil
				attempt.Motion = nil
			}
			prompt = BuildPrompt(attempt)
			prompts[key] = prompt
		}

		text, err := gen.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			logger.Warn("draft plan attempt failed",
				"label", config.Label, "entries", config.Limit, "error", err)
			if retryable(err) {
				continue
			}
			break
		}
		if text == "" {
			lastErr = ErrEmptyResponse
			logger.Warn("empty model response", "label", config.Label)
			continue
		}
		return text, subset, nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return "", nil, fmt.Errorf("draft plan request failed after retries: %w", lastErr)
}
