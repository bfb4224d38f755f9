package generation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"server/internal/cache"
	"server/internal/providers/openai"
	"server/internal/usage"
)

// TextStreamer is the narrow provider capability the text orchestrator
// consumes: submit a chat prompt, receive a token stream.
type TextStreamer interface {
	StreamChat(ctx context.Context, req openai.ChatRequest, fn func(delta string) error) error
}

// ImageCreator is the provider capability for one-shot image generation.
type ImageCreator interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (string, error)
}

// Config carries the generation knobs resolved from the environment.
type Config struct {
	Model        string
	ImageModel   string
	ImageSize    string
	ImageQuality string
	MaxTokens    int
	Temperature  float64
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Service orchestrates text and image generation: prompt assembly, cache
// memoization, provider calls, progress events, and usage accounting.
type Service struct {
	cfg    Config
	text   TextStreamer
	images ImageCreator
	cache  cache.Store
	usage  usage.Tracker
	logger zerolog.Logger
}

func NewService(cfg Config, text TextStreamer, images ImageCreator, store cache.Store, tracker usage.Tracker, logger zerolog.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "dall-e-3"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1024x1024"
	}
	if cfg.ImageQuality == "" {
		cfg.ImageQuality = "standard"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if tracker == nil {
		tracker = usage.Noop{}
	}
	return &Service{
		cfg:    cfg,
		text:   text,
		images: images,
		cache:  store,
		usage:  tracker,
		logger: logger,
	}
}
