package generation

import (
	"context"

	"server/internal/providers/openai"
	"server/internal/sanitize"
)

// GenerateImageAsync starts one background image-generation task and returns
// immediately; all further communication happens through emit. The task is
// never cancelled by its caller: once the provider call is in flight it
// runs to completion or failure, and the transport decides whether a live
// session still exists for delivery.
//
// The cache namespace is shared between images requested alongside a text
// job and standalone regeneration, so either path can hit an entry the
// other populated.
func (s *Service) GenerateImageAsync(ctx context.Context, productName string, emit func(ImageEvent)) {
	go s.generateImage(ctx, productName, emit)
}

func (s *Service) generateImage(ctx context.Context, productName string, emit func(ImageEvent)) {
	name := sanitize.Clean(productName)
	key := imageFingerprint(name, s.cfg.ImageModel, s.cfg.ImageSize, s.cfg.ImageQuality)

	if cached, ok := s.cache.Get(ctx, key); ok {
		s.logger.Info().Str("product", name).Msg("using cached image")
		emit(ImageEvent{Status: "Using cached image...", Percent: 50})
		emit(ImageEvent{Percent: 100, ImageURL: cached})
		return
	}

	emit(ImageEvent{Status: "Creating image prompt...", Percent: 10})
	prompt := buildImagePrompt(name)
	emit(ImageEvent{Status: "Sending request to " + s.cfg.ImageModel + "...", Percent: 25})
	emit(ImageEvent{Status: "Your image is being generated, it can take up to 30 seconds...", Percent: 50})

	s.usage.AddImages(1)
	s.usage.AddRequests(1)

	url, err := s.images.CreateImage(ctx, openai.ImageRequest{
		Prompt:  prompt,
		Model:   s.cfg.ImageModel,
		N:       1,
		Size:    s.cfg.ImageSize,
		Quality: s.cfg.ImageQuality,
	})
	if err != nil {
		message, details := Classify(err)
		s.logger.Error().Err(err).Str("kind", details.Kind).Str("product", name).Msg("image generation failed")
		emit(ImageEvent{
			Status:       "Image generation failed: " + message,
			Percent:      100,
			Error:        true,
			ErrorDetails: &details,
		})
		return
	}

	s.cache.Set(ctx, key, url, s.cfg.CacheTTL)
	emit(ImageEvent{Percent: 100, ImageURL: url})
}
