package generation

import (
	"context"
	"strings"

	"server/internal/providers/openai"
)

// progressTokenEstimate is the heuristic denominator for completion percent.
// It is a progress estimate, not a hard cap on output length.
const progressTokenEstimate = 300

// Describe runs one text-generation job and emits its ordered progress
// sequence through emit. The sequence is consumed exactly once; failures are
// classified and delivered as a single terminal error event carrying the
// partial buffer, never returned to the caller.
func (s *Service) Describe(ctx context.Context, req Request, emit func(Event)) {
	key := req.fingerprint(s.cfg.Model)

	if s.cfg.CacheEnabled {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.logger.Info().Str("product", req.ProductName).Msg("using cached description")
			emit(Event{Data: "Using cached result...", Percent: 50})
			emit(Event{Data: "Text generation complete.", Partial: cached, Percent: 100})
			return
		}
	}

	messages := buildMessages(req)
	s.usage.AddRequests(1)
	emit(Event{Data: "Generating product description..."})

	var output strings.Builder
	tokens := 0
	err := s.text.StreamChat(ctx, openai.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}, func(delta string) error {
		output.WriteString(delta)
		tokens++
		percent := tokens * 100 / progressTokenEstimate
		if percent > 100 {
			percent = 100
		}
		emit(Event{Data: "Generating description...", Partial: output.String(), Percent: percent})
		return nil
	})
	if err != nil {
		message, details := Classify(err)
		s.logger.Error().Err(err).Str("kind", details.Kind).Str("product", req.ProductName).Msg("description generation failed")
		emit(Event{
			Data:         "Error: " + message,
			Partial:      output.String(),
			Error:        true,
			ErrorDetails: &details,
		})
		return
	}

	s.usage.AddTokens(int64(tokens))
	if s.cfg.CacheEnabled {
		s.cache.Set(ctx, key, output.String(), s.cfg.CacheTTL)
	}
	emit(Event{Data: "Text generation complete.", Partial: output.String(), Percent: 100})
}
