package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TIMEOUT_SECONDS", "")

	cfg := LoadConfig()
	if cfg.Port != "3000" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "3000")
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("Model mismatch: got %q want %q", cfg.Model, "gpt-4o")
	}
	if cfg.ImageModel != "dall-e-3" {
		t.Fatalf("ImageModel mismatch: got %q want %q", cfg.ImageModel, "dall-e-3")
	}
	if cfg.ImageSize != "1024x1024" || cfg.ImageQuality != "standard" {
		t.Fatalf("image defaults mismatch: %q %q", cfg.ImageSize, cfg.ImageQuality)
	}
	if cfg.MaxTokens != 600 {
		t.Fatalf("MaxTokens mismatch: got %d want 600", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Fatalf("Temperature mismatch: got %v want 0.7", cfg.Temperature)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("CacheTTL mismatch: got %v want %v", cfg.CacheTTL, time.Hour)
	}
	if !cfg.EnableCaching || !cfg.EnableImageGeneration || !cfg.EnableUsageTracking {
		t.Fatalf("feature flags should default on")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("CACHE_TIMEOUT_SECONDS", "120")
	t.Setenv("ENABLE_IMAGE_GENERATION", "false")
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := LoadConfig()
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("Model mismatch: got %q", cfg.Model)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Fatalf("CacheTTL mismatch: got %v", cfg.CacheTTL)
	}
	if cfg.EnableImageGeneration {
		t.Fatalf("ENABLE_IMAGE_GENERATION=false not honored")
	}
	if cfg.Temperature != 0.2 {
		t.Fatalf("Temperature mismatch: got %v", cfg.Temperature)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestAPIConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"placeholder", PlaceholderAPIKey, false},
		{"real", "sk-test-123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{OpenAIAPIKey: tt.key}
			if got := cfg.APIConfigured(); got != tt.want {
				t.Fatalf("APIConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}
