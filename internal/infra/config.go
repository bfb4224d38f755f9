package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderAPIKey keeps the provider client constructible when no real key
// is set. Requests made with it fail authentication, so generation is gated
// at the gateway instead.
const PlaceholderAPIKey = "dummy_key_please_set_in_env"

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Host   string
	Port   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIOrg     string
	Model         string
	ImageModel    string
	ImageSize     string
	ImageQuality  string
	MaxTokens     int
	Temperature   float64

	// Daily ceilings are declared configuration only; no code path enforces them.
	MaxRequestsPerDay int
	MaxTokensPerDay   int
	MaxImagesPerDay   int

	EnableCaching         bool
	EnableImageGeneration bool
	EnableUsageTracking   bool
	CacheTTL              time.Duration

	DatabaseURL string
	GeoIPDBPath string

	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Nothing is hard-required: a missing API key leaves
// the server running with generation refused at the gateway.
func LoadConfig() *Config {
	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Host:   getEnv("HOST", "0.0.0.0"),
		Port:   getEnv("PORT", "3000"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:     os.Getenv("OPENAI_ORG"),
		Model:         getEnv("OPENAI_MODEL", "gpt-4o"),
		ImageModel:    getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		ImageSize:     getEnv("IMAGE_SIZE", "1024x1024"),
		ImageQuality:  getEnv("IMAGE_QUALITY", "standard"),
		MaxTokens:     getEnvInt("MAX_OUTPUT_TOKENS", 600),
		Temperature:   getEnvFloat("TEMPERATURE", 0.7),

		MaxRequestsPerDay: getEnvInt("MAX_REQUESTS_PER_DAY", 100),
		MaxTokensPerDay:   getEnvInt("MAX_TOKENS_PER_DAY", 100000),
		MaxImagesPerDay:   getEnvInt("MAX_IMAGES_PER_DAY", 50),

		EnableCaching:         getEnvBool("ENABLE_CACHING", true),
		EnableImageGeneration: getEnvBool("ENABLE_IMAGE_GENERATION", true),
		EnableUsageTracking:   getEnvBool("ENABLE_USAGE_TRACKING", true),
		CacheTTL:              time.Second * time.Duration(getEnvInt("CACHE_TIMEOUT_SECONDS", 3600)),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		CORSAllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
}

// APIConfigured reports whether a usable provider credential is present.
func (c *Config) APIConfigured() bool {
	key := strings.TrimSpace(c.OpenAIAPIKey)
	return key != "" && key != PlaceholderAPIKey
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
