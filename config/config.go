package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port string

	AppUsername string
	AppPassword string

	GenAIProvider    string
	GenAIModel       string
	GenAITimeout     time.Duration
	GenAITemperature float64
	GeminiAPIKey     string
	OpenAIAPIKey     string
	AnthropicAPIKey  string

	CatalogPath      string
	LectureAssetsDir string
	LogMode          string

	APIBaseURL string
	TokenPath  string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to read .env file: %v", err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		AppUsername:      getEnv("APP_USERNAME", "student"),
		AppPassword:      getEnv("APP_PASSWORD", "smartstudy2024"),
		GenAIProvider:    strings.ToLower(getEnv("GENAI_PROVIDER", ProviderGoogleAI)),
		GenAIModel:       getEnv("GENAI_MODEL", ""),
		GenAITimeout:     getDuration("GENAI_TIMEOUT", 120*time.Second),
		GenAITemperature: getFloat("GENAI_TEMPERATURE", 0.7),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		LectureAssetsDir: getEnv("LECTURE_ASSETS_DIR", "public"),
		LogMode:          getEnv("LOG_MODE", "development"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		TokenPath:        getEnv("TOKEN_PATH", defaultTokenPath()),
	}
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch c.GenAIProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[WARN] Invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[WARN] Invalid %s %q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return f
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".smartstudy-token"
	}
	return dir + string(os.PathSeparator) + "smartstudy" + string(os.PathSeparator) + "token"
}
