package config

import (
	"fmt"
	"os"
	"time"
)

// Config structure
type Config struct {
	APIKey          string        // OpenAI-compatible API key (required)
	LLMBaseURL      string        // Override for the chat-completions endpoint
	ModelName       string        // Model used for slide copy generation
	MaxTokens       int           // Completion token budget per request
	ListenAddr      string        // HTTP listen address
	UploadDir       string        // Directory for generated decks
	LogDir          string        // Directory for log files; empty logs to stderr
	FileLifetime    time.Duration // How long a generated deck stays downloadable
	CleanupInterval time.Duration // How often the reclamation pass runs
}

// Load resolves the configuration from the process environment.
// OPENAI_API_KEY is mandatory; everything else has a default.
func Load() (Config, error) {
	cfg := Config{
		ModelName:       "gpt-4o-mini",
		MaxTokens:       2000,
		ListenAddr:      ":5000",
		UploadDir:       "temp_files",
		FileLifetime:    time.Hour,
		CleanupInterval: 5 * time.Minute,
	}

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("FILE_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FILE_LIFETIME %q: %w", v, err)
		}
		cfg.FileLifetime = d
	}
	if v := os.Getenv("CLEANUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CLEANUP_INTERVAL %q: %w", v, err)
		}
		cfg.CleanupInterval = d
	}

	return cfg, nil
}
