package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment.
type Config struct {
	InferenceEndpoint string
	InferenceAPIKey   string
	InferenceModel    string
	DeepgramAPIKey    string

	Locale          string
	SilenceDuration time.Duration
	SettleDelay     time.Duration
	MaxRetries      int
	Backoff         time.Duration

	// ProgrammeFile optionally replaces the built-in festival listing.
	ProgrammeFile string
}

// Load reads the given .env files (".env" when none are given) and then the
// environment. Missing files are not an error, variables already set in the
// environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Config{
		InferenceEndpoint: os.Getenv("FESTDESK_INFERENCE_ENDPOINT"),
		InferenceAPIKey:   os.Getenv("FESTDESK_INFERENCE_API_KEY"),
		InferenceModel:    stringOr("FESTDESK_INFERENCE_MODEL", "gpt-4o-mini"),
		DeepgramAPIKey:    os.Getenv("DEEPGRAM_API_KEY"),
		Locale:            stringOr("FESTDESK_LOCALE", "en-IN"),
		ProgrammeFile:     os.Getenv("FESTDESK_PROGRAMME_FILE"),
	}

	var err error
	if cfg.SilenceDuration, err = millisecondsOr("FESTDESK_SILENCE_MS", 2000); err != nil {
		return Config{}, err
	}
	if cfg.SettleDelay, err = millisecondsOr("FESTDESK_SETTLE_MS", 500); err != nil {
		return Config{}, err
	}
	if cfg.Backoff, err = millisecondsOr("FESTDESK_BACKOFF_MS", 2000); err != nil {
		return Config{}, err
	}
	if cfg.MaxRetries, err = intOr("FESTDESK_MAX_RETRIES", 3); err != nil {
		return Config{}, err
	}
	if cfg.MaxRetries < 1 {
		return Config{}, fmt.Errorf("FESTDESK_MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}

	return cfg, nil
}

// VoiceEnabled reports whether speech services are configured.
func (c Config) VoiceEnabled() bool {
	return c.DeepgramAPIKey != ""
}

func stringOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intOr(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func millisecondsOr(key string, fallback int) (time.Duration, error) {
	ms, err := intOr(key, fallback)
	if err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
