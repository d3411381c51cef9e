package config

import (
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Port                  string
	DatabasePath          string
	OpenAIKey             string
	ContactsProvider      string
	GoogleContactsKeyFile string
	Matcher               MatcherConfig
}

// MatcherConfig carries the matcher tuning knobs. Zero values mean "use the
// built-in default" for that knob.
type MatcherConfig struct {
	TimelineToleranceMs int64    `yaml:"timeline_tolerance_ms"`
	MinTimelineVotes    int      `yaml:"min_timeline_votes"`
	HighConfidenceVotes int      `yaml:"high_confidence_votes"`
	FreeEmailDomains    []string `yaml:"free_email_domains"`
}

// Load loads configuration from environment variables, with an optional
// YAML overlay file for the matcher tuning (SPEAKERMAP_CONFIG).
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabasePath:          os.Getenv("DATABASE_PATH"),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		ContactsProvider:      os.Getenv("CONTACTS_PROVIDER"),
		GoogleContactsKeyFile: os.Getenv("GOOGLE_CONTACTS_KEY_FILE"),
	}

	// OpenAI key is optional (only needed for attributed summaries).
	// Contacts provider is optional (matching degrades to timeline and
	// heuristic signals without it).

	if path := os.Getenv("SPEAKERMAP_CONFIG"); path != "" {
		matcher, err := loadMatcherConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Matcher = matcher
	}

	return cfg, nil
}

func loadMatcherConfig(path string) (MatcherConfig, error) {
	var matcher MatcherConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[Config] %s not found, using built-in matcher defaults", path)
			return matcher, nil
		}
		return matcher, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &matcher); err != nil {
		return matcher, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return matcher, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
