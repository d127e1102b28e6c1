package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Queue         QueueConfig         `yaml:"queue"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// QueueConfig holds River job queue configuration.
type QueueConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// ScoringConfig holds tabulation policy knobs. The defaults are the published
// contest rules; they are configurable for district conventions that run
// under local variations.
type ScoringConfig struct {
	// QualifyingScore is the total score at or above which a multi-round
	// competitor advances automatically.
	QualifyingScore float64 `yaml:"qualifying_score"`
	// VarianceThreshold is the maximum allowed spread, in points, between
	// official scores on one category of one song.
	VarianceThreshold int `yaml:"variance_threshold"`
	// ScoringRecipients receive the SA once a round finishes.
	ScoringRecipients []string `yaml:"scoring_recipients"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Environment variables
// override file values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("QUEUE_MAX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QUEUE_MAX_WORKERS value: %v", err)
		}
		cfg.Queue.MaxWorkers = n
	}
	if v := os.Getenv("QUALIFYING_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid QUALIFYING_SCORE value: %v", err)
		}
		cfg.Scoring.QualifyingScore = f
	}
	if v := os.Getenv("VARIANCE_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VARIANCE_THRESHOLD value: %v", err)
		}
		cfg.Scoring.VarianceThreshold = n
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}

	cfg.applyDefaults()

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN not set (config file or DATABASE_URL)")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Queue.MaxWorkers == 0 {
		c.Queue.MaxWorkers = 25
	}
	if c.Scoring.QualifyingScore == 0 {
		c.Scoring.QualifyingScore = 73.0
	}
	if c.Scoring.VarianceThreshold == 0 {
		c.Scoring.VarianceThreshold = 5
	}
}
