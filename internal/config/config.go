package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the millionaire service configuration: listen port, logging,
// the optional redis and postgres backends, question cache TTL and the
// game rules.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game GameConfig `yaml:"game"`
}

// GameConfig holds the prize ladder and help tuning. Empty prizes or
// fireproof levels and nil accuracies keep the built-in values.
type GameConfig struct {
	Prizes           []int    `yaml:"prizes"`
	FireproofLevels  []int    `yaml:"fireproofLevels"`
	FriendAccuracy   *float64 `yaml:"friendAccuracy"`
	AudienceAccuracy *float64 `yaml:"audienceAccuracy"`
	Seed             int64    `yaml:"seed"` // 0 seeds from the clock
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
