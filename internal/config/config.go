package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"jokerhigh-server/internal/util"
)

// Config provides configuration for the Joker High server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey string `yaml:"publicKey" envconfig:"public_key"`

		// PrivateKey is only needed by the token minting tool; the server
		// itself never signs
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Rooms map[string]Room `yaml:"rooms"`
}

// Room configures one joinable room type
type Room struct {
	Ante                int `yaml:"ante"`
	AnteMultiplier      int `yaml:"anteMultiplier" envconfig:"ante_multiplier"`
	MaxJokerCount       int `yaml:"maxJokerCount" envconfig:"max_joker_count"`
	TurnTimeSeconds     int `yaml:"turnTimeSeconds" envconfig:"turn_time_seconds"`
	BotFillDelaySeconds int `yaml:"botFillDelaySeconds" envconfig:"bot_fill_delay_seconds"`
	BotThinkMinMs       int `yaml:"botThinkMinMs" envconfig:"bot_think_min_ms"`
	BotThinkMaxMs       int `yaml:"botThinkMaxMs" envconfig:"bot_think_max_ms"`
	RevealPauseMs       int `yaml:"revealPauseMs" envconfig:"reveal_pause_ms"`
}

var config Config

// DefaultConfig returns the configuration defaults used when no config file
// is present
func DefaultConfig() Config {
	cfg := Config{
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Rooms: map[string]Room{
			"standard": {
				Ante:                10,
				AnteMultiplier:      100,
				MaxJokerCount:       3,
				TurnTimeSeconds:     15,
				BotFillDelaySeconds: 10,
				BotThinkMinMs:       800,
				BotThinkMaxMs:       2500,
				RevealPauseMs:       2000,
			},
		},
	}
	cfg.JWT.PublicKey = "public.pem"

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration.
// A missing config file is not an error; the defaults are used instead.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("JH_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("jh", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
