package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	SaveDir           string `env:"QC_SAVE_DIR"           envDefault:"data/save_games"`
	DataDir           string `env:"QC_DATA_DIR"           envDefault:"data"`
	LogFile           string `env:"QC_LOG_FILE"           envDefault:"quest-chronicles.log"`
	Seed              int64  `env:"QC_SEED"               envDefault:"0"`
	InventoryCapacity int    `env:"QC_INVENTORY_CAPACITY" envDefault:"20"`
	ReviveCost        int    `env:"QC_REVIVE_COST"        envDefault:"20"`
	SpecialCooldown   int    `env:"QC_SPECIAL_COOLDOWN"   envDefault:"0"`

	// Narration through Gemini is enabled only when a key is present.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"QC_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from environment variables, after
// reading envFiles (".env" when none are given) if they exist. Variables
// already set in the environment win over the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.InventoryCapacity <= 0 {
		return fmt.Errorf("QC_INVENTORY_CAPACITY must be positive, got %d", c.InventoryCapacity)
	}
	if c.ReviveCost < 0 {
		return fmt.Errorf("QC_REVIVE_COST must not be negative, got %d", c.ReviveCost)
	}
	if c.SpecialCooldown < 0 {
		return fmt.Errorf("QC_SPECIAL_COOLDOWN must not be negative, got %d", c.SpecialCooldown)
	}
	if c.SaveDir == "" || c.DataDir == "" {
		return fmt.Errorf("QC_SAVE_DIR and QC_DATA_DIR must not be empty")
	}
	return nil
}

// NarrationEnabled reports whether a Gemini key is configured.
func (c *Config) NarrationEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Rand returns the game's random source, seeded from QC_SEED or, when that
// is zero, the clock.
func (c *Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
