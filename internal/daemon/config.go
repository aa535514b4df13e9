// Package daemon wires the Boostly services together and runs them: it
// opens the store, seeds first-run data, starts the bot simulator, and
// serves the HTTP API.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from ~/.boostly/config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Bots    BotsConfig    `toml:"bots"`
	Payment PaymentConfig `toml:"payment"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StoreConfig configures the document store.
type StoreConfig struct {
	// Dir overrides the data directory. Empty means <home>/data.
	Dir string `toml:"dir"`
	// Seed populates demo data on first run.
	Seed bool `toml:"seed"`
}

// BotsConfig tunes the bot simulator.
type BotsConfig struct {
	Enabled        bool    `toml:"enabled"`
	IntervalMillis int     `toml:"interval_ms"`
	ViewChance     float64 `toml:"view_chance"`
	FollowChance   float64 `toml:"follow_chance"`
}

// PaymentConfig tunes the mock payment processor.
type PaymentConfig struct {
	DelayMillis int `toml:"delay_ms"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8090,
			Metrics: true,
		},
		Store: StoreConfig{
			Seed: true,
		},
		Bots: BotsConfig{
			Enabled:        true,
			IntervalMillis: 2000,
			ViewChance:     0.65,
			FollowChance:   0.25,
		},
		Payment: PaymentConfig{
			DelayMillis: 1500,
		},
	}
}

// Home returns the Boostly home directory, honoring BOOSTLY_HOME.
func Home() (string, error) {
	if h := os.Getenv("BOOSTLY_HOME"); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".boostly"), nil
}

// LoadConfig reads config.toml from the home directory, filling in
// defaults for anything unset. A missing file yields the defaults.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(home, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// DataDir resolves the store directory for this config under home.
func (c Config) DataDir(home string) string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return filepath.Join(home, "data")
}

// ListenAddr returns the host:port the API binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// BotInterval returns the simulator tick interval.
func (c Config) BotInterval() time.Duration {
	return time.Duration(c.Bots.IntervalMillis) * time.Millisecond
}

// PaymentDelay returns the mock payment processing time.
func (c Config) PaymentDelay() time.Duration {
	return time.Duration(c.Payment.DelayMillis) * time.Millisecond
}
