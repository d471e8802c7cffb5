// Package config loads the display client configuration from a TOML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	// EnvServerURL overrides the hub server address.
	EnvServerURL = "HUB_SERVER_URL"

	// EnvDBPath overrides the local image store location.
	EnvDBPath = "HUB_DB_PATH"

	// EnvLatitude and EnvLongitude override the weather location.
	EnvLatitude  = "HUB_LATITUDE"
	EnvLongitude = "HUB_LONGITUDE"
)

type Config struct {
	ServerURL string  `toml:"server_url"`
	DBPath    string  `toml:"db_path"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

// Load reads the configuration file if present, applies defaults, and then
// environment overrides. A missing file is not an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.loadDefaults()
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:3000"
	}
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DBPath = home + "/.smarthub/images.db"
	}
	if c.Latitude == 0 && c.Longitude == 0 {
		// Ships pointed at the author's home town until configured.
		c.Latitude = 43.1457025
		c.Longitude = -86.196591
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLatitude); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = f
		}
	}
	if v := os.Getenv(EnvLongitude); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = f
		}
	}
}
