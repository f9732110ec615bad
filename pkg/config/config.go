// Package config loads highlights server settings from defaults, an optional
// YAML file, an optional .env file and HIGHLIGHTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	// NotesDir is where the per-date note files live.
	NotesDir string `koanf:"notes_dir" yaml:"notes_dir"`

	// Timezone is the IANA zone used to pick the note date. Empty means local time.
	Timezone string `koanf:"timezone" yaml:"timezone"`

	Server ServerConfig `koanf:"server" yaml:"server"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host        string   `koanf:"host" yaml:"host"`
	Port        int      `koanf:"port" yaml:"port"`
	CORSOrigins []string `koanf:"cors_origins" yaml:"cors_origins"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		NotesDir: defaultNotesDir(),
		Server: ServerConfig{
			Host:        "localhost",
			Port:        3000,
			CORSOrigins: []string{"*"},
		},
	}
}

func defaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "highlights"
	}
	return filepath.Join(home, "highlights")
}

// applyDefaults fills zero values from Defaults.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.NotesDir == "" {
		cfg.NotesDir = d.NotesDir
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = d.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = d.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = d.Server.CORSOrigins
	}

	// Environment values arrive as a single comma-separated string.
	var origins []string
	for _, o := range cfg.Server.CORSOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	cfg.Server.CORSOrigins = origins
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.NotesDir == "" {
		errs = append(errs, errors.New("notes_dir is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone. An empty Timezone yields time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
