// Package config loads server configuration.
//
// Sources, later ones winning: built-in defaults, an optional .env file, an
// optional YAML file (CONFIG_FILE, default config.yml) and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the server configuration.
	Config struct {
		Server   Server   `yaml:"server"`
		Database Database `yaml:"database"`
		Log      Log      `yaml:"log"`
		Balances Balances `yaml:"balances"`
		PayLink  PayLink  `yaml:"payLink"`
	}

	// Server configures the HTTP listener.
	Server struct {
		Port int `yaml:"port"`
	}

	// Database configures the SQLite store.
	Database struct {
		Path string `yaml:"path"`
	}

	// Log configures logging.
	Log struct {
		Level string `yaml:"level"`
	}

	// Balances configures balance calculation.
	Balances struct {
		// ApplySettlements folds completed settlements into group balances.
		ApplySettlements bool `yaml:"applySettlements"`
	}

	// PayLink configures payment link generation.
	PayLink struct {
		BaseURL string `yaml:"baseURL"`
	}
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Server:   Server{Port: 8080},
		Database: Database{Path: "./data/splitsavvy.db"},
		Log:      Log{Level: "info"},
		Balances: Balances{ApplySettlements: true},
		PayLink:  PayLink{BaseURL: "https://splitsavvy.app/pay"},
	}
}

// Load reads the configuration from all sources.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	conf := Default()

	confFile := os.Getenv("CONFIG_FILE")
	explicit := confFile != ""
	if !explicit {
		confFile = "config.yml"
	}
	b, err := os.ReadFile(confFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, conf); err != nil {
			return nil, fmt.Errorf("error unmarshaling config file '%s': %w", confFile, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// The default file is optional
	default:
		return nil, fmt.Errorf("error reading config file '%s': %w", confFile, err)
	}

	if err := applyEnv(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func applyEnv(conf *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT '%s': %w", v, err)
		}
		conf.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		conf.Database.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		conf.Log.Level = v
	}
	if v := os.Getenv("PAYMENT_LINK_BASE"); v != "" {
		conf.PayLink.BaseURL = v
	}
	if v := os.Getenv("APPLY_SETTLEMENTS"); v != "" {
		apply, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid APPLY_SETTLEMENTS '%s': %w", v, err)
		}
		conf.Balances.ApplySettlements = apply
	}
	return nil
}
