package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port int `json:"port"`
	// BaseURL overrides request-derived share URLs, e.g. behind a proxy.
	BaseURL string `json:"base_url"`
	// DBDSN points at the durable location store; empty disables the durable
	// path and every share goes straight to the ephemeral registry.
	DBDSN string `json:"db_dsn"`
	// Owner is the identity durable rows are written under.
	Owner              string           `json:"owner"`
	CORSAllowlist      []string         `json:"cors_allowlist"`
	CreateWindowMillis int64            `json:"create_window_ms"`
	Sweep              SweepConfig      `json:"sweep"`
	GeoEndpoint        string           `json:"geo_endpoint"`
	LogConfig          logger.LogConfig `json:"log_config"`
}

type SweepConfig struct {
	Enabled bool   `json:"enabled"`
	Spec    string `json:"spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Owner == "" {
		cfg.Owner = "default"
	}
	if cfg.Sweep.Enabled && cfg.Sweep.Spec == "" {
		cfg.Sweep.Spec = "*/5 * * * *"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return &cfg, nil
}
