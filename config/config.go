package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/ucga/core/cost"
	"github.com/kilianp07/ucga/core/dispatch"
	"github.com/kilianp07/ucga/core/ga"
	"github.com/kilianp07/ucga/core/metrics"
	"github.com/kilianp07/ucga/infra/logger"
	"github.com/kilianp07/ucga/infra/monitoring"
)

// EnvPrefix marks environment overrides; nested keys use "__", e.g.
// UCGA_GA__POPULATION_SIZE=80.
const EnvPrefix = "UCGA_"

type Config struct {
	Data     DataConfig        `json:"data"`
	Dispatch dispatch.Config   `json:"dispatch"`
	Cost     cost.Params       `json:"cost"`
	GA       ga.Config         `json:"ga"`
	Metrics  metrics.Config    `json:"metrics"`
	Logging  logger.Config     `json:"logging"`
	Output   OutputConfig      `json:"output"`
	Sentry   monitoring.Config `json:"sentry"`
}

// Default returns the settings of the reference ten-unit study.
func Default() Config {
	return Config{
		Data: DataConfig{
			Fleet:  "data/kazarlis_units.csv",
			Demand: "data/kazarlis_demand.txt",
		},
		Cost: cost.Params{VOLL: 1e3, ReserveMargin: 0.1, PeriodHours: 1},
		GA:   ga.DefaultConfig(),
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates every section. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies the section defaults and checks every section.
func (c *Config) Validate() error {
	c.Dispatch.SetDefaults()
	c.Cost.SetDefaults()
	c.GA.SetDefaults()
	c.Logging.SetDefaults()
	c.Output.SetDefaults()
	checks := []struct {
		name string
		fn   func() error
	}{
		{"data", c.Data.Validate},
		{"dispatch", c.Dispatch.Validate},
		{"cost", c.Cost.Validate},
		{"ga", c.GA.Validate},
		{"logging", c.Logging.Validate},
		{"output", c.Output.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}
