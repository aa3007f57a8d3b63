// Package config loads run settings from a YAML file.
//
// Example:
//
//	engine:
//	  command: ./temain
//	  verbose: false
//	  timeout: 10m
//	input:
//	  zeros: 100
//	  disturbances: [1, 6]
//	  onset: 20
//	output:
//	  csv: out/run.csv
//	  pdf: out/report.pdf
//	  plots: ["XMEAS(7)", "XMEAS(9)"]
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/tep_simulator_go/internal/tep"
)

// Config is the whole run file.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
}

// EngineConfig describes how to start the simulator binary.
type EngineConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Env     []string      `yaml:"env"`
	Dir     string        `yaml:"dir"`
	Verbose bool          `yaml:"verbose"`
	Timeout time.Duration `yaml:"timeout"`
}

// InputConfig selects the disturbance series: a CSV file, or a generated
// scenario of Zeros samples with Disturbances switched on from Onset.
type InputConfig struct {
	CSV          string `yaml:"csv"`
	Zeros        int    `yaml:"zeros"`
	Disturbances []int  `yaml:"disturbances"`
	Onset        int    `yaml:"onset"`
}

// OutputConfig lists the artifacts to write. Empty paths are skipped.
type OutputConfig struct {
	CSV     string   `yaml:"csv"`
	PDF     string   `yaml:"pdf"`
	Catalog string   `yaml:"catalog"`
	Plots   []string `yaml:"plots"` // channels for the line plot
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Command: "temain"},
		Input:  InputConfig{Zeros: 5},
		Output: OutputConfig{Plots: []string{"XMEAS(7)", "XMEAS(8)", "XMEAS(9)"}},
	}
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Engine.Timeout < 0 {
		return fmt.Errorf("engine.timeout must not be negative")
	}
	if c.Input.Zeros < 0 {
		return fmt.Errorf("input.zeros must not be negative")
	}
	if c.Input.Onset < 0 {
		return fmt.Errorf("input.onset must not be negative")
	}
	for _, ch := range c.Input.Disturbances {
		if ch < 1 || ch > tep.NumDisturbances {
			return fmt.Errorf("input.disturbances: no channel %s", tep.DisturbanceLabel(ch))
		}
	}
	return nil
}

// Verbosity maps the verbose switch to the engine flag.
func (e EngineConfig) Verbosity() tep.Verbosity {
	if e.Verbose {
		return tep.Verbose
	}
	return tep.Quiet
}
