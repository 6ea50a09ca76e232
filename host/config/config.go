package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the hapticctl configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Sim       SimConfig       `yaml:"sim"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	ReadTimeout int    `yaml:"read_timeout"` // Milliseconds
}

// WebSocketConfig contains the remote bridge endpoint.
type WebSocketConfig struct {
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`
}

// TelemetryConfig describes how raw codes map to physical units.
type TelemetryConfig struct {
	FullScaleVolts float64       `yaml:"front_end_full_scale_volts"` // Volts at MaxCode
	MaxCode        uint32        `yaml:"front_end_max_code"`
	ReferenceLabel string        `yaml:"reference_label"`
	CommandGap     time.Duration `yaml:"command_gap"` // Idle time between command frames
}

// SimConfig contains simulated board parameters.
type SimConfig struct {
	ScanInterval time.Duration `yaml:"scan_interval"`
	Noise        float64       `yaml:"noise"`        // Fraction of full scale
	SupplyVolts  float64       `yaml:"supply_volts"` // Simulated VDDA
	Listen       string        `yaml:"listen"`       // Bridge address
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyACM0",
			Baud:        115200,
			ReadTimeout: 100,
		},
		Telemetry: TelemetryConfig{
			FullScaleVolts: 5.0,
			MaxCode:        0x7FFFFF,
			ReferenceLabel: "VDDA",
			CommandGap:     5 * time.Millisecond,
		},
		Sim: SimConfig{
			ScanInterval: 8 * time.Millisecond,
			Noise:        0.002,
			SupplyVolts:  3.3,
			Listen:       "127.0.0.1:8765",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills zero fields a YAML file may have left behind.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}

	if c.Telemetry.FullScaleVolts == 0 {
		c.Telemetry.FullScaleVolts = def.Telemetry.FullScaleVolts
	}
	if c.Telemetry.MaxCode == 0 {
		c.Telemetry.MaxCode = def.Telemetry.MaxCode
	}
	if c.Telemetry.ReferenceLabel == "" {
		c.Telemetry.ReferenceLabel = def.Telemetry.ReferenceLabel
	}
	if c.Telemetry.CommandGap == 0 {
		c.Telemetry.CommandGap = def.Telemetry.CommandGap
	}

	if c.Sim.ScanInterval == 0 {
		c.Sim.ScanInterval = def.Sim.ScanInterval
	}
	if c.Sim.SupplyVolts == 0 {
		c.Sim.SupplyVolts = def.Sim.SupplyVolts
	}
	if c.Sim.Listen == "" {
		c.Sim.Listen = def.Sim.Listen
	}
}
