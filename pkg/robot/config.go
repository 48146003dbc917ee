package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/polibarobotics/niryodraw/pkg/niryo"
)

const DefaultConfigFile = "niryodraw.json"

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultAddress        = "169.254.200.200"
	DefaultCase           = 3
	DefaultConnectTimeout = 10 * time.Second
)

// Config holds the robot configuration
type Config struct {
	Robot      ArmConfig        `json:"robot"`
	Trajectory TrajectoryConfig `json:"trajectory"`
}

// ArmConfig holds connection settings for the arm's controller
type ArmConfig struct {
	Address        string   `json:"address"`
	Port           int      `json:"port,omitempty"`
	ConnectTimeout Duration `json:"connect_timeout,omitempty"`
}

// TrajectoryConfig holds what the run command dispatches by default
type TrajectoryConfig struct {
	Case          int     `json:"case"`
	File          string  `json:"file,omitempty"`
	DistSmoothing float64 `json:"dist_smoothing,omitempty"`
}

// IsConfigured returns true if the arm has an address
func (a *ArmConfig) IsConfigured() bool {
	return a.Address != ""
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Robot: ArmConfig{
			Address:        DefaultAddress,
			Port:           niryo.DefaultPort,
			ConnectTimeout: Duration(DefaultConnectTimeout),
		},
		Trajectory: TrajectoryConfig{
			Case: DefaultCase,
		},
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
// Keys missing from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the config file at path exists
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Duration is a time.Duration written as a string such as "5s" in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
