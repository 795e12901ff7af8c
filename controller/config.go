package controller

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/calvinmclean/ardumoto"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSpeed     = errors.New("invalid speed")
	ErrInvalidStepCount = errors.New("invalid steps per revolution")
)

// Config has the connection and motor settings for a Controller
type Config struct {
	// SerialPort is the firmware's port. Empty picks the first USB serial port and SerialPortNone runs
	// a simulated motor in-process.
	SerialPort string `env:"ARDUMOTO_SERIAL_PORT"`
	BaudRate   int    `env:"ARDUMOTO_BAUD_RATE" envDefault:"115200"`

	// StepsPerRevolution is used by the simulated motor. Over serial the firmware reports its own value,
	// which takes precedence.
	StepsPerRevolution int `env:"ARDUMOTO_STEPS_PER_REV" envDefault:"200"`
	RPM                int `env:"ARDUMOTO_RPM" envDefault:"60"`

	// ProfileFile is an optional YAML motor profile that overrides StepsPerRevolution and RPM
	ProfileFile string `env:"ARDUMOTO_PROFILE"`

	// ResetDelay is how long to wait after opening the port, since most boards reset when it opens
	ResetDelay time.Duration `env:"ARDUMOTO_RESET_DELAY" envDefault:"2s"`
	// Timeout is how long to wait for the firmware to acknowledge a command, on top of the move duration
	Timeout time.Duration `env:"ARDUMOTO_TIMEOUT" envDefault:"2s"`
}

// DefaultConfig returns the same values NewConfigFromEnv uses when nothing is set
func DefaultConfig() Config {
	return Config{
		BaudRate:           115200,
		StepsPerRevolution: 200,
		RPM:                60,
		ResetDelay:         2 * time.Second,
		Timeout:            2 * time.Second,
	}
}

// NewConfigFromEnv parses the Config from environment variables and applies the profile, if any
func NewConfigFromEnv() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error parsing environment: %w", err)
	}

	if cfg.ProfileFile != "" {
		profile, err := LoadProfile(cfg.ProfileFile)
		if err != nil {
			return Config{}, err
		}
		profile.Apply(&cfg)
	}

	return cfg, cfg.Validate()
}

// Validate checks the motor settings. The driver itself does not validate them.
func (c Config) Validate() error {
	if c.StepsPerRevolution <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStepCount, c.StepsPerRevolution)
	}
	return validateSpeed(c.RPM)
}

func validateSpeed(rpm int) error {
	if rpm <= 0 || rpm > ardumoto.MaxRPM {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, rpm)
	}
	return nil
}

// Profile describes a motor so its settings can be kept in a file
type Profile struct {
	Name               string `yaml:"name"`
	StepsPerRevolution int    `yaml:"steps_per_revolution"`
	RPM                int    `yaml:"rpm"`
}

// LoadProfile reads a Profile from a YAML file
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("error reading profile: %w", err)
	}

	var p Profile
	err = yaml.Unmarshal(data, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("error parsing profile %q: %w", path, err)
	}

	return p, nil
}

// Apply overrides the Config with the Profile's non-zero values
func (p Profile) Apply(cfg *Config) {
	if p.StepsPerRevolution != 0 {
		cfg.StepsPerRevolution = p.StepsPerRevolution
	}
	if p.RPM != 0 {
		cfg.RPM = p.RPM
	}
}
