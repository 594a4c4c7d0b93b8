// Package config loads the oxygen tool configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jiaziui/oxygensensor/oxygen"
)

const (
	AdapterGeneric = "generic"
	AdapterNanoPi  = "nanopi"
	AdapterMCP2221 = "mcp2221"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Influx struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func (i Influx) Enabled() bool {
	return i.URL != ""
}

type Config struct {
	Adapter       string        `yaml:"adapter"`
	Device        string        `yaml:"device"`
	Bus           int           `yaml:"bus"`
	SpeedKHz      int           `yaml:"speed_khz"`
	Address       byte          `yaml:"address"`
	Window        int           `yaml:"window"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	ProbeInterval time.Duration `yaml:"probe_interval"`
	Listen        string        `yaml:"listen"`
	Influx        Influx        `yaml:"influx"`
}

func Default() Config {
	return Config{
		Adapter:       AdapterGeneric,
		Device:        "/dev/i2c-1",
		SpeedKHz:      100,
		Address:       oxygen.DefaultAddress,
		Window:        20,
		PollInterval:  2 * time.Second,
		ProbeInterval: time.Minute,
		Listen:        ":8080",
	}
}

// LoadEnv loads .env style files into the process environment. Missing files
// are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("could not load env file %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path on top of the defaults and applies
// OXYGEN_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("could not open config file: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("could not decode config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"OXYGEN_ADAPTER":       &c.Adapter,
		"OXYGEN_DEVICE":        &c.Device,
		"OXYGEN_LISTEN":        &c.Listen,
		"OXYGEN_INFLUX_URL":    &c.Influx.URL,
		"OXYGEN_INFLUX_TOKEN":  &c.Influx.Token,
		"OXYGEN_INFLUX_ORG":    &c.Influx.Org,
		"OXYGEN_INFLUX_BUCKET": &c.Influx.Bucket,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("OXYGEN_ADDRESS"); ok {
		addr, err := strconv.ParseUint(v, 0, 8)
		if err != nil {
			return fmt.Errorf("%w: OXYGEN_ADDRESS %q: %w", ErrInvalidConfig, v, err)
		}
		c.Address = byte(addr)
	}
	if v, ok := os.LookupEnv("OXYGEN_WINDOW"); ok {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: OXYGEN_WINDOW %q: %w", ErrInvalidConfig, v, err)
		}
		c.Window = w
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterGeneric, AdapterNanoPi, AdapterMCP2221:
	default:
		return fmt.Errorf("%w: unknown adapter %q", ErrInvalidConfig, c.Adapter)
	}
	if c.Window < 1 || c.Window > oxygen.HistoryCapacity {
		return fmt.Errorf("%w: window must be within 1..%d, got %d", ErrInvalidConfig, oxygen.HistoryCapacity, c.Window)
	}
	if c.PollInterval <= 0 || c.ProbeInterval <= 0 {
		return fmt.Errorf("%w: poll and probe intervals must be positive", ErrInvalidConfig)
	}
	if c.SpeedKHz <= 0 {
		return fmt.Errorf("%w: bus speed must be positive", ErrInvalidConfig)
	}
	return nil
}
