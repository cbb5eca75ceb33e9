// Package config loads daemon configuration from an optional YAML file.
// Flags override file values; the file overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/fader-sensor/internal/gpio"
	"github.com/sweeney/fader-sensor/internal/sampler"
	"github.com/sweeney/fader-sensor/internal/volume"
)

// Config is the complete daemon configuration.
type Config struct {
	Pins     Pins     `yaml:"pins"`
	Sampling Sampling `yaml:"sampling"`
	Volume   Volume   `yaml:"volume"`
	MQTT     MQTT     `yaml:"mqtt"`
	HTTP     HTTP     `yaml:"http"`
}

// Pins selects the BCM line numbers of the RC pin pair.
type Pins struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

// Sampling controls the measurement loop.
type Sampling struct {
	Interval  time.Duration `yaml:"interval"`
	Settle    time.Duration `yaml:"settle"`
	MaxCount  uint32        `yaml:"max_count"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// Volume holds the conditioning parameters.
type Volume struct {
	RangeMin  uint32  `yaml:"range_min"`
	RangeMax  uint32  `yaml:"range_max"`
	Curve     string  `yaml:"curve"`
	DBMin     float32 `yaml:"db_min"`
	DBMax     float32 `yaml:"db_max"`
	RateUp    float32 `yaml:"rate_up"`
	RateDown  float32 `yaml:"rate_down"`
	RateLimit bool    `yaml:"rate_limit"`
}

// MQTT configures the push sink.
type MQTT struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Topic       string `yaml:"topic"`
	TopicSystem string `yaml:"topic_system"`
	Channel     string `yaml:"channel"`
}

// HTTP configures the pull sink.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	vol := volume.DefaultConfig()
	return Config{
		Pins: Pins{A: gpio.DefaultPinA, B: gpio.DefaultPinB},
		Sampling: Sampling{
			Interval:  time.Second,
			Settle:    sampler.DefaultSettle,
			MaxCount:  sampler.DefaultMaxCount,
			Heartbeat: 15 * time.Minute,
		},
		Volume: Volume{
			RangeMin:  vol.RangeMin,
			RangeMax:  vol.RangeMax,
			Curve:     vol.Curve.String(),
			DBMin:     vol.DBMin,
			DBMax:     vol.DBMax,
			RateUp:    vol.RateUp,
			RateDown:  vol.RateDown,
			RateLimit: vol.RateLimit,
		},
		MQTT: MQTT{
			Enabled:     true,
			Broker:      "tcp://192.168.1.200:1883",
			ClientID:    "fader-sensor",
			Topic:       "audio/fader/volume",
			TopicSystem: "audio/fader/system",
			Channel:     "main",
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c Config) Validate() error {
	if c.Pins.A == c.Pins.B {
		return fmt.Errorf("pins: a and b must differ (both %d)", c.Pins.A)
	}
	if c.Pins.A < 0 || c.Pins.B < 0 {
		return fmt.Errorf("pins: negative line number")
	}
	if c.Sampling.Interval <= 0 {
		return fmt.Errorf("sampling: interval must be positive, got %v", c.Sampling.Interval)
	}
	if c.Sampling.MaxCount == 0 {
		return fmt.Errorf("sampling: max_count must be positive")
	}
	if c.Volume.RangeMax <= c.Volume.RangeMin {
		return fmt.Errorf("volume: range_max (%d) must exceed range_min (%d)",
			c.Volume.RangeMax, c.Volume.RangeMin)
	}
	if _, err := volume.ParseCurve(c.Volume.Curve); err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	if c.Volume.DBMax <= c.Volume.DBMin {
		return fmt.Errorf("volume: db_max (%v) must exceed db_min (%v)",
			c.Volume.DBMax, c.Volume.DBMin)
	}
	if c.Volume.RateLimit && (c.Volume.RateUp <= 0 || c.Volume.RateDown <= 0) {
		return fmt.Errorf("volume: slew rates must be positive when rate_limit is on")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker required when enabled")
	}
	return nil
}

// VolumeConfig converts the file representation into pipeline parameters.
// Call Validate first; an invalid curve falls back to linear here.
func (c Config) VolumeConfig() volume.Config {
	curve, _ := volume.ParseCurve(c.Volume.Curve)
	return volume.Config{
		RangeMin:  c.Volume.RangeMin,
		RangeMax:  c.Volume.RangeMax,
		Curve:     curve,
		DBMin:     c.Volume.DBMin,
		DBMax:     c.Volume.DBMax,
		RateUp:    c.Volume.RateUp,
		RateDown:  c.Volume.RateDown,
		RateLimit: c.Volume.RateLimit,
	}
}
