// ABOUTME: Configuration loading for the tone player
// ABOUTME: Layers viper defaults, an optional config file and RESONATE_TONE_* environment variables
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/osc"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names
const EnvPrefix = "RESONATE_TONE"

// Config holds the resolved settings
type Config struct {
	Backend    string  `mapstructure:"backend"`
	SampleRate float64 `mapstructure:"sample_rate"`
	Frequency  float64 `mapstructure:"frequency"`
	Amplitude  float64 `mapstructure:"amplitude"`
	LogFile    string  `mapstructure:"log_file"`
	TUI        bool    `mapstructure:"tui"`

	Bridge BridgeConfig `mapstructure:"bridge"`
	Null   NullConfig   `mapstructure:"null"`
}

// BridgeConfig configures the WebSocket host bridge
type BridgeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Name    string `mapstructure:"name"`
	MDNS    bool   `mapstructure:"mdns"`
}

// NullConfig configures the null backend
type NullConfig struct {
	PeriodMs int `mapstructure:"period_ms"`
}

// NullPeriod returns the null backend tick interval
func (c Config) NullPeriod() time.Duration {
	return time.Duration(c.Null.PeriodMs) * time.Millisecond
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper, backend string) {
	v.SetDefault("backend", backend)
	v.SetDefault("sample_rate", audio.DefaultSampleRate)
	v.SetDefault("frequency", osc.DefaultFrequency)
	v.SetDefault("amplitude", osc.DefaultAmplitude)
	v.SetDefault("log_file", "resonate-tone.log")
	v.SetDefault("tui", true)
	v.SetDefault("bridge.enabled", false)
	v.SetDefault("bridge.port", 8928)
	v.SetDefault("bridge.name", "")
	v.SetDefault("bridge.mdns", true)
	v.SetDefault("null.period_ms", int(output.DefaultNullPeriod/time.Millisecond))
}

// Load resolves configuration from defaults, the file at path (optional,
// empty means search the working directory and $HOME/.config/resonate-tone)
// and the environment.
func Load(v *viper.Viper, path, defaultBackend string) (Config, error) {
	SetDefaults(v, defaultBackend)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file not found: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("resonate-tone")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/resonate-tone")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("No config file found, using defaults")
	} else {
		log.Printf("Loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can start a stream
func (c Config) Validate() error {
	if !slices.Contains(output.Backends(), c.Backend) {
		return fmt.Errorf("unknown backend %q (supported: %v)", c.Backend, output.Backends())
	}
	if !positiveFinite(c.SampleRate) {
		return fmt.Errorf("sample_rate must be a positive finite number, got %v", c.SampleRate)
	}
	if !positiveFinite(c.Frequency) {
		return fmt.Errorf("frequency must be a positive finite number, got %v", c.Frequency)
	}
	// NaN fails both comparisons
	if !(c.Amplitude >= 0 && c.Amplitude <= 1) {
		return fmt.Errorf("amplitude must be within [0, 1], got %v", c.Amplitude)
	}
	if c.Bridge.Enabled && (c.Bridge.Port <= 0 || c.Bridge.Port > 65535) {
		return fmt.Errorf("bridge.port out of range: %d", c.Bridge.Port)
	}
	if c.Bridge.Enabled && c.Backend != output.BackendHost {
		return fmt.Errorf("bridge requires backend %q, got %q", output.BackendHost, c.Backend)
	}
	return nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
