package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MODCLUSTER_LOG_LEVEL.
const EnvPrefix = "MODCLUSTER"

// Settings are the resolved tool settings.
type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	Transform TransformSettings `mapstructure:"transform"`
	Output    OutputSettings    `mapstructure:"output"`
	Watch     WatchSettings     `mapstructure:"watch"`
	Metrics   MetricsSettings   `mapstructure:"metrics"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type TransformSettings struct {
	// Target is the schema version older peers run.
	Target string `mapstructure:"target"`
}

type OutputSettings struct {
	Indent string `mapstructure:"indent"`
}

type WatchSettings struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

type MetricsSettings struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", string(log.InfoLevel))
	v.SetDefault("log.json", false)
	v.SetDefault("transform.target", schema.Version1_0.String())
	v.SetDefault("output.indent", "    ")
	v.SetDefault("watch.debounce_ms", 300)
	v.SetDefault("metrics.addr", ":9090")
}

// Load reads path, when not empty, and applies environment overrides.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values viper cannot type-check.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := s.TargetVersion(); err != nil {
		errs = append(errs, fmt.Errorf("transform.target: %w", err))
	}
	if s.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce_ms: must not be negative, got %d", s.Watch.DebounceMs))
	}
	return errors.Join(errs...)
}

// TargetVersion parses Transform.Target and checks it names a known
// generation.
func (s *Settings) TargetVersion() (schema.Version, error) {
	v, err := schema.ParseVersion(s.Transform.Target)
	if err != nil {
		return schema.Version{}, err
	}
	if _, err := schema.GenerationFor(v); err != nil {
		return schema.Version{}, err
	}
	return v, nil
}

// Debounce returns the watch debounce interval.
func (s *Settings) Debounce() time.Duration {
	return time.Duration(s.Watch.DebounceMs) * time.Millisecond
}

// LogConfig returns the logger configuration for log.Init.
func (s *Settings) LogConfig() log.Config {
	return log.Config{Level: log.ParseLevel(s.Log.Level), JSONOutput: s.Log.JSON}
}
