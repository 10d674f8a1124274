// Package config loads config.yaml from the config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/layout"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/session"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/watchdog"

	"github.com/spf13/viper"
)

const (
	DirEnv    = "REVAR_CONFIG_DIR"
	EnvPrefix = "REVAR"
	FileName  = "config.yaml"
	dirName   = ".revolution-ar"
)

const (
	KeyCatalogSource = "catalog.source"

	KeyEntryTimeout     = "session.entry_timeout"
	KeyTrackingDeadline = "session.tracking_deadline"

	KeyTrackingThreshold = "tracking.threshold"
	KeyTrackingSamples   = "tracking.required_samples"

	KeyPerfWarmup     = "performance.warmup"
	KeyPerfInterval   = "performance.interval"
	KeyPerfMinFPS     = "performance.min_fps"
	KeyPerfLowSamples = "performance.low_samples"

	KeyCardWidth     = "layout.card_width"
	KeyCardHeight    = "layout.card_height"
	KeyGap           = "layout.gap"
	KeyMinRadius     = "layout.min_radius"
	KeyMaxRadius     = "layout.max_radius"
	KeyHeight        = "layout.height"
	KeyForwardOffset = "layout.forward_offset"
	KeyFloatLift     = "layout.float_lift"
	KeyFloatPeriod   = "layout.float_period"
	KeyFloatStagger  = "layout.float_stagger"

	KeySimSecure     = "simulator.secure"
	KeySimXR         = "simulator.xr"
	KeySimEntryDelay = "simulator.entry_delay"
	KeySimFPS        = "simulator.fps"

	KeyLogFile  = "log.file"
	KeyLogLevel = "log.level"
)

// DefaultYAML is written to config.yaml on first run.
const DefaultYAML = `# Revolution AR showcase configuration.
# Every key can be overridden with an env var: REVAR_<SECTION>_<KEY>.

catalog:
  # data.json, data.yaml, https://host/data.json or sqlite:///path/catalog.db
  source: data.json

session:
  entry_timeout: 5.5s
  tracking_deadline: 7s

tracking:
  threshold: 0.02
  required_samples: 3

performance:
  warmup: 9s
  interval: 1s
  min_fps: 15
  low_samples: 3

layout:
  card_width: 1.15
  card_height: 0.68
  gap: 0.25
  min_radius: 1.25
  max_radius: 1.75
  height: 1.35
  forward_offset: -0.25
  float_lift: 0.02
  float_period: 1.2s
  float_stagger: 180ms

simulator:
  secure: true
  xr: true
  entry_delay: 800ms
  fps: 60

log:
  # file: /tmp/showcase.log
  level: info
`

type Simulator struct {
	Secure     bool          `json:"secure"`
	XR         bool          `json:"xr"`
	EntryDelay time.Duration `json:"entry_delay"`
	FPS        int           `json:"fps"`
}

type Log struct {
	File  string `json:"file,omitempty"`
	Level string `json:"level"`
}

type Config struct {
	// Path is the config file that was read; empty when none exists.
	Path string `json:"path,omitempty"`

	CatalogSource string                     `json:"catalog_source"`
	EntryTimeout  time.Duration              `json:"entry_timeout"`
	Tracking      watchdog.TrackingConfig    `json:"tracking"`
	Performance   watchdog.PerformanceConfig `json:"performance"`
	Layout        layout.Params              `json:"layout"`
	Simulator     Simulator                  `json:"simulator"`
	Log           Log                        `json:"log"`
}

// Session is the controller configuration.
func (c Config) Session() session.Config {
	return session.Config{
		EntryTimeout: c.EntryTimeout,
		Tracking:     c.Tracking,
		Performance:  c.Performance,
		Layout:       c.Layout,
	}
}

var (
	ErrNonPositive = errors.New("must be positive")
	ErrLogLevel    = errors.New("log level must be debug, info, warn or error")
)

func (c Config) Validate() error {
	durations := []struct {
		key string
		d   time.Duration
	}{
		{KeyEntryTimeout, c.EntryTimeout},
		{KeyTrackingDeadline, c.Tracking.Deadline},
		{KeyPerfInterval, c.Performance.Interval},
		{KeyFloatPeriod, c.Layout.FloatPeriod},
		{KeySimEntryDelay, c.Simulator.EntryDelay},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s %w", d.key, ErrNonPositive)
		}
	}
	if c.Performance.Warmup < 0 {
		return fmt.Errorf("%s must not be negative", KeyPerfWarmup)
	}
	if c.Tracking.Threshold <= 0 {
		return fmt.Errorf("%s %w", KeyTrackingThreshold, ErrNonPositive)
	}
	if c.Tracking.RequiredSamples <= 0 {
		return fmt.Errorf("%s %w", KeyTrackingSamples, ErrNonPositive)
	}
	if c.Performance.MinFPS <= 0 {
		return fmt.Errorf("%s %w", KeyPerfMinFPS, ErrNonPositive)
	}
	if c.Performance.LowSamples <= 0 {
		return fmt.Errorf("%s %w", KeyPerfLowSamples, ErrNonPositive)
	}
	if c.Simulator.FPS <= 0 {
		return fmt.Errorf("%s %w", KeySimFPS, ErrNonPositive)
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrLogLevel, c.Log.Level)
	}
	return nil
}

// Dir resolves the config directory: flag value, then $REVAR_CONFIG_DIR,
// then ~/.revolution-ar.
func Dir(flag string) (string, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(DirEnv)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// EnsureDefault creates dir and a default config.yaml when missing. It
// reports whether it wrote the file.
func EnsureDefault(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultYAML), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func setDefaults(v *viper.Viper) {
	lp := layout.DefaultParams()
	tr := watchdog.DefaultTrackingConfig()
	pf := watchdog.DefaultPerformanceConfig()

	v.SetDefault(KeyCatalogSource, "data.json")
	v.SetDefault(KeyEntryTimeout, session.DefaultConfig().EntryTimeout)
	v.SetDefault(KeyTrackingDeadline, tr.Deadline)
	v.SetDefault(KeyTrackingThreshold, tr.Threshold)
	v.SetDefault(KeyTrackingSamples, tr.RequiredSamples)
	v.SetDefault(KeyPerfWarmup, pf.Warmup)
	v.SetDefault(KeyPerfInterval, pf.Interval)
	v.SetDefault(KeyPerfMinFPS, pf.MinFPS)
	v.SetDefault(KeyPerfLowSamples, pf.LowSamples)
	v.SetDefault(KeyCardWidth, lp.CardWidth)
	v.SetDefault(KeyCardHeight, lp.CardHeight)
	v.SetDefault(KeyGap, lp.Gap)
	v.SetDefault(KeyMinRadius, lp.MinRadius)
	v.SetDefault(KeyMaxRadius, lp.MaxRadius)
	v.SetDefault(KeyHeight, lp.Height)
	v.SetDefault(KeyForwardOffset, lp.ForwardOffset)
	v.SetDefault(KeyFloatLift, lp.FloatLift)
	v.SetDefault(KeyFloatPeriod, lp.FloatPeriod)
	v.SetDefault(KeyFloatStagger, lp.FloatStagger)
	v.SetDefault(KeySimSecure, true)
	v.SetDefault(KeySimXR, true)
	v.SetDefault(KeySimEntryDelay, 800*time.Millisecond)
	v.SetDefault(KeySimFPS, 60)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
}

// New returns a viper instance with defaults and env overrides bound to dir.
// It does not read anything yet.
func New(dir string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from dir. A missing file is not an error: defaults
// and env overrides still apply.
func Load(dir string) (Config, error) {
	v := New(dir)
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", cfg.Path, err)
	}
	return cfg, nil
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Path:          v.ConfigFileUsed(),
		CatalogSource: v.GetString(KeyCatalogSource),
		EntryTimeout:  v.GetDuration(KeyEntryTimeout),
		Tracking: watchdog.TrackingConfig{
			Threshold:       v.GetFloat64(KeyTrackingThreshold),
			RequiredSamples: v.GetInt(KeyTrackingSamples),
			Deadline:        v.GetDuration(KeyTrackingDeadline),
		},
		Performance: watchdog.PerformanceConfig{
			Warmup:     v.GetDuration(KeyPerfWarmup),
			Interval:   v.GetDuration(KeyPerfInterval),
			MinFPS:     v.GetFloat64(KeyPerfMinFPS),
			LowSamples: v.GetInt(KeyPerfLowSamples),
		},
		Layout: layout.Params{
			CardWidth:     v.GetFloat64(KeyCardWidth),
			CardHeight:    v.GetFloat64(KeyCardHeight),
			Gap:           v.GetFloat64(KeyGap),
			MinRadius:     v.GetFloat64(KeyMinRadius),
			MaxRadius:     v.GetFloat64(KeyMaxRadius),
			Height:        v.GetFloat64(KeyHeight),
			ForwardOffset: v.GetFloat64(KeyForwardOffset),
			FloatLift:     v.GetFloat64(KeyFloatLift),
			FloatPeriod:   v.GetDuration(KeyFloatPeriod),
			FloatStagger:  v.GetDuration(KeyFloatStagger),
		},
		Simulator: Simulator{
			Secure:     v.GetBool(KeySimSecure),
			XR:         v.GetBool(KeySimXR),
			EntryDelay: v.GetDuration(KeySimEntryDelay),
			FPS:        v.GetInt(KeySimFPS),
		},
		Log: Log{
			File:  v.GetString(KeyLogFile),
			Level: v.GetString(KeyLogLevel),
		},
	}
}

// Default is the built-in configuration with env overrides applied. No file
// is read.
func Default() Config {
	return FromViper(New(""))
}
