// Package config loads bubblerow's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/bubblerow/config.toml (falling back to
// ~/.config/bubblerow/config.toml). Every key is optional; [Default]
// supplies the rest. Command-line flags override file values.
//
//	metric = "turnover"
//	item_spacing = 120.0
//	quiet_period = "80ms"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bubblerow/pkg/cache"
	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

const appName = "bubblerow"

// Config is the full configuration file.
type Config struct {
	Metric        string   `toml:"metric"`
	Data          string   `toml:"data,omitempty"`
	GapRatio      float64  `toml:"gap_ratio"`
	FixedGap      float64  `toml:"fixed_gap"`
	ItemSpacing   float64  `toml:"item_spacing"`
	QuietPeriod   Duration `toml:"quiet_period"`
	DriveTimeout  Duration `toml:"drive_timeout"`
	StableEpsilon float64  `toml:"stable_epsilon"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir,omitempty"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures `bubblerow serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	SessionTTL  Duration `toml:"session_ttl"`
	MaxSessions int      `toml:"max_sessions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Metric:        string(pipeline.DefaultMetric),
		GapRatio:      pipeline.DefaultGapRatio,
		ItemSpacing:   pipeline.DefaultSpacing,
		QuietPeriod:   Duration(scroll.DefaultQuietPeriod),
		DriveTimeout:  Duration(scroll.DefaultDriveTimeout),
		StableEpsilon: scroll.DefaultEpsilon,
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			TTL:           Duration(24 * time.Hour),
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: cache.DefaultMongoDatabase,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			SessionTTL:  Duration(30 * time.Minute),
			MaxSessions: 1024,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path means [Path]; a missing
// file at the default location is not an error, but a missing file that
// was named explicitly is.
func Load(path string) (Config, []string, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Default(), nil, nil
	}
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()

	cfg, undecoded, err := Decode(f)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, undecoded, nil
}

// Decode parses TOML over the defaults and validates the result. The
// returned keys were present but not recognised.
func Decode(r io.Reader) (Config, []string, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	var undecoded []string
	for _, k := range md.Undecoded() {
		undecoded = append(undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, undecoded, err
	}
	return cfg, undecoded, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String renders cfg as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := entity.ParseMetric(c.Metric); err != nil {
		return err
	}
	if err := errors.ValidateGapRatio(c.GapRatio); err != nil {
		return err
	}
	if err := errors.ValidateFixedGap(c.FixedGap); err != nil {
		return err
	}
	if err := errors.ValidateSpacing(c.ItemSpacing); err != nil {
		return err
	}
	if c.QuietPeriod <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "quiet_period must be positive")
	}
	if c.DriveTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "drive_timeout must be positive")
	}
	if !(c.StableEpsilon > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "stable_epsilon must be positive")
	}
	if c.Data != "" {
		if err := errors.ValidatePath(c.Data); err != nil {
			return err
		}
	}
	if !validBackend(c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server session_ttl must be positive")
	}
	if c.Server.MaxSessions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_sessions cannot be negative")
	}
	return nil
}

func validBackend(b string) bool {
	for _, v := range cache.Backends {
		if v == b {
			return true
		}
	}
	return false
}

// TrackerConfig returns the scroll tracker settings.
func (c Config) TrackerConfig() scroll.Config {
	return scroll.Config{
		Spacing:      c.ItemSpacing,
		QuietPeriod:  time.Duration(c.QuietPeriod),
		DriveTimeout: time.Duration(c.DriveTimeout),
		Epsilon:      c.StableEpsilon,
	}
}

// CacheOptions returns the backend selection. dir is used for the file
// backend when the config does not name one.
func (c Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}

// PipelineOptions returns layout options seeded from the config.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Metric:   c.Metric,
		GapRatio: c.GapRatio,
		FixedGap: c.FixedGap,
		DataPath: c.Data,
	}
}
