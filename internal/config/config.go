// Package config loads okrview settings from an optional YAML file and
// OKRVIEW_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/tree"
)

type Config struct {
	API      APIConfig   `yaml:"api"`
	Cache    CacheConfig `yaml:"cache"`
	View     ViewConfig  `yaml:"view"`
	LogCalls bool        `yaml:"log_calls"`
}

type APIConfig struct {
	BaseURL       string   `yaml:"base_url"`
	CSRFToken     string   `yaml:"csrf_token"`
	SessionCookie string   `yaml:"session_cookie"`
	Timeout       Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

type ViewConfig struct {
	Direction domain.Direction `yaml:"direction"`
	FitDelay  Duration         `yaml:"fit_delay"`
	MinZoom   float64          `yaml:"min_zoom"`
	MaxZoom   float64          `yaml:"max_zoom"`
}

// Duration wraps time.Duration so YAML can use strings like "150ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// DefaultConfig targets a local server and caches under ~/.okrview.
func DefaultConfig() Config {
	cachePath := "okrview.db"
	if home, err := os.UserHomeDir(); err == nil {
		cachePath = filepath.Join(home, ".okrview", "cache.db")
	}
	api := okrapi.DefaultConfig()
	fit := tree.DefaultFitOptions()
	return Config{
		API: APIConfig{
			BaseURL: api.BaseURL,
			Timeout: Duration(time.Duration(api.TimeoutMs) * time.Millisecond),
		},
		Cache: CacheConfig{Path: cachePath},
		View: ViewConfig{
			Direction: domain.DirectionLR,
			FitDelay:  Duration(150 * time.Millisecond),
			MinZoom:   fit.MinZoom,
			MaxZoom:   fit.MaxZoom,
		},
	}
}

// Load reads the first config file found by FindConfigPath, if any, then
// applies environment overrides.
func Load() (Config, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		applyEnv(&cfg)
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path over the defaults, then applies environment
// overrides.
func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// applyEnv overrides cfg from OKRVIEW_* variables. Unparseable values are
// ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OKRVIEW_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("OKRVIEW_CSRF_TOKEN"); v != "" {
		cfg.API.CSRFToken = v
	}
	if v := os.Getenv("OKRVIEW_SESSION"); v != "" {
		cfg.API.SessionCookie = v
	}
	if v := os.Getenv("OKRVIEW_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.Timeout = Duration(time.Duration(n) * time.Millisecond)
		}
	}
	if v := os.Getenv("OKRVIEW_CACHE_DB"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("OKRVIEW_NO_CACHE"); v != "" {
		cfg.Cache.Disabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("OKRVIEW_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("OKRVIEW_DIRECTION"); v != "" {
		if d, err := domain.ParseDirection(v); err == nil {
			cfg.View.Direction = d
		}
	}
	if v := os.Getenv("OKRVIEW_FIT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.View.FitDelay = Duration(time.Duration(n) * time.Millisecond)
		}
	}
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if _, err := domain.ParseDirection(string(c.View.Direction)); err != nil {
		errs = append(errs, fmt.Errorf("view.direction: %w", err))
	}
	if c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom {
		errs = append(errs, fmt.Errorf("view zoom bounds [%g, %g] are invalid", c.View.MinZoom, c.View.MaxZoom))
	}
	return errors.Join(errs...)
}

// OKRAPI returns the client settings.
func (c Config) OKRAPI() okrapi.Config {
	return okrapi.Config{
		BaseURL:       c.API.BaseURL,
		CSRFToken:     c.API.CSRFToken,
		SessionCookie: c.API.SessionCookie,
		TimeoutMs:     int(c.API.Timeout.Duration().Milliseconds()),
		LogCalls:      c.LogCalls,
	}
}

// FitOptions returns the viewport bounds.
func (c Config) FitOptions() tree.FitOptions {
	opts := tree.DefaultFitOptions()
	opts.MinZoom = c.View.MinZoom
	opts.MaxZoom = c.View.MaxZoom
	return opts
}
