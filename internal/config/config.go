package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

const DefaultDocsURL = "https://raw.githubusercontent.com/AscendingHeavens/falcon/main/docs.json"

type Config struct {
	Port    string `koanf:"port"     validate:"required,numeric"`
	SiteURL string `koanf:"site_url" validate:"omitempty,url"`

	// Upstream documentation document
	DocsURL         string        `koanf:"docs_url"         validate:"required,url"`
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"gt=0"`

	// Rate limit for /api routes, requests per second (0 disables)
	APIRate  float64 `koanf:"api_rate"  validate:"gte=0"`
	APIBurst int     `koanf:"api_burst" validate:"gte=0"`

	LogLevel       string `koanf:"log_level"       validate:"oneof=debug info warn error"`
	HighlightStyle string `koanf:"highlight_style" validate:"required"`

	Framework Framework `koanf:"framework"`
}

// Framework describes the documented framework for page chrome and snippets.
type Framework struct {
	Name    string `koanf:"name"     validate:"required"`
	Version string `koanf:"version"`
	Module  string `koanf:"module"   validate:"required"`
	RepoURL string `koanf:"repo_url" validate:"omitempty,url"`
	PkgURL  string `koanf:"pkg_url"  validate:"omitempty,url"`
}

func Defaults() Config {
	return Config{
		Port: "3000",

		DocsURL:         DefaultDocsURL,
		UpstreamTimeout: 10 * time.Second,

		APIRate:  5,
		APIBurst: 10,

		LogLevel:       "info",
		HighlightStyle: "github",

		Framework: Framework{
			Name:    "Falcon",
			Version: "v1.0.7",
			Module:  "github.com/AscendingHeavens/falcon",
			RepoURL: "https://github.com/AscendingHeavens/falcon",
			PkgURL:  "https://pkg.go.dev/github.com/ascendingheavens/falcon",
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file at path
// and environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("SITE_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.SiteURL = envOr("SITE_URL", cfg.SiteURL)
	cfg.DocsURL = envOr("DOCS_URL", cfg.DocsURL)
	cfg.UpstreamTimeout = envDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.APIRate = envFloat("API_RATE", cfg.APIRate)
	cfg.APIBurst = envInt("API_BURST", cfg.APIBurst)
	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", cfg.LogLevel))
	cfg.HighlightStyle = envOr("HIGHLIGHT_STYLE", cfg.HighlightStyle)

	cfg.Framework.Name = envOr("FRAMEWORK_NAME", cfg.Framework.Name)
	cfg.Framework.Version = envOr("FRAMEWORK_VERSION", cfg.Framework.Version)
	cfg.Framework.Module = envOr("FRAMEWORK_MODULE", cfg.Framework.Module)
	cfg.Framework.RepoURL = envOr("FRAMEWORK_REPO_URL", cfg.Framework.RepoURL)
	cfg.Framework.PkgURL = envOr("FRAMEWORK_PKG_URL", cfg.Framework.PkgURL)

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 10 * time.Second
	}
	if cfg.APIRate > 0 && cfg.APIBurst <= 0 {
		cfg.APIBurst = 1
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return oops.
			Code("CONFIG_INVALID").
			With("path", path).
			Hint("Fix TOML syntax in the site config").
			Wrapf(err, "loading config from %q", path)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return oops.
			Code("CONFIG_INVALID").
			With("path", path).
			Wrapf(err, "decoding config from %q", path)
	}
	return nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return oops.Code("CONFIG_INVALID").Wrapf(err, "validating config")
	}

	fe := validationErrors[0]
	return oops.
		Code("CONFIG_INVALID").
		With("field", fe.Namespace()).
		With("value", fe.Value()).
		Errorf("invalid %s: failed %q check", fe.Namespace(), fe.Tag())
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
