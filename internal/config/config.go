// Package config loads runtime settings from defaults, a TOML file, a .env
// file, LSE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
)

// EnvPrefix prefixes every environment override, e.g. LSE_SITE_LATITUDE.
const EnvPrefix = "LSE"

// FileName is the config file searched for in the working and home
// directories, without extension.
const FileName = ".ls-eclipses"

// SiteConfig describes the observatory.
type SiteConfig struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Elevation float64 `mapstructure:"elevation"`
	UTCOffset float64 `mapstructure:"utc_offset"`
}

// CatalogConfig locates the star database.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LookupConfig configures the remote name and catalog services.
type LookupConfig struct {
	SesameURL string        `mapstructure:"sesame_url"`
	VizierURL string        `mapstructure:"vizier_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CachePath string        `mapstructure:"cache_path"` // empty disables the cache
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // used while the TUI owns the terminal
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds all runtime configuration.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Log     LogConfig     `mapstructure:"log"`
	API     APIConfig     `mapstructure:"api"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	site := plan.DefaultSite()
	return Config{
		Site: SiteConfig{
			Name:      site.Name,
			Latitude:  site.LatDeg,
			Longitude: site.LonDeg,
			Elevation: site.ElevationM,
			UTCOffset: site.UTCOffsetHours,
		},
		Catalog: CatalogConfig{Path: catalog.DefaultPath},
		Lookup: LookupConfig{
			SesameURL: lookup.SesameURL,
			VizierURL: lookup.VizierURL,
			Timeout:   lookup.DefaultTimeout,
			CachePath: "lookup_cache.db",
			CacheTTL:  lookup.DefaultCacheTTL,
		},
		Log: LogConfig{Level: "info", File: "ls-eclipses.log"},
		API: APIConfig{Addr: ":8080"},
	}
}

// SetDefaults registers every key with v so that environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("site.name", d.Site.Name)
	v.SetDefault("site.latitude", d.Site.Latitude)
	v.SetDefault("site.longitude", d.Site.Longitude)
	v.SetDefault("site.elevation", d.Site.Elevation)
	v.SetDefault("site.utc_offset", d.Site.UTCOffset)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("lookup.sesame_url", d.Lookup.SesameURL)
	v.SetDefault("lookup.vizier_url", d.Lookup.VizierURL)
	v.SetDefault("lookup.timeout", d.Lookup.Timeout)
	v.SetDefault("lookup.cache_path", d.Lookup.CachePath)
	v.SetDefault("lookup.cache_ttl", d.Lookup.CacheTTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("api.addr", d.API.Addr)
}

// Init prepares v: loads dotEnv (if present) into the process environment,
// binds LSE_* variables and reads the config file. An explicit cfgFile
// must exist; otherwise a missing file is not an error.
func Init(v *viper.Viper, cfgFile, dotEnv string) error {
	if dotEnv != "" {
		_ = godotenv.Load(dotEnv) // ignore missing file
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later.
func (c Config) Validate() error {
	if err := c.PlanSite().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Catalog.Path == "" {
		return errors.New("config: catalog.path is empty")
	}
	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("config: lookup.timeout must be positive, got %v", c.Lookup.Timeout)
	}
	return nil
}

// PlanSite converts the site section into the scheduler's immutable value.
func (c Config) PlanSite() plan.Site {
	return plan.Site{
		Name:           c.Site.Name,
		LatDeg:         c.Site.Latitude,
		LonDeg:         c.Site.Longitude,
		ElevationM:     c.Site.Elevation,
		UTCOffsetHours: c.Site.UTCOffset,
	}
}

// tomlDoc mirrors Config for writing; durations are kept as strings so the
// file stays readable and round-trips through viper.
type tomlDoc struct {
	Site struct {
		Name      string  `toml:"name"`
		Latitude  float64 `toml:"latitude"`
		Longitude float64 `toml:"longitude"`
		Elevation float64 `toml:"elevation"`
		UTCOffset float64 `toml:"utc_offset"`
	} `toml:"site"`
	Catalog struct {
		Path string `toml:"path"`
	} `toml:"catalog"`
	Lookup struct {
		SesameURL string `toml:"sesame_url"`
		VizierURL string `toml:"vizier_url"`
		Timeout   string `toml:"timeout"`
		CachePath string `toml:"cache_path"`
		CacheTTL  string `toml:"cache_ttl"`
	} `toml:"lookup"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	API struct {
		Addr string `toml:"addr"`
	} `toml:"api"`
}

// WriteTOML encodes cfg as a TOML document.
func WriteTOML(w io.Writer, cfg Config) error {
	var doc tomlDoc
	doc.Site.Name = cfg.Site.Name
	doc.Site.Latitude = cfg.Site.Latitude
	doc.Site.Longitude = cfg.Site.Longitude
	doc.Site.Elevation = cfg.Site.Elevation
	doc.Site.UTCOffset = cfg.Site.UTCOffset
	doc.Catalog.Path = cfg.Catalog.Path
	doc.Lookup.SesameURL = cfg.Lookup.SesameURL
	doc.Lookup.VizierURL = cfg.Lookup.VizierURL
	doc.Lookup.Timeout = cfg.Lookup.Timeout.String()
	doc.Lookup.CachePath = cfg.Lookup.CachePath
	doc.Lookup.CacheTTL = cfg.Lookup.CacheTTL.String()
	doc.Log.Level = cfg.Log.Level
	doc.Log.File = cfg.Log.File
	doc.API.Addr = cfg.API.Addr

	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(doc)
}

// WriteFile writes cfg to path, refusing to replace an existing file
// unless force is set.
func WriteFile(path string, cfg Config, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := WriteTOML(f, cfg); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
