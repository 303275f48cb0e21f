package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// chdir moves into a fresh directory so no stray config file is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	v := viper.New()
	if err := Init(v, "", ""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Site.Latitude", cfg.Site.Latitude, 39.8436},
		{"Site.Longitude", cfg.Site.Longitude, 32.7992},
		{"Site.Elevation", cfg.Site.Elevation, 1256.0},
		{"Site.UTCOffset", cfg.Site.UTCOffset, 3.0},
		{"Catalog.Path", cfg.Catalog.Path, "stars_db.json"},
		{"Lookup.Timeout", cfg.Lookup.Timeout, 30 * time.Second},
		{"Log.Level", cfg.Log.Level, "info"},
		{"API.Addr", cfg.API.Addr, ":8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("LSE_SITE_LATITUDE", "41.5")
	t.Setenv("LSE_SITE_UTC_OFFSET", "-5")
	t.Setenv("LSE_CATALOG_PATH", "/tmp/other.json")
	t.Setenv("LSE_LOOKUP_TIMEOUT", "5s")

	v := viper.New()
	if err := Init(v, "", ""); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Site.Latitude != 41.5 || cfg.Site.UTCOffset != -5 {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Catalog.Path != "/tmp/other.json" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Lookup.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Lookup.Timeout)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	os.Unsetenv("LSE_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("LSE_LOG_LEVEL") })

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("LSE_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := Init(v, "", envPath); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, FileName+".toml")

	want := Defaults()
	want.Site.Name = "Test Site"
	want.Site.Latitude = -30.2
	want.Lookup.Timeout = 12 * time.Second
	want.Lookup.CacheTTL = 48 * time.Hour

	if err := WriteFile(path, want, false); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, want, false); err == nil {
		t.Error("WriteFile should refuse to overwrite without force")
	}
	if err := WriteFile(path, want, true); err != nil {
		t.Errorf("WriteFile(force): %v", err)
	}

	// Found by name in the working directory.
	v := viper.New()
	if err := Init(v, "", ""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}
}

func TestInit_ExplicitMissingFile(t *testing.T) {
	dir := chdir(t)
	v := viper.New()
	if err := Init(v, filepath.Join(dir, "nope.toml"), ""); err == nil {
		t.Error("explicit missing config file should be an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad latitude", func(c *Config) { c.Site.Latitude = 100 }},
		{"bad offset", func(c *Config) { c.Site.UTCOffset = 20 }},
		{"empty catalog", func(c *Config) { c.Catalog.Path = "" }},
		{"zero timeout", func(c *Config) { c.Lookup.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTOML(&buf, Defaults()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[site]", "latitude = 39.8436", "[lookup]", "timeout = '30s'", "[api]"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOML missing %q:\n%s", want, out)
		}
	}
}

func TestPlanSite(t *testing.T) {
	s := Defaults().PlanSite()
	if s.LatDeg != 39.8436 || s.UTCOffsetHours != 3 || s.ElevationM != 1256 {
		t.Errorf("PlanSite = %+v", s)
	}
}
