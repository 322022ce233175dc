// Package appconf loads the busmap configuration: defaults, then an optional
// YAML file, then BUSMAP_* environment variables (a .env file is read
// first when present). Command-line flags are applied by the caller.
package appconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "BUSMAP_"

type Config struct {
	Env        Environment      `yaml:"-"`
	EnvName    string           `yaml:"env" validate:"omitempty,oneof=development test production prod"`
	Port       int              `yaml:"port" validate:"min=1,max=65535"`
	ApiKeys    []string         `yaml:"api_keys"`
	RateLimit  int              `yaml:"rate_limit" validate:"min=0"`
	LogLevel   string           `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string           `yaml:"log_format" validate:"oneof=json text"`
	TimeZone   string           `yaml:"time_zone"`
	LocationDB string           `yaml:"location_db"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Map        MapConfig        `yaml:"map"`
}

type DataSourceConfig struct {
	BaseURL           string        `yaml:"base_url" validate:"required,url"`
	AuthHeaderKey     string        `yaml:"auth_header_key"`
	AuthHeaderValue   string        `yaml:"auth_header_value"`
	Timeout           time.Duration `yaml:"timeout" validate:"min=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"min=0"`
	Burst             int           `yaml:"burst" validate:"min=0"`
}

type MapConfig struct {
	DefaultLat     float64 `yaml:"default_lat" validate:"latitude"`
	DefaultLon     float64 `yaml:"default_lon" validate:"longitude"`
	DefaultZoom    int     `yaml:"default_zoom" validate:"min=0,max=22"`
	ViewportPolicy string  `yaml:"viewport_policy" validate:"oneof=abort reject"`
	// Below this zoom only trains and ferries are requested.
	CloseZoom int `yaml:"close_zoom" validate:"min=0,max=22"`
}

// Default returns the built-in configuration, centred on Times Square.
func Default() Config {
	return Config{
		Env:       Development,
		EnvName:   Development.String(),
		Port:      4000,
		ApiKeys:   []string{},
		RateLimit: 100,
		LogLevel:  "info",
		LogFormat: "json",
		TimeZone:  "America/New_York",
		DataSource: DataSourceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
			Burst:   1,
		},
		Map: MapConfig{
			DefaultLat:     40.758895,
			DefaultLon:     -73.9873197,
			DefaultZoom:    16,
			ViewportPolicy: "abort",
			CloseZoom:      15,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Env = EnvFlagToEnvironment(cfg.EnvName)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the config and returns every problem found.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location returns the time zone departures are shown in.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// SlogLevel maps LogLevel to a slog.Level.
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

func applyEnv(cfg *Config) error {
	setString(&cfg.EnvName, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.TimeZone, "TIME_ZONE")
	setString(&cfg.LocationDB, "LOCATION_DB")
	setString(&cfg.DataSource.BaseURL, "DATA_SOURCE_URL")
	setString(&cfg.DataSource.AuthHeaderKey, "DATA_SOURCE_AUTH_HEADER_KEY")
	setString(&cfg.DataSource.AuthHeaderValue, "DATA_SOURCE_AUTH_HEADER_VALUE")
	setString(&cfg.Map.ViewportPolicy, "VIEWPORT_POLICY")

	if v := getenv("API_KEYS"); v != "" {
		cfg.ApiKeys = SplitList(v)
	}

	ints := map[string]*int{
		"PORT":         &cfg.Port,
		"RATE_LIMIT":   &cfg.RateLimit,
		"DEFAULT_ZOOM": &cfg.Map.DefaultZoom,
		"CLOSE_ZOOM":   &cfg.Map.CloseZoom,
	}
	for key, dst := range ints {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %q", envPrefix, key, v)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"DEFAULT_LAT":                     &cfg.Map.DefaultLat,
		"DEFAULT_LON":                     &cfg.Map.DefaultLon,
		"DATA_SOURCE_REQUESTS_PER_SECOND": &cfg.DataSource.RequestsPerSecond,
	}
	for key, dst := range floats {
		if v := getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %q", envPrefix, key, v)
			}
			*dst = f
		}
	}

	if v := getenv("DATA_SOURCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sDATA_SOURCE_TIMEOUT: %q", envPrefix, v)
		}
		cfg.DataSource.Timeout = d
	}

	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func setString(dst *string, key string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
