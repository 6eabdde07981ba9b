package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	API struct {
		URL     string
		Timeout time.Duration
	}
	App struct {
		Name string
		Mode string
	}
	Cache struct {
		StaleTime  time.Duration
		VisitorTTL time.Duration
	}
	Log struct {
		Level  string
		Dev    bool
		File   string
		MaxAge time.Duration
	}
	DefaultLocale   string
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Load reads config from a .env file (if any), the environment (E40_ prefix)
// and an optional experiment40.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("E40")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("experiment40")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "experiment40.db")
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("app.name", "Experiment 40")
	v.SetDefault("app.mode", "DEV")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("insecure_cookies", false)
	v.SetDefault("cache.stale_time", "5m")
	v.SetDefault("cache.visitor_ttl", "1h")
	v.SetDefault("locale.default", "uk")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_age", "168h")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.API.URL = strings.TrimRight(v.GetString("api.url"), "/")
	cfg.App.Name = v.GetString("app.name")
	cfg.App.Mode = v.GetString("app.mode")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")
	cfg.DefaultLocale = v.GetString("locale.default")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Dev = v.GetBool("log.dev")
	cfg.Log.File = v.GetString("log.file")

	durations := []struct {
		key string
		env string
		dst *time.Duration
	}{
		{"api.timeout", "E40_API_TIMEOUT", &cfg.API.Timeout},
		{"session.lifetime", "E40_SESSION_LIFETIME", &cfg.SessionLifetime},
		{"cache.stale_time", "E40_CACHE_STALE_TIME", &cfg.Cache.StaleTime},
		{"cache.visitor_ttl", "E40_CACHE_VISITOR_TTL", &cfg.Cache.VisitorTTL},
		{"log.max_age", "E40_LOG_MAX_AGE", &cfg.Log.MaxAge},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("E40_DB_DRIVER %q is not supported (sqlite3, mysql, postgres)", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("E40_DB_DSN is required")
	}

	u, err := url.Parse(cfg.API.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("E40_API_URL must be an absolute URL, got %q", cfg.API.URL)
	}

	return cfg, nil
}
