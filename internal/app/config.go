package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	envPrefix = "NETRECONCILER"
)

type Config struct {
	Store             string
	DSN               string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ReconcileInterval time.Duration
	LogLevel          string
	LogFormat         string
	AuthEnabled       bool
	Issuer            string
	Audience          string
	JWKSURL           string
}

// LoadConfig reads defaults, the optional YAML file at path and the
// environment, in increasing order of precedence. DB_CONN and PORT are
// accepted as aliases of db.dsn and http.port.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("db.dsn", envPrefix+"_DB_DSN", "DB_CONN"); err != nil {
		return Config{}, fmt.Errorf("bind db.dsn: %w", err)
	}
	if err := v.BindEnv("http.port", envPrefix+"_HTTP_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind http.port: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Store:             v.GetString("store"),
		DSN:               v.GetString("db.dsn"),
		Port:              v.GetString("http.port"),
		ReadTimeout:       v.GetDuration("http.read_timeout"),
		WriteTimeout:      v.GetDuration("http.write_timeout"),
		ReconcileInterval: v.GetDuration("reconcile.interval"),
		LogLevel:          v.GetString("log.level"),
		LogFormat:         v.GetString("log.format"),
		AuthEnabled:       v.GetBool("auth.enabled"),
		Issuer:            v.GetString("auth.issuer"),
		Audience:          v.GetString("auth.audience"),
		JWKSURL:           v.GetString("auth.jwks_url"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store", StorePostgres)
	v.SetDefault("http.port", "4040")
	v.SetDefault("http.read_timeout", "3s")
	v.SetDefault("http.write_timeout", "3s")
	v.SetDefault("reconcile.interval", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.enabled", false)
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DSN == "" {
			return errors.New("missing required setting db.dsn (DB_CONN)")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.ReconcileInterval < time.Second {
		return fmt.Errorf("reconcile.interval must be at least 1s, got %s", c.ReconcileInterval)
	}
	return nil
}
