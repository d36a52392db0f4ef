package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is populated from flags, environment variables and an optional
// .env file, in that order of precedence.
type Config struct {
	AppName          string `mapstructure:"app_name" validate:"required"`
	Environment      string `mapstructure:"app_env" validate:"oneof=development test staging production"`
	Port             string `mapstructure:"port" validate:"required,numeric"`
	DBDriver         string `mapstructure:"db_driver" validate:"oneof=postgres sqlite"`
	ConnectionString string `mapstructure:"connection_string" validate:"required"`
	LogLevel         string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	AutoMigrate      bool   `mapstructure:"auto_migrate"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var validate = validator.New()

// SetDefaults registers every key so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "bookslookup")
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", DriverPostgres)
	// like, export CONNECTION_STRING="host=localhost port=5432 dbname=books"
	v.SetDefault("connection_string", "host=localhost port=5432 dbname=books sslmode=disable")
	v.SetDefault("log_level", "info")
	v.SetDefault("auto_migrate", true)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// BindFlags maps command line flags onto config keys. Flags that are not
// defined on fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"connection_string": "connection-string",
		"db_driver":         "db-driver",
		"port":              "port",
		"log_level":         "log-level",
		"auto_migrate":      "auto-migrate",
	} {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv reads path (default ".env") into the process environment.
// A missing file is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
