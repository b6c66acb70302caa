package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"

	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CertFile        string        `yaml:"cert"`
	KeyFile         string        `yaml:"key"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowOrigins    []string      `yaml:"allow_origins"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	Server  ServerConfig   `yaml:"server"`
	DB      DatabaseConfig `yaml:"database"`
	Session SessionConfig  `yaml:"session"`
	Log     LogConfig      `yaml:"log"`
}

// TLS reports whether both certificate files are configured.
func (c *Config) TLS() bool { return c.Server.CertFile != "" && c.Server.KeyFile != "" }

func defaults() Config {
	return Config{
		Version: "dev",
		Mode:    ModeDev,
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			AllowOrigins:    []string{"http://localhost:3000"},
		},
		DB: DatabaseConfig{
			Driver:          DriverMySQL,
			Host:            "127.0.0.1",
			Port:            3306,
			Username:        "library",
			DBName:          "library",
			MaxOpenConns:    40,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Session: SessionConfig{TTL: 24 * time.Hour},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path, then applies .env and LIBRARY_* environment
// overrides. A missing file is not an error; the defaults are used instead.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		buf, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Mode, "LIBRARY_MODE")
	setString(&cfg.Server.Addr, "LIBRARY_ADDR")
	setString(&cfg.Server.CertFile, "LIBRARY_TLS_CERT")
	setString(&cfg.Server.KeyFile, "LIBRARY_TLS_KEY")
	setString(&cfg.DB.Driver, "LIBRARY_DB_DRIVER")
	setString(&cfg.DB.Host, "LIBRARY_DB_HOST")
	setString(&cfg.DB.Username, "LIBRARY_DB_USER")
	setString(&cfg.DB.Password, "LIBRARY_DB_PASSWORD")
	setString(&cfg.DB.DBName, "LIBRARY_DB_NAME")
	setString(&cfg.Session.Secret, "LIBRARY_SESSION_SECRET")
	setString(&cfg.Log.Level, "LIBRARY_LOG_LEVEL")

	if v := os.Getenv("LIBRARY_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LIBRARY_DB_PORT: %w", err)
		}
		cfg.DB.Port = port
	}
	if v := os.Getenv("LIBRARY_ALLOW_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowOrigins = origins
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	if c.DB.Driver != DriverMySQL && c.DB.Driver != DriverMemory {
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMySQL, DriverMemory, c.DB.Driver)
	}
	if c.Mode == ModeRelease && c.Session.Secret == "" {
		return errors.New("session.secret is required in release mode")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Mode == ModeDev && len(c.Server.AllowOrigins) == 0 {
		return errors.New("server.allow_origins must not be empty in dev mode")
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return errors.New("server.cert and server.key must be set together")
	}
	return nil
}
