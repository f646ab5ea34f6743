package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ScopeLockNone  = "none"
	ScopeLockRedis = "redis"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
	Redis    Redis
	Dialogue Dialogue
	Log      Log
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file, used when Driver is "sqlite"
	Seed     bool
}

type Gemini struct {
	ApiKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Dialogue struct {
	ScopeLock    string
	ScopeLockTTL time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_PATH", "socrates.db")
	v.SetDefault("DATABASE_SEED", false)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_TIMEOUT", 60*time.Second)
	v.SetDefault("GEMINI_TEMPERATURE", 0.3)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DIALOGUE_SCOPE_LOCK", ScopeLockNone)
	v.SetDefault("DIALOGUE_SCOPE_LOCK_TTL", 90*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Info().
		Str("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("gemini_model", cfg.Gemini.Model).
		Bool("gemini_key_set", cfg.Gemini.ApiKey != "").
		Str("scope_lock", cfg.Dialogue.ScopeLock).
		Msg("Config loaded")
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	var cfg Config

	cfg.Server.Port = v.GetString("SERVER_PORT")

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER")))
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetString("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.Name = v.GetString("DATABASE_NAME")
	cfg.Database.Path = v.GetString("DATABASE_PATH")
	cfg.Database.Seed = v.GetBool("DATABASE_SEED")

	cfg.Gemini.ApiKey = v.GetString("GEMINI_API_KEY")
	cfg.Gemini.Model = v.GetString("GEMINI_MODEL")
	cfg.Gemini.Timeout = v.GetDuration("GEMINI_TIMEOUT")
	cfg.Gemini.Temperature = float32(v.GetFloat64("GEMINI_TEMPERATURE"))

	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	cfg.Dialogue.ScopeLock = strings.ToLower(strings.TrimSpace(v.GetString("DIALOGUE_SCOPE_LOCK")))
	cfg.Dialogue.ScopeLockTTL = v.GetDuration("DIALOGUE_SCOPE_LOCK_TTL")

	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Pretty = v.GetBool("LOG_PRETTY")

	return &cfg
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DATABASE_HOST is required for postgres"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("DATABASE_NAME is required for postgres"))
		}
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}

	if c.Gemini.Model == "" {
		errs = append(errs, errors.New("GEMINI_MODEL is required"))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("GEMINI_TIMEOUT must be positive"))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("GEMINI_TEMPERATURE %.2f out of range [0, 2]", c.Gemini.Temperature))
	}

	switch c.Dialogue.ScopeLock {
	case ScopeLockNone:
	case ScopeLockRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when DIALOGUE_SCOPE_LOCK=redis"))
		}
		if c.Dialogue.ScopeLockTTL <= c.Gemini.Timeout {
			// a shorter lock could expire while the turn is still generating
			errs = append(errs, fmt.Errorf("DIALOGUE_SCOPE_LOCK_TTL %s must exceed GEMINI_TIMEOUT %s",
				c.Dialogue.ScopeLockTTL, c.Gemini.Timeout))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DIALOGUE_SCOPE_LOCK %q", c.Dialogue.ScopeLock))
	}

	return errors.Join(errs...)
}
